package policy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// OpenFGAClient checks relationships via the OpenFGA / Auth0 FGA Check API.
type OpenFGAClient struct {
	apiURL     string
	storeID    string
	apiToken   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewOpenFGAClient creates a client for an OpenFGA-compatible store. The
// underlying http.Client is shared and safe for concurrent use; per-query
// deadlines come from the caller's context, the client timeout is only a
// backstop.
func NewOpenFGAClient(apiURL, storeID, apiToken string, logger *slog.Logger) (*OpenFGAClient, error) {
	if apiURL == "" || storeID == "" {
		return nil, errors.New("policy store URL and store ID are required")
	}

	return &OpenFGAClient{
		apiURL:   strings.TrimRight(apiURL, "/"),
		storeID:  storeID,
		apiToken: apiToken,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}, nil
}

var _ Client = (*OpenFGAClient)(nil)

type checkRequestBody struct {
	TupleKey tupleKey `json:"tuple_key"`
}

type tupleKey struct {
	User     string `json:"user"`
	Relation string `json:"relation"`
	Object   string `json:"object"`
}

type checkResponseBody struct {
	Allowed bool `json:"allowed"`
}

// Check calls POST /stores/{store_id}/check. Only a 200 response with a
// parseable body is authoritative; everything else is ErrUnavailable (or the
// context error on timeout/cancellation).
func (c *OpenFGAClient) Check(ctx context.Context, req CheckRequest) (bool, error) {
	body, err := json.Marshal(checkRequestBody{
		TupleKey: tupleKey{
			User:     req.Subject,
			Relation: req.Relation,
			Object:   req.Object,
		},
	})
	if err != nil {
		return false, fmt.Errorf("marshal check request: %w", err)
	}

	url := fmt.Sprintf("%s/stores/%s/check", c.apiURL, c.storeID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("build check request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Preserve context errors so the gateway can distinguish timeout
		// from unreachable.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		c.logger.Warn("policy store returned non-OK status", "status", resp.StatusCode)
		return false, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var result checkResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}

	return result.Allowed, nil
}
