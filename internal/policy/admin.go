package policy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// AdminClient provides access to the policy store's management API. It is
// used by the seed tool to upload the authorization model and demo tuples,
// not by the request path.
type AdminClient struct {
	apiURL     string
	storeID    string
	apiToken   string
	httpClient *http.Client
}

// NewAdminClient creates a management client for an OpenFGA-compatible store.
func NewAdminClient(apiURL, storeID, apiToken string) *AdminClient {
	return &AdminClient{
		apiURL:   strings.TrimRight(apiURL, "/"),
		storeID:  storeID,
		apiToken: apiToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WriteAuthorizationModel uploads an authorization model and returns its id.
func (c *AdminClient) WriteAuthorizationModel(ctx context.Context, modelJSON []byte) (string, error) {
	url := fmt.Sprintf("%s/stores/%s/authorization-models", c.apiURL, c.storeID)

	body, err := c.post(ctx, url, modelJSON)
	if err != nil {
		return "", fmt.Errorf("write authorization model: %w", err)
	}

	var resp struct {
		AuthorizationModelID string `json:"authorization_model_id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode model response: %w", err)
	}

	return resp.AuthorizationModelID, nil
}

// WriteTuples writes relationship tuples to the store.
func (c *AdminClient) WriteTuples(ctx context.Context, tuples []Tuple) error {
	keys := make([]map[string]string, len(tuples))
	for i, t := range tuples {
		keys[i] = map[string]string{
			"user":     t.Subject,
			"relation": t.Relation,
			"object":   t.Object,
		}
	}

	payload, err := json.Marshal(map[string]interface{}{
		"writes":  map[string]interface{}{"tuple_keys": keys},
		"deletes": map[string]interface{}{"tuple_keys": []struct{}{}},
	})
	if err != nil {
		return fmt.Errorf("marshal tuples: %w", err)
	}

	url := fmt.Sprintf("%s/stores/%s/write", c.apiURL, c.storeID)
	if _, err := c.post(ctx, url, payload); err != nil {
		return fmt.Errorf("write tuples: %w", err)
	}

	return nil
}

func (c *AdminClient) post(ctx context.Context, url string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// AuthorizationModelJSON is the demo authorization model: documents are
// viewable directly or through group membership, so restricted documents can
// be granted to the managers group as a whole.
const AuthorizationModelJSON = `{
  "schema_version": "1.1",
  "type_definitions": [
    {"type": "user"},
    {
      "type": "group",
      "relations": {"member": {"this": {}}},
      "metadata": {
        "relations": {
          "member": {"directly_related_user_types": [{"type": "user"}]}
        }
      }
    },
    {
      "type": "document",
      "relations": {"view": {"this": {}}},
      "metadata": {
        "relations": {
          "view": {
            "directly_related_user_types": [
              {"type": "user"},
              {"type": "group", "relation": "member"}
            ]
          }
        }
      }
    }
  ]
}`
