package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"ragguard/internal/audit"
	"ragguard/internal/auth"
	"ragguard/internal/generate"
	"ragguard/internal/middleware"
	"ragguard/internal/policy"
	"ragguard/internal/repository/memory"
	"ragguard/internal/service/gate"
	"ragguard/internal/service/rag"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// newTestServer wires the full HTTP surface the way cmd/server does: dev
// auth, demo tuples, seed corpus, extractive generation.
func newTestServer(t *testing.T, allowDevAuth bool) *httptest.Server {
	t.Helper()
	logger := testLogger()

	devDirectory := auth.DefaultDevDirectory()
	if !allowDevAuth {
		devDirectory = nil
	}
	resolver := auth.NewResolver(nil, devDirectory, allowDevAuth, logger)

	catalog := memory.NewCatalog(memory.SeedDocuments())
	gateway := gate.New(policy.NewStaticClient(policy.DemoTuples()), catalog, audit.NopRecorder{}, gate.Options{}, logger)
	pipeline := rag.NewPipeline(
		rag.NewCatalogRetriever(catalog),
		gateway,
		generate.NewExtractiveGenerator(),
		rag.Options{TopK: 10, ExposeBlockedTitles: true},
		logger,
	)

	queryHandler := NewQueryHandler(pipeline, logger)
	usersHandler := NewUsersHandler(resolver, allowDevAuth, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", Index)
	mux.HandleFunc("GET /health", HealthCheck)
	mux.HandleFunc("POST /query", queryHandler.Query)
	mux.HandleFunc("GET /users", usersHandler.ListUsers)

	var h http.Handler = mux
	h = middleware.Auth(resolver, "/", "/health")(h)
	h = middleware.Recovery(logger)(h)

	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	return server
}

func postQuery(t *testing.T, server *httptest.Server, user, question string) *http.Response {
	t.Helper()

	body, _ := json.Marshal(QueryRequest{Question: question})
	req, err := http.NewRequest(http.MethodPost, server.URL+"/query", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set(middleware.DevUserHeader, user)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decodeQueryResponse(t *testing.T, resp *http.Response) QueryResponse {
	t.Helper()
	defer resp.Body.Close()

	var out QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestQueryAsEmployee(t *testing.T) {
	server := newTestServer(t, true)

	resp := postQuery(t, server, "bob_employee", "What is the Q4 budget and the holiday schedule?")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	out := decodeQueryResponse(t, resp)
	if !slices.Contains(out.AllowedDocumentIDs, "holiday_schedule") {
		t.Errorf("allowed = %v, expected holiday_schedule", out.AllowedDocumentIDs)
	}
	if !slices.Contains(out.BlockedDocumentIDs, "q4_budget") {
		t.Errorf("blocked = %v, expected q4_budget", out.BlockedDocumentIDs)
	}
	for _, id := range out.AllowedDocumentIDs {
		if slices.Contains(out.BlockedDocumentIDs, id) {
			t.Errorf("%s appears in both allowed and blocked", id)
		}
	}
	// Blocked content must never leak into the answer.
	if strings.Contains(out.Answer, "$500,000") {
		t.Error("restricted content leaked into the answer")
	}
}

func TestQueryAsManager(t *testing.T) {
	server := newTestServer(t, true)

	resp := postQuery(t, server, "alice_manager", "What is the Q4 budget?")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	out := decodeQueryResponse(t, resp)
	if !slices.Contains(out.AllowedDocumentIDs, "q4_budget") {
		t.Errorf("allowed = %v, expected q4_budget", out.AllowedDocumentIDs)
	}
	if slices.Contains(out.BlockedDocumentIDs, "q4_budget") {
		t.Error("q4_budget blocked for a manager")
	}
}

func TestQueryUnauthenticated(t *testing.T) {
	server := newTestServer(t, true)

	resp := postQuery(t, server, "", "anything")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestQueryUnknownDevUser(t *testing.T) {
	server := newTestServer(t, true)

	resp := postQuery(t, server, "mallory", "anything")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestQueryInvalidBody(t *testing.T) {
	server := newTestServer(t, true)

	req, _ := http.NewRequest(http.MethodPost, server.URL+"/query", strings.NewReader("{not json"))
	req.Header.Set(middleware.DevUserHeader, "bob_employee")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestQueryEmptyQuestion(t *testing.T) {
	server := newTestServer(t, true)

	resp := postQuery(t, server, "bob_employee", "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestListUsersDevModeOnly(t *testing.T) {
	tests := []struct {
		name       string
		devAuth    bool
		wantStatus int
	}{
		{name: "dev mode lists users", devAuth: true, wantStatus: http.StatusOK},
		{name: "disabled dev mode hides the route", devAuth: false, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, tt.devAuth)

			req, _ := http.NewRequest(http.MethodGet, server.URL+"/users", nil)
			if tt.devAuth {
				req.Header.Set(middleware.DevUserHeader, "bob_employee")
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestIndexUnauthenticated(t *testing.T) {
	server := newTestServer(t, true)

	resp, err := http.Get(server.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Service string `json:"service"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Service != "ragguard" {
		t.Errorf("service = %q", body.Service)
	}
}

func TestHealthCheckUnauthenticated(t *testing.T) {
	server := newTestServer(t, true)

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
