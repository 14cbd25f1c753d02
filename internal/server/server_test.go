package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cyclegen/pkg/observability"
	"github.com/matzehuels/cyclegen/pkg/pipeline"
	"github.com/matzehuels/cyclegen/pkg/store"
)

func newTestServer(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()
	logger := log.New(io.Discard)
	st := store.NewMemoryStore()
	srv := httptest.NewServer(New(pipeline.NewRunner(nil, nil, logger), st, logger).Handler())
	t.Cleanup(srv.Close)
	return srv, st
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func generateRun(t *testing.T, srv *httptest.Server, body string) generateResponse {
	t.Helper()
	resp := do(t, http.MethodPost, srv.URL+"/generate", body)
	if resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("POST /generate status = %d, want %d: %s", resp.StatusCode, http.StatusCreated, b)
	}
	return decode[generateResponse](t, resp)
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := do(t, http.MethodGet, srv.URL+"/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if got := decode[healthResponse](t, resp); got.Status != "ok" {
		t.Errorf("status = %q, want ok", got.Status)
	}
}

func TestTypes(t *testing.T) {
	srv, _ := newTestServer(t)
	got := decode[typesResponse](t, do(t, http.MethodGet, srv.URL+"/types", ""))
	if len(got.Types) != 7 {
		t.Fatalf("types = %v, want 7 built-in patterns", got.Types)
	}
	if got.Types[0] != "blocked_retreat" {
		t.Errorf("types[0] = %q, want sorted order", got.Types[0])
	}
}

func TestGenerate(t *testing.T) {
	srv, st := newTestServer(t)

	body := `{"seed": 11, "max_depth": 2, "max_insertions_total": 5, "overall": "lock_and_key"}`
	first := generateRun(t, srv, body)
	if first.Document.Overall != "lock_and_key" {
		t.Errorf("overall = %q, want lock_and_key", first.Document.Overall)
	}
	if first.Document.Settings.Seed != 11 || first.Document.Settings.MaxDepth != 2 {
		t.Errorf("settings = %+v", first.Document.Settings)
	}
	if first.Cached {
		t.Error("first run reported cached")
	}
	if _, err := st.Get(context.Background(), first.ID); err != nil {
		t.Errorf("run %s not archived: %v", first.ID, err)
	}

	// Same settings give the same dungeon under a new id.
	second := generateRun(t, srv, body)
	if second.ID == first.ID {
		t.Error("second run reused the archive id")
	}
	if second.Fingerprint != first.Fingerprint {
		t.Errorf("fingerprint = %s, want %s", second.Fingerprint, first.Fingerprint)
	}
}

func TestGenerate_Defaults(t *testing.T) {
	srv, _ := newTestServer(t)
	got := generateRun(t, srv, `{}`)
	if got.Document.Settings.Seed != 42 || got.Document.Settings.MaxDepth != 3 || got.Document.Settings.MaxNodes != 5000 {
		t.Errorf("settings = %+v, want defaults", got.Document.Settings)
	}
}

func TestGenerate_Errors(t *testing.T) {
	srv, _ := newTestServer(t)
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed", `{"seed":`, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown field", `{"depth": 3}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"negative depth", `{"max_depth": -1}`, http.StatusBadRequest, "INVALID_SETTINGS"},
		{"depth above limit", `{"max_depth": 1000000}`, http.StatusBadRequest, "INVALID_SETTINGS"},
		{"insertions above limit", `{"max_depth": 1, "max_insertions_total": 100000000}`, http.StatusBadRequest, "INVALID_SETTINGS"},
		{"nodes above limit", `{"max_nodes": 1000000}`, http.StatusBadRequest, "INVALID_SETTINGS"},
		{"unlimited nodes", `{"max_nodes": 0}`, http.StatusBadRequest, "INVALID_SETTINGS"},
		{"bad type name", `{"overall": "Lock!"}`, http.StatusBadRequest, "INVALID_CYCLE_TYPE"},
		{"unregistered type", `{"overall": "boss_rush"}`, http.StatusUnprocessableEntity, "TEMPLATE_NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, srv.URL+"/generate", tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if got := decode[errorResponse](t, resp); string(got.Code) != tt.code {
				t.Errorf("code = %q, want %q", got.Code, tt.code)
			}
		})
	}
}

func TestRuns(t *testing.T) {
	srv, _ := newTestServer(t)
	run := generateRun(t, srv, `{"seed": 3, "max_depth": 1, "max_insertions_total": 2}`)

	resp := do(t, http.MethodGet, srv.URL+"/runs/"+run.ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /runs/{id} status = %d", resp.StatusCode)
	}
	rec := decode[store.Record](t, resp)
	if rec.Fingerprint != run.Fingerprint || len(rec.Document.Nodes) != len(run.Document.Nodes) {
		t.Errorf("record = %+v, want run %s", rec.Summary(), run.ID)
	}

	list := decode[listResponse](t, do(t, http.MethodGet, srv.URL+"/runs", ""))
	if len(list.Runs) != 1 || list.Runs[0].ID != run.ID {
		t.Errorf("runs = %+v", list.Runs)
	}

	resp = do(t, http.MethodGet, srv.URL+"/runs/"+run.ID+"/dot?clusters=true", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /runs/{id}/dot status = %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !bytes.HasPrefix(body, []byte("digraph G {")) {
		t.Errorf("dot body = %q", body)
	}
	if !bytes.Contains(body, []byte("subgraph cluster_")) && run.Document.Stats.Insertions > 0 {
		t.Error("dot body missing clusters")
	}

	resp = do(t, http.MethodDelete, srv.URL+"/runs/"+run.ID, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE /runs/{id} status = %d", resp.StatusCode)
	}
	resp = do(t, http.MethodGet, srv.URL+"/runs/"+run.ID, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET deleted run status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestRuns_BadRequests(t *testing.T) {
	srv, _ := newTestServer(t)
	tests := []struct {
		path   string
		status int
	}{
		{"/runs/not-a-uuid", http.StatusBadRequest},
		{"/runs/00000000-0000-0000-0000-000000000000", http.StatusNotFound},
		{"/runs/00000000-0000-0000-0000-000000000000/dot", http.StatusNotFound},
		{"/runs?limit=-2", http.StatusBadRequest},
		{"/runs?limit=ten", http.StatusBadRequest},
	}
	for _, tt := range tests {
		if resp := do(t, http.MethodGet, srv.URL+tt.path, ""); resp.StatusCode != tt.status {
			t.Errorf("GET %s status = %d, want %d", tt.path, resp.StatusCode, tt.status)
		}
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu     sync.Mutex
	routes []string
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, method+" "+route)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	srv, _ := newTestServer(t)
	do(t, http.MethodGet, srv.URL+"/runs/00000000-0000-0000-0000-000000000000", "")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if len(hooks.routes) != 1 || !strings.HasPrefix(hooks.routes[0], "GET /runs/{id}") {
		t.Errorf("routes = %v, want the route pattern", hooks.routes)
	}
}
