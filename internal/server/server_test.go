package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/figflow/figflow/pkg/pipeline"
	"github.com/figflow/figflow/pkg/store"
)

const sampleSpec = "# Demo\n\n## Nodes\n- a | Start | io\n- b | Finish\n\n## Edges\n- a -> b\n"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	return New(Config{
		Runner: pipeline.NewRunner(nil, nil, logger),
		Store:  store.NewMemoryStore(),
		Logger: logger,
	})
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s.Handler(), http.MethodGet, "/healthz", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("request ID header missing")
	}
}

func TestRender(t *testing.T) {
	s := newTestServer(t)
	body, _ := json.Marshal(map[string]any{"spec": sampleSpec, "formats": []string{"svg", "dot"}})

	rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/render", string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var resp struct {
		PlanHash  string            `json:"planHash"`
		Title     string            `json:"title"`
		Stats     map[string]any    `json:"stats"`
		Artifacts map[string]string `json:"artifacts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Title != "Demo" {
		t.Errorf("title = %q", resp.Title)
	}
	if resp.PlanHash == "" {
		t.Error("plan hash missing")
	}
	if !strings.Contains(resp.Artifacts["svg"], "<svg") {
		t.Error("svg artifact missing")
	}
	if !strings.Contains(resp.Artifacts["dot"], "digraph G {") {
		t.Error("dot artifact missing")
	}
}

func TestRender_InvalidSpec(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/render", `{"spec":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp struct {
		Code string `json:"code"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Code != "INVALID_SPEC" {
		t.Errorf("code = %q", resp.Code)
	}
}

func TestRender_UnknownNodeIs400(t *testing.T) {
	s := newTestServer(t)
	body, _ := json.Marshal(map[string]any{"spec": "## Nodes\n- a | A\n\n## Edges\n- a -> ghost\n"})

	rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/render", string(body))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
}

func TestRender_MalformedBody(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/render", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRender_PersistAndFetch(t *testing.T) {
	s := newTestServer(t)
	body, _ := json.Marshal(map[string]any{"spec": sampleSpec, "persist": true})

	rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/render", string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var resp struct {
		RecordIDs map[string]string `json:"recordIds"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	id := resp.RecordIDs["svg"]
	if id == "" {
		t.Fatal("no record ID returned for svg")
	}

	got := doJSON(t, s.Handler(), http.MethodGet, "/v1/renders/"+id, "")
	if got.Code != http.StatusOK {
		t.Fatalf("fetch status = %d", got.Code)
	}
	var record struct {
		Format string `json:"format"`
		Title  string `json:"title"`
	}
	if err := json.Unmarshal(got.Body.Bytes(), &record); err != nil {
		t.Fatal(err)
	}
	if record.Format != "svg" || record.Title != "Demo" {
		t.Errorf("record = %+v", record)
	}

	list := doJSON(t, s.Handler(), http.MethodGet, "/v1/renders?limit=5", "")
	if list.Code != http.StatusOK {
		t.Fatalf("list status = %d", list.Code)
	}
	var records []json.RawMessage
	if err := json.Unmarshal(list.Body.Bytes(), &records); err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("got %d records, want 1", len(records))
	}
}

func TestGetRender_UnknownID(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s.Handler(), http.MethodGet, "/v1/renders/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestListRenders_InvalidLimit(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s.Handler(), http.MethodGet, "/v1/renders?limit=zero", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRequestID_PropagatesIncoming(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "upstream-id")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "upstream-id" {
		t.Errorf("X-Request-ID = %q, want upstream-id", got)
	}
}
