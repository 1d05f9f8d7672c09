package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/EngineerAnishSharma/SiteArchitect/internal/storage"
	"github.com/EngineerAnishSharma/SiteArchitect/pkg/site"
)

func newTestServer(t *testing.T, withStore bool) *Server {
	t.Helper()

	var store *storage.Store
	if withStore {
		var err error
		store, err = storage.Open(filepath.Join(t.TempDir(), "runs.db"))
		if err != nil {
			t.Fatalf("opening store: %v", err)
		}
		t.Cleanup(func() { store.Close() })
	}

	logger := log.New(io.Discard)
	return New(site.Default(), store, logger, 0)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleConfig(t *testing.T) {
	h := newTestServer(t, false).Router()
	rec := doJSON(t, h, http.MethodGet, "/api/config", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var cfg site.Config
	if err := json.Unmarshal(rec.Body.Bytes(), &cfg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Site.Width != 200 || cfg.Site.Height != 140 {
		t.Errorf("config mismatch: %+v", cfg.Site)
	}
}

func TestHandleGenerate(t *testing.T) {
	h := newTestServer(t, false).Router()

	seed := int64(42)
	rec := doJSON(t, h, http.MethodPost, "/api/generate", map[string]any{
		"count": 2, "max_tries": 400, "seed": seed,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Seed    int64 `json:"seed"`
		Layouts []struct {
			Buildings []json.RawMessage `json:"buildings"`
			Stats     struct {
				Valid bool `json:"valid"`
			} `json:"stats"`
			Score float64 `json:"score"`
		} `json:"layouts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Seed != seed {
		t.Errorf("seed echoed wrong: %d", resp.Seed)
	}
	if len(resp.Layouts) > 2 {
		t.Errorf("more layouts than requested: %d", len(resp.Layouts))
	}
	for i, l := range resp.Layouts {
		if !l.Stats.Valid {
			t.Errorf("layout %d not valid", i)
		}
		if l.Score <= 0 {
			t.Errorf("layout %d has non-positive score %f", i, l.Score)
		}
	}
}

func TestGenerateRequestFillExtraZero(t *testing.T) {
	var req generateRequest
	if err := json.Unmarshal([]byte(`{"fill_extra": 0}`), &req); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := req.options().FillExtra; got != 0 {
		t.Errorf("explicit fill_extra 0 should disable the fill phase, got %d", got)
	}

	var unset generateRequest
	if err := json.Unmarshal([]byte(`{}`), &unset); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := unset.options().FillExtra; got != 2 {
		t.Errorf("omitted fill_extra should keep the default, got %d", got)
	}
}

func TestHandleGenerateBadBody(t *testing.T) {
	h := newTestServer(t, false).Router()
	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader("{nope"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body should 400, got %d", rec.Code)
	}
}

func TestHandleValidate(t *testing.T) {
	h := newTestServer(t, false).Router()

	body := map[string]any{
		"buildings": []map[string]any{
			{"x": 20, "y": 20, "w": 30, "h": 20, "type": "A"},
			{"x": 70, "y": 20, "w": 20, "h": 20, "type": "B"},
		},
	}
	rec := doJSON(t, h, http.MethodPost, "/api/validate", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Rules struct {
			All bool `json:"all"`
		} `json:"rules"`
		Report struct {
			Valid bool `json:"valid"`
		} `json:"report"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Rules.All || !resp.Report.Valid {
		t.Errorf("fixture should validate: %s", rec.Body.String())
	}
}

func TestRunsWithoutStore(t *testing.T) {
	h := newTestServer(t, false).Router()
	if rec := doJSON(t, h, http.MethodGet, "/api/runs", nil); rec.Code != http.StatusNotFound {
		t.Errorf("no store should 404, got %d", rec.Code)
	}
}

func TestGenerateThenFetchRun(t *testing.T) {
	h := newTestServer(t, true).Router()

	rec := doJSON(t, h, http.MethodPost, "/api/generate", map[string]any{
		"count": 1, "max_tries": 400, "seed": 7,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("generate status %d", rec.Code)
	}

	var genResp struct {
		RunID   string `json:"run_id"`
		Layouts []any  `json:"layouts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &genResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(genResp.Layouts) == 0 {
		t.Skip("no valid layout found under this seed")
	}
	if genResp.RunID == "" {
		t.Fatal("expected a persisted run ID")
	}

	listRec := doJSON(t, h, http.MethodGet, "/api/runs", nil)
	if listRec.Code != http.StatusOK {
		t.Fatalf("list status %d", listRec.Code)
	}
	var runs []storage.Run
	if err := json.Unmarshal(listRec.Body.Bytes(), &runs); err != nil {
		t.Fatalf("decode runs: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != genResp.RunID {
		t.Fatalf("expected the generated run in the list, got %+v", runs)
	}

	getRec := doJSON(t, h, http.MethodGet, "/api/runs/"+genResp.RunID, nil)
	if getRec.Code != http.StatusOK {
		t.Fatalf("get status %d", getRec.Code)
	}

	svgRec := doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/render/%s/0.svg", genResp.RunID), nil)
	if svgRec.Code != http.StatusOK {
		t.Fatalf("render status %d: %s", svgRec.Code, svgRec.Body.String())
	}
	if ct := svgRec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type %q", ct)
	}
	if !strings.HasPrefix(svgRec.Body.String(), "<svg") {
		t.Error("render body is not SVG")
	}

	missingRec := doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/render/%s/99.svg", genResp.RunID), nil)
	if missingRec.Code != http.StatusNotFound {
		t.Errorf("out-of-range index should 404, got %d", missingRec.Code)
	}
}

func TestGetRunNotFound(t *testing.T) {
	h := newTestServer(t, true).Router()
	if rec := doJSON(t, h, http.MethodGet, "/api/runs/does-not-exist", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown run should 404, got %d", rec.Code)
	}
}
