package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"easyapply-engine/internal/apperr"
	"easyapply-engine/internal/config"
	"easyapply-engine/internal/docgen"
	"easyapply-engine/internal/domain"
	"easyapply-engine/internal/events"
	"easyapply-engine/internal/poll"
	"easyapply-engine/internal/scrape"
	"easyapply-engine/internal/scrape/types"
	"easyapply-engine/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSearches struct {
	lastQuery types.Query
	startErr  error
	status    types.ScrapeStatus
}

func (f *fakeSearches) Search(_ context.Context, _ string, q types.Query) (poll.Outcome, error) {
	f.lastQuery = q
	return poll.Outcome{RunID: "run-1", Result: scrape.Result{Postings: []domain.JobPosting{{ID: "linkedin_1", Title: "Go Dev"}}}, Added: 1}, nil
}

func (f *fakeSearches) Start(_ string, q types.Query) (string, error) {
	f.lastQuery = q
	if f.startErr != nil {
		return "", f.startErr
	}
	return "run-2", nil
}

func (f *fakeSearches) Status() types.ScrapeStatus { return f.status }

type fakeDocs struct{ dir string }

func (f fakeDocs) Generate(_ context.Context, p domain.JobPosting, kind docgen.Kind, format docgen.Format) (string, error) {
	path := filepath.Join(f.dir, string(kind)+".txt")
	return path, os.WriteFile(path, []byte(string(kind)+" for "+p.Title), 0o644)
}

type env struct {
	handler  http.Handler
	db       *store.DB
	searches *fakeSearches
	hub      *events.Hub
	cfgVal   *atomic.Value
	cfgPath  string
	dir      string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()
	db, err := store.Open(filepath.Join(dir, "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfgPath := filepath.Join(dir, "config.yml")
	require.NoError(t, config.SaveAtomic(cfgPath, config.Defaults()))
	var cfgVal atomic.Value
	cfgVal.Store(config.Defaults())

	e := &env{
		db:       db,
		searches: &fakeSearches{},
		hub:      events.NewHub(),
		cfgVal:   &cfgVal,
		cfgPath:  cfgPath,
		dir:      dir,
	}
	e.handler = NewRouter(Deps{
		DB:              db.Pool,
		Hub:             e.hub,
		CfgVal:          &cfgVal,
		UserCfgPath:     cfgPath,
		LoadCfg:         func() (config.Config, error) { return config.Load(cfgPath) },
		Searches:        e.searches,
		Documents:       fakeDocs{dir: dir},
		ExportDir:       dir,
		SetIMAPPassword: func(account, password string) error { return nil },
		ShutdownToken:   "tok",
	})
	return e
}

func (e *env) do(method, target string, body []byte, local bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if local {
		req.RemoteAddr = "127.0.0.1:50000"
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *env) seed(t *testing.T, ids ...string) {
	t.Helper()
	var ps []domain.JobPosting
	for i, id := range ids {
		ps = append(ps, domain.JobPosting{
			ID: id, Title: "Job " + id, Company: "Acme", Location: "Remote",
			ExperienceLevel: domain.LevelMid, PostedDate: "2024-03-15", Source: "Indeed",
			URL: "https://example.com/" + id, RelevanceScore: float64(50 + i),
		})
	}
	_, err := store.UpsertPostings(context.Background(), e.db.Pool, ps, time.Now())
	require.NoError(t, err)
}

func decodeErr(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var e APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	return e
}

func TestHealth(t *testing.T) {
	e := newEnv(t)
	rec := e.do(http.MethodGet, "/health", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestSearchRequiresKeywords(t *testing.T) {
	e := newEnv(t)
	rec := e.do(http.MethodGet, "/jobs/search?location=Remote", nil, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	apiErr := decodeErr(t, rec)
	assert.Equal(t, "invalid_input", apiErr.Error.Code)
	assert.NotEmpty(t, apiErr.Error.RequestID)
}

func TestSearchClampsMaxResults(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodGet, "/jobs/search?keywords=go&max_results=500", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 50, e.searches.lastQuery.MaxResults)

	var out poll.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, 1, out.Added)
	require.Len(t, out.Postings, 1)

	e.do(http.MethodGet, "/jobs/search?keywords=go&max_results=0", nil, false)
	assert.Equal(t, 1, e.searches.lastQuery.MaxResults)

	e.do(http.MethodGet, "/jobs/search?keywords=go", nil, false)
	assert.Equal(t, 25, e.searches.lastQuery.MaxResults)

	rec = e.do(http.MethodGet, "/jobs/search?keywords=go&max_results=lots", nil, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchRunAndConflict(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodPost, "/search/run", []byte(`{"keywords":"go","max_results":99}`), false)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"ok":true,"run_id":"run-2"}`, rec.Body.String())
	assert.Equal(t, 50, e.searches.lastQuery.MaxResults)

	e.searches.startErr = apperr.Conflict("a search is already running", nil)
	rec = e.do(http.MethodPost, "/search/run", []byte(`{"keywords":"go"}`), false)
	assert.Equal(t, http.StatusConflict, rec.Code)

	e.searches.startErr = apperr.InvalidInput("keywords are required", nil)
	rec = e.do(http.MethodPost, "/search/run", []byte(`{}`), false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "keywords are required", decodeErr(t, rec).Error.Message)

	e.searches.status = types.ScrapeStatus{RunID: "run-2", Running: true}
	rec = e.do(http.MethodGet, "/search/status", nil, false)
	assert.Contains(t, rec.Body.String(), `"running":true`)
}

func TestJobsListGetDelete(t *testing.T) {
	e := newEnv(t)
	e.seed(t, "indeed_a", "indeed_b")
	sub := e.hub.Subscribe()

	rec := e.do(http.MethodGet, "/jobs?sort=score&window=all", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []domain.JobPosting
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "indeed_b", list[0].ID)

	rec = e.do(http.MethodGet, "/jobs?limit=-1", nil, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(http.MethodGet, "/jobs/indeed_a", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"Job indeed_a"`)

	rec = e.do(http.MethodDelete, "/jobs/indeed_a", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, <-sub, events.TypeJobDeleted)

	rec = e.do(http.MethodGet, "/jobs/indeed_a", nil, false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeErr(t, rec).Error.Code)
}

func TestDocumentsDownload(t *testing.T) {
	e := newEnv(t)
	e.seed(t, "indeed_a")

	rec := e.do(http.MethodGet, "/jobs/indeed_a/cover-letter?format=txt", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cover_letter for Job indeed_a", rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `indeed_a_cover_letter.txt`)

	rec = e.do(http.MethodGet, "/jobs/indeed_a/resume?format=docx", nil, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(http.MethodGet, "/jobs/missing/resume", nil, false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExport(t *testing.T) {
	e := newEnv(t)
	e.seed(t, "indeed_a")

	rec := e.do(http.MethodGet, "/export", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	var list []domain.JobPosting
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	files, err := filepath.Glob(filepath.Join(e.dir, "exports", "jobs_*.json"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestConfigPutValidatesAndSaves(t *testing.T) {
	e := newEnv(t)

	bad := config.Defaults()
	bad.App.Port = 70000
	b, _ := json.Marshal(bad)
	rec := e.do(http.MethodPut, "/config", b, false)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var vr config.Validation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &vr))
	assert.NotEmpty(t, vr.Errors)

	good := config.Defaults()
	good.Search.MaxResults = 30
	b, _ = json.Marshal(good)
	rec = e.do(http.MethodPut, "/config", b, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 30, e.cfgVal.Load().(config.Config).Search.MaxResults)

	rec = e.do(http.MethodPut, "/config", []byte(`{"nope":1}`), false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(http.MethodGet, "/config/validate", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"errors"`)
}

func TestLocalOnlyRoutes(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodPost, "/db/checkpoint", nil, false)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(http.MethodPost, "/db/checkpoint", nil, true)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(http.MethodPost, "/shutdown", nil, true)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/shutdown", nil)
	req.RemoteAddr = "127.0.0.1:50000"
	req.Header.Set("X-Shutdown-Token", "tok")
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSecretsEndpoint(t *testing.T) {
	e := newEnv(t)
	rec := e.do(http.MethodPost, "/api/secrets/imap", []byte(`{"password":"pw"}`), false)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = e.do(http.MethodPost, "/api/secrets/imap", []byte(`not json`), false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecoverAnswersInternal(t *testing.T) {
	h := Recover(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	e := decodeErr(t, rec)
	assert.Equal(t, "internal", e.Error.Code)
	assert.Equal(t, "internal server error", e.Error.Message)
}

func TestCorsPreflight(t *testing.T) {
	e := newEnv(t)
	req := httptest.NewRequest(http.MethodOptions, "/jobs", nil)
	req.Header.Set("Origin", "tauri://localhost")
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	assert.Equal(t, "tauri://localhost", rec.Header().Get("Access-Control-Allow-Origin"))
}
