package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/config"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/db"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/db/dbtest"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/ingest"
)

type fakeRefresher struct {
	running atomic.Bool
	calls   chan string
	err     error
}

func newFakeRefresher() *fakeRefresher {
	return &fakeRefresher{calls: make(chan string, 4)}
}

func (f *fakeRefresher) Refresh(_ context.Context, since string) (ingest.RunResult, error) {
	f.calls <- since
	return ingest.RunResult{Mode: "refresh", GamesProcessed: 3, Cursor: "2025-11-02"}, f.err
}

func (f *fakeRefresher) Running() bool { return f.running.Load() }

func testConfig() *config.Config {
	return &config.Config{
		CORSAllowOrigins:  []string{"http://localhost:3000"},
		RateLimitRequests: 60,
		RateLimitWindow:   time.Minute,
	}
}

func newTestServer(t *testing.T, cfg *config.Config) (http.Handler, db.DB, *fakeRefresher) {
	t.Helper()
	store := dbtest.Open(t)
	ref := newFakeRefresher()
	return NewRouter(context.Background(), store, ref, cfg, dbtest.Logger()), store, ref
}

func do(t *testing.T, h http.Handler, method, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	var body map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHealthEndpoints(t *testing.T) {
	h, store, _ := newTestServer(t, testConfig())

	rec, body := do(t, h, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Process-Time"))

	rec, body = do(t, h, http.MethodGet, "/health/db")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "connected", body["database"])

	store.Close()
	rec, body = do(t, h, http.MethodGet, "/health/db")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "disconnected", body["database"])
}

func TestGetCursor(t *testing.T) {
	h, store, _ := newTestServer(t, testConfig())

	rec, body := do(t, h, http.MethodGet, "/api/v1/cursors/game_update")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", body["error"].(map[string]any)["code"])

	require.NoError(t, ingest.AdvanceCursor(context.Background(), store, config.GameUpdateCursor, "2025-11-02"))
	rec, body = do(t, h, http.MethodGet, "/api/v1/cursors/game_update")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2025-11-02", body["last_date"])
}

func TestTriggerRefreshRunsInBackground(t *testing.T) {
	h, _, ref := newTestServer(t, testConfig())

	rec, body := do(t, h, http.MethodPost, "/api/v1/refresh?since=2025-11-01")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "started", body["status"])

	select {
	case since := <-ref.calls:
		assert.Equal(t, "2025-11-01", since)
	case <-time.After(2 * time.Second):
		t.Fatal("refresh was not started")
	}

	require.Eventually(t, func() bool {
		_, body := do(t, h, http.MethodGet, "/api/v1/refresh")
		_, ok := body["last"]
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	_, body = do(t, h, http.MethodGet, "/api/v1/refresh")
	last := body["last"].(map[string]any)
	assert.Equal(t, "2025-11-02", last["cursor"])
	assert.Equal(t, "", last["error"])
}

func TestTriggerRefreshConflictWhileRunning(t *testing.T) {
	h, _, ref := newTestServer(t, testConfig())
	ref.running.Store(true)

	rec, body := do(t, h, http.MethodPost, "/api/v1/refresh")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "RUN_IN_PROGRESS", body["error"].(map[string]any)["code"])
	assert.Empty(t, ref.calls)
}

func TestTriggerRefreshRejectsBadDate(t *testing.T) {
	h, _, ref := newTestServer(t, testConfig())

	rec, _ := do(t, h, http.MethodPost, "/api/v1/refresh?since=11/01/2025")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, ref.calls)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitEnabled = true
	cfg.RateLimitRequests = 2
	h, _, _ := newTestServer(t, cfg)

	// burst is max(2/2, 1) = 1
	rec, _ := do(t, h, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = do(t, h, http.MethodGet, "/health")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestSwaggerDocServed(t *testing.T) {
	h, _, _ := newTestServer(t, testConfig())

	rec, body := do(t, h, http.MethodGet, "/docs/doc.json")
	require.Equal(t, http.StatusOK, rec.Code)
	paths := body["paths"].(map[string]any)
	for _, p := range []string{"/health", "/health/db", "/api/v1/cursors/{updateType}", "/api/v1/refresh"} {
		assert.Contains(t, paths, p)
	}
	assert.Contains(t, paths["/api/v1/refresh"], "post")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/index.html", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "swagger")
}

func TestCORSPreflight(t *testing.T) {
	h, _, _ := newTestServer(t, testConfig())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/refresh", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.True(t, strings.Contains(rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost))
}
