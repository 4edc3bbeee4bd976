// Package handler provides HTTP handlers for the operational endpoints:
// health, ingestion cursors and on-demand refresh runs.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/api/respond"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/db"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/ingest"
)

// Refresher runs incremental ingestion. *ingest.Runner implements it.
type Refresher interface {
	Refresh(ctx context.Context, since string) (ingest.RunResult, error)
	Running() bool
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	store     db.DB
	refresher Refresher
	baseCtx   context.Context
	logger    *slog.Logger

	mu      sync.Mutex
	last    *ingest.RunResult
	lastErr string
	lastAt  time.Time
}

// New creates a Handler. Background runs started by TriggerRefresh inherit
// baseCtx, so they stop when the server shuts down.
func New(baseCtx context.Context, store db.DB, refresher Refresher, logger *slog.Logger) *Handler {
	return &Handler{store: store, refresher: refresher, baseCtx: baseCtx, logger: logger}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns service name, status and the active database dialect.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"name":    "NHL Data Ingestion",
		"status":  "running",
		"dialect": h.store.Dialect(),
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies database connectivity.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.Warn("database health check failed", "error", err)
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]any{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// GetCursor returns the last processed date for an update type.
// @Summary Get ingestion cursor
// @Description Returns the last fully ingested date for an update type such as game_update.
// @Tags ingestion
// @Produce json
// @Param updateType path string true "Cursor key"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /api/v1/cursors/{updateType} [get]
func (h *Handler) GetCursor(w http.ResponseWriter, r *http.Request) {
	updateType := chi.URLParam(r, "updateType")
	date, err := ingest.ReadCursor(r.Context(), h.store, updateType)
	if errors.Is(err, ingest.ErrNoCursor) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "No cursor recorded for "+updateType)
		return
	}
	if err != nil {
		h.logger.Error("read cursor", "update_type", updateType, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to read cursor")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"update_type": updateType,
		"last_date":   date,
	})
}

// TriggerRefresh starts a refresh run in the background and returns 202.
// The optional "since" query parameter overrides the stored cursor. Returns
// 409 when a run is already in progress.
// @Summary Trigger refresh
// @Description Starts an incremental refresh in the background. Only one run executes at a time.
// @Tags ingestion
// @Produce json
// @Param since query string false "First date to ingest (YYYY-MM-DD), overrides the cursor"
// @Success 202 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 409 {object} respond.ErrorResponse
// @Router /api/v1/refresh [post]
func (h *Handler) TriggerRefresh(w http.ResponseWriter, r *http.Request) {
	since := r.URL.Query().Get("since")
	if since != "" {
		if _, err := time.Parse(ingest.DateLayout, since); err != nil {
			respond.WriteErrorDetail(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid since date", "expected YYYY-MM-DD")
			return
		}
	}
	if h.refresher.Running() {
		respond.WriteError(w, http.StatusConflict, "RUN_IN_PROGRESS", ingest.ErrBusy.Error())
		return
	}

	go h.runRefresh(since)

	respond.WriteJSONObject(w, http.StatusAccepted, map[string]any{
		"status": "started",
		"since":  since,
	})
}

func (h *Handler) runRefresh(since string) {
	result, err := h.refresher.Refresh(h.baseCtx, since)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastAt = time.Now().UTC()
	h.last = &result
	h.lastErr = ""
	if err != nil {
		h.lastErr = err.Error()
		if errors.Is(err, ingest.ErrBusy) {
			h.logger.Info("refresh skipped, run already in progress")
			return
		}
		h.logger.Error("refresh failed", "error", err, "summary", result.Summary())
	}
}

// RefreshStatus reports whether a run is active and how the last API-started
// run ended.
// @Summary Refresh status
// @Description Reports whether a run is active and how the last API-started refresh ended.
// @Tags ingestion
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/refresh [get]
func (h *Handler) RefreshStatus(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	body := map[string]any{"running": h.refresher.Running()}
	if h.last != nil {
		body["last"] = map[string]any{
			"finished_at": h.lastAt.Format(time.RFC3339),
			"summary":     h.last.Summary(),
			"cursor":      h.last.Cursor,
			"error":       h.lastErr,
		}
	}
	respond.WriteJSONObject(w, http.StatusOK, body)
}
