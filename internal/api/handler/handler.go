// Package handler provides HTTP handlers for all API endpoints.
// Analytics are computed on demand by the mood engine; rendered responses
// are cached with ETags until a new record arrives or the TTL passes.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/albapepper/mindsaathi/internal/alerts"
	"github.com/albapepper/mindsaathi/internal/api/respond"
	"github.com/albapepper/mindsaathi/internal/cache"
	"github.com/albapepper/mindsaathi/internal/mood"
)

// HealthChecker reports whether a backing service is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps are the handler's collaborators.
type Deps struct {
	Engine      *mood.Engine
	Streak      *alerts.StreakChecker
	Cache       *cache.Cache
	Store       HealthChecker // nil for stores without a remote backend
	StoreDriver string
	Logger      *slog.Logger
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	engine      *mood.Engine
	streak      *alerts.StreakChecker
	cache       *cache.Cache
	store       HealthChecker
	storeDriver string
	logger      *slog.Logger
}

// New creates a Handler with shared dependencies.
func New(d Deps) *Handler {
	return &Handler{
		engine:      d.Engine,
		streak:      d.Streak,
		cache:       d.Cache,
		store:       d.Store,
		storeDriver: d.StoreDriver,
		logger:      d.Logger,
	}
}

// Root serves service status at /.
// @Summary Service status
// @Description Returns the service name and status.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.Object(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"service": "Mind Saathi Admin API",
		"docs":    "/docs",
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
	respond.Object(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckStore verifies record store connectivity.
// @Summary Record store health check
// @Description Verifies connectivity to the configured record store (mongo or postgres).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/store [get]
func (h *Handler) HealthCheckStore(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		if err := h.store.HealthCheck(r.Context()); err != nil {
			h.logger.Warn("Store health check failed", "driver", h.storeDriver, "error", err)
			respond.Object(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status":    "unhealthy",
				"driver":    h.storeDriver,
				"store":     "disconnected",
				"error":     "Record store connection check failed",
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
			return
		}
	}
	respond.Object(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"driver":    h.storeDriver,
		"store":     "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory response cache statistics.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.Object(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// writeErr reports err to the client. Server-side failures are logged.
func (h *Handler) writeErr(w http.ResponseWriter, op string, err error) {
	if status := respond.Err(w, op, err); status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", "op", op, "status", status, "error", err)
	}
}
