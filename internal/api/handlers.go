// FlueCraft - 3D Chimney Design Catalog and Asset Service
// Copyright 2026 FlueCraft Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fluecraft/fluecraft

// Package api implements the FlueCraft HTTP surface: the JSON catalog API
// under /api/v1, the media routes backed by the assets resolver, health
// checks and Prometheus metrics.
package api

import (
	"net/http"
	"time"

	"github.com/fluecraft/fluecraft/internal/assets"
	"github.com/fluecraft/fluecraft/internal/auth"
	"github.com/fluecraft/fluecraft/internal/cache"
	"github.com/fluecraft/fluecraft/internal/config"
	"github.com/fluecraft/fluecraft/internal/database"
	"github.com/fluecraft/fluecraft/internal/logging"
)

// modelTypesCacheTTL bounds how stale the model-type tile listing may get.
// The listing stats the media tree, so it is cached briefly and invalidated
// on every write that could change it.
const modelTypesCacheTTL = time.Minute

// Handler carries the dependencies shared by all API endpoints.
type Handler struct {
	cfg         *config.Config
	db          *database.DB
	jwt         *auth.JWTManager
	revocations *auth.RevocationStore
	assets      *assets.Handler
	listings    *cache.Cache
	startTime   time.Time
}

// New creates the API handler.
func New(cfg *config.Config, db *database.DB, jwtManager *auth.JWTManager, revocations *auth.RevocationStore, assetHandler *assets.Handler) *Handler {
	return &Handler{
		cfg:         cfg,
		db:          db,
		jwt:         jwtManager,
		revocations: revocations,
		assets:      assetHandler,
		listings:    cache.New(modelTypesCacheTTL),
		startTime:   time.Now(),
	}
}

// Health responds with liveness plus dependency status. Used by load
// balancers; stays cheap.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	httpStatus := http.StatusOK

	dbStatus := "up"
	if err := h.db.Ping(r.Context()); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Health check: database unreachable")
		dbStatus = "down"
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	respondSuccess(w, httpStatus, map[string]interface{}{
		"status":         status,
		"database":       dbStatus,
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
	})
}

// HealthLive is the bare liveness probe: the process is serving requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]string{"status": "alive"})
}

// HealthReady is the readiness probe: dependencies must answer.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "DATABASE_ERROR", "Database not ready", err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Stats returns the authenticated user's activity counters and the active
// catalog size.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())

	stats, err := h.db.GetStats(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to compute stats", err)
		return
	}
	respondSuccess(w, http.StatusOK, stats)
}
