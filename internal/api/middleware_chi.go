// FlueCraft - 3D Chimney Design Catalog and Asset Service
// Copyright 2026 FlueCraft Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fluecraft/fluecraft

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/fluecraft/fluecraft/internal/config"
)

// ChiMiddleware builds the CORS and rate limit middleware from config.
// The API routes use go-chi/cors; the /media/* routes carry their own CORS
// handling inside the assets handler.
type ChiMiddleware struct {
	cfg *config.Config
}

// NewChiMiddleware returns middleware bound to cfg.
func NewChiMiddleware(cfg *config.Config) *ChiMiddleware {
	return &ChiMiddleware{cfg: cfg}
}

// CORS returns the CORS middleware for the JSON API.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	origins := m.cfg.Security.CORSOrigins
	if m.cfg.IsDevelopment() && len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Origin", "X-Requested-With", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// rateLimit builds an IP-keyed limiter, disabled when configured off.
func (m *ChiMiddleware) rateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	if m.cfg.Security.RateLimitDisabled {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(requests, window, httprate.WithKeyFuncs(httprate.KeyByRealIP))
}

// RateLimit is the default API limit.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	requests := m.cfg.Security.RateLimitReqs
	if requests <= 0 {
		requests = 100
	}
	window := m.cfg.Security.RateLimitWindow
	if window <= 0 {
		window = time.Minute
	}
	return m.rateLimit(requests, window)
}

// RateLimitLogin is the strictest limit: 5 attempts per 5 minutes against
// brute forcing.
func (m *ChiMiddleware) RateLimitLogin() func(http.Handler) http.Handler {
	return m.rateLimit(5, 5*time.Minute)
}

// RateLimitAuth covers the other credential endpoints.
func (m *ChiMiddleware) RateLimitAuth() func(http.Handler) http.Handler {
	return m.rateLimit(5, time.Minute)
}

// RateLimitMedia is permissive: the 3D viewer fetches many assets per page
// and monitoring polls health frequently.
func (m *ChiMiddleware) RateLimitMedia() func(http.Handler) http.Handler {
	return m.rateLimit(1000, time.Minute)
}
