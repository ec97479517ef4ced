// FlueCraft - 3D Chimney Design Catalog and Asset Service
// Copyright 2026 FlueCraft Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fluecraft/fluecraft

package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/fluecraft/fluecraft/internal/auth"
	"github.com/fluecraft/fluecraft/internal/logging"
)

type claimsContextKey struct{}

// ClaimsFromContext returns the authenticated claims, or nil when the request
// was not authenticated.
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsContextKey{}).(*auth.Claims)
	return claims
}

// Authenticate requires a valid, unrevoked Bearer token and stores the claims
// in the request context.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Authorization header required", nil)
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Authorization header must be 'Bearer <token>'", nil)
			return
		}

		claims, err := h.jwt.ValidateToken(token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Invalid or expired token", nil)
			return
		}

		revoked, err := h.revocations.IsRevoked(r.Context(), claims.ID)
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("Revocation check failed")
			respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not verify session", nil)
			return
		}
		if revoked {
			respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Token has been revoked", nil)
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuthenticate attaches claims when a valid, unrevoked Bearer token
// is presented but lets anonymous requests through. Used on public routes
// that behave slightly differently for signed-in users, like uploads
// recording the design creator.
func (h *Handler) OptionalAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := h.jwt.ValidateToken(token)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		if revoked, err := h.revocations.IsRevoked(r.Context(), claims.ID); err != nil || revoked {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireStaff allows only staff accounts through. Must run after
// Authenticate.
func (h *Handler) RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromContext(r.Context())
		if claims == nil {
			respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Authentication required", nil)
			return
		}
		if !claims.IsStaff {
			respondError(w, http.StatusForbidden, "AUTHORIZATION_ERROR", "Staff access required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
