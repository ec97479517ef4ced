// FlueCraft - 3D Chimney Design Catalog and Asset Service
// Copyright 2026 FlueCraft Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fluecraft/fluecraft

package api

import (
	"errors"
	"net/http"

	"github.com/fluecraft/fluecraft/internal/auth"
	"github.com/fluecraft/fluecraft/internal/database"
	"github.com/fluecraft/fluecraft/internal/logging"
	"github.com/fluecraft/fluecraft/internal/models"
)

// Register creates a new account and returns a session token so the frontend
// can log the user straight in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process password", err)
		return
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := h.db.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, database.ErrConflict) {
			respondError(w, http.StatusConflict, "VALIDATION_ERROR", "Username or email already taken", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create user", err)
		return
	}

	token, expiresAt, err := h.jwt.GenerateToken(user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue token", err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("username", sanitizeLogValue(user.Username)).
		Int64("user_id", user.ID).
		Msg("User registered")

	respondSuccess(w, http.StatusCreated, &models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	})
}

// Login verifies credentials and issues a session token. Unknown usernames
// and wrong passwords produce the identical response so the endpoint cannot
// be used to enumerate accounts.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.db.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Invalid username or password", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to look up user", err)
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		logging.Ctx(r.Context()).Warn().
			Str("username", sanitizeLogValue(req.Username)).
			Msg("Failed login attempt")
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Invalid username or password", nil)
		return
	}

	token, expiresAt, err := h.jwt.GenerateToken(user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue token", err)
		return
	}

	respondSuccess(w, http.StatusOK, &models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	})
}

// Logout revokes the presented token until its natural expiry.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())

	var expiresAt = claims.ExpiresAt
	if expiresAt == nil {
		respondError(w, http.StatusBadRequest, "AUTHENTICATION_ERROR", "Token has no expiry", nil)
		return
	}
	if err := h.revocations.Revoke(r.Context(), claims.ID, expiresAt.Time); err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to revoke token", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Profile returns the authenticated user's account.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())

	user, err := h.db.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Account no longer exists", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load profile", err)
		return
	}
	respondSuccess(w, http.StatusOK, user)
}

// UpdateProfile applies a partial profile update. Only fields present in the
// request change.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())

	var req models.ProfileUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Email != "" {
		if err := h.db.UpdateUserEmail(r.Context(), claims.UserID, req.Email); err != nil {
			if errors.Is(err, database.ErrConflict) {
				respondError(w, http.StatusConflict, "VALIDATION_ERROR", "Email already in use", nil)
				return
			}
			respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update profile", err)
			return
		}
	}

	user, err := h.db.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load profile", err)
		return
	}
	respondSuccess(w, http.StatusOK, user)
}
