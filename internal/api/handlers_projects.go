// FlueCraft - 3D Chimney Design Catalog and Asset Service
// Copyright 2026 FlueCraft Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fluecraft/fluecraft

package api

import (
	"errors"
	"net/http"

	"github.com/fluecraft/fluecraft/internal/database"
	"github.com/fluecraft/fluecraft/internal/models"
)

// ListProjects returns the authenticated user's projects, most recently
// updated first.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	limit, offset := h.pagination(r)

	projects, total, err := h.db.ListProjectsByUser(r.Context(), claims.UserID, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list projects", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"projects":   projects,
		"pagination": pageInfo(limit, offset, total),
	})
}

// GetProject returns one project. Owners always see their projects; anyone
// may fetch a project marked public.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	project, err := h.db.GetProject(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Project not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load project", err)
		return
	}

	claims := ClaimsFromContext(r.Context())
	if !project.IsPublic && project.UserID != claims.UserID {
		// Hide existence of other users' private projects.
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Project not found", nil)
		return
	}
	respondSuccess(w, http.StatusOK, project)
}

// CreateProject saves a new configuration for the authenticated user.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var project models.Project
	if !decodeJSON(w, r, &project) {
		return
	}

	claims := ClaimsFromContext(r.Context())
	project.UserID = claims.UserID

	if err := h.db.CreateProject(r.Context(), &project); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create project", err)
		return
	}
	respondSuccess(w, http.StatusCreated, &project)
}

// UpdateProject replaces a project owned by the authenticated user. The
// store scopes the write to the owner, so another user's project id simply
// reports not found.
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var project models.Project
	if !decodeJSON(w, r, &project) {
		return
	}

	claims := ClaimsFromContext(r.Context())
	project.ID = id
	project.UserID = claims.UserID

	if err := h.db.UpdateProject(r.Context(), &project); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Project not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update project", err)
		return
	}
	respondSuccess(w, http.StatusOK, &project)
}

// DeleteProject removes a project owned by the authenticated user.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	claims := ClaimsFromContext(r.Context())
	if err := h.db.DeleteProject(r.Context(), id, claims.UserID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Project not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete project", err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"message": "Project deleted"})
}
