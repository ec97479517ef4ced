// FlueCraft - 3D Chimney Design Catalog and Asset Service
// Copyright 2026 FlueCraft Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fluecraft/fluecraft

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fluecraft/fluecraft/internal/database"
	"github.com/fluecraft/fluecraft/internal/models"
)

// ListDesigns returns active designs in summary form, newest first.
// Optional filters: ?category=<id>, ?featured=true. Public.
func (h *Handler) ListDesigns(w http.ResponseWriter, r *http.Request) {
	limit, offset := h.pagination(r)

	opts := database.ListDesignsOptions{
		ActiveOnly: true,
		Limit:      limit,
		Offset:     offset,
	}
	if raw := r.URL.Query().Get("category"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid category parameter", nil)
			return
		}
		opts.CategoryID = &id
	}
	if r.URL.Query().Get("featured") == "true" {
		opts.FeaturedOnly = true
	}

	designs, total, err := h.db.ListDesigns(r.Context(), opts)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list designs", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"designs":    designs,
		"pagination": pageInfo(limit, offset, total),
	})
}

// GetDesign returns the full design record. Public, but inactive designs are
// hidden from non-staff callers.
func (h *Handler) GetDesign(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	design, err := h.db.GetDesign(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Design not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load design", err)
		return
	}

	if !design.IsActive {
		claims := ClaimsFromContext(r.Context())
		if claims == nil || !claims.IsStaff {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Design not found", nil)
			return
		}
	}
	respondSuccess(w, http.StatusOK, design)
}

// CreateDesign adds a design to the catalog. Staff only.
func (h *Handler) CreateDesign(w http.ResponseWriter, r *http.Request) {
	var design models.Design
	if !decodeJSON(w, r, &design) {
		return
	}

	claims := ClaimsFromContext(r.Context())
	design.CreatedBy = &claims.UserID
	design.IsActive = true

	if err := h.db.CreateDesign(r.Context(), &design); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create design", err)
		return
	}
	h.listings.Invalidate(modelTypesCacheKey)
	respondSuccess(w, http.StatusCreated, &design)
}

// UpdateDesign replaces a design's mutable fields. Staff only.
func (h *Handler) UpdateDesign(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var design models.Design
	if !decodeJSON(w, r, &design) {
		return
	}
	design.ID = id

	if err := h.db.UpdateDesign(r.Context(), &design); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Design not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update design", err)
		return
	}
	h.listings.Invalidate(modelTypesCacheKey)
	respondSuccess(w, http.StatusOK, &design)
}

// DeleteDesign removes a design and its file records. Staff only. The media
// files stay on disk; the resolver may still serve them to old links.
func (h *Handler) DeleteDesign(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.db.DeleteDesign(r.Context(), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Design not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete design", err)
		return
	}
	h.listings.Invalidate(modelTypesCacheKey)
	respondSuccess(w, http.StatusOK, map[string]string{"message": "Design deleted"})
}

// ListDesignFiles returns a design's file records, primary first. Public.
func (h *Handler) ListDesignFiles(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if _, err := h.db.GetDesign(r.Context(), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Design not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load design", err)
		return
	}

	files, err := h.db.ListDesignFiles(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list design files", err)
		return
	}
	respondSuccess(w, http.StatusOK, files)
}
