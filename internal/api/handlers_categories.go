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

// ListCategories returns all categories, alphabetical by name. Public.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.db.ListCategories(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list categories", err)
		return
	}
	respondSuccess(w, http.StatusOK, categories)
}

// GetCategory returns a single category. Public.
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	category, err := h.db.GetCategory(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Category not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load category", err)
		return
	}
	respondSuccess(w, http.StatusOK, category)
}

// CreateCategory creates a category. Staff only.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var category models.Category
	if !decodeJSON(w, r, &category) {
		return
	}

	if err := h.db.CreateCategory(r.Context(), &category); err != nil {
		if errors.Is(err, database.ErrConflict) {
			respondError(w, http.StatusConflict, "VALIDATION_ERROR", "Category name already exists", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create category", err)
		return
	}
	respondSuccess(w, http.StatusCreated, &category)
}

// UpdateCategory replaces a category's name and description. Staff only.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var category models.Category
	if !decodeJSON(w, r, &category) {
		return
	}
	category.ID = id

	if err := h.db.UpdateCategory(r.Context(), &category); err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Category not found", nil)
		case errors.Is(err, database.ErrConflict):
			respondError(w, http.StatusConflict, "VALIDATION_ERROR", "Category name already exists", nil)
		default:
			respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update category", err)
		}
		return
	}
	respondSuccess(w, http.StatusOK, &category)
}

// DeleteCategory removes a category. Staff only.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.db.DeleteCategory(r.Context(), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Category not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete category", err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"message": "Category deleted"})
}
