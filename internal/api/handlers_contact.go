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

// SubmitContactMessage accepts a public contact-form submission.
func (h *Handler) SubmitContactMessage(w http.ResponseWriter, r *http.Request) {
	var msg models.ContactMessage
	if !decodeJSON(w, r, &msg) {
		return
	}

	if err := h.db.CreateContactMessage(r.Context(), &msg); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save message", err)
		return
	}
	respondSuccess(w, http.StatusCreated, map[string]interface{}{
		"message": "Thank you for contacting us",
		"id":      msg.ID,
	})
}

// ListContactMessages returns submitted messages, newest first. Staff only.
// ?unread=true filters to unread messages.
func (h *Handler) ListContactMessages(w http.ResponseWriter, r *http.Request) {
	limit, offset := h.pagination(r)
	unreadOnly := r.URL.Query().Get("unread") == "true"

	messages, total, err := h.db.ListContactMessages(r.Context(), unreadOnly, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list messages", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"messages":   messages,
		"pagination": pageInfo(limit, offset, total),
	})
}

// MarkContactMessageRead flags a message as handled. Staff only.
func (h *Handler) MarkContactMessageRead(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.db.MarkContactMessageRead(r.Context(), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Message not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update message", err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"message": "Marked as read"})
}

// DeleteContactMessage removes a message. Staff only.
func (h *Handler) DeleteContactMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.db.DeleteContactMessage(r.Context(), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Message not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete message", err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"message": "Message deleted"})
}
