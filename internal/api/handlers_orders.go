// FlueCraft - 3D Chimney Design Catalog and Asset Service
// Copyright 2026 FlueCraft Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fluecraft/fluecraft

package api

import (
	"errors"
	"net/http"

	"github.com/fluecraft/fluecraft/internal/database"
	"github.com/fluecraft/fluecraft/internal/logging"
	"github.com/fluecraft/fluecraft/internal/models"
)

// ListOrders returns the authenticated user's orders, newest first.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	limit, offset := h.pagination(r)

	orders, total, err := h.db.ListOrdersByUser(r.Context(), claims.UserID, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list orders", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"orders":     orders,
		"pagination": pageInfo(limit, offset, total),
	})
}

// GetOrder returns one of the authenticated user's orders.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	claims := ClaimsFromContext(r.Context())
	order, err := h.db.GetOrderForUser(r.Context(), id, claims.UserID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load order", err)
		return
	}
	respondSuccess(w, http.StatusOK, order)
}

// CreateOrder places a new order for the authenticated user. The referenced
// design must exist and be active.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var order models.Order
	if !decodeJSON(w, r, &order) {
		return
	}

	claims := ClaimsFromContext(r.Context())
	order.UserID = claims.UserID

	if order.DesignID != nil {
		design, err := h.db.GetDesign(r.Context(), *order.DesignID)
		if err != nil || !design.IsActive {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Design does not exist or is inactive", nil)
			return
		}
	}

	if err := h.db.CreateOrder(r.Context(), &order); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create order", err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Int64("order_id", order.ID).
		Int64("user_id", order.UserID).
		Msg("Order placed")

	respondSuccess(w, http.StatusCreated, &order)
}

// UpdateOrderStatus moves one of the authenticated user's orders to a new
// status. Users may only cancel; the other transitions are staff actions
// done through the same endpoint.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" validate:"required,oneof=pending processing completed cancelled"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	claims := ClaimsFromContext(r.Context())
	if !claims.IsStaff && req.Status != models.OrderStatusCancelled {
		respondError(w, http.StatusForbidden, "AUTHORIZATION_ERROR", "Only cancellation is allowed", nil)
		return
	}

	if err := h.db.UpdateOrderStatus(r.Context(), id, claims.UserID, req.Status); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update order", err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"message": "Order updated", "status": req.Status})
}

// DeleteOrder removes one of the authenticated user's orders. Only pending
// orders can be deleted; later stages must be cancelled instead.
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	claims := ClaimsFromContext(r.Context())
	if err := h.db.DeleteOrder(r.Context(), id, claims.UserID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusConflict, "VALIDATION_ERROR", "Order not found or no longer pending", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete order", err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"message": "Order deleted"})
}
