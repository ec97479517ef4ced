// FlueCraft - 3D Chimney Design Catalog and Asset Service
// Copyright 2026 FlueCraft Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fluecraft/fluecraft

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fluecraft/fluecraft/internal/models"
)

const orderColumns = `id, user_id, design_id, project_id, quantity, total_price,
	status, customer_name, customer_email, customer_phone, shipping_address,
	created_at, updated_at`

// CreateOrder inserts an order and fills in ID and timestamps. An empty
// status defaults to pending.
func (db *DB) CreateOrder(ctx context.Context, o *models.Order) error {
	if o.Status == "" {
		o.Status = models.OrderStatusPending
	}
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO orders (user_id, design_id, project_id, quantity, total_price,
			status, customer_name, customer_email, customer_phone, shipping_address)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id, created_at, updated_at`,
		o.UserID, o.DesignID, o.ProjectID, o.Quantity, o.TotalPrice,
		o.Status, o.CustomerName, o.CustomerEmail, o.CustomerPhone, o.ShippingAddress,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetOrderForUser retrieves an order scoped to its owner.
func (db *DB) GetOrderForUser(ctx context.Context, id, userID int64) (*models.Order, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = ? AND user_id = ?`, id, userID)
	return scanOrder(row)
}

// ListOrdersByUser returns the user's orders newest-first with the total
// count.
func (db *DB) ListOrdersByUser(ctx context.Context, userID int64, limit, offset int) ([]models.Order, int, error) {
	var total int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT count(*) FROM orders WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	query := `SELECT ` + orderColumns + ` FROM orders
		WHERE user_id = ? ORDER BY created_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer closeQuietly(rows)

	orders := []models.Order{}
	for rows.Next() {
		var (
			o         models.Order
			designID  sql.NullInt64
			projectID sql.NullInt64
		)
		if err := rows.Scan(&o.ID, &o.UserID, &designID, &projectID, &o.Quantity, &o.TotalPrice,
			&o.Status, &o.CustomerName, &o.CustomerEmail, &o.CustomerPhone, &o.ShippingAddress,
			&o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}
		if designID.Valid {
			o.DesignID = &designID.Int64
		}
		if projectID.Valid {
			o.ProjectID = &projectID.Int64
		}
		orders = append(orders, o)
	}
	return orders, total, rows.Err()
}

// UpdateOrderStatus moves an order owned by userID to a new status.
func (db *DB) UpdateOrderStatus(ctx context.Context, id, userID int64, status string) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE orders SET status = ?, updated_at = current_timestamp
		WHERE id = ? AND user_id = ?`, status, id, userID)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return requireRowsAffected(res)
}

// DeleteOrder removes an order owned by userID. Only pending orders can be
// withdrawn.
func (db *DB) DeleteOrder(ctx context.Context, id, userID int64) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM orders WHERE id = ? AND user_id = ? AND status = ?`,
		id, userID, models.OrderStatusPending)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return requireRowsAffected(res)
}

func scanOrder(row *sql.Row) (*models.Order, error) {
	var (
		o         models.Order
		designID  sql.NullInt64
		projectID sql.NullInt64
	)
	err := row.Scan(&o.ID, &o.UserID, &designID, &projectID, &o.Quantity, &o.TotalPrice,
		&o.Status, &o.CustomerName, &o.CustomerEmail, &o.CustomerPhone, &o.ShippingAddress,
		&o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}
	if designID.Valid {
		o.DesignID = &designID.Int64
	}
	if projectID.Valid {
		o.ProjectID = &projectID.Int64
	}
	return &o, nil
}
