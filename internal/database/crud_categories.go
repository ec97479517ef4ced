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

// CreateCategory inserts a category and fills in ID and CreatedAt.
// Returns ErrConflict when the name is taken.
func (db *DB) CreateCategory(ctx context.Context, cat *models.Category) error {
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO categories (name, description) VALUES (?, ?) RETURNING id, created_at`,
		cat.Name, cat.Description,
	).Scan(&cat.ID, &cat.CreatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// GetCategory retrieves a category by ID.
func (db *DB) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	var c models.Category
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM categories WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &c, nil
}

// ListCategories returns all categories ordered by name.
func (db *DB) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, description, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer closeQuietly(rows)

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// UpdateCategory updates name and description.
func (db *DB) UpdateCategory(ctx context.Context, cat *models.Category) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE categories SET name = ?, description = ? WHERE id = ?`,
		cat.Name, cat.Description, cat.ID)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to update category: %w", err)
	}
	return requireRowsAffected(res)
}

// DeleteCategory removes a category. Designs keep their category_id; the
// API layer treats dangling references as uncategorized.
func (db *DB) DeleteCategory(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return requireRowsAffected(res)
}
