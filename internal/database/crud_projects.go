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

const projectColumns = `id, user_id, name, description, design_data, model_data,
	base_design_id, thumbnail, is_public, created_at, updated_at`

// CreateProject inserts a project and fills in ID and timestamps.
func (db *DB) CreateProject(ctx context.Context, p *models.Project) error {
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO projects (user_id, name, description, design_data, model_data, base_design_id, thumbnail, is_public)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id, created_at, updated_at`,
		p.UserID, p.Name, p.Description,
		marshalJSONMap(p.DesignData), marshalJSONMap(p.ModelData),
		p.BaseDesignID, p.Thumbnail, p.IsPublic,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// GetProject retrieves a project by ID. Ownership and is_public checks are
// the handler's responsibility.
func (db *DB) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	return scanProject(row)
}

// ListProjectsByUser returns the user's projects newest-first with the total
// count.
func (db *DB) ListProjectsByUser(ctx context.Context, userID int64, limit, offset int) ([]models.Project, int, error) {
	var total int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT count(*) FROM projects WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count projects: %w", err)
	}

	query := `SELECT ` + projectColumns + ` FROM projects
		WHERE user_id = ? ORDER BY updated_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	defer closeQuietly(rows)

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProjectRows(rows)
		if err != nil {
			return nil, 0, err
		}
		projects = append(projects, *p)
	}
	return projects, total, rows.Err()
}

// UpdateProject persists mutable fields of a project owned by userID.
func (db *DB) UpdateProject(ctx context.Context, p *models.Project) error {
	err := db.conn.QueryRowContext(ctx,
		`UPDATE projects SET name = ?, description = ?, design_data = ?, model_data = ?,
			base_design_id = ?, thumbnail = ?, is_public = ?, updated_at = current_timestamp
		WHERE id = ? AND user_id = ?
		RETURNING updated_at`,
		p.Name, p.Description,
		marshalJSONMap(p.DesignData), marshalJSONMap(p.ModelData),
		p.BaseDesignID, p.Thumbnail, p.IsPublic,
		p.ID, p.UserID,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	return nil
}

// DeleteProject removes a project owned by userID.
func (db *DB) DeleteProject(ctx context.Context, id, userID int64) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM projects WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return requireRowsAffected(res)
}

func scanProject(row *sql.Row) (*models.Project, error) {
	var (
		p            models.Project
		designData   string
		modelData    string
		baseDesignID sql.NullInt64
	)
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &designData, &modelData,
		&baseDesignID, &p.Thumbnail, &p.IsPublic, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}
	if baseDesignID.Valid {
		p.BaseDesignID = &baseDesignID.Int64
	}
	p.DesignData = unmarshalJSONMap(designData)
	p.ModelData = unmarshalJSONMap(modelData)
	return &p, nil
}

func scanProjectRows(rows *sql.Rows) (*models.Project, error) {
	var (
		p            models.Project
		designData   string
		modelData    string
		baseDesignID sql.NullInt64
	)
	err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &designData, &modelData,
		&baseDesignID, &p.Thumbnail, &p.IsPublic, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}
	if baseDesignID.Valid {
		p.BaseDesignID = &baseDesignID.Int64
	}
	p.DesignData = unmarshalJSONMap(designData)
	p.ModelData = unmarshalJSONMap(modelData)
	return &p, nil
}
