// FlueCraft - 3D Chimney Design Catalog and Asset Service
// Copyright 2026 FlueCraft Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fluecraft/fluecraft

package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fluecraft/fluecraft/internal/models"
)

// designColumns is the canonical SELECT column list; scanDesign must stay in
// sync with it.
const designColumns = `id, title, description, category_id,
	model_file, original_file, original_file_format, model_data,
	width, height, depth,
	position_x, position_y, position_z,
	rotation_x, rotation_y, rotation_z,
	scale_x, scale_y, scale_z,
	material_type, color, price, thumbnail,
	is_featured, is_active, created_by, created_at, updated_at`

// CreateDesign inserts a design and fills in ID and timestamps. A zero
// transform gets the identity placement so the viewer never renders at
// scale 0.
func (db *DB) CreateDesign(ctx context.Context, d *models.Design) error {
	if d.Transform == (models.Transform{}) {
		d.Transform = models.DefaultTransform()
	}

	query := `INSERT INTO designs (
		title, description, category_id,
		model_file, original_file, original_file_format, model_data,
		width, height, depth,
		position_x, position_y, position_z,
		rotation_x, rotation_y, rotation_z,
		scale_x, scale_y, scale_z,
		material_type, color, price, thumbnail,
		is_featured, is_active, created_by
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	RETURNING id, created_at, updated_at`

	err := db.conn.QueryRowContext(ctx, query,
		d.Title, d.Description, d.CategoryID,
		d.ModelFile, d.OriginalFile, d.OriginalFileFormat, marshalJSONMap(d.ModelData),
		d.Width, d.Height, d.Depth,
		d.Transform.PositionX, d.Transform.PositionY, d.Transform.PositionZ,
		d.Transform.RotationX, d.Transform.RotationY, d.Transform.RotationZ,
		d.Transform.ScaleX, d.Transform.ScaleY, d.Transform.ScaleZ,
		d.MaterialType, d.Color, d.Price, d.Thumbnail,
		d.IsFeatured, d.IsActive, d.CreatedBy,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create design: %w", err)
	}
	return nil
}

// GetDesign retrieves a design by ID regardless of active state.
func (db *DB) GetDesign(ctx context.Context, id int64) (*models.Design, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+designColumns+` FROM designs WHERE id = ?`, id)
	return scanDesign(row)
}

// GetActiveDesignByTitle retrieves the newest active design whose title
// matches case-insensitively. This is how model-type keys map to designs.
func (db *DB) GetActiveDesignByTitle(ctx context.Context, title string) (*models.Design, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+designColumns+` FROM designs
		WHERE lower(title) = lower(?) AND is_active
		ORDER BY created_at DESC LIMIT 1`, title)
	return scanDesign(row)
}

// GetOrCreateDesignByTitle returns the active design for title, creating a
// bare one on demand. Returns true when a design was created.
func (db *DB) GetOrCreateDesignByTitle(ctx context.Context, title string, createdBy *int64) (*models.Design, bool, error) {
	d, err := db.GetActiveDesignByTitle(ctx, title)
	if err == nil {
		return d, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	d = &models.Design{
		Title:     title,
		IsActive:  true,
		CreatedBy: createdBy,
		Transform: models.DefaultTransform(),
	}
	if err := db.CreateDesign(ctx, d); err != nil {
		return nil, false, err
	}
	return d, true, nil
}

// ListDesignsOptions filters and paginates ListDesigns.
type ListDesignsOptions struct {
	ActiveOnly   bool
	FeaturedOnly bool
	CategoryID   *int64
	Limit        int
	Offset       int
}

// ListDesigns returns design summaries ordered newest-first plus the total
// count matching the filters.
func (db *DB) ListDesigns(ctx context.Context, opts ListDesignsOptions) ([]models.DesignSummary, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if opts.ActiveOnly {
		where += ` AND is_active`
	}
	if opts.FeaturedOnly {
		where += ` AND is_featured`
	}
	if opts.CategoryID != nil {
		where += ` AND category_id = ?`
		args = append(args, *opts.CategoryID)
	}

	var total int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT count(*) FROM designs`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count designs: %w", err)
	}

	query := `SELECT id, title, category_id, model_file, thumbnail,
		material_type, price, is_featured, created_at
	FROM designs` + where + ` ORDER BY created_at DESC`
	if opts.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, opts.Limit, opts.Offset)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list designs: %w", err)
	}
	defer closeQuietly(rows)

	summaries := []models.DesignSummary{}
	for rows.Next() {
		var s models.DesignSummary
		var categoryID sql.NullInt64
		if err := rows.Scan(&s.ID, &s.Title, &categoryID, &s.ModelFile, &s.Thumbnail,
			&s.MaterialType, &s.Price, &s.IsFeatured, &s.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan design summary: %w", err)
		}
		if categoryID.Valid {
			s.CategoryID = &categoryID.Int64
		}
		summaries = append(summaries, s)
	}
	return summaries, total, rows.Err()
}

// UpdateDesign persists all mutable fields and refreshes UpdatedAt.
func (db *DB) UpdateDesign(ctx context.Context, d *models.Design) error {
	query := `UPDATE designs SET
		title = ?, description = ?, category_id = ?,
		model_file = ?, original_file = ?, original_file_format = ?, model_data = ?,
		width = ?, height = ?, depth = ?,
		position_x = ?, position_y = ?, position_z = ?,
		rotation_x = ?, rotation_y = ?, rotation_z = ?,
		scale_x = ?, scale_y = ?, scale_z = ?,
		material_type = ?, color = ?, price = ?, thumbnail = ?,
		is_featured = ?, is_active = ?,
		updated_at = current_timestamp
	WHERE id = ?
	RETURNING updated_at`

	err := db.conn.QueryRowContext(ctx, query,
		d.Title, d.Description, d.CategoryID,
		d.ModelFile, d.OriginalFile, d.OriginalFileFormat, marshalJSONMap(d.ModelData),
		d.Width, d.Height, d.Depth,
		d.Transform.PositionX, d.Transform.PositionY, d.Transform.PositionZ,
		d.Transform.RotationX, d.Transform.RotationY, d.Transform.RotationZ,
		d.Transform.ScaleX, d.Transform.ScaleY, d.Transform.ScaleZ,
		d.MaterialType, d.Color, d.Price, d.Thumbnail,
		d.IsFeatured, d.IsActive,
		d.ID,
	).Scan(&d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update design: %w", err)
	}
	return nil
}

// ClearDesignModel detaches the model files from a design without deleting
// the catalog entry. Used by DELETE /models?type=.
func (db *DB) ClearDesignModel(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE designs SET model_file = '', original_file = '',
			original_file_format = '', updated_at = current_timestamp
		WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to clear design model: %w", err)
	}
	return requireRowsAffected(res)
}

// DeleteDesign removes a design and its attached file records.
func (db *DB) DeleteDesign(ctx context.Context, id int64) error {
	if _, err := db.conn.ExecContext(ctx,
		`DELETE FROM design_files WHERE design_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete design files: %w", err)
	}
	res, err := db.conn.ExecContext(ctx, `DELETE FROM designs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete design: %w", err)
	}
	return requireRowsAffected(res)
}

// AddDesignFile attaches an uploaded file record to a design.
func (db *DB) AddDesignFile(ctx context.Context, f *models.DesignFile) error {
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO design_files (design_id, path, file_type, file_name, is_primary, display_order)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id, created_at, updated_at`,
		f.DesignID, f.Path, f.FileType, f.FileName, f.IsPrimary, f.DisplayOrder,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to add design file: %w", err)
	}
	return nil
}

// ListDesignFiles returns the files attached to a design, primary first then
// by display order.
func (db *DB) ListDesignFiles(ctx context.Context, designID int64) ([]models.DesignFile, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, design_id, path, file_type, file_name, is_primary, display_order, created_at, updated_at
		FROM design_files WHERE design_id = ?
		ORDER BY is_primary DESC, display_order, id`, designID)
	if err != nil {
		return nil, fmt.Errorf("failed to list design files: %w", err)
	}
	defer closeQuietly(rows)

	files := []models.DesignFile{}
	for rows.Next() {
		var f models.DesignFile
		if err := rows.Scan(&f.ID, &f.DesignID, &f.Path, &f.FileType, &f.FileName,
			&f.IsPrimary, &f.DisplayOrder, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan design file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// DeleteDesignFile removes one attached file record.
func (db *DB) DeleteDesignFile(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM design_files WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete design file: %w", err)
	}
	return requireRowsAffected(res)
}

func scanDesign(row *sql.Row) (*models.Design, error) {
	var (
		d          models.Design
		categoryID sql.NullInt64
		createdBy  sql.NullInt64
		modelData  string
	)
	err := row.Scan(
		&d.ID, &d.Title, &d.Description, &categoryID,
		&d.ModelFile, &d.OriginalFile, &d.OriginalFileFormat, &modelData,
		&d.Width, &d.Height, &d.Depth,
		&d.Transform.PositionX, &d.Transform.PositionY, &d.Transform.PositionZ,
		&d.Transform.RotationX, &d.Transform.RotationY, &d.Transform.RotationZ,
		&d.Transform.ScaleX, &d.Transform.ScaleY, &d.Transform.ScaleZ,
		&d.MaterialType, &d.Color, &d.Price, &d.Thumbnail,
		&d.IsFeatured, &d.IsActive, &createdBy, &d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan design: %w", err)
	}
	if categoryID.Valid {
		d.CategoryID = &categoryID.Int64
	}
	if createdBy.Valid {
		d.CreatedBy = &createdBy.Int64
	}
	d.ModelData = unmarshalJSONMap(modelData)
	return &d, nil
}

// marshalJSONMap serializes an opaque JSON blob column, defaulting to "{}".
func marshalJSONMap(m map[string]interface{}) string {
	if len(m) == 0 {
		return "{}"
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// unmarshalJSONMap deserializes an opaque JSON blob column; invalid or empty
// content yields nil rather than an error, the blobs are frontend-owned.
func unmarshalJSONMap(s string) map[string]interface{} {
	if s == "" || s == "{}" {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil
	}
	if len(m) == 0 {
		return nil
	}
	return m
}
