// FlueCraft - 3D Chimney Design Catalog and Asset Service
// Copyright 2026 FlueCraft Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fluecraft/fluecraft

/*
schema.go - Catalog Schema Management

Tables:
  - users: accounts with bcrypt password hashes
  - categories: design groupings
  - designs: the 3D chimney catalog (files, dimensions, viewer transform,
    pricing, visibility flags)
  - design_files: additional model files attached to a design
  - projects: per-user saved configurations (opaque frontend JSON blobs)
  - orders: purchases referencing a design and optionally a project
  - contact_messages: public contact form submissions

All columns are defined in the initial CREATE TABLE statements; there are no
migrations yet. IDs come from per-table sequences so inserts can use
RETURNING id.
*/
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

func (db *DB) createSchema() error {
	ctx, cancel := schemaContext()
	defer cancel()

	statements := []string{
		`CREATE SEQUENCE IF NOT EXISTS seq_users START 1`,
		`CREATE SEQUENCE IF NOT EXISTS seq_categories START 1`,
		`CREATE SEQUENCE IF NOT EXISTS seq_designs START 1`,
		`CREATE SEQUENCE IF NOT EXISTS seq_design_files START 1`,
		`CREATE SEQUENCE IF NOT EXISTS seq_projects START 1`,
		`CREATE SEQUENCE IF NOT EXISTS seq_orders START 1`,
		`CREATE SEQUENCE IF NOT EXISTS seq_contact_messages START 1`,

		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_users'),
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			is_staff BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
		)`,

		`CREATE TABLE IF NOT EXISTS categories (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_categories'),
			name TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
		)`,

		`CREATE TABLE IF NOT EXISTS designs (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_designs'),
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category_id BIGINT,

			model_file TEXT NOT NULL DEFAULT '',
			original_file TEXT NOT NULL DEFAULT '',
			original_file_format TEXT NOT NULL DEFAULT '',
			model_data TEXT NOT NULL DEFAULT '{}',

			width DOUBLE NOT NULL DEFAULT 0,
			height DOUBLE NOT NULL DEFAULT 0,
			depth DOUBLE NOT NULL DEFAULT 0,

			position_x DOUBLE NOT NULL DEFAULT 0,
			position_y DOUBLE NOT NULL DEFAULT 0,
			position_z DOUBLE NOT NULL DEFAULT 0,
			rotation_x DOUBLE NOT NULL DEFAULT 0,
			rotation_y DOUBLE NOT NULL DEFAULT 0,
			rotation_z DOUBLE NOT NULL DEFAULT 0,
			scale_x DOUBLE NOT NULL DEFAULT 1,
			scale_y DOUBLE NOT NULL DEFAULT 1,
			scale_z DOUBLE NOT NULL DEFAULT 1,

			material_type TEXT NOT NULL DEFAULT '',
			color TEXT NOT NULL DEFAULT '',
			price DOUBLE NOT NULL DEFAULT 0,
			thumbnail TEXT NOT NULL DEFAULT '',

			is_featured BOOLEAN NOT NULL DEFAULT false,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_by BIGINT,

			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
			updated_at TIMESTAMP NOT NULL DEFAULT current_timestamp
		)`,

		`CREATE TABLE IF NOT EXISTS design_files (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_design_files'),
			design_id BIGINT NOT NULL,
			path TEXT NOT NULL,
			file_type TEXT NOT NULL,
			file_name TEXT NOT NULL DEFAULT '',
			is_primary BOOLEAN NOT NULL DEFAULT false,
			display_order INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
			updated_at TIMESTAMP NOT NULL DEFAULT current_timestamp
		)`,

		`CREATE TABLE IF NOT EXISTS projects (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_projects'),
			user_id BIGINT NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			design_data TEXT NOT NULL DEFAULT '{}',
			model_data TEXT NOT NULL DEFAULT '{}',
			base_design_id BIGINT,
			thumbnail TEXT NOT NULL DEFAULT '',
			is_public BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
			updated_at TIMESTAMP NOT NULL DEFAULT current_timestamp
		)`,

		`CREATE TABLE IF NOT EXISTS orders (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_orders'),
			user_id BIGINT NOT NULL,
			design_id BIGINT,
			project_id BIGINT,
			quantity INTEGER NOT NULL DEFAULT 1,
			total_price DOUBLE NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'pending',
			customer_name TEXT NOT NULL,
			customer_email TEXT NOT NULL,
			customer_phone TEXT NOT NULL DEFAULT '',
			shipping_address TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
			updated_at TIMESTAMP NOT NULL DEFAULT current_timestamp
		)`,

		`CREATE TABLE IF NOT EXISTS contact_messages (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_contact_messages'),
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			subject TEXT NOT NULL,
			message TEXT NOT NULL,
			is_read BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}

func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_designs_active ON designs (is_active)`,
		`CREATE INDEX IF NOT EXISTS idx_designs_category ON designs (category_id)`,
		`CREATE INDEX IF NOT EXISTS idx_design_files_design ON design_files (design_id)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_user ON projects (user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders (user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_contact_unread ON contact_messages (is_read)`,
	}

	for _, stmt := range indexes {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
