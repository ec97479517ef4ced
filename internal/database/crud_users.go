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

// CreateUser inserts a new user and fills in ID and CreatedAt.
// Returns ErrConflict when the username is taken.
func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (username, email, password_hash, is_staff)
		VALUES (?, ?, ?, ?) RETURNING id, created_at`

	err := db.conn.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.IsStaff,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by primary key.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, is_staff, created_at
		FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByUsername retrieves a user by exact username.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, is_staff, created_at
		FROM users WHERE username = ?`, username)
	return scanUser(row)
}

// UpdateUserEmail changes a user's email address.
func (db *DB) UpdateUserEmail(ctx context.Context, id int64, email string) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET email = ? WHERE id = ?`, email, id)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return requireRowsAffected(res)
}

// EnsureAdminUser creates the staff account on first boot when it does not
// exist yet. passwordHash must already be bcrypt-hashed. Returns true when
// the account was created.
func (db *DB) EnsureAdminUser(ctx context.Context, username, email, passwordHash string) (bool, error) {
	_, err := db.GetUserByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, err
	}

	admin := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		IsStaff:      true,
	}
	if err := db.CreateUser(ctx, admin); err != nil {
		// A concurrent boot may have won the race.
		if errors.Is(err, ErrConflict) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsStaff, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

// requireRowsAffected converts a zero-row write into ErrNotFound.
func requireRowsAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
