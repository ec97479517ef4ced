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

// CreateContactMessage stores a contact form submission.
func (db *DB) CreateContactMessage(ctx context.Context, m *models.ContactMessage) error {
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO contact_messages (name, email, subject, message)
		VALUES (?, ?, ?, ?) RETURNING id, created_at`,
		m.Name, m.Email, m.Subject, m.Message,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contact message: %w", err)
	}
	return nil
}

// GetContactMessage retrieves one message by ID.
func (db *DB) GetContactMessage(ctx context.Context, id int64) (*models.ContactMessage, error) {
	var m models.ContactMessage
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, email, subject, message, is_read, created_at
		FROM contact_messages WHERE id = ?`, id,
	).Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.IsRead, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact message: %w", err)
	}
	return &m, nil
}

// ListContactMessages returns messages newest-first, optionally unread only,
// with the total count.
func (db *DB) ListContactMessages(ctx context.Context, unreadOnly bool, limit, offset int) ([]models.ContactMessage, int, error) {
	where := ``
	if unreadOnly {
		where = ` WHERE NOT is_read`
	}

	var total int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT count(*) FROM contact_messages`+where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count contact messages: %w", err)
	}

	query := `SELECT id, name, email, subject, message, is_read, created_at
		FROM contact_messages` + where + ` ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contact messages: %w", err)
	}
	defer closeQuietly(rows)

	messages := []models.ContactMessage{}
	for rows.Next() {
		var m models.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan contact message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, total, rows.Err()
}

// MarkContactMessageRead flags a message as handled.
func (db *DB) MarkContactMessageRead(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE contact_messages SET is_read = true WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark contact message read: %w", err)
	}
	return requireRowsAffected(res)
}

// DeleteContactMessage removes a message.
func (db *DB) DeleteContactMessage(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM contact_messages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact message: %w", err)
	}
	return requireRowsAffected(res)
}
