// FlueCraft - 3D Chimney Design Catalog and Asset Service
// Copyright 2026 FlueCraft Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fluecraft/fluecraft

package database

import (
	"context"
	"fmt"

	"github.com/fluecraft/fluecraft/internal/models"
)

// GetStats returns the user's project and order counts plus the size of the
// active catalog.
func (db *DB) GetStats(ctx context.Context, userID int64) (*models.Stats, error) {
	var s models.Stats

	err := db.conn.QueryRowContext(ctx, `SELECT
		(SELECT count(*) FROM projects WHERE user_id = ?),
		(SELECT count(*) FROM orders WHERE user_id = ?),
		(SELECT count(*) FROM designs WHERE is_active)`,
		userID, userID,
	).Scan(&s.ProjectsCount, &s.OrdersCount, &s.DesignsCount)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	return &s, nil
}
