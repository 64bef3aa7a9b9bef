// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/redeblog/redeblog/internal/model"
)

// CreateAutomationLogParams are the fields for CreateAutomationLog.
type CreateAutomationLogParams struct {
	HotelID   int64
	PostID    sql.NullInt64
	RunID     string
	Status    string
	Message   string
	CreatedAt time.Time
}

// CreateAutomationLog records one automation attempt for a hotel.
func (q *Queries) CreateAutomationLog(ctx context.Context, arg CreateAutomationLogParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO automation_logs (hotel_id, post_id, run_id, status, message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		arg.HotelID, arg.PostID, arg.RunID, arg.Status, arg.Message, arg.CreatedAt)
	return err
}

// ListAutomationLogsParams are the filter and paging parameters for
// ListAutomationLogs. HotelID 0 means all hotels.
type ListAutomationLogsParams struct {
	HotelID int64
	Limit   int64
	Offset  int64
}

// ListAutomationLogs returns automation log entries, newest first.
func (q *Queries) ListAutomationLogs(ctx context.Context, arg ListAutomationLogsParams) ([]model.AutomationLog, error) {
	query := `SELECT id, hotel_id, post_id, run_id, status, message, created_at
		FROM automation_logs`
	args := []any{}
	if arg.HotelID != 0 {
		query += " WHERE hotel_id = ?"
		args = append(args, arg.HotelID)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, arg.Limit, arg.Offset)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var logs []model.AutomationLog
	for rows.Next() {
		var l model.AutomationLog
		if err := rows.Scan(&l.ID, &l.HotelID, &l.PostID, &l.RunID, &l.Status,
			&l.Message, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// CountAutomationLogsByStatus counts log entries with the given status since
// a point in time. Useful for failure-rate reporting.
func (q *Queries) CountAutomationLogsByStatus(ctx context.Context, status string, since time.Time) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM automation_logs WHERE status = ? AND created_at >= ?",
		status, since).Scan(&n)
	return n, err
}
