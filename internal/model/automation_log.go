// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Automation log outcome statuses. A skipped hotel is recorded as success;
// skipping is not an error.
const (
	AutomationStatusSuccess = "success"
	AutomationStatusError   = "error"
)

// AutomationLog is an append-only audit record of one sweep attempt for one
// hotel. Entries are never updated or deleted.
type AutomationLog struct {
	ID        int64         `json:"id"`
	HotelID   int64         `json:"hotel_id"`
	PostID    sql.NullInt64 `json:"post_id,omitempty"`
	RunID     string        `json:"run_id"`
	Status    string        `json:"status"`
	Message   string        `json:"message"`
	CreatedAt time.Time     `json:"created_at"`
}
