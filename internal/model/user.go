// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the
// application including User, Network, Hotel, Post and role assignments.
package model

import (
	"database/sql"
	"time"
)

// Global user roles.
const (
	RoleSuperadmin = "superadmin"
	RoleAdmin      = "admin"
	RoleEditor     = "editor"
	RoleViewer     = "viewer"
)

// User represents a platform user.
type User struct {
	ID           int64        `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Never expose in JSON
	Name         string       `json:"name"`
	Role         string       `json:"role"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	LastLoginAt  sql.NullTime `json:"last_login_at,omitempty"`
}

// IsSuperadmin returns true if the user has the global superadmin role.
func (u *User) IsSuperadmin() bool {
	return u.Role == RoleSuperadmin
}

// IsValidGlobalRole reports whether role is one of the recognized global roles.
func IsValidGlobalRole(role string) bool {
	switch role {
	case RoleSuperadmin, RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}
