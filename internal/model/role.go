// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// NetworkRole is a scoped grant of the admin role to a user for one network.
// The (user, network) pair is unique.
type NetworkRole struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	NetworkID int64     `json:"network_id"`
	Role      string    `json:"role"` // always "admin"
	CreatedAt time.Time `json:"created_at"`
}

// HotelRole is a scoped grant of editor or viewer to a user for one hotel.
// The (user, hotel) pair is unique.
type HotelRole struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	HotelID   int64     `json:"hotel_id"`
	NetworkID int64     `json:"network_id"` // denormalized for membership checks
	Role      string    `json:"role"`       // "editor" or "viewer"
	CreatedAt time.Time `json:"created_at"`
}

// IsValidNetworkRole reports whether role may be granted at network scope.
func IsValidNetworkRole(role string) bool {
	return role == RoleAdmin
}

// IsValidHotelRole reports whether role may be granted at hotel scope.
func IsValidHotelRole(role string) bool {
	return role == RoleEditor || role == RoleViewer
}
