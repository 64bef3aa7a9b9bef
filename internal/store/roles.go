// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/redeblog/redeblog/internal/model"
)

// GrantNetworkRoleParams are the fields for GrantNetworkRole.
type GrantNetworkRoleParams struct {
	UserID    int64
	NetworkID int64
	Role      string
	CreatedAt time.Time
}

// GrantNetworkRole assigns a network-scoped role to a user. Granting again
// for the same user and network replaces the existing role.
func (q *Queries) GrantNetworkRole(ctx context.Context, arg GrantNetworkRoleParams) error {
	if _, err := q.db.ExecContext(ctx,
		"DELETE FROM network_roles WHERE user_id = ? AND network_id = ?",
		arg.UserID, arg.NetworkID); err != nil {
		return err
	}
	_, err := q.db.ExecContext(ctx,
		"INSERT INTO network_roles (user_id, network_id, role, created_at) VALUES (?, ?, ?, ?)",
		arg.UserID, arg.NetworkID, arg.Role, arg.CreatedAt)
	return err
}

// RevokeNetworkRole removes a user's network-scoped role.
func (q *Queries) RevokeNetworkRole(ctx context.Context, userID, networkID int64) error {
	_, err := q.db.ExecContext(ctx,
		"DELETE FROM network_roles WHERE user_id = ? AND network_id = ?",
		userID, networkID)
	return err
}

// ListNetworkRolesByUser returns all network role grants for a user.
func (q *Queries) ListNetworkRolesByUser(ctx context.Context, userID int64) ([]model.NetworkRole, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, user_id, network_id, role, created_at
		 FROM network_roles WHERE user_id = ? ORDER BY network_id`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var roles []model.NetworkRole
	for rows.Next() {
		var r model.NetworkRole
		if err := rows.Scan(&r.ID, &r.UserID, &r.NetworkID, &r.Role, &r.CreatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}

// ListNetworkRolesByNetwork returns all role grants on a network.
func (q *Queries) ListNetworkRolesByNetwork(ctx context.Context, networkID int64) ([]model.NetworkRole, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, user_id, network_id, role, created_at
		 FROM network_roles WHERE network_id = ? ORDER BY user_id`, networkID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var roles []model.NetworkRole
	for rows.Next() {
		var r model.NetworkRole
		if err := rows.Scan(&r.ID, &r.UserID, &r.NetworkID, &r.Role, &r.CreatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}

// GrantHotelRoleParams are the fields for GrantHotelRole.
type GrantHotelRoleParams struct {
	UserID    int64
	HotelID   int64
	Role      string
	CreatedAt time.Time
}

// GrantHotelRole assigns a hotel-scoped role to a user. Granting again for
// the same user and hotel replaces the existing role.
func (q *Queries) GrantHotelRole(ctx context.Context, arg GrantHotelRoleParams) error {
	if _, err := q.db.ExecContext(ctx,
		"DELETE FROM hotel_roles WHERE user_id = ? AND hotel_id = ?",
		arg.UserID, arg.HotelID); err != nil {
		return err
	}
	_, err := q.db.ExecContext(ctx,
		"INSERT INTO hotel_roles (user_id, hotel_id, role, created_at) VALUES (?, ?, ?, ?)",
		arg.UserID, arg.HotelID, arg.Role, arg.CreatedAt)
	return err
}

// RevokeHotelRole removes a user's hotel-scoped role.
func (q *Queries) RevokeHotelRole(ctx context.Context, userID, hotelID int64) error {
	_, err := q.db.ExecContext(ctx,
		"DELETE FROM hotel_roles WHERE user_id = ? AND hotel_id = ?",
		userID, hotelID)
	return err
}

const hotelRoleColumns = `hr.id, hr.user_id, hr.hotel_id, h.network_id, hr.role, hr.created_at`

// ListHotelRolesByUser returns all hotel role grants for a user. The owning
// network id is joined in so permission checks need no extra lookups.
func (q *Queries) ListHotelRolesByUser(ctx context.Context, userID int64) ([]model.HotelRole, error) {
	return q.listHotelRolesQuery(ctx,
		`SELECT `+hotelRoleColumns+` FROM hotel_roles hr
		 JOIN hotels h ON h.id = hr.hotel_id
		 WHERE hr.user_id = ? ORDER BY hr.hotel_id`, userID)
}

// ListHotelRolesByHotel returns all role grants on a hotel.
func (q *Queries) ListHotelRolesByHotel(ctx context.Context, hotelID int64) ([]model.HotelRole, error) {
	return q.listHotelRolesQuery(ctx,
		`SELECT `+hotelRoleColumns+` FROM hotel_roles hr
		 JOIN hotels h ON h.id = hr.hotel_id
		 WHERE hr.hotel_id = ? ORDER BY hr.user_id`, hotelID)
}

func (q *Queries) listHotelRolesQuery(ctx context.Context, query string, args ...any) ([]model.HotelRole, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var roles []model.HotelRole
	for rows.Next() {
		var r model.HotelRole
		if err := rows.Scan(&r.ID, &r.UserID, &r.HotelID, &r.NetworkID, &r.Role, &r.CreatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}
