// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/redeblog/redeblog/internal/model"
)

const hotelColumns = `id, network_id, owner_id, name, slug, city, state, country,
	travel_type, audience, season, local_events, custom_domain,
	auto_generate_posts, post_frequency, max_monthly_posts, theme_preferences,
	last_auto_post_at, created_at, updated_at`

func scanHotel(row interface{ Scan(...any) error }) (model.Hotel, error) {
	var h model.Hotel
	err := row.Scan(&h.ID, &h.NetworkID, &h.OwnerID, &h.Name, &h.Slug,
		&h.City, &h.State, &h.Country, &h.TravelType, &h.Audience, &h.Season,
		&h.LocalEvents, &h.CustomDomain, &h.AutoGeneratePosts, &h.PostFrequency,
		&h.MaxMonthlyPosts, &h.ThemePreferences, &h.LastAutoPostAt,
		&h.CreatedAt, &h.UpdatedAt)
	return h, err
}

// CreateHotelParams are the fields for CreateHotel.
type CreateHotelParams struct {
	NetworkID         int64
	OwnerID           int64
	Name              string
	Slug              string
	City              string
	State             string
	Country           string
	TravelType        string
	Audience          string
	Season            string
	LocalEvents       string
	CustomDomain      sql.NullString
	AutoGeneratePosts bool
	PostFrequency     string
	MaxMonthlyPosts   sql.NullInt64
	ThemePreferences  string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CreateHotel inserts a new hotel and returns it.
func (q *Queries) CreateHotel(ctx context.Context, arg CreateHotelParams) (model.Hotel, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO hotels (network_id, owner_id, name, slug, city, state, country,
			travel_type, audience, season, local_events, custom_domain,
			auto_generate_posts, post_frequency, max_monthly_posts,
			theme_preferences, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.NetworkID, arg.OwnerID, arg.Name, arg.Slug, arg.City, arg.State,
		arg.Country, arg.TravelType, arg.Audience, arg.Season, arg.LocalEvents,
		arg.CustomDomain, arg.AutoGeneratePosts, arg.PostFrequency,
		arg.MaxMonthlyPosts, arg.ThemePreferences, arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return model.Hotel{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Hotel{}, err
	}
	return q.GetHotelByID(ctx, id)
}

// GetHotelByID fetches a hotel by primary key.
func (q *Queries) GetHotelByID(ctx context.Context, id int64) (model.Hotel, error) {
	return scanHotel(q.db.QueryRowContext(ctx,
		"SELECT "+hotelColumns+" FROM hotels WHERE id = ?", id))
}

// GetHotelBySlug fetches a hotel by its slug within a network.
func (q *Queries) GetHotelBySlug(ctx context.Context, networkID int64, slug string) (model.Hotel, error) {
	return scanHotel(q.db.QueryRowContext(ctx,
		"SELECT "+hotelColumns+" FROM hotels WHERE network_id = ? AND slug = ?",
		networkID, slug))
}

// GetHotelByDomain fetches the hotel serving the given custom domain.
func (q *Queries) GetHotelByDomain(ctx context.Context, domain string) (model.Hotel, error) {
	return scanHotel(q.db.QueryRowContext(ctx,
		"SELECT "+hotelColumns+" FROM hotels WHERE custom_domain = ?", domain))
}

// ListHotelsByNetwork returns all hotels of a network ordered by name.
func (q *Queries) ListHotelsByNetwork(ctx context.Context, networkID int64) ([]model.Hotel, error) {
	return q.listHotelsQuery(ctx,
		"SELECT "+hotelColumns+" FROM hotels WHERE network_id = ? ORDER BY name",
		networkID)
}

// ListAutomationHotels returns all hotels with automatic post generation
// enabled, ordered by id so sweep runs visit hotels in a stable order.
func (q *Queries) ListAutomationHotels(ctx context.Context) ([]model.Hotel, error) {
	return q.listHotelsQuery(ctx,
		"SELECT "+hotelColumns+" FROM hotels WHERE auto_generate_posts = ? ORDER BY id",
		true)
}

func (q *Queries) listHotelsQuery(ctx context.Context, query string, args ...any) ([]model.Hotel, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var hotels []model.Hotel
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		hotels = append(hotels, h)
	}
	return hotels, rows.Err()
}

// UpdateHotelParams are the mutable fields for UpdateHotel.
type UpdateHotelParams struct {
	ID                int64
	Name              string
	Slug              string
	City              string
	State             string
	Country           string
	TravelType        string
	Audience          string
	Season            string
	LocalEvents       string
	CustomDomain      sql.NullString
	AutoGeneratePosts bool
	PostFrequency     string
	MaxMonthlyPosts   sql.NullInt64
	ThemePreferences  string
	UpdatedAt         time.Time
}

// UpdateHotel updates a hotel's profile and automation settings.
func (q *Queries) UpdateHotel(ctx context.Context, arg UpdateHotelParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE hotels SET name = ?, slug = ?, city = ?, state = ?, country = ?,
			travel_type = ?, audience = ?, season = ?, local_events = ?,
			custom_domain = ?, auto_generate_posts = ?, post_frequency = ?,
			max_monthly_posts = ?, theme_preferences = ?, updated_at = ?
		 WHERE id = ?`,
		arg.Name, arg.Slug, arg.City, arg.State, arg.Country, arg.TravelType,
		arg.Audience, arg.Season, arg.LocalEvents, arg.CustomDomain,
		arg.AutoGeneratePosts, arg.PostFrequency, arg.MaxMonthlyPosts,
		arg.ThemePreferences, arg.UpdatedAt, arg.ID)
	return err
}

// HotelSlugExists reports whether a hotel slug is already taken within a
// network, excluding the given hotel id (pass 0 when creating).
func (q *Queries) HotelSlugExists(ctx context.Context, networkID int64, slug string, excludeID int64) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM hotels WHERE network_id = ? AND slug = ? AND id != ?",
		networkID, slug, excludeID).Scan(&n)
	return n > 0, err
}

// HotelDomainExists reports whether a custom domain is already claimed by
// another hotel, excluding the given hotel id (pass 0 when creating).
func (q *Queries) HotelDomainExists(ctx context.Context, domain string, excludeID int64) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM hotels WHERE custom_domain = ? AND id != ?",
		domain, excludeID).Scan(&n)
	return n > 0, err
}

// DeleteHotel removes a hotel. Posts, roles and logs cascade.
func (q *Queries) DeleteHotel(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM hotels WHERE id = ?", id)
	return err
}

// ClaimHotelAutoPost atomically advances last_auto_post_at from prev to
// claimedAt. It returns false when another process already advanced the
// timestamp, which keeps overlapping sweep runs from double-posting for the
// same hotel.
func (q *Queries) ClaimHotelAutoPost(ctx context.Context, hotelID int64, prev sql.NullTime, claimedAt time.Time) (bool, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE hotels SET last_auto_post_at = ?
		 WHERE id = ? AND ((last_auto_post_at IS NULL AND ? IS NULL) OR last_auto_post_at = ?)`,
		claimedAt, hotelID, prev, prev)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ReleaseHotelAutoPost reverts a claim after a failed generation so the hotel
// becomes eligible again on the next sweep. It only reverts if the timestamp
// still holds the claim value.
func (q *Queries) ReleaseHotelAutoPost(ctx context.Context, hotelID int64, prev sql.NullTime, claimedAt time.Time) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE hotels SET last_auto_post_at = ? WHERE id = ? AND last_auto_post_at = ?",
		prev, hotelID, claimedAt)
	return err
}
