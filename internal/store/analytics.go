// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/redeblog/redeblog/internal/model"
)

// CreatePostViewParams are the fields for CreatePostView.
type CreatePostViewParams struct {
	PostID    int64
	HotelID   int64
	Device    string
	Browser   string
	Country   string
	CreatedAt time.Time
}

// CreatePostView records one page view of a post.
func (q *Queries) CreatePostView(ctx context.Context, arg CreatePostViewParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO post_views (post_id, hotel_id, device, browser, country, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		arg.PostID, arg.HotelID, arg.Device, arg.Browser, arg.Country, arg.CreatedAt)
	return err
}

// CountViewsByHotel returns the total recorded views for a hotel since a
// point in time.
func (q *Queries) CountViewsByHotel(ctx context.Context, hotelID int64, since time.Time) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM post_views WHERE hotel_id = ? AND created_at >= ?",
		hotelID, since).Scan(&n)
	return n, err
}

// TopPostsByViews returns a hotel's most viewed posts since a point in time.
func (q *Queries) TopPostsByViews(ctx context.Context, hotelID int64, since time.Time, limit int64) ([]model.PostViewCount, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT pv.post_id, p.title, COUNT(*) AS views
		 FROM post_views pv
		 JOIN posts p ON p.id = pv.post_id
		 WHERE pv.hotel_id = ? AND pv.created_at >= ?
		 GROUP BY pv.post_id, p.title
		 ORDER BY views DESC, pv.post_id
		 LIMIT ?`,
		hotelID, since, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var counts []model.PostViewCount
	for rows.Next() {
		var c model.PostViewCount
		if err := rows.Scan(&c.PostID, &c.Title, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// ViewsByDimension aggregates a hotel's views by the given dimension column.
// Only device, browser and country are accepted.
func (q *Queries) ViewsByDimension(ctx context.Context, hotelID int64, dimension string, since time.Time) ([]model.ViewCount, error) {
	switch dimension {
	case "device", "browser", "country":
	default:
		return nil, nil
	}
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+dimension+`, COUNT(*) AS views
		 FROM post_views
		 WHERE hotel_id = ? AND created_at >= ?
		 GROUP BY `+dimension+`
		 ORDER BY views DESC`,
		hotelID, since)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var counts []model.ViewCount
	for rows.Next() {
		var c model.ViewCount
		if err := rows.Scan(&c.Key, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
