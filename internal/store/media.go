// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/redeblog/redeblog/internal/model"
)

const mediaColumns = "id, hotel_id, uploader_id, filename, path, mime_type, size, width, height, created_at"

func scanMedia(row interface{ Scan(...any) error }) (model.Media, error) {
	var m model.Media
	err := row.Scan(&m.ID, &m.HotelID, &m.UploaderID, &m.Filename, &m.Path,
		&m.MimeType, &m.Size, &m.Width, &m.Height, &m.CreatedAt)
	return m, err
}

// CreateMediaParams are the fields for CreateMedia.
type CreateMediaParams struct {
	HotelID    int64
	UploaderID int64
	Filename   string
	Path       string
	MimeType   string
	Size       int64
	Width      int64
	Height     int64
	CreatedAt  time.Time
}

// CreateMedia records an uploaded file and returns it.
func (q *Queries) CreateMedia(ctx context.Context, arg CreateMediaParams) (model.Media, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO media (hotel_id, uploader_id, filename, path, mime_type, size, width, height, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.HotelID, arg.UploaderID, arg.Filename, arg.Path, arg.MimeType,
		arg.Size, arg.Width, arg.Height, arg.CreatedAt)
	if err != nil {
		return model.Media{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Media{}, err
	}
	return q.GetMediaByID(ctx, id)
}

// GetMediaByID fetches a media record by primary key.
func (q *Queries) GetMediaByID(ctx context.Context, id int64) (model.Media, error) {
	return scanMedia(q.db.QueryRowContext(ctx,
		"SELECT "+mediaColumns+" FROM media WHERE id = ?", id))
}

// ListMediaByHotel returns a hotel's media records, newest first.
func (q *Queries) ListMediaByHotel(ctx context.Context, hotelID int64) ([]model.Media, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+mediaColumns+" FROM media WHERE hotel_id = ? ORDER BY created_at DESC, id DESC",
		hotelID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var media []model.Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		media = append(media, m)
	}
	return media, rows.Err()
}

// DeleteMedia removes a media record.
func (q *Queries) DeleteMedia(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM media WHERE id = ?", id)
	return err
}
