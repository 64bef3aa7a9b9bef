// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Media is an uploaded image belonging to a hotel.
type Media struct {
	ID         int64     `json:"id"`
	HotelID    int64     `json:"hotel_id"`
	UploaderID int64     `json:"uploader_id"`
	Filename   string    `json:"filename"`
	Path       string    `json:"path"`
	MimeType   string    `json:"mime_type"`
	Size       int64     `json:"size"`
	Width      int64     `json:"width"`
	Height     int64     `json:"height"`
	CreatedAt  time.Time `json:"created_at"`
}
