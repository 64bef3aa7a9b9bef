// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// PostView is one recorded page view of a post.
type PostView struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	HotelID   int64     `json:"hotel_id"`
	Device    string    `json:"device"`
	Browser   string    `json:"browser"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"created_at"`
}

// ViewCount is an aggregated view count keyed by a dimension value such as
// a device class or country code.
type ViewCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// PostViewCount is an aggregated view count for a single post.
type PostViewCount struct {
	PostID int64  `json:"post_id"`
	Title  string `json:"title"`
	Count  int64  `json:"count"`
}
