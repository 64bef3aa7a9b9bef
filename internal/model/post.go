// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Post publication states. The state is derived from the timestamps,
// never stored.
const (
	PostStatusDraft     = "draft"
	PostStatusScheduled = "scheduled"
	PostStatusPublished = "published"
)

// Post is a blog article belonging to a hotel.
type Post struct {
	ID             int64        `json:"id"`
	HotelID        int64        `json:"hotel_id"`
	AuthorID       int64        `json:"author_id"`
	Title          string       `json:"title"`
	Slug           string       `json:"slug"`
	Content        string       `json:"content"` // markdown
	ImageURL       string       `json:"image_url,omitempty"`
	SEODescription string       `json:"seo_description,omitempty"`
	PublishedAt    sql.NullTime `json:"published_at,omitempty"`
	ScheduledAt    sql.NullTime `json:"scheduled_at,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// Status derives the publication state at the given instant:
// published if published_at is set or scheduled_at has passed,
// scheduled if scheduled_at is set and in the future, draft otherwise.
func (p *Post) Status(now time.Time) string {
	if p.PublishedAt.Valid {
		return PostStatusPublished
	}
	if p.ScheduledAt.Valid {
		if p.ScheduledAt.Time.After(now) {
			return PostStatusScheduled
		}
		return PostStatusPublished
	}
	return PostStatusDraft
}

// IsPublished reports whether the post is visible to the public at now.
func (p *Post) IsPublished(now time.Time) bool {
	return p.Status(now) == PostStatusPublished
}
