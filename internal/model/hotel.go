// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Automated post frequencies.
const (
	FrequencyDaily    = "daily"
	FrequencyWeekly   = "weekly"
	FrequencyBiweekly = "biweekly"
)

// Hotel is the second-level tenant: the unit of blog ownership and
// automation configuration.
type Hotel struct {
	ID        int64  `json:"id"`
	NetworkID int64  `json:"network_id"`
	OwnerID   int64  `json:"owner_id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Country   string `json:"country,omitempty"`

	// Travel profile fields, free text used only as prompt context.
	TravelType  string `json:"travel_type,omitempty"`
	Audience    string `json:"audience,omitempty"`
	Season      string `json:"season,omitempty"`
	LocalEvents string `json:"local_events,omitempty"`

	CustomDomain sql.NullString `json:"custom_domain,omitempty"`

	// Automation configuration.
	AutoGeneratePosts bool          `json:"auto_generate_posts"`
	PostFrequency     string        `json:"post_frequency,omitempty"`
	MaxMonthlyPosts   sql.NullInt64 `json:"max_monthly_posts,omitempty"`
	ThemePreferences  string        `json:"theme_preferences,omitempty"`
	LastAutoPostAt    sql.NullTime  `json:"last_auto_post_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsValidFrequency reports whether freq is a recognized automation frequency.
func IsValidFrequency(freq string) bool {
	switch freq {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly:
		return true
	}
	return false
}
