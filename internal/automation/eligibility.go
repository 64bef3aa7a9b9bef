// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package automation implements scheduled post generation: per-hotel
// eligibility rules, the AI generation pipeline and the sweep that ties
// them together.
package automation

import (
	"time"

	"github.com/redeblog/redeblog/internal/model"
)

// Decision is the outcome of an eligibility check. Reason is set when the
// hotel is not eligible.
type Decision struct {
	Eligible bool
	Reason   string
}

// Skip reasons.
const (
	ReasonDisabled     = "automation disabled"
	ReasonFrequency    = "frequency not met"
	ReasonMonthlyLimit = "monthly limit reached"
)

// minimum elapsed time between automated posts per frequency
var frequencyInterval = map[string]time.Duration{
	model.FrequencyDaily:    24 * time.Hour,
	model.FrequencyWeekly:   7 * 24 * time.Hour,
	model.FrequencyBiweekly: 14 * 24 * time.Hour,
}

// ShouldCreatePost decides whether a hotel is due for an automated post at
// the given time. monthlyPostCount is the number of posts already published
// for the hotel in the current calendar month.
//
// A hotel that has never auto-posted passes the frequency check. An
// unrecognized frequency never passes, so a misconfigured hotel cannot post
// on every sweep. The monthly cap is checked last; a NULL cap means
// unlimited.
func ShouldCreatePost(hotel model.Hotel, now time.Time, monthlyPostCount int64) Decision {
	if !hotel.AutoGeneratePosts {
		return Decision{Reason: ReasonDisabled}
	}

	interval, ok := frequencyInterval[hotel.PostFrequency]
	if !ok {
		return Decision{Reason: ReasonFrequency}
	}
	if hotel.LastAutoPostAt.Valid && now.Sub(hotel.LastAutoPostAt.Time) < interval {
		return Decision{Reason: ReasonFrequency}
	}

	if hotel.MaxMonthlyPosts.Valid && monthlyPostCount >= hotel.MaxMonthlyPosts.Int64 {
		return Decision{Reason: ReasonMonthlyLimit}
	}

	return Decision{Eligible: true}
}

// MonthStart returns the beginning of the calendar month containing t, in
// t's location. Used as the window start for the monthly post cap.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
