// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package automation

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/redeblog/redeblog/internal/model"
)

func autoHotel(freq string, last sql.NullTime, cap sql.NullInt64) model.Hotel {
	return model.Hotel{
		ID:                1,
		AutoGeneratePosts: true,
		PostFrequency:     freq,
		LastAutoPostAt:    last,
		MaxMonthlyPosts:   cap,
	}
}

func at(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: true}
}

func TestShouldCreatePost(t *testing.T) {
	now := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		hotel    model.Hotel
		monthly  int64
		eligible bool
		reason   string
	}{
		{
			name:   "automation disabled",
			hotel:  model.Hotel{PostFrequency: model.FrequencyDaily},
			reason: ReasonDisabled,
		},
		{
			name:     "never posted passes frequency",
			hotel:    autoHotel(model.FrequencyBiweekly, sql.NullTime{}, sql.NullInt64{}),
			eligible: true,
		},
		{
			name:     "daily due after 25 hours",
			hotel:    autoHotel(model.FrequencyDaily, at(now.Add(-25*time.Hour)), sql.NullInt64{}),
			eligible: true,
		},
		{
			name:   "daily not due after 23 hours",
			hotel:  autoHotel(model.FrequencyDaily, at(now.Add(-23*time.Hour)), sql.NullInt64{}),
			reason: ReasonFrequency,
		},
		{
			name: "weekly just under seven days",
			hotel: autoHotel(model.FrequencyWeekly,
				at(now.Add(-7*24*time.Hour+time.Minute)), sql.NullInt64{}),
			reason: ReasonFrequency,
		},
		{
			name: "weekly at exactly seven days",
			hotel: autoHotel(model.FrequencyWeekly,
				at(now.Add(-7*24*time.Hour)), sql.NullInt64{}),
			eligible: true,
		},
		{
			name:     "biweekly due after 15 days",
			hotel:    autoHotel(model.FrequencyBiweekly, at(now.Add(-15*24*time.Hour)), sql.NullInt64{}),
			eligible: true,
		},
		{
			name:   "unknown frequency fails closed",
			hotel:  autoHotel("hourly", sql.NullTime{}, sql.NullInt64{}),
			reason: ReasonFrequency,
		},
		{
			name:   "empty frequency fails closed",
			hotel:  autoHotel("", sql.NullTime{}, sql.NullInt64{}),
			reason: ReasonFrequency,
		},
		{
			name:    "monthly cap reached",
			hotel:   autoHotel(model.FrequencyDaily, sql.NullTime{}, sql.NullInt64{Int64: 4, Valid: true}),
			monthly: 4,
			reason:  ReasonMonthlyLimit,
		},
		{
			name:     "monthly cap not reached",
			hotel:    autoHotel(model.FrequencyDaily, sql.NullTime{}, sql.NullInt64{Int64: 4, Valid: true}),
			monthly:  3,
			eligible: true,
		},
		{
			name:     "null cap means unlimited",
			hotel:    autoHotel(model.FrequencyDaily, sql.NullTime{}, sql.NullInt64{}),
			monthly:  1000,
			eligible: true,
		},
		{
			// The frequency gate is evaluated before the cap, so the skip
			// reason names the frequency even when the cap is also hit.
			name: "frequency reported before cap",
			hotel: autoHotel(model.FrequencyWeekly,
				at(now.Add(-time.Hour)), sql.NullInt64{Int64: 1, Valid: true}),
			monthly: 5,
			reason:  ReasonFrequency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ShouldCreatePost(tt.hotel, now, tt.monthly)
			assert.Equal(t, tt.eligible, d.Eligible)
			assert.Equal(t, tt.reason, d.Reason)
		})
	}
}

func TestMonthStart(t *testing.T) {
	now := time.Date(2026, 2, 28, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), MonthStart(now))
}
