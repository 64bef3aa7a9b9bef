// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redeblog/redeblog/internal/model"
	"github.com/redeblog/redeblog/internal/store"
	"github.com/redeblog/redeblog/internal/testutil"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		ua      string
		device  string
		browser string
	}{
		{
			name:    "desktop chrome",
			ua:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			device:  DeviceDesktop,
			browser: "Chrome",
		},
		{
			name:    "iphone safari",
			ua:      "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
			device:  DeviceMobile,
			browser: "Safari",
		},
		{
			name:   "googlebot",
			ua:     "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
			device: DeviceBot,
		},
		{
			name:   "empty user agent is desktop",
			ua:     "",
			device: DeviceDesktop,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device, browser := Classify(tt.ua)
			assert.Equal(t, tt.device, device)
			if tt.browser != "" {
				assert.Equal(t, tt.browser, browser)
			}
		})
	}
}

func TestRecordViewSkipsBots(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, q, "owner@example.com", model.RoleAdmin)
	net := testutil.CreateTestNetwork(t, q, owner.ID, "rede-a")
	hotel := testutil.CreateTestHotel(t, q, net.ID, owner.ID, "praia-hotel")

	now := time.Now().UTC()
	post, err := q.CreatePost(ctx, store.CreatePostParams{
		HotelID: hotel.ID, AuthorID: owner.ID, Title: "Hello", Slug: "hello",
		Content: "body", CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	tracker, err := NewTracker(q, "", testutil.TestLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = tracker.Close() })

	tracker.RecordView(ctx, post, "Mozilla/5.0 (compatible; Googlebot/2.1)", "203.0.113.9:1234")
	tracker.RecordView(ctx, post, "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0.0.0", "203.0.113.9:1234")

	n, err := q.CountViewsByHotel(ctx, hotel.ID, now.Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
