package model

import (
	"database/sql"
	"testing"
	"time"
)

func TestPostStatus(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		publishedAt sql.NullTime
		scheduledAt sql.NullTime
		expected    string
	}{
		{
			name:     "no timestamps is draft",
			expected: PostStatusDraft,
		},
		{
			name:        "published_at set is published",
			publishedAt: sql.NullTime{Time: now.Add(-time.Hour), Valid: true},
			expected:    PostStatusPublished,
		},
		{
			name:        "future scheduled_at is scheduled",
			scheduledAt: sql.NullTime{Time: now.Add(time.Hour), Valid: true},
			expected:    PostStatusScheduled,
		},
		{
			name:        "past scheduled_at is published",
			scheduledAt: sql.NullTime{Time: now.Add(-time.Hour), Valid: true},
			expected:    PostStatusPublished,
		},
		{
			name:        "published_at wins over future scheduled_at",
			publishedAt: sql.NullTime{Time: now.Add(-time.Hour), Valid: true},
			scheduledAt: sql.NullTime{Time: now.Add(time.Hour), Valid: true},
			expected:    PostStatusPublished,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Post{PublishedAt: tt.publishedAt, ScheduledAt: tt.scheduledAt}
			if got := p.Status(now); got != tt.expected {
				t.Errorf("Status() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestIsValidFrequency(t *testing.T) {
	for _, freq := range []string{FrequencyDaily, FrequencyWeekly, FrequencyBiweekly} {
		if !IsValidFrequency(freq) {
			t.Errorf("IsValidFrequency(%q) = false, want true", freq)
		}
	}
	for _, freq := range []string{"", "monthly", "DAILY", "fortnightly"} {
		if IsValidFrequency(freq) {
			t.Errorf("IsValidFrequency(%q) = true, want false", freq)
		}
	}
}

func TestIsValidHotelRole(t *testing.T) {
	if !IsValidHotelRole(RoleEditor) || !IsValidHotelRole(RoleViewer) {
		t.Error("editor and viewer must be valid hotel roles")
	}
	if IsValidHotelRole(RoleAdmin) || IsValidHotelRole(RoleSuperadmin) || IsValidHotelRole("") {
		t.Error("admin, superadmin and empty must not be valid hotel roles")
	}
}
