// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package analytics records post views with device, browser and country
// breakdowns.
package analytics

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/mileusna/useragent"
	"github.com/oschwald/maxminddb-golang"

	"github.com/redeblog/redeblog/internal/model"
	"github.com/redeblog/redeblog/internal/store"
)

// Device classes.
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceBot     = "bot"
)

// Tracker records post views. The GeoIP database is optional; without it
// country stays empty.
type Tracker struct {
	queries *store.Queries
	geo     *maxminddb.Reader
	log     *slog.Logger
}

// NewTracker creates a tracker. geoipPath may be empty to disable country
// lookups.
func NewTracker(queries *store.Queries, geoipPath string, log *slog.Logger) (*Tracker, error) {
	t := &Tracker{queries: queries, log: log}
	if geoipPath != "" {
		reader, err := maxminddb.Open(geoipPath)
		if err != nil {
			return nil, err
		}
		t.geo = reader
	}
	return t, nil
}

// Close releases the GeoIP reader.
func (t *Tracker) Close() error {
	if t.geo != nil {
		return t.geo.Close()
	}
	return nil
}

// RecordView stores one view of a post. Bot traffic is classified and
// dropped. Recording failures are logged, never surfaced to the reader's
// request.
func (t *Tracker) RecordView(ctx context.Context, post model.Post, userAgent, remoteAddr string) {
	device, browser := Classify(userAgent)
	if device == DeviceBot {
		return
	}

	err := t.queries.CreatePostView(ctx, store.CreatePostViewParams{
		PostID:    post.ID,
		HotelID:   post.HotelID,
		Device:    device,
		Browser:   browser,
		Country:   t.country(remoteAddr),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.log.Error("recording post view failed", "post_id", post.ID, "error", err)
	}
}

// Classify maps a User-Agent header to a device class and browser name.
func Classify(uaString string) (device, browser string) {
	ua := useragent.Parse(uaString)
	switch {
	case ua.Bot:
		device = DeviceBot
	case ua.Tablet:
		device = DeviceTablet
	case ua.Mobile:
		device = DeviceMobile
	default:
		device = DeviceDesktop
	}
	return device, ua.Name
}

func (t *Tracker) country(remoteAddr string) string {
	if t.geo == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return ""
	}

	var record struct {
		Country struct {
			ISOCode string `maxminddb:"iso_code"`
		} `maxminddb:"country"`
	}
	if err := t.geo.Lookup(ip, &record); err != nil {
		return ""
	}
	return record.Country.ISOCode
}
