// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/redeblog/redeblog/internal/middleware"
	"github.com/redeblog/redeblog/internal/model"
	"github.com/redeblog/redeblog/internal/perm"
)

const (
	defaultAnalyticsDays = 30
	maxAnalyticsDays     = 365
	topPostsLimit        = 10
)

type analyticsResponse struct {
	Days       int64                 `json:"days"`
	TotalViews int64                 `json:"total_views"`
	TopPosts   []model.PostViewCount `json:"top_posts"`
	ByDevice   []model.ViewCount     `json:"by_device"`
	ByBrowser  []model.ViewCount     `json:"by_browser"`
	ByCountry  []model.ViewCount     `json:"by_country"`
}

// HotelAnalytics aggregates a hotel's view counts over a trailing window.
// The window defaults to 30 days and is capped at a year.
func (h *Handler) HotelAnalytics(w http.ResponseWriter, r *http.Request) {
	hotel, ok := h.loadHotel(w, r, perm.ActionViewAnalytics)
	if !ok {
		return
	}

	days, _ := strconv.ParseInt(r.URL.Query().Get("days"), 10, 64)
	if days < 1 || days > maxAnalyticsDays {
		days = defaultAnalyticsDays
	}
	since := time.Now().UTC().AddDate(0, 0, -int(days))

	total, err := h.queries.CountViewsByHotel(r.Context(), hotel.ID, since)
	if err != nil {
		h.log.Error("counting views failed", "hotel_id", hotel.ID, "error", err)
		WriteInternalError(w, "database error")
		return
	}
	top, err := h.queries.TopPostsByViews(r.Context(), hotel.ID, since, topPostsLimit)
	if err != nil {
		h.log.Error("loading top posts failed", "hotel_id", hotel.ID, "error", err)
		WriteInternalError(w, "database error")
		return
	}

	resp := analyticsResponse{Days: days, TotalViews: total, TopPosts: top}
	for _, dim := range []struct {
		name string
		dst  *[]model.ViewCount
	}{
		{"device", &resp.ByDevice},
		{"browser", &resp.ByBrowser},
		{"country", &resp.ByCountry},
	} {
		counts, err := h.queries.ViewsByDimension(r.Context(), hotel.ID, dim.name, since)
		if err != nil {
			h.log.Error("aggregating views failed", "hotel_id", hotel.ID,
				"dimension", dim.name, "error", err)
			WriteInternalError(w, "database error")
			return
		}
		*dim.dst = counts
	}

	WriteSuccess(w, resp, nil)
}

// loadHotelByID is loadHotel for handlers where the hotel id comes from a
// query parameter instead of the URL path. Enforces view_analytics.
func (h *Handler) loadHotelByID(w http.ResponseWriter, r *http.Request, hotelID int64) (model.Hotel, bool) {
	hotel, err := h.queries.GetHotelByID(r.Context(), hotelID)
	if err != nil {
		h.notFoundOrInternal(w, err, "hotel")
		return model.Hotel{}, false
	}
	actor, _ := middleware.ActorFromContext(r.Context())
	if !h.resolver.HasPermission(actor, perm.ActionViewAnalytics, perm.ResourceHotel, hotel.ID, &hotel.NetworkID) {
		WriteForbidden(w, "not allowed")
		return model.Hotel{}, false
	}
	return hotel, true
}
