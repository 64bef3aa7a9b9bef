// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strconv"

	"github.com/redeblog/redeblog/internal/perm"
	"github.com/redeblog/redeblog/internal/store"
)

// RunAutomation triggers an automation sweep over all enabled hotels and
// returns the per-hotel outcomes. Superadmin only.
func (h *Handler) RunAutomation(w http.ResponseWriter, r *http.Request) {
	if !h.requireSuperadmin(w, r) {
		return
	}
	if h.sweeper == nil {
		WriteError(w, http.StatusServiceUnavailable, "unavailable", "automation is not configured")
		return
	}

	result, err := h.sweeper.Run(r.Context())
	if err != nil {
		h.log.Error("manual automation run failed", "error", err)
		WriteInternalError(w, "automation run failed")
		return
	}
	WriteSuccess(w, result, nil)
}

// ListAutomationLogs returns the automation audit trail, newest first.
// Superadmins see everything; anyone with analytics access on a hotel may
// filter to that hotel with ?hotel_id=.
func (h *Handler) ListAutomationLogs(w http.ResponseWriter, r *http.Request) {
	hotelID, _ := strconv.ParseInt(r.URL.Query().Get("hotel_id"), 10, 64)

	if hotelID == 0 {
		if !h.requireSuperadmin(w, r) {
			return
		}
	} else {
		// loadHotelByID enforces view_analytics against the hotel's network.
		if _, ok := h.loadHotelByID(w, r, hotelID); !ok {
			return
		}
	}

	h.writeAutomationLogs(w, r, hotelID)
}

// HotelAutomationLogs returns one hotel's automation audit trail. Requires
// view_analytics on the hotel.
func (h *Handler) HotelAutomationLogs(w http.ResponseWriter, r *http.Request) {
	hotel, ok := h.loadHotel(w, r, perm.ActionViewAnalytics)
	if !ok {
		return
	}
	h.writeAutomationLogs(w, r, hotel.ID)
}

func (h *Handler) writeAutomationLogs(w http.ResponseWriter, r *http.Request, hotelID int64) {
	limit, offset, page := pagination(r)
	logs, err := h.queries.ListAutomationLogs(r.Context(), store.ListAutomationLogsParams{
		HotelID: hotelID, Limit: limit, Offset: offset,
	})
	if err != nil {
		h.log.Error("listing automation logs failed", "error", err)
		WriteInternalError(w, "database error")
		return
	}
	WriteSuccess(w, logs, &Meta{Page: page, PerPage: limit})
}
