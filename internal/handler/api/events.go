// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/redeblog/redeblog/internal/store"
)

// ListEvents returns entries from the persistent event log, newest first.
// Superadmin only; level and category query parameters filter the result.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	if !h.requireSuperadmin(w, r) {
		return
	}

	limit, offset, page := pagination(r)
	events, err := h.queries.ListEvents(r.Context(), store.ListEventsParams{
		Level:    r.URL.Query().Get("level"),
		Category: r.URL.Query().Get("category"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		h.log.Error("listing events failed", "error", err)
		WriteInternalError(w, "database error")
		return
	}
	WriteSuccess(w, events, &Meta{Page: page, PerPage: limit})
}
