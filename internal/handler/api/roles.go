// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/redeblog/redeblog/internal/model"
	"github.com/redeblog/redeblog/internal/perm"
	"github.com/redeblog/redeblog/internal/store"
)

type grantRoleRequest struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
}

// ListNetworkRoles returns the role grants on a network.
func (h *Handler) ListNetworkRoles(w http.ResponseWriter, r *http.Request) {
	network, ok := h.loadNetwork(w, r, perm.ActionManageUsers)
	if !ok {
		return
	}

	roles, err := h.queries.ListNetworkRolesByNetwork(r.Context(), network.ID)
	if err != nil {
		h.log.Error("listing network roles failed", "network_id", network.ID, "error", err)
		WriteInternalError(w, "database error")
		return
	}
	WriteSuccess(w, roles, nil)
}

// GrantNetworkRole grants the admin role on a network. Granting again for
// the same user replaces the previous grant.
func (h *Handler) GrantNetworkRole(w http.ResponseWriter, r *http.Request) {
	network, ok := h.loadNetwork(w, r, perm.ActionManageUsers)
	if !ok {
		return
	}

	req, ok := h.decodeGrant(w, r)
	if !ok {
		return
	}
	if !model.IsValidNetworkRole(req.Role) {
		WriteBadRequest(w, "role must be admin at network scope")
		return
	}

	err := h.queries.GrantNetworkRole(r.Context(), store.GrantNetworkRoleParams{
		UserID:    req.UserID,
		NetworkID: network.ID,
		Role:      req.Role,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		h.log.Error("granting network role failed", "network_id", network.ID,
			"user_id", req.UserID, "error", err)
		WriteInternalError(w, "database error")
		return
	}
	WriteCreated(w, map[string]any{"user_id": req.UserID, "network_id": network.ID, "role": req.Role})
}

// RevokeNetworkRole removes a user's role grant on a network.
func (h *Handler) RevokeNetworkRole(w http.ResponseWriter, r *http.Request) {
	network, ok := h.loadNetwork(w, r, perm.ActionManageUsers)
	if !ok {
		return
	}
	userID, err := urlID(r, "userID")
	if err != nil {
		WriteBadRequest(w, "invalid user id")
		return
	}

	if err := h.queries.RevokeNetworkRole(r.Context(), userID, network.ID); err != nil {
		h.log.Error("revoking network role failed", "network_id", network.ID,
			"user_id", userID, "error", err)
		WriteInternalError(w, "database error")
		return
	}
	WriteNoContent(w)
}

// ListHotelRoles returns the role grants on a hotel.
func (h *Handler) ListHotelRoles(w http.ResponseWriter, r *http.Request) {
	hotel, ok := h.loadHotel(w, r, perm.ActionManageUsers)
	if !ok {
		return
	}

	roles, err := h.queries.ListHotelRolesByHotel(r.Context(), hotel.ID)
	if err != nil {
		h.log.Error("listing hotel roles failed", "hotel_id", hotel.ID, "error", err)
		WriteInternalError(w, "database error")
		return
	}
	WriteSuccess(w, roles, nil)
}

// GrantHotelRole grants editor or viewer on a hotel. Only network admins
// and superadmins reach this; hotel-scoped roles never manage users.
func (h *Handler) GrantHotelRole(w http.ResponseWriter, r *http.Request) {
	hotel, ok := h.loadHotel(w, r, perm.ActionManageUsers)
	if !ok {
		return
	}

	req, ok := h.decodeGrant(w, r)
	if !ok {
		return
	}
	if !model.IsValidHotelRole(req.Role) {
		WriteBadRequest(w, "role must be editor or viewer at hotel scope")
		return
	}

	err := h.queries.GrantHotelRole(r.Context(), store.GrantHotelRoleParams{
		UserID:    req.UserID,
		HotelID:   hotel.ID,
		Role:      req.Role,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		h.log.Error("granting hotel role failed", "hotel_id", hotel.ID,
			"user_id", req.UserID, "error", err)
		WriteInternalError(w, "database error")
		return
	}
	WriteCreated(w, map[string]any{"user_id": req.UserID, "hotel_id": hotel.ID, "role": req.Role})
}

// RevokeHotelRole removes a user's role grant on a hotel.
func (h *Handler) RevokeHotelRole(w http.ResponseWriter, r *http.Request) {
	hotel, ok := h.loadHotel(w, r, perm.ActionManageUsers)
	if !ok {
		return
	}
	userID, err := urlID(r, "userID")
	if err != nil {
		WriteBadRequest(w, "invalid user id")
		return
	}

	if err := h.queries.RevokeHotelRole(r.Context(), userID, hotel.ID); err != nil {
		h.log.Error("revoking hotel role failed", "hotel_id", hotel.ID,
			"user_id", userID, "error", err)
		WriteInternalError(w, "database error")
		return
	}
	WriteNoContent(w)
}

// decodeGrant parses a grant request and verifies the target user exists.
func (h *Handler) decodeGrant(w http.ResponseWriter, r *http.Request) (grantRoleRequest, bool) {
	var req grantRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return req, false
	}
	if req.UserID == 0 {
		WriteBadRequest(w, "user_id is required")
		return req, false
	}
	if _, err := h.queries.GetUserByID(r.Context(), req.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "user not found")
		} else {
			h.log.Error("loading grant target failed", "user_id", req.UserID, "error", err)
			WriteInternalError(w, "database error")
		}
		return req, false
	}
	return req, true
}
