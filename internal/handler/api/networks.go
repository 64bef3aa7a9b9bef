// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/redeblog/redeblog/internal/middleware"
	"github.com/redeblog/redeblog/internal/model"
	"github.com/redeblog/redeblog/internal/perm"
	"github.com/redeblog/redeblog/internal/store"
	"github.com/redeblog/redeblog/internal/util"
)

type networkRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// ListNetworks returns the networks the caller may view.
func (h *Handler) ListNetworks(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	networks, err := h.queries.ListNetworks(r.Context())
	if err != nil {
		h.log.Error("listing networks failed", "error", err)
		WriteInternalError(w, "database error")
		return
	}

	visible := make([]model.Network, 0, len(networks))
	for _, n := range networks {
		if h.resolver.HasPermission(actor, perm.ActionView, perm.ResourceNetwork, n.ID, nil) {
			visible = append(visible, n)
		}
	}
	WriteSuccess(w, visible, nil)
}

// CreateNetwork creates a network. Superadmin only; the caller becomes the
// owner unless owner_id is given.
func (h *Handler) CreateNetwork(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	if !user.IsSuperadmin() {
		WriteForbidden(w, "only superadmins create networks")
		return
	}

	var req networkRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	if req.Name == "" {
		WriteBadRequest(w, "name is required")
		return
	}

	slug := req.Slug
	if slug == "" {
		slug = util.Slugify(req.Name)
	}
	if !util.IsValidSlug(slug) {
		WriteBadRequest(w, "invalid slug")
		return
	}
	taken, err := h.queries.NetworkSlugExists(r.Context(), slug, 0)
	if err != nil {
		h.log.Error("checking network slug failed", "error", err)
		WriteInternalError(w, "database error")
		return
	}
	if taken {
		WriteError(w, http.StatusConflict, "conflict", "slug already in use")
		return
	}

	now := time.Now().UTC()
	network, err := h.queries.CreateNetwork(r.Context(), store.CreateNetworkParams{
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		OwnerID:     user.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		h.log.Error("creating network failed", "error", err)
		WriteInternalError(w, "database error")
		return
	}
	WriteCreated(w, network)
}

// GetNetwork returns one network.
func (h *Handler) GetNetwork(w http.ResponseWriter, r *http.Request) {
	network, ok := h.loadNetwork(w, r, perm.ActionView)
	if !ok {
		return
	}
	WriteSuccess(w, network, nil)
}

// UpdateNetwork updates a network's name, slug and description.
func (h *Handler) UpdateNetwork(w http.ResponseWriter, r *http.Request) {
	network, ok := h.loadNetwork(w, r, perm.ActionManage)
	if !ok {
		return
	}

	var req networkRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	if req.Name == "" {
		WriteBadRequest(w, "name is required")
		return
	}
	slug := req.Slug
	if slug == "" {
		slug = network.Slug
	}
	if !util.IsValidSlug(slug) {
		WriteBadRequest(w, "invalid slug")
		return
	}
	taken, err := h.queries.NetworkSlugExists(r.Context(), slug, network.ID)
	if err != nil {
		h.log.Error("checking network slug failed", "error", err)
		WriteInternalError(w, "database error")
		return
	}
	if taken {
		WriteError(w, http.StatusConflict, "conflict", "slug already in use")
		return
	}

	err = h.queries.UpdateNetwork(r.Context(), store.UpdateNetworkParams{
		ID:          network.ID,
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		UpdatedAt:   time.Now().UTC(),
	})
	if err != nil {
		h.log.Error("updating network failed", "network_id", network.ID, "error", err)
		WriteInternalError(w, "database error")
		return
	}

	updated, err := h.queries.GetNetworkByID(r.Context(), network.ID)
	if err != nil {
		h.notFoundOrInternal(w, err, "network")
		return
	}
	WriteSuccess(w, updated, nil)
}

// DeleteNetwork removes a network and everything under it. Superadmin only:
// the blast radius is the whole tenant tree.
func (h *Handler) DeleteNetwork(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	if !user.IsSuperadmin() {
		WriteForbidden(w, "only superadmins delete networks")
		return
	}

	network, ok := h.loadNetwork(w, r, perm.ActionManage)
	if !ok {
		return
	}

	if err := store.DeleteNetworkCascade(r.Context(), h.db, network.ID); err != nil {
		h.log.Error("deleting network failed", "network_id", network.ID, "error", err)
		WriteInternalError(w, "database error")
		return
	}

	h.log.Warn("network deleted", "category", model.EventCategorySystem,
		"network_id", network.ID, "slug", network.Slug, "by", user.ID)
	WriteNoContent(w)
}

// loadNetwork fetches the network from the URL and enforces the given
// action. Writes the error response itself when returning ok=false.
func (h *Handler) loadNetwork(w http.ResponseWriter, r *http.Request, action perm.Action) (model.Network, bool) {
	id, err := urlID(r, "networkID")
	if err != nil {
		WriteBadRequest(w, "invalid network id")
		return model.Network{}, false
	}

	network, err := h.queries.GetNetworkByID(r.Context(), id)
	if err != nil {
		h.notFoundOrInternal(w, err, "network")
		return model.Network{}, false
	}

	actor, _ := middleware.ActorFromContext(r.Context())
	if !h.resolver.HasPermission(actor, action, perm.ResourceNetwork, network.ID, nil) {
		WriteForbidden(w, "not allowed")
		return model.Network{}, false
	}
	return network, true
}
