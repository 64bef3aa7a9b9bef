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

type hotelRequest struct {
	Name              string `json:"name"`
	Slug              string `json:"slug"`
	City              string `json:"city"`
	State             string `json:"state"`
	Country           string `json:"country"`
	TravelType        string `json:"travel_type"`
	Audience          string `json:"audience"`
	Season            string `json:"season"`
	LocalEvents       string `json:"local_events"`
	CustomDomain      string `json:"custom_domain"`
	AutoGeneratePosts bool   `json:"auto_generate_posts"`
	PostFrequency     string `json:"post_frequency"`
	MaxMonthlyPosts   *int64 `json:"max_monthly_posts"`
	ThemePreferences  string `json:"theme_preferences"`
}

func (req *hotelRequest) validate() string {
	if req.Name == "" {
		return "name is required"
	}
	// Enabled automation requires a recognized frequency; the eligibility
	// engine fails closed on anything else.
	if req.AutoGeneratePosts && !model.IsValidFrequency(req.PostFrequency) {
		return "auto_generate_posts requires post_frequency of daily, weekly or biweekly"
	}
	if req.PostFrequency != "" && !model.IsValidFrequency(req.PostFrequency) {
		return "invalid post_frequency"
	}
	if req.MaxMonthlyPosts != nil && *req.MaxMonthlyPosts < 1 {
		return "max_monthly_posts must be positive"
	}
	return ""
}

// ListHotels returns a network's hotels.
func (h *Handler) ListHotels(w http.ResponseWriter, r *http.Request) {
	network, ok := h.loadNetwork(w, r, perm.ActionView)
	if !ok {
		return
	}

	hotels, err := h.queries.ListHotelsByNetwork(r.Context(), network.ID)
	if err != nil {
		h.log.Error("listing hotels failed", "network_id", network.ID, "error", err)
		WriteInternalError(w, "database error")
		return
	}
	WriteSuccess(w, hotels, nil)
}

// CreateHotel creates a hotel in a network. Requires network manage.
func (h *Handler) CreateHotel(w http.ResponseWriter, r *http.Request) {
	network, ok := h.loadNetwork(w, r, perm.ActionManage)
	if !ok {
		return
	}

	var req hotelRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		WriteBadRequest(w, msg)
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
	taken, err := h.queries.HotelSlugExists(r.Context(), network.ID, slug, 0)
	if err != nil {
		h.log.Error("checking hotel slug failed", "error", err)
		WriteInternalError(w, "database error")
		return
	}
	if taken {
		WriteError(w, http.StatusConflict, "conflict", "slug already in use within network")
		return
	}
	if !h.domainAvailable(w, r, req.CustomDomain, 0) {
		return
	}

	user, _ := middleware.UserFromContext(r.Context())
	now := time.Now().UTC()
	hotel, err := h.queries.CreateHotel(r.Context(), store.CreateHotelParams{
		NetworkID:         network.ID,
		OwnerID:           user.ID,
		Name:              req.Name,
		Slug:              slug,
		City:              req.City,
		State:             req.State,
		Country:           req.Country,
		TravelType:        req.TravelType,
		Audience:          req.Audience,
		Season:            req.Season,
		LocalEvents:       req.LocalEvents,
		CustomDomain:      util.NullStringFromValue(req.CustomDomain),
		AutoGeneratePosts: req.AutoGeneratePosts,
		PostFrequency:     req.PostFrequency,
		MaxMonthlyPosts:   util.NullInt64FromPtr(req.MaxMonthlyPosts),
		ThemePreferences:  req.ThemePreferences,
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	if err != nil {
		h.log.Error("creating hotel failed", "network_id", network.ID, "error", err)
		WriteInternalError(w, "database error")
		return
	}
	WriteCreated(w, hotel)
}

// GetHotel returns one hotel.
func (h *Handler) GetHotel(w http.ResponseWriter, r *http.Request) {
	hotel, ok := h.loadHotel(w, r, perm.ActionView)
	if !ok {
		return
	}
	WriteSuccess(w, hotel, nil)
}

// UpdateHotel updates a hotel's profile and automation settings.
func (h *Handler) UpdateHotel(w http.ResponseWriter, r *http.Request) {
	hotel, ok := h.loadHotel(w, r, perm.ActionManage)
	if !ok {
		return
	}

	var req hotelRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		WriteBadRequest(w, msg)
		return
	}

	slug := req.Slug
	if slug == "" {
		slug = hotel.Slug
	}
	if !util.IsValidSlug(slug) {
		WriteBadRequest(w, "invalid slug")
		return
	}
	taken, err := h.queries.HotelSlugExists(r.Context(), hotel.NetworkID, slug, hotel.ID)
	if err != nil {
		h.log.Error("checking hotel slug failed", "error", err)
		WriteInternalError(w, "database error")
		return
	}
	if taken {
		WriteError(w, http.StatusConflict, "conflict", "slug already in use within network")
		return
	}
	if !h.domainAvailable(w, r, req.CustomDomain, hotel.ID) {
		return
	}

	err = h.queries.UpdateHotel(r.Context(), store.UpdateHotelParams{
		ID:                hotel.ID,
		Name:              req.Name,
		Slug:              slug,
		City:              req.City,
		State:             req.State,
		Country:           req.Country,
		TravelType:        req.TravelType,
		Audience:          req.Audience,
		Season:            req.Season,
		LocalEvents:       req.LocalEvents,
		CustomDomain:      util.NullStringFromValue(req.CustomDomain),
		AutoGeneratePosts: req.AutoGeneratePosts,
		PostFrequency:     req.PostFrequency,
		MaxMonthlyPosts:   util.NullInt64FromPtr(req.MaxMonthlyPosts),
		ThemePreferences:  req.ThemePreferences,
		UpdatedAt:         time.Now().UTC(),
	})
	if err != nil {
		h.log.Error("updating hotel failed", "hotel_id", hotel.ID, "error", err)
		WriteInternalError(w, "database error")
		return
	}

	updated, err := h.queries.GetHotelByID(r.Context(), hotel.ID)
	if err != nil {
		h.notFoundOrInternal(w, err, "hotel")
		return
	}
	WriteSuccess(w, updated, nil)
}

// DeleteHotel removes a hotel and its posts.
func (h *Handler) DeleteHotel(w http.ResponseWriter, r *http.Request) {
	hotel, ok := h.loadHotel(w, r, perm.ActionManage)
	if !ok {
		return
	}

	if err := h.queries.DeleteHotel(r.Context(), hotel.ID); err != nil {
		h.log.Error("deleting hotel failed", "hotel_id", hotel.ID, "error", err)
		WriteInternalError(w, "database error")
		return
	}
	h.invalidateHotelCache(r, hotel.ID)
	WriteNoContent(w)
}

// domainAvailable writes a 409 when the custom domain is claimed by another
// hotel. Custom domains are unique across all networks.
func (h *Handler) domainAvailable(w http.ResponseWriter, r *http.Request, domain string, excludeID int64) bool {
	if domain == "" {
		return true
	}
	taken, err := h.queries.HotelDomainExists(r.Context(), domain, excludeID)
	if err != nil {
		h.log.Error("checking custom domain failed", "error", err)
		WriteInternalError(w, "database error")
		return false
	}
	if taken {
		WriteError(w, http.StatusConflict, "conflict", "custom domain already in use")
		return false
	}
	return true
}

// loadHotel fetches the hotel from the URL and enforces the given action,
// passing the owning network for admin inheritance.
func (h *Handler) loadHotel(w http.ResponseWriter, r *http.Request, action perm.Action) (model.Hotel, bool) {
	id, err := urlID(r, "hotelID")
	if err != nil {
		WriteBadRequest(w, "invalid hotel id")
		return model.Hotel{}, false
	}

	hotel, err := h.queries.GetHotelByID(r.Context(), id)
	if err != nil {
		h.notFoundOrInternal(w, err, "hotel")
		return model.Hotel{}, false
	}

	actor, _ := middleware.ActorFromContext(r.Context())
	if !h.resolver.HasPermission(actor, action, perm.ResourceHotel, hotel.ID, &hotel.NetworkID) {
		WriteForbidden(w, "not allowed")
		return model.Hotel{}, false
	}
	return hotel, true
}
