// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the REST API handlers.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/redeblog/redeblog/internal/analytics"
	"github.com/redeblog/redeblog/internal/automation"
	"github.com/redeblog/redeblog/internal/cache"
	"github.com/redeblog/redeblog/internal/config"
	"github.com/redeblog/redeblog/internal/imaging"
	"github.com/redeblog/redeblog/internal/middleware"
	"github.com/redeblog/redeblog/internal/perm"
	"github.com/redeblog/redeblog/internal/render"
	"github.com/redeblog/redeblog/internal/store"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	db       *sql.DB
	queries  *store.Queries
	cfg      config.Config
	resolver perm.Resolver
	markdown *render.Markdown
	images   *imaging.Processor
	tracker  *analytics.Tracker
	sweeper  *automation.Sweeper
	cache    cache.Cache
	log      *slog.Logger
}

// Deps are the collaborators an API Handler needs.
type Deps struct {
	DB      *sql.DB
	Cfg     config.Config
	Images  *imaging.Processor
	Tracker *analytics.Tracker
	Sweeper *automation.Sweeper
	Cache   cache.Cache
	Log     *slog.Logger
}

// NewHandler creates an API handler.
func NewHandler(d Deps) *Handler {
	return &Handler{
		db:       d.DB,
		queries:  store.New(d.DB),
		cfg:      d.Cfg,
		resolver: perm.Resolver{StrictNetworkView: d.Cfg.StrictNetworkView},
		markdown: render.NewMarkdown(),
		images:   d.Images,
		tracker:  d.Tracker,
		sweeper:  d.Sweeper,
		cache:    d.Cache,
		log:      d.Log,
	}
}

// Routes mounts all API routes. auth is applied to everything except login
// and the public blog read endpoints.
func (h *Handler) Routes(auth *middleware.Auth) chi.Router {
	r := chi.NewRouter()

	r.Get("/status", h.Status)
	r.Post("/auth/login", h.Login)

	r.Route("/public", func(r chi.Router) {
		r.Get("/blogs/{networkSlug}/{hotelSlug}/posts", h.PublicListPosts)
		r.Get("/blogs/{networkSlug}/{hotelSlug}/posts/{postSlug}", h.PublicGetPost)
		r.Get("/domains/{domain}/posts", h.PublicListPostsByDomain)
		r.Get("/posts/{postID}/html", h.PublicPostHTML)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)

		r.Get("/auth/me", h.Me)

		r.Route("/networks", func(r chi.Router) {
			r.Get("/", h.ListNetworks)
			r.Post("/", h.CreateNetwork)
			r.Route("/{networkID}", func(r chi.Router) {
				r.Get("/", h.GetNetwork)
				r.Put("/", h.UpdateNetwork)
				r.Delete("/", h.DeleteNetwork)
				r.Get("/hotels", h.ListHotels)
				r.Post("/hotels", h.CreateHotel)
				r.Get("/roles", h.ListNetworkRoles)
				r.Post("/roles", h.GrantNetworkRole)
				r.Delete("/roles/{userID}", h.RevokeNetworkRole)
			})
		})

		r.Route("/hotels/{hotelID}", func(r chi.Router) {
			r.Get("/", h.GetHotel)
			r.Put("/", h.UpdateHotel)
			r.Delete("/", h.DeleteHotel)
			r.Get("/posts", h.ListPosts)
			r.Post("/posts", h.CreatePost)
			r.Get("/automation-logs", h.HotelAutomationLogs)
			r.Get("/roles", h.ListHotelRoles)
			r.Post("/roles", h.GrantHotelRole)
			r.Delete("/roles/{userID}", h.RevokeHotelRole)
			r.Get("/analytics", h.HotelAnalytics)
			r.Get("/media", h.ListMedia)
			r.Post("/media", h.UploadMedia)
			r.Delete("/media/{mediaID}", h.DeleteMedia)
		})

		r.Route("/posts/{postID}", func(r chi.Router) {
			r.Get("/", h.GetPost)
			r.Put("/", h.UpdatePost)
			r.Delete("/", h.DeletePost)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.ListUsers)
			r.Post("/", h.CreateUser)
			r.Get("/{userID}", h.GetUser)
			r.Put("/{userID}", h.UpdateUser)
			r.Delete("/{userID}", h.DeleteUser)
		})

		r.Route("/automation", func(r chi.Router) {
			r.Get("/run", h.RunAutomation)
			r.Post("/run", h.RunAutomation)
			r.Get("/logs", h.ListAutomationLogs)
		})

		r.Get("/events", h.ListEvents)
	})

	return r
}

// StatusResponse is the response for the public status endpoint.
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Status returns API health information.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, StatusResponse{
		Status:  "ok",
		Version: "v1",
	}, nil)
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data,omitempty"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains pagination metadata.
type Meta struct {
	Total   int64 `json:"total,omitempty"`
	Page    int64 `json:"page,omitempty"`
	PerPage int64 `json:"per_page,omitempty"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a 200 response wrapping data.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 response wrapping data.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteNoContent writes an empty 204 response.
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteError writes an error response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// WriteBadRequest writes a 400 response.
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message)
}

// WriteNotFound writes a 404 response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message)
}

// WriteUnauthorized writes a 401 response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "unauthorized", message)
}

// WriteForbidden writes a 403 response.
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, "forbidden", message)
}

// WriteInternalError writes a 500 response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message)
}

// urlID parses a numeric URL parameter.
func urlID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// pagination parses page/per_page query parameters with sane bounds.
func pagination(r *http.Request) (limit, offset, page int64) {
	page, _ = strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.ParseInt(r.URL.Query().Get("per_page"), 10, 64)
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return perPage, (page - 1) * perPage, page
}

// decodeJSON decodes a request body, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// notFoundOrInternal writes 404 for missing rows, 500 otherwise.
func (h *Handler) notFoundOrInternal(w http.ResponseWriter, err error, what string) {
	if errors.Is(err, sql.ErrNoRows) {
		WriteNotFound(w, what+" not found")
		return
	}
	h.log.Error("database error", "error", err)
	WriteInternalError(w, "database error")
}
