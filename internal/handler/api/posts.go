// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/redeblog/redeblog/internal/cache"
	"github.com/redeblog/redeblog/internal/middleware"
	"github.com/redeblog/redeblog/internal/model"
	"github.com/redeblog/redeblog/internal/perm"
	"github.com/redeblog/redeblog/internal/store"
	"github.com/redeblog/redeblog/internal/util"
)

type postRequest struct {
	Title          string     `json:"title"`
	Slug           string     `json:"slug"`
	Content        string     `json:"content"`
	ImageURL       string     `json:"image_url"`
	SEODescription string     `json:"seo_description"`
	Publish        bool       `json:"publish"`
	ScheduledAt    *time.Time `json:"scheduled_at"`
}

// postView is the API shape of a post, with the derived publication status.
type postView struct {
	model.Post
	Status string `json:"status"`
}

func (h *Handler) viewPost(p model.Post) postView {
	return postView{Post: p, Status: p.Status(time.Now())}
}

func (h *Handler) viewPosts(posts []model.Post) []postView {
	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		views = append(views, h.viewPost(p))
	}
	return views
}

// ListPosts returns a hotel's posts, drafts included.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	hotel, ok := h.loadHotel(w, r, perm.ActionView)
	if !ok {
		return
	}

	limit, offset, page := pagination(r)
	posts, err := h.queries.ListPostsByHotel(r.Context(), store.ListPostsParams{
		HotelID: hotel.ID, Limit: limit, Offset: offset,
	})
	if err != nil {
		h.log.Error("listing posts failed", "hotel_id", hotel.ID, "error", err)
		WriteInternalError(w, "database error")
		return
	}

	total, err := h.queries.CountPostsByHotel(r.Context(), hotel.ID)
	if err != nil {
		h.log.Error("counting posts failed", "hotel_id", hotel.ID, "error", err)
		WriteInternalError(w, "database error")
		return
	}
	WriteSuccess(w, h.viewPosts(posts), &Meta{Total: total, Page: page, PerPage: limit})
}

// CreatePost creates a post in a hotel. Requires create_posts.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	hotel, ok := h.loadHotel(w, r, perm.ActionCreatePosts)
	if !ok {
		return
	}

	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	if req.Title == "" {
		WriteBadRequest(w, "title is required")
		return
	}

	slug := req.Slug
	if slug == "" {
		slug = util.Slugify(req.Title)
	}
	if !util.IsValidSlug(slug) {
		WriteBadRequest(w, "invalid slug")
		return
	}
	taken, err := h.queries.PostSlugExists(r.Context(), hotel.ID, slug, 0)
	if err != nil {
		h.log.Error("checking post slug failed", "error", err)
		WriteInternalError(w, "database error")
		return
	}
	if taken {
		WriteError(w, http.StatusConflict, "conflict", "slug already in use within hotel")
		return
	}

	user, _ := middleware.UserFromContext(r.Context())
	now := time.Now().UTC()
	params := store.CreatePostParams{
		HotelID:        hotel.ID,
		AuthorID:       user.ID,
		Title:          req.Title,
		Slug:           slug,
		Content:        req.Content,
		ImageURL:       req.ImageURL,
		SEODescription: req.SEODescription,
		ScheduledAt:    util.NullTimeFromPtr(req.ScheduledAt),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if req.Publish {
		params.PublishedAt = util.NullTimeFromPtr(&now)
	}

	post, err := h.queries.CreatePost(r.Context(), params)
	if err != nil {
		h.log.Error("creating post failed", "hotel_id", hotel.ID, "error", err)
		WriteInternalError(w, "database error")
		return
	}
	h.invalidateHotelCache(r, hotel.ID)
	WriteCreated(w, h.viewPost(post))
}

// GetPost returns one post.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, _, ok := h.loadPost(w, r, perm.ActionView)
	if !ok {
		return
	}
	WriteSuccess(w, h.viewPost(post), nil)
}

// UpdatePost updates a post. Requires hotel manage.
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	post, hotel, ok := h.loadPost(w, r, perm.ActionManage)
	if !ok {
		return
	}

	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	if req.Title == "" {
		WriteBadRequest(w, "title is required")
		return
	}

	slug := req.Slug
	if slug == "" {
		slug = post.Slug
	}
	if !util.IsValidSlug(slug) {
		WriteBadRequest(w, "invalid slug")
		return
	}
	taken, err := h.queries.PostSlugExists(r.Context(), hotel.ID, slug, post.ID)
	if err != nil {
		h.log.Error("checking post slug failed", "error", err)
		WriteInternalError(w, "database error")
		return
	}
	if taken {
		WriteError(w, http.StatusConflict, "conflict", "slug already in use within hotel")
		return
	}

	now := time.Now().UTC()
	params := store.UpdatePostParams{
		ID:             post.ID,
		Title:          req.Title,
		Slug:           slug,
		Content:        req.Content,
		ImageURL:       req.ImageURL,
		SEODescription: req.SEODescription,
		PublishedAt:    post.PublishedAt,
		ScheduledAt:    util.NullTimeFromPtr(req.ScheduledAt),
		UpdatedAt:      now,
	}
	// Publishing is one-way from the API; unpublishing would break public
	// URLs already shared.
	if req.Publish && !post.PublishedAt.Valid {
		params.PublishedAt = util.NullTimeFromPtr(&now)
	}

	if err := h.queries.UpdatePost(r.Context(), params); err != nil {
		h.log.Error("updating post failed", "post_id", post.ID, "error", err)
		WriteInternalError(w, "database error")
		return
	}
	h.invalidateHotelCache(r, hotel.ID)

	updated, err := h.queries.GetPostByID(r.Context(), post.ID)
	if err != nil {
		h.notFoundOrInternal(w, err, "post")
		return
	}
	WriteSuccess(w, h.viewPost(updated), nil)
}

// DeletePost removes a post. Requires hotel manage.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	post, hotel, ok := h.loadPost(w, r, perm.ActionManage)
	if !ok {
		return
	}

	if err := h.queries.DeletePost(r.Context(), post.ID); err != nil {
		h.log.Error("deleting post failed", "post_id", post.ID, "error", err)
		WriteInternalError(w, "database error")
		return
	}
	h.invalidateHotelCache(r, hotel.ID)
	WriteNoContent(w)
}

// publicPostView is the read-side shape: sanitized HTML included, author
// internals omitted.
type publicPostView struct {
	Title          string     `json:"title"`
	Slug           string     `json:"slug"`
	ContentHTML    string     `json:"content_html"`
	ImageURL       string     `json:"image_url,omitempty"`
	SEODescription string     `json:"seo_description,omitempty"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
}

func (h *Handler) viewPublicPost(p model.Post) (publicPostView, error) {
	html, err := h.markdown.ToHTML(p.Content)
	if err != nil {
		return publicPostView{}, err
	}
	view := publicPostView{
		Title:          p.Title,
		Slug:           p.Slug,
		ContentHTML:    string(html),
		ImageURL:       p.ImageURL,
		SEODescription: p.SEODescription,
	}
	if p.PublishedAt.Valid {
		t := p.PublishedAt.Time
		view.PublishedAt = &t
	}
	return view, nil
}

// PublicListPosts serves a hotel blog's published posts without
// authentication. Responses are cached per hotel.
func (h *Handler) PublicListPosts(w http.ResponseWriter, r *http.Request) {
	hotel, ok := h.loadPublicHotel(w, r)
	if !ok {
		return
	}
	h.servePublicPostList(w, r, hotel)
}

// PublicListPostsByDomain serves the blog of the hotel that owns the given
// custom domain. The domain-to-hotel mapping is cached.
func (h *Handler) PublicListPostsByDomain(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")

	hotelID, err := h.hotelIDByDomain(r, domain)
	if err != nil {
		h.notFoundOrInternal(w, err, "blog")
		return
	}
	hotel, err := h.queries.GetHotelByID(r.Context(), hotelID)
	if err != nil {
		h.notFoundOrInternal(w, err, "blog")
		return
	}
	h.servePublicPostList(w, r, hotel)
}

// hotelIDByDomain resolves a custom domain to its hotel id, consulting the
// cache first.
func (h *Handler) hotelIDByDomain(r *http.Request, domain string) (int64, error) {
	cacheKey := "domain:" + domain
	if h.cache != nil {
		if cached, err := h.cache.Get(r.Context(), cacheKey); err == nil {
			if id, err := strconv.ParseInt(string(cached), 10, 64); err == nil {
				return id, nil
			}
		}
	}

	hotel, err := h.queries.GetHotelByDomain(r.Context(), domain)
	if err != nil {
		return 0, err
	}
	if h.cache != nil {
		ttl := time.Duration(h.cfg.CacheTTL) * time.Second
		if err := h.cache.Set(r.Context(), cacheKey, []byte(strconv.FormatInt(hotel.ID, 10)), ttl); err != nil {
			h.log.Error("caching domain lookup failed", "error", err)
		}
	}
	return hotel.ID, nil
}

func (h *Handler) servePublicPostList(w http.ResponseWriter, r *http.Request, hotel model.Hotel) {
	limit, offset, page := pagination(r)
	cacheKey := fmt.Sprintf("hotel:%d:posts:%d:%d", hotel.ID, page, limit)
	if h.cache != nil {
		if cached, err := h.cache.Get(r.Context(), cacheKey); err == nil {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(cached)
			return
		}
	}

	posts, err := h.queries.ListPublishedPostsByHotel(r.Context(), store.ListPostsParams{
		HotelID: hotel.ID, Limit: limit, Offset: offset,
	}, time.Now().UTC())
	if err != nil {
		h.log.Error("listing published posts failed", "hotel_id", hotel.ID, "error", err)
		WriteInternalError(w, "database error")
		return
	}

	views := make([]publicPostView, 0, len(posts))
	for _, p := range posts {
		v, err := h.viewPublicPost(p)
		if err != nil {
			h.log.Error("rendering post failed", "post_id", p.ID, "error", err)
			WriteInternalError(w, "render error")
			return
		}
		views = append(views, v)
	}

	body, err := json.Marshal(Response{Data: views, Meta: &Meta{Page: page, PerPage: limit}})
	if err != nil {
		WriteInternalError(w, "encode error")
		return
	}
	if h.cache != nil {
		ttl := time.Duration(h.cfg.CacheTTL) * time.Second
		if err := h.cache.Set(r.Context(), cacheKey, body, ttl); err != nil {
			h.log.Error("caching post list failed", "error", err)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

// PublicGetPost serves one published post and records the view.
func (h *Handler) PublicGetPost(w http.ResponseWriter, r *http.Request) {
	hotel, ok := h.loadPublicHotel(w, r)
	if !ok {
		return
	}

	post, err := h.queries.GetPostBySlug(r.Context(), hotel.ID, chi.URLParam(r, "postSlug"))
	if err != nil {
		h.notFoundOrInternal(w, err, "post")
		return
	}
	if !post.IsPublished(time.Now()) {
		WriteNotFound(w, "post not found")
		return
	}

	view, err := h.viewPublicPost(post)
	if err != nil {
		h.log.Error("rendering post failed", "post_id", post.ID, "error", err)
		WriteInternalError(w, "render error")
		return
	}

	if h.tracker != nil {
		h.tracker.RecordView(r.Context(), post, r.UserAgent(), r.RemoteAddr)
	}
	WriteSuccess(w, view, nil)
}

// PublicPostHTML serves one published post's sanitized HTML body directly,
// for embedding.
func (h *Handler) PublicPostHTML(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "postID")
	if err != nil {
		WriteBadRequest(w, "invalid post id")
		return
	}
	post, err := h.queries.GetPostByID(r.Context(), id)
	if err != nil {
		h.notFoundOrInternal(w, err, "post")
		return
	}
	if !post.IsPublished(time.Now()) {
		WriteNotFound(w, "post not found")
		return
	}

	html, err := h.markdown.ToHTML(post.Content)
	if err != nil {
		h.log.Error("rendering post failed", "post_id", post.ID, "error", err)
		WriteInternalError(w, "render error")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

func (h *Handler) loadPublicHotel(w http.ResponseWriter, r *http.Request) (model.Hotel, bool) {
	network, err := h.queries.GetNetworkBySlug(r.Context(), chi.URLParam(r, "networkSlug"))
	if err != nil {
		h.notFoundOrInternal(w, err, "blog")
		return model.Hotel{}, false
	}
	hotel, err := h.queries.GetHotelBySlug(r.Context(), network.ID, chi.URLParam(r, "hotelSlug"))
	if err != nil {
		h.notFoundOrInternal(w, err, "blog")
		return model.Hotel{}, false
	}
	return hotel, true
}

// loadPost fetches the post from the URL and enforces the action against
// its hotel.
func (h *Handler) loadPost(w http.ResponseWriter, r *http.Request, action perm.Action) (model.Post, model.Hotel, bool) {
	id, err := urlID(r, "postID")
	if err != nil {
		WriteBadRequest(w, "invalid post id")
		return model.Post{}, model.Hotel{}, false
	}

	post, err := h.queries.GetPostByID(r.Context(), id)
	if err != nil {
		h.notFoundOrInternal(w, err, "post")
		return model.Post{}, model.Hotel{}, false
	}
	hotel, err := h.queries.GetHotelByID(r.Context(), post.HotelID)
	if err != nil {
		h.notFoundOrInternal(w, err, "hotel")
		return model.Post{}, model.Hotel{}, false
	}

	actor, _ := middleware.ActorFromContext(r.Context())
	if !h.resolver.HasPermission(actor, action, perm.ResourceHotel, hotel.ID, &hotel.NetworkID) {
		WriteForbidden(w, "not allowed")
		return model.Post{}, model.Hotel{}, false
	}
	return post, hotel, true
}

func (h *Handler) invalidateHotelCache(r *http.Request, hotelID int64) {
	if h.cache == nil {
		return
	}
	if err := h.cache.DeletePrefix(r.Context(), fmt.Sprintf("hotel:%d:", hotelID)); err != nil && err != cache.ErrCacheMiss {
		h.log.Error("invalidating hotel cache failed", "hotel_id", hotelID, "error", err)
	}
}
