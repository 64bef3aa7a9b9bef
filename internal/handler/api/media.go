// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/redeblog/redeblog/internal/middleware"
	"github.com/redeblog/redeblog/internal/perm"
	"github.com/redeblog/redeblog/internal/store"
)

// uploads are capped well below typical reverse-proxy limits
const maxUploadBytes = 10 << 20

// ListMedia returns a hotel's uploaded media, newest first.
func (h *Handler) ListMedia(w http.ResponseWriter, r *http.Request) {
	hotel, ok := h.loadHotel(w, r, perm.ActionView)
	if !ok {
		return
	}

	media, err := h.queries.ListMediaByHotel(r.Context(), hotel.ID)
	if err != nil {
		h.log.Error("listing media failed", "hotel_id", hotel.ID, "error", err)
		WriteInternalError(w, "database error")
		return
	}
	WriteSuccess(w, media, nil)
}

// UploadMedia accepts a multipart image upload for a hotel, stores the
// normalized original plus a thumbnail and records the media row.
func (h *Handler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	hotel, ok := h.loadHotel(w, r, perm.ActionCreatePosts)
	if !ok {
		return
	}
	if h.images == nil {
		WriteError(w, http.StatusServiceUnavailable, "unavailable", "uploads are not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteBadRequest(w, "multipart field 'file' is required")
		return
	}
	defer func() { _ = file.Close() }()

	result, err := h.images.ProcessUpload(file, hotel.ID)
	if err != nil {
		h.log.Warn("rejected upload", "hotel_id", hotel.ID, "filename", header.Filename, "error", err)
		WriteBadRequest(w, "unsupported or corrupt image")
		return
	}

	user, _ := middleware.UserFromContext(r.Context())
	media, err := h.queries.CreateMedia(r.Context(), store.CreateMediaParams{
		HotelID:    hotel.ID,
		UploaderID: user.ID,
		Filename:   header.Filename,
		Path:       result.Path,
		MimeType:   result.MimeType,
		Size:       result.Size,
		Width:      result.Width,
		Height:     result.Height,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		// Orphaned file; remove it so the uploads dir tracks the table.
		_ = h.images.Delete(result.Path)
		h.log.Error("recording media failed", "hotel_id", hotel.ID, "error", err)
		WriteInternalError(w, "database error")
		return
	}

	WriteCreated(w, map[string]any{
		"media":     media,
		"url":       result.URL,
		"thumb_url": result.ThumbURL,
	})
}

// DeleteMedia removes a media record and its file. Requires hotel manage.
func (h *Handler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	hotel, ok := h.loadHotel(w, r, perm.ActionManage)
	if !ok {
		return
	}

	id, err := urlID(r, "mediaID")
	if err != nil {
		WriteBadRequest(w, "invalid media id")
		return
	}
	media, err := h.queries.GetMediaByID(r.Context(), id)
	if err != nil {
		h.notFoundOrInternal(w, err, "media")
		return
	}
	if media.HotelID != hotel.ID {
		WriteNotFound(w, "media not found")
		return
	}

	if err := h.queries.DeleteMedia(r.Context(), media.ID); err != nil {
		h.log.Error("deleting media failed", "media_id", media.ID, "error", err)
		WriteInternalError(w, "database error")
		return
	}
	if h.images != nil {
		if err := h.images.Delete(media.Path); err != nil {
			h.log.Error("deleting media file failed", "path", media.Path, "error", err)
		}
	}
	WriteNoContent(w)
}
