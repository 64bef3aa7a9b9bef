// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/redeblog/redeblog/internal/auth"
	"github.com/redeblog/redeblog/internal/middleware"
	"github.com/redeblog/redeblog/internal/model"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string    `json:"token"`
	User  userView  `json:"user"`
	Until time.Time `json:"expires_at"`
}

type userView struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func viewUser(u model.User) userView {
	return userView{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// Login exchanges email and password for a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		WriteBadRequest(w, "email and password are required")
		return
	}

	user, err := h.queries.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			h.log.Error("loading login user failed", "error", err)
			WriteInternalError(w, "database error")
			return
		}
		// Same response as a wrong password; no account probing.
		WriteUnauthorized(w, "invalid credentials")
		return
	}

	ok, err := auth.CheckPassword(req.Password, user.PasswordHash)
	if err != nil || !ok {
		h.log.Warn("failed login attempt", "category", model.EventCategoryAuth, "email", req.Email)
		WriteUnauthorized(w, "invalid credentials")
		return
	}

	// Transparently upgrade hashes created with older parameters.
	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(req.Password); err == nil {
			if err := h.queries.UpdateUserPassword(r.Context(), user.ID, newHash, time.Now().UTC()); err != nil {
				h.log.Error("upgrading password hash failed", "user_id", user.ID, "error", err)
			}
		}
	}

	token, err := auth.GenerateToken(h.cfg.TokenSecret, user.ID, h.cfg.TokenDuration())
	if err != nil {
		h.log.Error("generating token failed", "error", err)
		WriteInternalError(w, "token generation failed")
		return
	}

	if err := h.queries.UpdateUserLastLogin(r.Context(), user.ID, time.Now().UTC()); err != nil {
		h.log.Error("updating last login failed", "user_id", user.ID, "error", err)
	}

	WriteSuccess(w, loginResponse{
		Token: token,
		User:  viewUser(user),
		Until: time.Now().Add(h.cfg.TokenDuration()),
	}, nil)
}

// Me returns the authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		WriteUnauthorized(w, "not authenticated")
		return
	}
	WriteSuccess(w, viewUser(user), nil)
}
