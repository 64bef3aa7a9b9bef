// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/redeblog/redeblog/internal/auth"
	"github.com/redeblog/redeblog/internal/middleware"
	"github.com/redeblog/redeblog/internal/model"
	"github.com/redeblog/redeblog/internal/store"
)

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type updateUserRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

const minPasswordLength = 8

// ListUsers returns all users. Superadmin only.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if !h.requireSuperadmin(w, r) {
		return
	}

	limit, offset, page := pagination(r)
	users, err := h.queries.ListUsers(r.Context(), store.ListUsersParams{Limit: limit, Offset: offset})
	if err != nil {
		h.log.Error("listing users failed", "error", err)
		WriteInternalError(w, "database error")
		return
	}
	total, err := h.queries.CountUsers(r.Context())
	if err != nil {
		h.log.Error("counting users failed", "error", err)
		WriteInternalError(w, "database error")
		return
	}

	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, viewUser(u))
	}
	WriteSuccess(w, views, &Meta{Total: total, Page: page, PerPage: limit})
}

// CreateUser creates a user account. Superadmin only.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	if !h.requireSuperadmin(w, r) {
		return
	}

	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		WriteBadRequest(w, "valid email is required")
		return
	}
	if len(req.Password) < minPasswordLength {
		WriteBadRequest(w, "password must be at least 8 characters")
		return
	}
	if req.Role == "" {
		req.Role = model.RoleViewer
	}
	if !model.IsValidGlobalRole(req.Role) {
		WriteBadRequest(w, "invalid role")
		return
	}

	if _, err := h.queries.GetUserByEmail(r.Context(), req.Email); err == nil {
		WriteError(w, http.StatusConflict, "conflict", "email already registered")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.log.Error("hashing password failed", "error", err)
		WriteInternalError(w, "password hashing failed")
		return
	}

	now := time.Now().UTC()
	user, err := h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         req.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		h.log.Error("creating user failed", "error", err)
		WriteInternalError(w, "database error")
		return
	}
	WriteCreated(w, viewUser(user))
}

// GetUser returns one user. Superadmin only.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	if !h.requireSuperadmin(w, r) {
		return
	}

	id, err := urlID(r, "userID")
	if err != nil {
		WriteBadRequest(w, "invalid user id")
		return
	}
	user, err := h.queries.GetUserByID(r.Context(), id)
	if err != nil {
		h.notFoundOrInternal(w, err, "user")
		return
	}
	WriteSuccess(w, viewUser(user), nil)
}

// UpdateUser updates a user's name and global role. Superadmin only.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	if !h.requireSuperadmin(w, r) {
		return
	}

	id, err := urlID(r, "userID")
	if err != nil {
		WriteBadRequest(w, "invalid user id")
		return
	}
	user, err := h.queries.GetUserByID(r.Context(), id)
	if err != nil {
		h.notFoundOrInternal(w, err, "user")
		return
	}

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	if req.Name == "" {
		req.Name = user.Name
	}
	if req.Role == "" {
		req.Role = user.Role
	}
	if !model.IsValidGlobalRole(req.Role) {
		WriteBadRequest(w, "invalid role")
		return
	}

	err = h.queries.UpdateUser(r.Context(), store.UpdateUserParams{
		ID:        user.ID,
		Name:      req.Name,
		Role:      req.Role,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		h.log.Error("updating user failed", "user_id", user.ID, "error", err)
		WriteInternalError(w, "database error")
		return
	}

	updated, err := h.queries.GetUserByID(r.Context(), user.ID)
	if err != nil {
		h.notFoundOrInternal(w, err, "user")
		return
	}
	WriteSuccess(w, viewUser(updated), nil)
}

// DeleteUser removes a user account. Superadmin only; self-deletion is
// rejected so the platform cannot lose its last operator by accident.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if !h.requireSuperadmin(w, r) {
		return
	}

	id, err := urlID(r, "userID")
	if err != nil {
		WriteBadRequest(w, "invalid user id")
		return
	}
	caller, _ := middleware.UserFromContext(r.Context())
	if caller.ID == id {
		WriteBadRequest(w, "cannot delete your own account")
		return
	}

	if err := h.queries.DeleteUser(r.Context(), id); err != nil {
		h.log.Error("deleting user failed", "user_id", id, "error", err)
		WriteInternalError(w, "database error")
		return
	}
	h.log.Warn("user deleted", "category", model.EventCategoryAuth, "user_id", id, "by", caller.ID)
	WriteNoContent(w)
}

func (h *Handler) requireSuperadmin(w http.ResponseWriter, r *http.Request) bool {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok || !user.IsSuperadmin() {
		WriteForbidden(w, "superadmin required")
		return false
	}
	return true
}
