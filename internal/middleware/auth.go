// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for the API: bearer-token
// authentication, actor loading and rate limiting.
package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/redeblog/redeblog/internal/auth"
	"github.com/redeblog/redeblog/internal/model"
	"github.com/redeblog/redeblog/internal/perm"
	"github.com/redeblog/redeblog/internal/store"
)

type contextKey string

const (
	userContextKey  contextKey = "user"
	actorContextKey contextKey = "actor"
)

// Auth authenticates requests with a bearer token and loads the caller's
// permission context.
type Auth struct {
	queries *store.Queries
	secret  string
	log     *slog.Logger
}

// NewAuth creates the authentication middleware.
func NewAuth(queries *store.Queries, secret string, log *slog.Logger) *Auth {
	return &Auth{queries: queries, secret: secret, log: log}
}

// RequireAuth validates the Authorization header, loads the user and their
// role grants, and stores both the user and a permission Actor in the
// request context. Requests without a valid token get 401.
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			unauthorized(w, "missing bearer token")
			return
		}

		claims, err := auth.ValidateToken(a.secret, token)
		if err != nil {
			unauthorized(w, "invalid token")
			return
		}

		user, err := a.queries.GetUserByID(r.Context(), claims.UserID)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				a.log.Error("loading token user failed", "user_id", claims.UserID, "error", err)
			}
			unauthorized(w, "invalid token")
			return
		}

		actor, err := a.loadActor(r.Context(), user)
		if err != nil {
			a.log.Error("loading actor grants failed", "user_id", user.ID, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		ctx = context.WithValue(ctx, actorContextKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Auth) loadActor(ctx context.Context, user model.User) (perm.Actor, error) {
	networkRoles, err := a.queries.ListNetworkRolesByUser(ctx, user.ID)
	if err != nil {
		return perm.Actor{}, err
	}
	hotelRoles, err := a.queries.ListHotelRolesByUser(ctx, user.ID)
	if err != nil {
		return perm.Actor{}, err
	}

	networkGrants := make([]perm.NetworkGrant, 0, len(networkRoles))
	for _, nr := range networkRoles {
		networkGrants = append(networkGrants, perm.NetworkGrant{
			NetworkID: nr.NetworkID, Role: nr.Role,
		})
	}
	hotelGrants := make([]perm.HotelGrant, 0, len(hotelRoles))
	for _, hr := range hotelRoles {
		hotelGrants = append(hotelGrants, perm.HotelGrant{
			HotelID: hr.HotelID, NetworkID: hr.NetworkID, Role: hr.Role,
		})
	}

	return perm.NewActor(user.ID, user.Role, networkGrants, hotelGrants), nil
}

// UserFromContext returns the authenticated user stored by RequireAuth.
func UserFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(userContextKey).(model.User)
	return user, ok
}

// ActorFromContext returns the permission actor stored by RequireAuth.
func ActorFromContext(ctx context.Context) (perm.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey).(perm.Actor)
	return actor, ok
}

// WithUser stores a user and actor in the context. Exposed for handler
// tests.
func WithUser(ctx context.Context, user model.User, actor perm.Actor) context.Context {
	ctx = context.WithValue(ctx, userContextKey, user)
	return context.WithValue(ctx, actorContextKey, actor)
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
