// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redeblog/redeblog/internal/auth"
	"github.com/redeblog/redeblog/internal/middleware"
	"github.com/redeblog/redeblog/internal/model"
	"github.com/redeblog/redeblog/internal/store"
	"github.com/redeblog/redeblog/internal/testutil"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func authHandler(t *testing.T, q *store.Queries) (http.Handler, *bool) {
	t.Helper()
	reached := false
	a := middleware.NewAuth(q, testSecret, testutil.TestLogger(t))
	h := a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		user, ok := middleware.UserFromContext(r.Context())
		assert.True(t, ok)
		assert.NotZero(t, user.ID)
		_, ok = middleware.ActorFromContext(r.Context())
		assert.True(t, ok)
		w.WriteHeader(http.StatusOK)
	}))
	return h, &reached
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	user := testutil.CreateTestUser(t, q, "user@example.com", model.RoleEditor)

	token, err := auth.GenerateToken(testSecret, user.ID, time.Hour)
	require.NoError(t, err)

	h, reached := authHandler(t, q)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *reached)
}

func TestRequireAuthRejectsMissingAndBadTokens(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	h, reached := authHandler(t, q)

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header"},
		{name: "not bearer", header: "Basic dXNlcjpwYXNz"},
		{name: "garbage token", header: "Bearer not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, *reached)
		})
	}
}

func TestRequireAuthRejectsDeletedUser(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	user := testutil.CreateTestUser(t, q, "gone@example.com", model.RoleEditor)

	token, err := auth.GenerateToken(testSecret, user.ID, time.Hour)
	require.NoError(t, err)
	require.NoError(t, q.DeleteUser(t.Context(), user.ID))

	h, _ := authHandler(t, q)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	rl := middleware.NewRateLimiter(1, 2)
	t.Cleanup(rl.Stop)

	h := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "198.51.100.7:9999"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// A different IP has its own bucket.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.8:9999"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
