// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared helpers for tests.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	_ "modernc.org/sqlite" // pure-Go SQLite driver, tests only

	"github.com/redeblog/redeblog/internal/auth"
	"github.com/redeblog/redeblog/internal/model"
	"github.com/redeblog/redeblog/internal/store"
)

var dbCounter atomic.Int64

// TestDB creates an isolated in-memory SQLite database with all migrations
// applied. The database is closed automatically when the test ends.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	// A named shared-cache database keeps the schema alive across the pool's
	// connections while staying isolated per test.
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbCounter.Add(1))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		t.Fatalf("enabling foreign keys: %v", err)
	}
	if err := store.Migrate(db, store.DriverSQLite); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}

// TestLogger returns a logger that writes through t.Log so output is
// attached to the failing test.
func TestLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

// CreateTestUser inserts a user with the given role and returns it.
func CreateTestUser(t *testing.T, q *store.Queries, email, role string) model.User {
	t.Helper()
	hash, err := auth.HashPassword("test-password-123")
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	now := time.Now().UTC()
	u, err := q.CreateUser(context.Background(), store.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		Name:         "Test User",
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("creating test user: %v", err)
	}
	return u
}

// CreateTestNetwork inserts a network owned by the given user.
func CreateTestNetwork(t *testing.T, q *store.Queries, ownerID int64, slug string) model.Network {
	t.Helper()
	now := time.Now().UTC()
	n, err := q.CreateNetwork(context.Background(), store.CreateNetworkParams{
		Name:        "Test Network " + slug,
		Slug:        slug,
		Description: "",
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("creating test network: %v", err)
	}
	return n
}

// CreateTestHotel inserts a hotel in the given network.
func CreateTestHotel(t *testing.T, q *store.Queries, networkID, ownerID int64, slug string) model.Hotel {
	t.Helper()
	now := time.Now().UTC()
	h, err := q.CreateHotel(context.Background(), store.CreateHotelParams{
		NetworkID: networkID,
		OwnerID:   ownerID,
		Name:      "Test Hotel " + slug,
		Slug:      slug,
		City:      "Florianópolis",
		Country:   "Brazil",
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("creating test hotel: %v", err)
	}
	return h
}
