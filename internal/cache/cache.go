// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache provides the caching layer used for published post lists
// and rendered content. Values are []byte so the in-memory and Redis
// implementations are interchangeable.
package cache

import (
	"context"
	"time"
)

// Cache is a thread-safe key/value cache with per-entry TTL.
type Cache interface {
	// Get returns the value for key, or ErrCacheMiss when absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. A zero ttl uses the implementation's
	// default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes all keys with the given prefix. Used to
	// invalidate a hotel's cached lists after a post write.
	DeletePrefix(ctx context.Context, prefix string) error

	// Close releases any resources held by the cache.
	Close() error
}

// Error is a sentinel error type for cache operations.
type Error string

func (e Error) Error() string { return string(e) }

// ErrCacheMiss indicates the key was not found or has expired.
const ErrCacheMiss Error = "cache miss"
