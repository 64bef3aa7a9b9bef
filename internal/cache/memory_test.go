// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *MemoryCache {
	t.Helper()
	c := NewMemoryCache(5*time.Minute, 0)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestMemoryCacheSetGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	val, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), val)

	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)
	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheEvictsAtMaxSize(t *testing.T) {
	c := NewMemoryCache(5*time.Minute, 2)
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	// "short" expires first, so it is the eviction victim.
	require.NoError(t, c.Set(ctx, "short", []byte("a"), time.Minute))
	require.NoError(t, c.Set(ctx, "long", []byte("b"), time.Hour))
	require.NoError(t, c.Set(ctx, "new", []byte("c"), time.Hour))

	_, err := c.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = c.Get(ctx, "long")
	assert.NoError(t, err)
	_, err = c.Get(ctx, "new")
	assert.NoError(t, err)

	// Overwriting an existing key does not evict.
	require.NoError(t, c.Set(ctx, "long", []byte("b2"), time.Hour))
	_, err = c.Get(ctx, "new")
	assert.NoError(t, err)
}

func TestMemoryCacheDeletePrefix(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "hotel:1:posts", []byte("a"), 0))
	require.NoError(t, c.Set(ctx, "hotel:1:stats", []byte("b"), 0))
	require.NoError(t, c.Set(ctx, "hotel:2:posts", []byte("c"), 0))

	require.NoError(t, c.DeletePrefix(ctx, "hotel:1:"))

	_, err := c.Get(ctx, "hotel:1:posts")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = c.Get(ctx, "hotel:2:posts")
	assert.NoError(t, err)
}
