// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redeblog/redeblog/internal/model"
	"github.com/redeblog/redeblog/internal/store"
	"github.com/redeblog/redeblog/internal/testutil"
)

func TestUserCRUD(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	ctx := context.Background()

	u := testutil.CreateTestUser(t, q, "owner@example.com", model.RoleAdmin)
	require.NotZero(t, u.ID)
	assert.Equal(t, "owner@example.com", u.Email)

	byEmail, err := q.GetUserByEmail(ctx, "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	err = q.UpdateUser(ctx, store.UpdateUserParams{
		ID: u.ID, Name: "Renamed", Role: model.RoleEditor, UpdatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	updated, err := q.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, model.RoleEditor, updated.Role)

	require.NoError(t, q.DeleteUser(ctx, u.ID))
	_, err = q.GetUserByID(ctx, u.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestHotelSlugUniquePerNetwork(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, q, "owner@example.com", model.RoleAdmin)
	netA := testutil.CreateTestNetwork(t, q, owner.ID, "rede-a")
	netB := testutil.CreateTestNetwork(t, q, owner.ID, "rede-b")

	testutil.CreateTestHotel(t, q, netA.ID, owner.ID, "praia-hotel")

	taken, err := q.HotelSlugExists(ctx, netA.ID, "praia-hotel", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	// Same slug in a different network is fine.
	taken, err = q.HotelSlugExists(ctx, netB.ID, "praia-hotel", 0)
	require.NoError(t, err)
	assert.False(t, taken)
	testutil.CreateTestHotel(t, q, netB.ID, owner.ID, "praia-hotel")
}

func TestDeleteNetworkCascade(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, q, "owner@example.com", model.RoleAdmin)
	net := testutil.CreateTestNetwork(t, q, owner.ID, "rede-a")
	hotel := testutil.CreateTestHotel(t, q, net.ID, owner.ID, "praia-hotel")

	now := time.Now().UTC()
	post, err := q.CreatePost(ctx, store.CreatePostParams{
		HotelID: hotel.ID, AuthorID: owner.ID, Title: "Hello", Slug: "hello",
		Content: "body", CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	require.NoError(t, q.GrantHotelRole(ctx, store.GrantHotelRoleParams{
		UserID: owner.ID, HotelID: hotel.ID, Role: model.RoleEditor, CreatedAt: now,
	}))

	require.NoError(t, store.DeleteNetworkCascade(ctx, db, net.ID))

	_, err = q.GetHotelByID(ctx, hotel.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	_, err = q.GetPostByID(ctx, post.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	roles, err := q.ListHotelRolesByUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, roles)
}

func TestHotelRolesCarryNetworkID(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, q, "owner@example.com", model.RoleAdmin)
	editor := testutil.CreateTestUser(t, q, "editor@example.com", model.RoleViewer)
	net := testutil.CreateTestNetwork(t, q, owner.ID, "rede-a")
	hotel := testutil.CreateTestHotel(t, q, net.ID, owner.ID, "praia-hotel")

	now := time.Now().UTC()
	require.NoError(t, q.GrantHotelRole(ctx, store.GrantHotelRoleParams{
		UserID: editor.ID, HotelID: hotel.ID, Role: model.RoleEditor, CreatedAt: now,
	}))

	roles, err := q.ListHotelRolesByUser(ctx, editor.ID)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, net.ID, roles[0].NetworkID)
	assert.Equal(t, model.RoleEditor, roles[0].Role)

	// Granting again replaces the role instead of failing.
	require.NoError(t, q.GrantHotelRole(ctx, store.GrantHotelRoleParams{
		UserID: editor.ID, HotelID: hotel.ID, Role: model.RoleViewer, CreatedAt: now,
	}))
	roles, err = q.ListHotelRolesByUser(ctx, editor.ID)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, model.RoleViewer, roles[0].Role)
}

func TestClaimHotelAutoPost(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, q, "owner@example.com", model.RoleAdmin)
	net := testutil.CreateTestNetwork(t, q, owner.ID, "rede-a")
	hotel := testutil.CreateTestHotel(t, q, net.ID, owner.ID, "praia-hotel")

	claimTime := time.Now().UTC().Truncate(time.Second)

	// First claim against the NULL timestamp wins.
	claimed, err := q.ClaimHotelAutoPost(ctx, hotel.ID, hotel.LastAutoPostAt, claimTime)
	require.NoError(t, err)
	assert.True(t, claimed)

	// A second claimer still holding the stale NULL snapshot loses.
	claimed, err = q.ClaimHotelAutoPost(ctx, hotel.ID, hotel.LastAutoPostAt, claimTime.Add(time.Second))
	require.NoError(t, err)
	assert.False(t, claimed)

	// Release reverts the timestamp so the hotel is claimable again.
	require.NoError(t, q.ReleaseHotelAutoPost(ctx, hotel.ID, hotel.LastAutoPostAt, claimTime))
	reloaded, err := q.GetHotelByID(ctx, hotel.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.LastAutoPostAt.Valid)

	claimed, err = q.ClaimHotelAutoPost(ctx, hotel.ID, reloaded.LastAutoPostAt, claimTime.Add(2*time.Second))
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestCountPublishedPostsSince(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, q, "owner@example.com", model.RoleAdmin)
	net := testutil.CreateTestNetwork(t, q, owner.ID, "rede-a")
	hotel := testutil.CreateTestHotel(t, q, net.ID, owner.ID, "praia-hotel")

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	addPost := func(slug string, publishedAt sql.NullTime) {
		t.Helper()
		_, err := q.CreatePost(ctx, store.CreatePostParams{
			HotelID: hotel.ID, AuthorID: owner.ID, Title: slug, Slug: slug,
			Content: "body", PublishedAt: publishedAt,
			CreatedAt: now, UpdatedAt: now,
		})
		require.NoError(t, err)
	}

	addPost("this-month", sql.NullTime{Time: monthStart.Add(time.Hour), Valid: true})
	addPost("last-month", sql.NullTime{Time: monthStart.Add(-time.Hour), Valid: true})
	addPost("draft", sql.NullTime{})

	n, err := q.CountPublishedPostsSince(ctx, hotel.ID, monthStart)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestListAutomationHotels(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, q, "owner@example.com", model.RoleAdmin)
	net := testutil.CreateTestNetwork(t, q, owner.ID, "rede-a")

	now := time.Now().UTC()
	auto, err := q.CreateHotel(ctx, store.CreateHotelParams{
		NetworkID: net.ID, OwnerID: owner.ID, Name: "Auto", Slug: "auto",
		AutoGeneratePosts: true, PostFrequency: model.FrequencyWeekly,
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	_, err = q.CreateHotel(ctx, store.CreateHotelParams{
		NetworkID: net.ID, OwnerID: owner.ID, Name: "Manual", Slug: "manual",
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	hotels, err := q.ListAutomationHotels(ctx)
	require.NoError(t, err)
	require.Len(t, hotels, 1)
	assert.Equal(t, auto.ID, hotels[0].ID)
}

func TestAutomationLogFiltering(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, q, "owner@example.com", model.RoleAdmin)
	net := testutil.CreateTestNetwork(t, q, owner.ID, "rede-a")
	hotelA := testutil.CreateTestHotel(t, q, net.ID, owner.ID, "hotel-a")
	hotelB := testutil.CreateTestHotel(t, q, net.ID, owner.ID, "hotel-b")

	now := time.Now().UTC()
	log := func(hotelID int64, status, msg string) {
		t.Helper()
		require.NoError(t, q.CreateAutomationLog(ctx, store.CreateAutomationLogParams{
			HotelID: hotelID, RunID: "run-1", Status: status, Message: msg, CreatedAt: now,
		}))
	}
	log(hotelA.ID, model.AutomationStatusSuccess, "post created")
	log(hotelA.ID, model.AutomationStatusError, "generation failed")
	log(hotelB.ID, model.AutomationStatusSuccess, "post created")

	all, err := q.ListAutomationLogs(ctx, store.ListAutomationLogsParams{Limit: 50})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	onlyA, err := q.ListAutomationLogs(ctx, store.ListAutomationLogsParams{HotelID: hotelA.ID, Limit: 50})
	require.NoError(t, err)
	assert.Len(t, onlyA, 2)

	errCount, err := q.CountAutomationLogsByStatus(ctx, model.AutomationStatusError, now.Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), errCount)
}

func TestPostViewAggregation(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, q, "owner@example.com", model.RoleAdmin)
	net := testutil.CreateTestNetwork(t, q, owner.ID, "rede-a")
	hotel := testutil.CreateTestHotel(t, q, net.ID, owner.ID, "praia-hotel")

	now := time.Now().UTC()
	post, err := q.CreatePost(ctx, store.CreatePostParams{
		HotelID: hotel.ID, AuthorID: owner.ID, Title: "Hello", Slug: "hello",
		Content: "body", CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	view := func(device, country string) {
		t.Helper()
		require.NoError(t, q.CreatePostView(ctx, store.CreatePostViewParams{
			PostID: post.ID, HotelID: hotel.ID, Device: device,
			Browser: "Chrome", Country: country, CreatedAt: now,
		}))
	}
	view("mobile", "BR")
	view("mobile", "BR")
	view("desktop", "US")

	total, err := q.CountViewsByHotel(ctx, hotel.ID, now.Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	byDevice, err := q.ViewsByDimension(ctx, hotel.ID, "device", now.Add(-time.Minute))
	require.NoError(t, err)
	require.Len(t, byDevice, 2)
	assert.Equal(t, "mobile", byDevice[0].Key)
	assert.Equal(t, int64(2), byDevice[0].Count)

	top, err := q.TopPostsByViews(ctx, hotel.ID, now.Add(-time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, post.ID, top[0].PostID)
	assert.Equal(t, int64(3), top[0].Count)
}
