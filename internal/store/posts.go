// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/redeblog/redeblog/internal/model"
)

const postColumns = `id, hotel_id, author_id, title, slug, content, image_url,
	seo_description, published_at, scheduled_at, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (model.Post, error) {
	var p model.Post
	err := row.Scan(&p.ID, &p.HotelID, &p.AuthorID, &p.Title, &p.Slug,
		&p.Content, &p.ImageURL, &p.SEODescription, &p.PublishedAt,
		&p.ScheduledAt, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// CreatePostParams are the fields for CreatePost.
type CreatePostParams struct {
	HotelID        int64
	AuthorID       int64
	Title          string
	Slug           string
	Content        string
	ImageURL       string
	SEODescription string
	PublishedAt    sql.NullTime
	ScheduledAt    sql.NullTime
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CreatePost inserts a new post and returns it.
func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (model.Post, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO posts (hotel_id, author_id, title, slug, content, image_url,
			seo_description, published_at, scheduled_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.HotelID, arg.AuthorID, arg.Title, arg.Slug, arg.Content,
		arg.ImageURL, arg.SEODescription, arg.PublishedAt, arg.ScheduledAt,
		arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return model.Post{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Post{}, err
	}
	return q.GetPostByID(ctx, id)
}

// GetPostByID fetches a post by primary key.
func (q *Queries) GetPostByID(ctx context.Context, id int64) (model.Post, error) {
	return scanPost(q.db.QueryRowContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE id = ?", id))
}

// GetPostBySlug fetches a post by its slug within a hotel.
func (q *Queries) GetPostBySlug(ctx context.Context, hotelID int64, slug string) (model.Post, error) {
	return scanPost(q.db.QueryRowContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE hotel_id = ? AND slug = ?",
		hotelID, slug))
}

// ListPostsParams are the filter and paging parameters for ListPostsByHotel.
type ListPostsParams struct {
	HotelID int64
	Limit   int64
	Offset  int64
}

// ListPostsByHotel returns a hotel's posts, newest first.
func (q *Queries) ListPostsByHotel(ctx context.Context, arg ListPostsParams) ([]model.Post, error) {
	return q.listPostsQuery(ctx,
		"SELECT "+postColumns+" FROM posts WHERE hotel_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		arg.HotelID, arg.Limit, arg.Offset)
}

// ListPublishedPostsByHotel returns a hotel's published posts, newest first.
// A post counts as published once published_at is set or scheduled_at has
// passed.
func (q *Queries) ListPublishedPostsByHotel(ctx context.Context, arg ListPostsParams, now time.Time) ([]model.Post, error) {
	return q.listPostsQuery(ctx,
		`SELECT `+postColumns+` FROM posts
		 WHERE hotel_id = ? AND (published_at IS NOT NULL OR scheduled_at <= ?)
		 ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		arg.HotelID, now, arg.Limit, arg.Offset)
}

func (q *Queries) listPostsQuery(ctx context.Context, query string, args ...any) ([]model.Post, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var posts []model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// CountPostsByHotel returns the total number of posts for a hotel.
func (q *Queries) CountPostsByHotel(ctx context.Context, hotelID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM posts WHERE hotel_id = ?", hotelID).Scan(&n)
	return n, err
}

// CountPublishedPostsSince counts a hotel's posts published at or after the
// given time. Used to enforce monthly automation limits.
func (q *Queries) CountPublishedPostsSince(ctx context.Context, hotelID int64, since time.Time) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM posts WHERE hotel_id = ? AND published_at >= ?",
		hotelID, since).Scan(&n)
	return n, err
}

// UpdatePostParams are the mutable fields for UpdatePost.
type UpdatePostParams struct {
	ID             int64
	Title          string
	Slug           string
	Content        string
	ImageURL       string
	SEODescription string
	PublishedAt    sql.NullTime
	ScheduledAt    sql.NullTime
	UpdatedAt      time.Time
}

// UpdatePost updates a post's content and publication timestamps.
func (q *Queries) UpdatePost(ctx context.Context, arg UpdatePostParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE posts SET title = ?, slug = ?, content = ?, image_url = ?,
			seo_description = ?, published_at = ?, scheduled_at = ?, updated_at = ?
		 WHERE id = ?`,
		arg.Title, arg.Slug, arg.Content, arg.ImageURL, arg.SEODescription,
		arg.PublishedAt, arg.ScheduledAt, arg.UpdatedAt, arg.ID)
	return err
}

// PostSlugExists reports whether a post slug is already taken within a hotel,
// excluding the given post id (pass 0 when creating).
func (q *Queries) PostSlugExists(ctx context.Context, hotelID int64, slug string, excludeID int64) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM posts WHERE hotel_id = ? AND slug = ? AND id != ?",
		hotelID, slug, excludeID).Scan(&n)
	return n > 0, err
}

// DeletePost removes a post.
func (q *Queries) DeletePost(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id)
	return err
}
