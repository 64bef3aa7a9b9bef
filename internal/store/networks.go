// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/redeblog/redeblog/internal/model"
)

const networkColumns = "id, name, slug, description, owner_id, created_at, updated_at"

func scanNetwork(row interface{ Scan(...any) error }) (model.Network, error) {
	var n model.Network
	err := row.Scan(&n.ID, &n.Name, &n.Slug, &n.Description, &n.OwnerID,
		&n.CreatedAt, &n.UpdatedAt)
	return n, err
}

// CreateNetworkParams are the fields for CreateNetwork.
type CreateNetworkParams struct {
	Name        string
	Slug        string
	Description string
	OwnerID     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateNetwork inserts a new network and returns it.
func (q *Queries) CreateNetwork(ctx context.Context, arg CreateNetworkParams) (model.Network, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO networks (name, slug, description, owner_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		arg.Name, arg.Slug, arg.Description, arg.OwnerID, arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return model.Network{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Network{}, err
	}
	return q.GetNetworkByID(ctx, id)
}

// GetNetworkByID fetches a network by primary key.
func (q *Queries) GetNetworkByID(ctx context.Context, id int64) (model.Network, error) {
	return scanNetwork(q.db.QueryRowContext(ctx,
		"SELECT "+networkColumns+" FROM networks WHERE id = ?", id))
}

// GetNetworkBySlug fetches a network by its unique slug.
func (q *Queries) GetNetworkBySlug(ctx context.Context, slug string) (model.Network, error) {
	return scanNetwork(q.db.QueryRowContext(ctx,
		"SELECT "+networkColumns+" FROM networks WHERE slug = ?", slug))
}

// ListNetworks returns all networks ordered by name.
func (q *Queries) ListNetworks(ctx context.Context) ([]model.Network, error) {
	return q.listNetworksQuery(ctx,
		"SELECT "+networkColumns+" FROM networks ORDER BY name")
}

// ListNetworksByIDs returns the networks whose ids are in the given set,
// ordered by name. An empty set returns no rows.
func (q *Queries) ListNetworksByIDs(ctx context.Context, ids []int64) ([]model.Network, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := "SELECT " + networkColumns + " FROM networks WHERE id IN (?" +
		repeatPlaceholder(len(ids)-1) + ") ORDER BY name"
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return q.listNetworksQuery(ctx, query, args...)
}

func (q *Queries) listNetworksQuery(ctx context.Context, query string, args ...any) ([]model.Network, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var networks []model.Network
	for rows.Next() {
		n, err := scanNetwork(rows)
		if err != nil {
			return nil, err
		}
		networks = append(networks, n)
	}
	return networks, rows.Err()
}

// UpdateNetworkParams are the mutable fields for UpdateNetwork.
type UpdateNetworkParams struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	UpdatedAt   time.Time
}

// UpdateNetwork updates a network's name, slug and description.
func (q *Queries) UpdateNetwork(ctx context.Context, arg UpdateNetworkParams) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE networks SET name = ?, slug = ?, description = ?, updated_at = ? WHERE id = ?",
		arg.Name, arg.Slug, arg.Description, arg.UpdatedAt, arg.ID)
	return err
}

// NetworkSlugExists reports whether a network slug is already taken,
// excluding the given network id (pass 0 when creating).
func (q *Queries) NetworkSlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM networks WHERE slug = ? AND id != ?",
		slug, excludeID).Scan(&n)
	return n > 0, err
}

// DeleteNetworkCascade removes a network and everything under it inside a
// single transaction. Foreign keys handle the cascade; the explicit
// transaction keeps a partially deleted tree from ever being observable.
func DeleteNetworkCascade(ctx context.Context, db *sql.DB, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM networks WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting network %d: %w", id, err)
	}

	return tx.Commit()
}

// repeatPlaceholder returns n copies of ", ?" for IN clauses.
func repeatPlaceholder(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		s += ", ?"
	}
	return s
}
