// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package perm implements pure role-based permission resolution over the
// three-level tenant hierarchy (network -> hotel -> post). The resolver
// operates on an immutable Actor built once per request after token
// verification; it performs no I/O and never fails open.
package perm

import "github.com/redeblog/redeblog/internal/model"

// Action is an operation an actor may attempt on a resource.
type Action string

// Recognized actions.
const (
	ActionView          Action = "view"
	ActionManage        Action = "manage"
	ActionCreatePosts   Action = "create_posts"
	ActionViewAnalytics Action = "view_analytics"
	ActionManageUsers   Action = "manage_users"
)

// Resource is the type of tenant resource being accessed.
type Resource string

// Recognized resource types.
const (
	ResourceNetwork Resource = "network"
	ResourceHotel   Resource = "hotel"
)

// NetworkGrant is a network-scoped role assignment held by an actor.
type NetworkGrant struct {
	NetworkID int64
	Role      string
}

// HotelGrant is a hotel-scoped role assignment held by an actor. NetworkID is
// the network the hotel belongs to, carried for membership-verified checks.
type HotelGrant struct {
	HotelID   int64
	NetworkID int64
	Role      string
}

// Actor is the permission context of an authenticated user: identity, global
// role and the scoped role assignments loaded for the request. Construct it
// with NewActor and treat it as immutable.
type Actor struct {
	ID           int64
	GlobalRole   string
	networkRoles map[int64]string
	hotelRoles   map[int64]HotelGrant
}

// NewActor builds an Actor from the grants loaded for a user.
func NewActor(id int64, globalRole string, networkGrants []NetworkGrant, hotelGrants []HotelGrant) Actor {
	a := Actor{
		ID:           id,
		GlobalRole:   globalRole,
		networkRoles: make(map[int64]string, len(networkGrants)),
		hotelRoles:   make(map[int64]HotelGrant, len(hotelGrants)),
	}
	for _, g := range networkGrants {
		a.networkRoles[g.NetworkID] = g.Role
	}
	for _, g := range hotelGrants {
		a.hotelRoles[g.HotelID] = g
	}
	return a
}

// IsNetworkAdmin reports whether the actor holds the admin role for the
// given network.
func (a Actor) IsNetworkAdmin(networkID int64) bool {
	return a.networkRoles[networkID] == model.RoleAdmin
}

// HotelRole returns the actor's role for the given hotel, or "" if none.
func (a Actor) HotelRole(hotelID int64) string {
	return a.hotelRoles[hotelID].Role
}

// hasAnyHotelRole reports whether the actor holds any hotel-scoped role at
// all, optionally restricted to hotels inside the given network.
func (a Actor) hasAnyHotelRole(networkID int64, verifyMembership bool) bool {
	if !verifyMembership {
		return len(a.hotelRoles) > 0
	}
	for _, g := range a.hotelRoles {
		if g.NetworkID == networkID {
			return true
		}
	}
	return false
}

// Resolver decides whether an actor may perform an action on a resource.
type Resolver struct {
	// StrictNetworkView tightens the historical "any hotel role may view any
	// network" rule to verified membership: the actor's hotel grant must be
	// inside the network being viewed.
	StrictNetworkView bool
}

// HasPermission returns whether the actor may perform action on the resource
// identified by resourceID. For hotel resources, parentNetworkID (when
// non-nil) enables the network-admin inheritance path; when absent the check
// degrades to the hotel-scoped grants alone. The function is pure, never
// errors, and denies any combination it does not recognize.
func (r Resolver) HasPermission(actor Actor, action Action, resource Resource, resourceID int64, parentNetworkID *int64) bool {
	if actor.GlobalRole == model.RoleSuperadmin {
		return true
	}

	switch resource {
	case ResourceNetwork:
		return r.networkPermission(actor, action, resourceID)
	case ResourceHotel:
		return r.hotelPermission(actor, action, resourceID, parentNetworkID)
	}

	return false
}

func (r Resolver) networkPermission(actor Actor, action Action, networkID int64) bool {
	switch action {
	case ActionView:
		if actor.IsNetworkAdmin(networkID) {
			return true
		}
		return actor.hasAnyHotelRole(networkID, r.StrictNetworkView)
	case ActionManage, ActionManageUsers:
		return actor.IsNetworkAdmin(networkID)
	}
	return false
}

func (r Resolver) hotelPermission(actor Actor, action Action, hotelID int64, parentNetworkID *int64) bool {
	// Network admins inherit every hotel action within their network.
	if parentNetworkID != nil && actor.IsNetworkAdmin(*parentNetworkID) {
		return true
	}

	role := actor.HotelRole(hotelID)
	switch action {
	case ActionManage, ActionCreatePosts:
		return role == model.RoleEditor
	case ActionView, ActionViewAnalytics:
		return role == model.RoleEditor || role == model.RoleViewer
	case ActionManageUsers:
		// Only the network-admin inheritance path grants user management;
		// a hotel-scoped role never does.
		return false
	}
	return false
}
