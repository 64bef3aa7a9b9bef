package perm

import (
	"testing"

	"github.com/redeblog/redeblog/internal/model"
)

var allActions = []Action{ActionView, ActionManage, ActionCreatePosts, ActionViewAnalytics, ActionManageUsers}

func ptr(id int64) *int64 { return &id }

func TestSuperadminAllowsEverything(t *testing.T) {
	r := Resolver{}
	actor := NewActor(1, model.RoleSuperadmin, nil, nil)

	for _, action := range allActions {
		for _, resource := range []Resource{ResourceNetwork, ResourceHotel} {
			if !r.HasPermission(actor, action, resource, 99, nil) {
				t.Errorf("superadmin denied %s on %s", action, resource)
			}
			if !r.HasPermission(actor, action, resource, 99, ptr(5)) {
				t.Errorf("superadmin denied %s on %s with parent", action, resource)
			}
		}
	}
}

func TestNetworkAdminPermissions(t *testing.T) {
	r := Resolver{}
	actor := NewActor(2, model.RoleEditor, []NetworkGrant{{NetworkID: 10, Role: model.RoleAdmin}}, nil)

	tests := []struct {
		name     string
		action   Action
		resource Resource
		id       int64
		parent   *int64
		want     bool
	}{
		{"manage own network", ActionManage, ResourceNetwork, 10, nil, true},
		{"manage_users own network", ActionManageUsers, ResourceNetwork, 10, nil, true},
		{"view own network", ActionView, ResourceNetwork, 10, nil, true},
		{"manage other network", ActionManage, ResourceNetwork, 11, nil, false},
		{"hotel manage via inheritance", ActionManage, ResourceHotel, 50, ptr(10), true},
		{"hotel create_posts via inheritance", ActionCreatePosts, ResourceHotel, 50, ptr(10), true},
		{"hotel manage_users via inheritance", ActionManageUsers, ResourceHotel, 50, ptr(10), true},
		{"hotel view via inheritance", ActionView, ResourceHotel, 50, ptr(10), true},
		{"hotel in other network", ActionManage, ResourceHotel, 50, ptr(11), false},
		{"hotel without parent id degrades to deny", ActionManage, ResourceHotel, 50, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.HasPermission(actor, tt.action, tt.resource, tt.id, tt.parent)
			if got != tt.want {
				t.Errorf("HasPermission(%s, %s, %d) = %v, want %v", tt.action, tt.resource, tt.id, got, tt.want)
			}
		})
	}
}

func TestHotelEditorPermissions(t *testing.T) {
	r := Resolver{}
	actor := NewActor(3, model.RoleViewer, nil, []HotelGrant{{HotelID: 7, NetworkID: 10, Role: model.RoleEditor}})

	tests := []struct {
		action Action
		id     int64
		want   bool
	}{
		{ActionManage, 7, true},
		{ActionCreatePosts, 7, true},
		{ActionView, 7, true},
		{ActionViewAnalytics, 7, true},
		{ActionManageUsers, 7, false},
		{ActionManage, 8, false},
		{ActionView, 8, false},
	}

	for _, tt := range tests {
		got := r.HasPermission(actor, tt.action, ResourceHotel, tt.id, nil)
		if got != tt.want {
			t.Errorf("editor HasPermission(%s, hotel %d) = %v, want %v", tt.action, tt.id, got, tt.want)
		}
	}
}

func TestHotelViewerPermissions(t *testing.T) {
	r := Resolver{}
	actor := NewActor(4, model.RoleViewer, nil, []HotelGrant{{HotelID: 7, NetworkID: 10, Role: model.RoleViewer}})

	tests := []struct {
		action Action
		want   bool
	}{
		{ActionView, true},
		{ActionViewAnalytics, true},
		{ActionManage, false},
		{ActionCreatePosts, false},
		{ActionManageUsers, false},
	}

	for _, tt := range tests {
		got := r.HasPermission(actor, tt.action, ResourceHotel, 7, nil)
		if got != tt.want {
			t.Errorf("viewer HasPermission(%s, hotel 7) = %v, want %v", tt.action, got, tt.want)
		}
	}
}

func TestCoarseNetworkViewRule(t *testing.T) {
	// An actor with any hotel role may view any network when strict mode is
	// off (historical behavior), but only networks containing their hotel
	// when strict mode is on.
	actor := NewActor(5, model.RoleViewer, nil, []HotelGrant{{HotelID: 7, NetworkID: 10, Role: model.RoleViewer}})

	loose := Resolver{StrictNetworkView: false}
	if !loose.HasPermission(actor, ActionView, ResourceNetwork, 10, nil) {
		t.Error("loose mode: member network view denied")
	}
	if !loose.HasPermission(actor, ActionView, ResourceNetwork, 999, nil) {
		t.Error("loose mode: unrelated network view must be allowed for compatibility")
	}

	strict := Resolver{StrictNetworkView: true}
	if !strict.HasPermission(actor, ActionView, ResourceNetwork, 10, nil) {
		t.Error("strict mode: member network view denied")
	}
	if strict.HasPermission(actor, ActionView, ResourceNetwork, 999, nil) {
		t.Error("strict mode: unrelated network view must be denied")
	}
}

func TestNetworkViewNeverGrantsManage(t *testing.T) {
	r := Resolver{}
	actor := NewActor(6, model.RoleViewer, nil, []HotelGrant{{HotelID: 7, NetworkID: 10, Role: model.RoleEditor}})

	if r.HasPermission(actor, ActionManage, ResourceNetwork, 10, nil) {
		t.Error("hotel editor must not manage the network")
	}
	if r.HasPermission(actor, ActionManageUsers, ResourceNetwork, 10, nil) {
		t.Error("hotel editor must not manage network users")
	}
}

func TestNoGrantsDeniesAll(t *testing.T) {
	r := Resolver{}
	actor := NewActor(7, model.RoleViewer, nil, nil)

	for _, action := range allActions {
		if r.HasPermission(actor, action, ResourceNetwork, 1, nil) {
			t.Errorf("grantless actor allowed %s on network", action)
		}
		if r.HasPermission(actor, action, ResourceHotel, 1, nil) {
			t.Errorf("grantless actor allowed %s on hotel", action)
		}
	}
}

func TestUnknownCombinationsFailClosed(t *testing.T) {
	r := Resolver{}
	actor := NewActor(8, model.RoleAdmin, []NetworkGrant{{NetworkID: 1, Role: model.RoleAdmin}}, nil)

	if r.HasPermission(actor, Action("destroy"), ResourceNetwork, 1, nil) {
		t.Error("unknown action must be denied")
	}
	if r.HasPermission(actor, ActionView, Resource("post"), 1, nil) {
		t.Error("unknown resource type must be denied")
	}
}
