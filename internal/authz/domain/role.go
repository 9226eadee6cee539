package domain

import (
	"slices"
	"time"
)

// RoleKind discriminates seeded system roles from tenant-authored ones.
type RoleKind string

const (
	RoleKindSystem RoleKind = "system"
	RoleKindCustom RoleKind = "custom"
)

// Resources that grants can reference. Grants on unknown resources are
// allowed in storage (forward compatibility) but nothing checks them.
const (
	ResourceTenant       = "tenant"
	ResourceRole         = "role"
	ResourceMember       = "member"
	ResourceInvitation   = "invitation"
	ResourceCourse       = "course"
	ResourceAssignment   = "assignment"
	ResourceGrade        = "grade"
	ResourceAnnouncement = "announcement"
)

// Actions within a resource grant.
const (
	ActionCreate = "create"
	ActionRead   = "read"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Role is a named bundle of grants scoped to one tenant. Role names are
// unique per tenant; memberships and invitations reference roles by name.
type Role struct {
	ID          string
	TenantID    string
	Name        string
	Kind        RoleKind
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// System reports whether the role was seeded and is therefore immutable in
// identity (cannot be deleted or renamed).
func (r Role) System() bool { return r.Kind == RoleKindSystem }

// Grant attaches a set of allowed actions on one resource to a role.
// Actions are stored space-delimited (same convention as scope lists).
type Grant struct {
	Resource string
	Actions  []string
}

// Allows reports whether the grant includes the action.
func (g Grant) Allows(action string) bool {
	return slices.Contains(g.Actions, action)
}

// RoleWithGrants is a role populated with its full grant list, as returned
// by the joined role listing.
type RoleWithGrants struct {
	Role

	Grants []Grant
}
