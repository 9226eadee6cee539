package store

import (
	"context"
	"errors"
	"time"

	"github.com/classhubhq/classhub/internal/authz/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and to make transactional scope explicit at the call site.
type Store interface {
	Tenants() Tenants
	Roles() Roles
	Permissions() Permissions
	Memberships() Memberships
	Invitations() Invitations
	Users() Users

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction: rolled back if fn returns an
	// error, committed otherwise. Use it for every multi-statement mutation
	// (role + grants, tenant + seeding + first membership, accept +
	// membership insert) so no partial state is ever observable.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Tenants interface {
	// CreateTenant inserts a new tenant row (id is app-provided ULID).
	CreateTenant(ctx context.Context, t domain.Tenant) error

	// GetTenantByID returns the tenant row, soft-deleted or not. Callers
	// decide what a deleted tenant means for them.
	GetTenantByID(ctx context.Context, id string) (domain.Tenant, error)

	// ListTenantsForUser returns non-deleted tenants the user belongs to,
	// ordered by creation date.
	ListTenantsForUser(ctx context.Context, userID string) ([]domain.Tenant, error)

	// SoftDeleteTenant marks the tenant deleted; rows stay in place.
	SoftDeleteTenant(ctx context.Context, id string, at time.Time) error

	// PurgeDeletedBefore removes tenants soft-deleted before the cutoff;
	// roles, grants, memberships and invitations cascade per schema.
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type Roles interface {
	// CreateRole inserts a role row. Duplicate (tenant, name) returns
	// ErrAlreadyExists.
	CreateRole(ctx context.Context, r domain.Role) error

	// GetRoleByID fetches a role scoped to its tenant.
	GetRoleByID(ctx context.Context, tenantID, id string) (domain.Role, error)

	// GetRoleByName fetches a role by its per-tenant unique name.
	GetRoleByName(ctx context.Context, tenantID, name string) (domain.Role, error)

	// ListRolesWithGrants returns all tenant roles, each populated with its
	// grant list, aggregated from a joined scan.
	ListRolesWithGrants(ctx context.Context, tenantID string) ([]domain.RoleWithGrants, error)


	// DeleteRole removes the role row; grants cascade per schema.
	DeleteRole(ctx context.Context, tenantID, id string) error
}

type Permissions interface {
	// CreateGrant inserts one (resource, actions) grant for a role.
	// Duplicate (role, resource) returns ErrAlreadyExists.
	CreateGrant(ctx context.Context, id, roleID string, g domain.Grant) error

	// GetGrant fetches the grant a role holds on one resource.
	GetGrant(ctx context.Context, roleID, resource string) (domain.Grant, error)

	// ListGrantsForRole returns all grants attached to a role.
	ListGrantsForRole(ctx context.Context, roleID string) ([]domain.Grant, error)

	// DeleteGrantsForRole removes every grant of a role. Used by the
	// full-replace permission update inside a transaction.
	DeleteGrantsForRole(ctx context.Context, roleID string) error
}

type Memberships interface {
	// CreateMembership inserts a membership row. A second membership for the
	// same (tenant, user) returns ErrAlreadyExists.
	CreateMembership(ctx context.Context, m domain.Membership) error

	// GetMembership fetches the membership of a user in a tenant.
	GetMembership(ctx context.Context, tenantID, userID string) (domain.Membership, error)

	// GetMembershipByID fetches a membership scoped to its tenant.
	GetMembershipByID(ctx context.Context, tenantID, id string) (domain.Membership, error)

	// ListMembers returns tenant memberships joined with the user directory.
	ListMembers(ctx context.Context, tenantID string) ([]domain.Member, error)

	// CountByRole counts memberships holding the given role in a tenant.
	// The last-owner invariant rests on this running inside the same
	// transaction as the delete.
	CountByRole(ctx context.Context, tenantID, role string) (int, error)

	// UpdateMembershipRole changes the member's role and bumps nothing else.
	UpdateMembershipRole(ctx context.Context, tenantID, id, role string) error

	// DeleteMembership removes the membership row.
	DeleteMembership(ctx context.Context, tenantID, id string) error
}

type Invitations interface {
	// CreateInvitation inserts a pending invitation. A second pending row
	// for the same (tenant, email) trips the partial unique index and
	// returns ErrAlreadyExists.
	CreateInvitation(ctx context.Context, inv domain.Invitation) error

	// GetInvitationByID fetches an invitation in any status.
	GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error)

	// GetPendingByEmail fetches the pending invitation for (tenant, email),
	// if one exists.
	GetPendingByEmail(ctx context.Context, tenantID, email string) (domain.Invitation, error)

	// ListInvitations returns all tenant invitations regardless of status,
	// joined with the inviter's display name, newest first.
	ListInvitations(ctx context.Context, tenantID string) ([]domain.InvitationWithInviter, error)

	// TransitionFromPending moves a pending invitation to a terminal status.
	// Returns ErrNotFound when the row is absent or no longer pending, which
	// makes concurrent double-accepts lose cleanly.
	TransitionFromPending(ctx context.Context, id string, to domain.InvitationStatus, at time.Time) error

	// ExpireOverdue marks every pending invitation past its deadline as
	// expired and reports how many rows changed. Housekeeping only; the
	// accept path expires lazily regardless.
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

type Users interface {
	// UpsertUser inserts or refreshes a directory row from session claims.
	UpsertUser(ctx context.Context, u domain.User) error

	// GetUserByID fetches a directory row.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail fetches a directory row by email. Used by the invite
	// pre-checks ("does this address already belong to a member?").
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
}
