package domain

import "time"

// Tenant kinds. Freeform in storage; these are the ones the platform ships.
const (
	TenantKindSchool   = "school"
	TenantKindDistrict = "district"
	TenantKindClub     = "club"
)

// Tenant is the isolation boundary. Every role, membership and invitation
// belongs to exactly one tenant and is never visible across tenants.
type Tenant struct {
	ID        string
	Name      string
	Kind      string
	DeletedAt *time.Time // soft delete; rows stay but the tenant is inaccessible
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Deleted reports whether the tenant has been soft-deleted.
func (t Tenant) Deleted() bool { return t.DeletedAt != nil }
