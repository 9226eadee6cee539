package domain

import "time"

// Membership binds a user to a tenant with exactly one role (by name).
// A user has at most one membership per tenant.
type Membership struct {
	ID       string
	TenantID string
	UserID   string
	Role     string
	JoinedAt time.Time
}

// Member is a membership joined with the user directory row for listings.
type Member struct {
	Membership

	Email       string
	DisplayName string
}
