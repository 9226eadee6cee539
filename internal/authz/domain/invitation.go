package domain

import "time"

// InvitationTTL is how long a pending invitation stays acceptable.
const InvitationTTL = 7 * 24 * time.Hour

// InvitationStatus is the invitation state machine. pending is the only
// non-terminal state; accepted, expired and cancelled are terminal.
type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "pending"
	InvitationAccepted  InvitationStatus = "accepted"
	InvitationExpired   InvitationStatus = "expired"
	InvitationCancelled InvitationStatus = "cancelled"
)

// Invitation is a pending offer of membership at a given role, bounded by an
// expiry. The invited address is the binding: only the authenticated user
// holding that email may accept.
type Invitation struct {
	ID        string
	TenantID  string
	Email     string
	Role      string
	Status    InvitationStatus
	ExpiresAt time.Time
	InviterID string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Pending reports whether the invitation can still transition.
func (i Invitation) Pending() bool { return i.Status == InvitationPending }

// ExpiredBy reports whether the invitation's deadline has passed at now.
// The status row is only flipped lazily on access, so a pending invitation
// can be past its deadline.
func (i Invitation) ExpiredBy(now time.Time) bool { return now.After(i.ExpiresAt) }

// InvitationWithInviter is an invitation joined with the inviter's display
// name for listings.
type InvitationWithInviter struct {
	Invitation

	InviterName string
}
