package orgsdk

import "time"

// GrantPayload is one (resource, actions) pair of a role's grant set.
type GrantPayload struct {
	Resource string   `json:"resource"`
	Actions  []string `json:"actions"`
}

// CreateTenantRequest provisions a tenant. Kind defaults to "school".
type CreateTenantRequest struct {
	Name string `json:"name"`
	Kind string `json:"kind,omitempty"`
}

// TenantResponse is one tenant.
type TenantResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// TenantListResponse wraps a tenant listing.
type TenantListResponse struct {
	Tenants []TenantResponse `json:"tenants"`
}

// CreateRoleRequest adds a custom role with its initial grants.
type CreateRoleRequest struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Grants      []GrantPayload `json:"grants"`
}

// UpdatePermissionsRequest replaces a role's entire grant set.
type UpdatePermissionsRequest struct {
	Grants []GrantPayload `json:"grants"`
}

// RoleResponse is one role with its grants.
type RoleResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Kind        string         `json:"kind"`
	Description string         `json:"description,omitempty"`
	Grants      []GrantPayload `json:"grants"`
}

// RoleListResponse wraps a role listing.
type RoleListResponse struct {
	Roles []RoleResponse `json:"roles"`
}

// MemberResponse is one tenant member.
type MemberResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
}

// MemberListResponse wraps a member listing.
type MemberListResponse struct {
	Members []MemberResponse `json:"members"`
}

// ChangeRoleRequest assigns a different role to a member.
type ChangeRoleRequest struct {
	Role string `json:"role"`
}

// InviteRequest offers membership at a role to an email address.
type InviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// InvitationResponse is one invitation.
type InvitationResponse struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Status      string    `json:"status"`
	InviterName string    `json:"inviter_name,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// InvitationListResponse wraps an invitation listing.
type InvitationListResponse struct {
	Invitations []InvitationResponse `json:"invitations"`
}

// MembershipResponse is returned when an invitation is accepted.
type MembershipResponse struct {
	ID       string    `json:"id"`
	TenantID string    `json:"tenant_id"`
	UserID   string    `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// ErrorResponse is the error body every endpoint returns on failure.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// HealthResponse is returned by the liveness probe.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}

// ReadyResponse is returned by the readiness probe.
type ReadyResponse struct {
	Status string `json:"status"`
	DB     string `json:"db"`
}
