package orgsdk

import (
	"context"
	"net/http"
)

// Invite offers membership at a role to an email address. Requires
// invitation:create.
func (c *Client) Invite(ctx context.Context, tenantID string, req InviteRequest) (InvitationResponse, error) {
	var out InvitationResponse
	err := c.do(ctx, http.MethodPost, "/v1/tenants/"+tenantID+"/invitations", req, &out)
	return out, err
}

// ListInvitations returns every invitation of the tenant, all statuses.
// Requires invitation:read.
func (c *Client) ListInvitations(ctx context.Context, tenantID string) (InvitationListResponse, error) {
	var out InvitationListResponse
	err := c.do(ctx, http.MethodGet, "/v1/tenants/"+tenantID+"/invitations", nil, &out)
	return out, err
}

// CancelInvitation withdraws a pending invitation. Requires invitation:delete.
func (c *Client) CancelInvitation(ctx context.Context, tenantID, invitationID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/tenants/"+tenantID+"/invitations/"+invitationID, nil, nil)
}

// AcceptInvitation redeems an invitation addressed to the caller's session
// email. No prior membership is needed.
func (c *Client) AcceptInvitation(ctx context.Context, invitationID string) (MembershipResponse, error) {
	var out MembershipResponse
	err := c.do(ctx, http.MethodPost, "/v1/invitations/"+invitationID+"/accept", nil, &out)
	return out, err
}
