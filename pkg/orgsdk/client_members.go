package orgsdk

import (
	"context"
	"net/http"
)

// ListMembers returns the tenant roster. Requires member:read.
func (c *Client) ListMembers(ctx context.Context, tenantID string) (MemberListResponse, error) {
	var out MemberListResponse
	err := c.do(ctx, http.MethodGet, "/v1/tenants/"+tenantID+"/members", nil, &out)
	return out, err
}

// ChangeMemberRole assigns a different role to a member. Requires
// member:update. Demoting the last owner is refused.
func (c *Client) ChangeMemberRole(ctx context.Context, tenantID, memberID string, req ChangeRoleRequest) (MembershipResponse, error) {
	var out MembershipResponse
	err := c.do(ctx, http.MethodPatch, "/v1/tenants/"+tenantID+"/members/"+memberID, req, &out)
	return out, err
}

// RemoveMember deletes a membership. Requires member:delete. Removing the
// last owner is refused.
func (c *Client) RemoveMember(ctx context.Context, tenantID, memberID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/tenants/"+tenantID+"/members/"+memberID, nil, nil)
}
