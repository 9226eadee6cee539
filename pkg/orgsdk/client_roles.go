package orgsdk

import (
	"context"
	"net/http"
)

// CreateRole adds a custom role to the tenant. Requires role:create.
func (c *Client) CreateRole(ctx context.Context, tenantID string, req CreateRoleRequest) (RoleResponse, error) {
	var out RoleResponse
	err := c.do(ctx, http.MethodPost, "/v1/tenants/"+tenantID+"/roles", req, &out)
	return out, err
}

// ListRoles returns every role of the tenant with grants. Requires role:read.
func (c *Client) ListRoles(ctx context.Context, tenantID string) (RoleListResponse, error) {
	var out RoleListResponse
	err := c.do(ctx, http.MethodGet, "/v1/tenants/"+tenantID+"/roles", nil, &out)
	return out, err
}

// GetRole fetches one role with its grants. Requires role:read.
func (c *Client) GetRole(ctx context.Context, tenantID, roleID string) (RoleResponse, error) {
	var out RoleResponse
	err := c.do(ctx, http.MethodGet, "/v1/tenants/"+tenantID+"/roles/"+roleID, nil, &out)
	return out, err
}

// UpdatePermissions replaces a role's whole grant set. Requires role:update.
func (c *Client) UpdatePermissions(ctx context.Context, tenantID, roleID string, req UpdatePermissionsRequest) error {
	return c.do(ctx, http.MethodPut, "/v1/tenants/"+tenantID+"/roles/"+roleID+"/permissions", req, nil)
}

// DeleteRole removes a custom role. System roles refuse. Requires role:delete.
func (c *Client) DeleteRole(ctx context.Context, tenantID, roleID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/tenants/"+tenantID+"/roles/"+roleID, nil, nil)
}
