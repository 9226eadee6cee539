package orgsdk

import (
	"context"
	"net/http"
)

// CreateTenant provisions a tenant. The caller becomes its first owner.
func (c *Client) CreateTenant(ctx context.Context, req CreateTenantRequest) (TenantResponse, error) {
	var out TenantResponse
	err := c.do(ctx, http.MethodPost, "/v1/tenants", req, &out)
	return out, err
}

// ListTenants returns the tenants the caller is a member of.
func (c *Client) ListTenants(ctx context.Context) (TenantListResponse, error) {
	var out TenantListResponse
	err := c.do(ctx, http.MethodGet, "/v1/tenants", nil, &out)
	return out, err
}

// GetTenant fetches one tenant. Requires membership.
func (c *Client) GetTenant(ctx context.Context, tenantID string) (TenantResponse, error) {
	var out TenantResponse
	err := c.do(ctx, http.MethodGet, "/v1/tenants/"+tenantID, nil, &out)
	return out, err
}

// DeleteTenant soft-deletes a tenant. Requires tenant:delete.
func (c *Client) DeleteTenant(ctx context.Context, tenantID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/tenants/"+tenantID, nil, nil)
}
