package authz_test

import (
	"net/http"
	"testing"

	"github.com/classhubhq/classhub/pkg/orgsdk"
	"github.com/stretchr/testify/require"
)

func TestHealthEndpoints(t *testing.T) {
	baseURL := setupAuthzContainer(t)
	client := anonymousClient(baseURL)

	health, err := client.Livez(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", health.Status)
	require.NotEmpty(t, health.Version)

	ready, err := client.Readyz(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.Equal(t, "ok", ready.DB)
}

func TestTenantProvisioning(t *testing.T) {
	baseURL := setupAuthzContainer(t)
	principal := sessionFor(t, baseURL, "user-principal", "principal@acme.edu", "Pat Principal")

	t.Run("anonymous callers cannot create tenants", func(t *testing.T) {
		_, err := anonymousClient(baseURL).CreateTenant(t.Context(), orgsdk.CreateTenantRequest{Name: "Nope High"})
		requireAPIError(t, err, http.StatusUnauthorized)
	})

	tenant, err := principal.CreateTenant(t.Context(), orgsdk.CreateTenantRequest{
		Name: "Acme Academy",
		Kind: "school",
	})
	require.NoError(t, err)
	require.NotEmpty(t, tenant.ID)

	t.Run("the catalog is seeded", func(t *testing.T) {
		roles, err := principal.ListRoles(t.Context(), tenant.ID)
		require.NoError(t, err)
		require.Len(t, roles.Roles, 6)

		names := make(map[string]bool)
		for _, r := range roles.Roles {
			names[r.Name] = true
			require.Equal(t, "system", r.Kind)
			require.NotEmpty(t, r.Grants)
		}
		for _, want := range []string{"owner", "admin", "teacher", "student", "parent", "staff"} {
			require.True(t, names[want], "missing role %s", want)
		}
	})

	t.Run("the creator is the sole owner", func(t *testing.T) {
		members, err := principal.ListMembers(t.Context(), tenant.ID)
		require.NoError(t, err)
		require.Len(t, members.Members, 1)
		require.Equal(t, "owner", members.Members[0].Role)
		require.Equal(t, "principal@acme.edu", members.Members[0].Email)
	})

	t.Run("outsiders are forbidden", func(t *testing.T) {
		outsider := sessionFor(t, baseURL, "user-outsider", "nobody@elsewhere.org", "Norm Nobody")
		_, err := outsider.GetTenant(t.Context(), tenant.ID)
		requireAPIError(t, err, http.StatusForbidden)
	})

	t.Run("listing shows only my tenants", func(t *testing.T) {
		list, err := principal.ListTenants(t.Context())
		require.NoError(t, err)
		require.Len(t, list.Tenants, 1)
		require.Equal(t, tenant.ID, list.Tenants[0].ID)
	})
}

func TestCustomRoleManagement(t *testing.T) {
	baseURL := setupAuthzContainer(t)
	principal := sessionFor(t, baseURL, "user-principal", "principal@acme.edu", "Pat Principal")

	tenant, err := principal.CreateTenant(t.Context(), orgsdk.CreateTenantRequest{Name: "Acme Academy"})
	require.NoError(t, err)

	role, err := principal.CreateRole(t.Context(), tenant.ID, orgsdk.CreateRoleRequest{
		Name:        "librarian",
		Description: "Runs the library",
		Grants: []orgsdk.GrantPayload{
			{Resource: "course", Actions: []string{"read"}},
			{Resource: "announcement", Actions: []string{"create", "read"}},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "custom", role.Kind)

	t.Run("duplicate names conflict", func(t *testing.T) {
		_, err := principal.CreateRole(t.Context(), tenant.ID, orgsdk.CreateRoleRequest{Name: "librarian"})
		requireAPIError(t, err, http.StatusConflict)
	})

	t.Run("grant replacement is total", func(t *testing.T) {
		err := principal.UpdatePermissions(t.Context(), tenant.ID, role.ID, orgsdk.UpdatePermissionsRequest{
			Grants: []orgsdk.GrantPayload{{Resource: "grade", Actions: []string{"read"}}},
		})
		require.NoError(t, err)

		got, err := principal.GetRole(t.Context(), tenant.ID, role.ID)
		require.NoError(t, err)
		require.Len(t, got.Grants, 1)
		require.Equal(t, "grade", got.Grants[0].Resource)
	})

	t.Run("system roles refuse deletion", func(t *testing.T) {
		roles, err := principal.ListRoles(t.Context(), tenant.ID)
		require.NoError(t, err)
		for _, r := range roles.Roles {
			if r.Name == "owner" {
				requireAPIError(t, principal.DeleteRole(t.Context(), tenant.ID, r.ID), http.StatusForbidden)
			}
		}
	})

	t.Run("custom roles delete", func(t *testing.T) {
		require.NoError(t, principal.DeleteRole(t.Context(), tenant.ID, role.ID))
		_, err := principal.GetRole(t.Context(), tenant.ID, role.ID)
		requireAPIError(t, err, http.StatusNotFound)
	})
}
