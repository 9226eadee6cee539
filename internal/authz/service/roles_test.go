package service

import (
	"context"
	"testing"

	"github.com/classhubhq/classhub/internal/authz/domain"
	"github.com/stretchr/testify/require"
)

func TestCreateRole(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	owner := seedUser(t, s, "principal@northside.edu", "Pat Principal")
	tenant, err := s.Tenants.CreateTenant(ctx, owner, "Northside High", "")
	require.NoError(t, err)

	grants := []domain.Grant{
		{Resource: domain.ResourceCourse, Actions: []string{domain.ActionRead}},
		{Resource: domain.ResourceAnnouncement, Actions: []string{domain.ActionCreate, domain.ActionRead}},
	}

	t.Run("creates role with grants", func(t *testing.T) {
		role, err := s.Roles.CreateRole(ctx, owner, tenant.ID, "volunteer", "Parent volunteer", grants)
		require.NoError(t, err)
		require.Equal(t, domain.RoleKindCustom, role.Kind)

		got, err := s.Roles.GetRole(ctx, owner, tenant.ID, role.ID)
		require.NoError(t, err)
		require.Len(t, got.Grants, 2)
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		_, err := s.Roles.CreateRole(ctx, owner, tenant.ID, "volunteer", "", grants)
		require.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("reserved names rejected", func(t *testing.T) {
		_, err := s.Roles.CreateRole(ctx, owner, tenant.ID, domain.RoleOwner, "", grants)
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("empty grant set is allowed, grants deny everything", func(t *testing.T) {
		role, err := s.Roles.CreateRole(ctx, owner, tenant.ID, "observer", "", nil)
		require.NoError(t, err)

		ok, err := s.Perms.HasPermission(ctx, tenant.ID, role.Name, domain.ResourceCourse, domain.ActionRead)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("malformed grants rejected", func(t *testing.T) {
		_, err := s.Roles.CreateRole(ctx, owner, tenant.ID, "broken", "", []domain.Grant{
			{Resource: domain.ResourceCourse, Actions: nil},
		})
		require.ErrorIs(t, err, ErrValidation)

		_, err = s.Roles.CreateRole(ctx, owner, tenant.ID, "broken", "", []domain.Grant{
			{Resource: domain.ResourceCourse, Actions: []string{domain.ActionRead}},
			{Resource: domain.ResourceCourse, Actions: []string{domain.ActionDelete}},
		})
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("students may not create roles", func(t *testing.T) {
		student := seedUser(t, s, "kid@northside.edu", "Kim Kid")
		acceptAs(t, s, tenant.ID, owner, "kid@northside.edu", student, domain.RoleStudent)

		_, err := s.Roles.CreateRole(ctx, student, tenant.ID, "sneaky", "", grants)
		require.ErrorIs(t, err, ErrForbidden)
	})
}

func TestUpdatePermissionsIsTotalReplace(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	owner := seedUser(t, s, "principal@northside.edu", "Pat Principal")
	tenant, err := s.Tenants.CreateTenant(ctx, owner, "Northside High", "")
	require.NoError(t, err)

	role, err := s.Roles.CreateRole(ctx, owner, tenant.ID, "coach", "Sports coach", []domain.Grant{
		{Resource: domain.ResourceCourse, Actions: []string{domain.ActionRead}},
		{Resource: domain.ResourceAnnouncement, Actions: []string{domain.ActionCreate}},
	})
	require.NoError(t, err)

	err = s.Roles.UpdatePermissions(ctx, owner, tenant.ID, role.ID, []domain.Grant{
		{Resource: domain.ResourceGrade, Actions: []string{domain.ActionRead}},
	})
	require.NoError(t, err)

	got, err := s.Roles.GetRole(ctx, owner, tenant.ID, role.ID)
	require.NoError(t, err)
	require.Len(t, got.Grants, 1)
	require.Equal(t, domain.ResourceGrade, got.Grants[0].Resource)

	// Old grants are truly gone, not merged.
	ok, err := s.Perms.HasPermission(ctx, tenant.ID, "coach", domain.ResourceCourse, domain.ActionRead)
	require.NoError(t, err)
	require.False(t, ok)

	t.Run("system role grants may be edited", func(t *testing.T) {
		staff, err := s.Store.Roles().GetRoleByName(ctx, tenant.ID, domain.RoleStaff)
		require.NoError(t, err)

		err = s.Roles.UpdatePermissions(ctx, owner, tenant.ID, staff.ID, []domain.Grant{
			{Resource: domain.ResourceAnnouncement, Actions: []string{domain.ActionRead}},
		})
		require.NoError(t, err)

		ok, err := s.Perms.HasPermission(ctx, tenant.ID, domain.RoleStaff, domain.ResourceAnnouncement, domain.ActionCreate)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("unknown role is not found", func(t *testing.T) {
		err := s.Roles.UpdatePermissions(ctx, owner, tenant.ID, "01JUNKJUNKJUNKJUNKJUNKJUNK", nil)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDeleteRole(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	owner := seedUser(t, s, "principal@northside.edu", "Pat Principal")
	tenant, err := s.Tenants.CreateTenant(ctx, owner, "Northside High", "")
	require.NoError(t, err)

	t.Run("system roles refuse deletion", func(t *testing.T) {
		staff, err := s.Store.Roles().GetRoleByName(ctx, tenant.ID, domain.RoleStaff)
		require.NoError(t, err)

		err = s.Roles.DeleteRole(ctx, owner, tenant.ID, staff.ID)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("custom roles delete with their grants", func(t *testing.T) {
		role, err := s.Roles.CreateRole(ctx, owner, tenant.ID, "temp", "", []domain.Grant{
			{Resource: domain.ResourceCourse, Actions: []string{domain.ActionRead}},
		})
		require.NoError(t, err)

		require.NoError(t, s.Roles.DeleteRole(ctx, owner, tenant.ID, role.ID))

		_, err = s.Roles.GetRole(ctx, owner, tenant.ID, role.ID)
		require.ErrorIs(t, err, ErrNotFound)

		grants, err := s.Store.Permissions().ListGrantsForRole(ctx, role.ID)
		require.NoError(t, err)
		require.Empty(t, grants)
	})
}
