package service

import (
	"context"
	"testing"

	"github.com/classhubhq/classhub/internal/authz/domain"
	"github.com/stretchr/testify/require"
)

func TestRemoveMember(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	owner := seedUser(t, s, "principal@northside.edu", "Pat Principal")
	tenant, err := s.Tenants.CreateTenant(ctx, owner, "Northside High", "")
	require.NoError(t, err)

	teacher := seedUser(t, s, "teach@northside.edu", "Tracy Teacher")
	teacherM := acceptAs(t, s, tenant.ID, owner, "teach@northside.edu", teacher, domain.RoleTeacher)

	ownerM, err := s.Store.Memberships().GetMembership(ctx, tenant.ID, owner)
	require.NoError(t, err)

	t.Run("sole owner cannot be removed", func(t *testing.T) {
		err := s.Members.RemoveMember(ctx, owner, tenant.ID, ownerM.ID)
		require.ErrorIs(t, err, ErrForbidden)

		// Still there.
		_, err = s.Store.Memberships().GetMembership(ctx, tenant.ID, owner)
		require.NoError(t, err)
	})

	t.Run("owner removes with a second owner present", func(t *testing.T) {
		second := seedUser(t, s, "deputy@northside.edu", "Dee Deputy")
		acceptAs(t, s, tenant.ID, owner, "deputy@northside.edu", second, domain.RoleOwner)

		require.NoError(t, s.Members.RemoveMember(ctx, owner, tenant.ID, ownerM.ID))

		// Back down to one owner; that one is now protected.
		secondM, err := s.Store.Memberships().GetMembership(ctx, tenant.ID, second)
		require.NoError(t, err)
		err = s.Members.RemoveMember(ctx, second, tenant.ID, secondM.ID)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("non-owner members remove freely", func(t *testing.T) {
		admin := seedUser(t, s, "office@northside.edu", "Ali Admin")
		acceptAs(t, s, tenant.ID, teacher, "office@northside.edu", admin, domain.RoleAdmin)

		require.NoError(t, s.Members.RemoveMember(ctx, admin, tenant.ID, teacherM.ID))

		_, err := s.Store.Memberships().GetMembership(ctx, tenant.ID, teacher)
		require.Error(t, err)
	})

	t.Run("unknown member is not found", func(t *testing.T) {
		members, err := s.Store.Memberships().ListMembers(ctx, tenant.ID)
		require.NoError(t, err)
		require.NotEmpty(t, members)

		err = s.Members.RemoveMember(ctx, members[0].UserID, tenant.ID, "01JUNKJUNKJUNKJUNKJUNKJUNK")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestChangeMemberRole(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	owner := seedUser(t, s, "principal@northside.edu", "Pat Principal")
	tenant, err := s.Tenants.CreateTenant(ctx, owner, "Northside High", "")
	require.NoError(t, err)

	staff := seedUser(t, s, "office@northside.edu", "Ali Office")
	staffM := acceptAs(t, s, tenant.ID, owner, "office@northside.edu", staff, domain.RoleStaff)

	ownerM, err := s.Store.Memberships().GetMembership(ctx, tenant.ID, owner)
	require.NoError(t, err)

	t.Run("promotes to an existing role", func(t *testing.T) {
		updated, err := s.Members.ChangeMemberRole(ctx, owner, tenant.ID, staffM.ID, domain.RoleAdmin)
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, updated.Role)

		m, err := s.Store.Memberships().GetMembership(ctx, tenant.ID, staff)
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, m.Role)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		_, err := s.Members.ChangeMemberRole(ctx, owner, tenant.ID, staffM.ID, "wizard")
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("sole owner cannot be demoted", func(t *testing.T) {
		_, err := s.Members.ChangeMemberRole(ctx, owner, tenant.ID, ownerM.ID, domain.RoleTeacher)
		require.ErrorIs(t, err, ErrForbidden)

		m, err := s.Store.Memberships().GetMembership(ctx, tenant.ID, owner)
		require.NoError(t, err)
		require.Equal(t, domain.RoleOwner, m.Role)
	})

	t.Run("owner demotes once another owner exists", func(t *testing.T) {
		_, err := s.Members.ChangeMemberRole(ctx, owner, tenant.ID, staffM.ID, domain.RoleOwner)
		require.NoError(t, err)

		updated, err := s.Members.ChangeMemberRole(ctx, staff, tenant.ID, ownerM.ID, domain.RoleTeacher)
		require.NoError(t, err)
		require.Equal(t, domain.RoleTeacher, updated.Role)
	})
}

func TestListMembers(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	owner := seedUser(t, s, "principal@northside.edu", "Pat Principal")
	tenant, err := s.Tenants.CreateTenant(ctx, owner, "Northside High", "")
	require.NoError(t, err)

	teacher := seedUser(t, s, "teach@northside.edu", "Tracy Teacher")
	acceptAs(t, s, tenant.ID, owner, "teach@northside.edu", teacher, domain.RoleTeacher)

	t.Run("joined with directory rows", func(t *testing.T) {
		members, err := s.Members.ListMembers(ctx, owner, tenant.ID)
		require.NoError(t, err)
		require.Len(t, members, 2)

		byEmail := make(map[string]domain.Member)
		for _, m := range members {
			byEmail[m.Email] = m
		}
		require.Equal(t, "Tracy Teacher", byEmail["teach@northside.edu"].DisplayName)
		require.Equal(t, domain.RoleOwner, byEmail["principal@northside.edu"].Role)
	})

	t.Run("students hold no member:read", func(t *testing.T) {
		student := seedUser(t, s, "kid@northside.edu", "Kim Kid")
		acceptAs(t, s, tenant.ID, owner, "kid@northside.edu", student, domain.RoleStudent)

		_, err := s.Members.ListMembers(ctx, student, tenant.ID)
		require.ErrorIs(t, err, ErrForbidden)
	})
}
