package service

import (
	"context"
	"testing"
	"time"

	"github.com/classhubhq/classhub/internal/authz/domain"
	"github.com/stretchr/testify/require"
)

func TestInvite(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	owner := seedUser(t, s, "principal@northside.edu", "Pat Principal")
	tenant, err := s.Tenants.CreateTenant(ctx, owner, "Northside High", "")
	require.NoError(t, err)

	t.Run("creates a pending invitation and sends mail", func(t *testing.T) {
		inv, err := s.Invites.Invite(ctx, owner, tenant.ID, "Teach@Northside.EDU", domain.RoleTeacher)
		require.NoError(t, err)
		require.Equal(t, domain.InvitationPending, inv.Status)
		require.Equal(t, "teach@northside.edu", inv.Email) // normalized
		require.WithinDuration(t, time.Now().Add(domain.InvitationTTL), inv.ExpiresAt, time.Minute)

		require.Len(t, s.Mail.Sent, 1)
		require.Equal(t, "teach@northside.edu", s.Mail.Sent[0].To)
	})

	t.Run("second pending invitation for same email rejected", func(t *testing.T) {
		_, err := s.Invites.Invite(ctx, owner, tenant.ID, "teach@northside.edu", domain.RoleStaff)
		require.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		_, err := s.Invites.Invite(ctx, owner, tenant.ID, "someone@northside.edu", "wizard")
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("bad address rejected", func(t *testing.T) {
		_, err := s.Invites.Invite(ctx, owner, tenant.ID, "not an email", domain.RoleStaff)
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("existing member rejected", func(t *testing.T) {
		_, err := s.Invites.Invite(ctx, owner, tenant.ID, "principal@northside.edu", domain.RoleStaff)
		require.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("existing member rejected whatever the session email casing", func(t *testing.T) {
		// The identity service may case claims however it likes; the
		// directory stores them lowercased so the membership check still
		// catches the address.
		deputy := seedUser(t, s, "Deputy@Northside.EDU", "Dee Deputy")
		acceptAs(t, s, tenant.ID, owner, "deputy@northside.edu", deputy, domain.RoleAdmin)

		_, err := s.Invites.Invite(ctx, owner, tenant.ID, "DEPUTY@northside.edu", domain.RoleStaff)
		require.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("students may not invite", func(t *testing.T) {
		student := seedUser(t, s, "kid@northside.edu", "Kim Kid")
		acceptAs(t, s, tenant.ID, owner, "kid@northside.edu", student, domain.RoleStudent)

		_, err := s.Invites.Invite(ctx, student, tenant.ID, "friend@northside.edu", domain.RoleStudent)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("mail failure does not roll back the invitation", func(t *testing.T) {
		s.Mail.Fail = true
		defer func() { s.Mail.Fail = false }()

		inv, err := s.Invites.Invite(ctx, owner, tenant.ID, "quiet@northside.edu", domain.RoleStaff)
		require.NoError(t, err)

		stored, err := s.Store.Invitations().GetInvitationByID(ctx, inv.ID)
		require.NoError(t, err)
		require.Equal(t, domain.InvitationPending, stored.Status)
	})

	t.Run("soft-deleted tenant refuses invitations", func(t *testing.T) {
		gone, err := s.Tenants.CreateTenant(ctx, owner, "Closing School", "")
		require.NoError(t, err)
		require.NoError(t, s.Tenants.SoftDeleteTenant(ctx, owner, gone.ID))

		_, err = s.Invites.Invite(ctx, owner, gone.ID, "late@northside.edu", domain.RoleStaff)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestAcceptInvitation(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	owner := seedUser(t, s, "principal@northside.edu", "Pat Principal")
	tenant, err := s.Tenants.CreateTenant(ctx, owner, "Northside High", "")
	require.NoError(t, err)

	teacher := seedUser(t, s, "teach@northside.edu", "Tracy Teacher")
	inv, err := s.Invites.Invite(ctx, owner, tenant.ID, "teach@northside.edu", domain.RoleTeacher)
	require.NoError(t, err)

	t.Run("wrong account is forbidden and does not consume", func(t *testing.T) {
		impostor := seedUser(t, s, "other@elsewhere.org", "Ozzy Other")
		_, err := s.Invites.Accept(ctx, inv.ID, impostor, "other@elsewhere.org")
		require.ErrorIs(t, err, ErrForbidden)

		stored, err := s.Store.Invitations().GetInvitationByID(ctx, inv.ID)
		require.NoError(t, err)
		require.Equal(t, domain.InvitationPending, stored.Status)
	})

	t.Run("matching account joins at the invited role", func(t *testing.T) {
		m, err := s.Invites.Accept(ctx, inv.ID, teacher, "Teach@Northside.edu")
		require.NoError(t, err)
		require.Equal(t, domain.RoleTeacher, m.Role)
		require.Equal(t, tenant.ID, m.TenantID)

		stored, err := s.Store.Invitations().GetInvitationByID(ctx, inv.ID)
		require.NoError(t, err)
		require.Equal(t, domain.InvitationAccepted, stored.Status)
	})

	t.Run("an invitation is single use", func(t *testing.T) {
		_, err := s.Invites.Accept(ctx, inv.ID, teacher, "teach@northside.edu")
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown invitation is not found", func(t *testing.T) {
		_, err := s.Invites.Accept(ctx, "01JUNKJUNKJUNKJUNKJUNKJUNK", teacher, "teach@northside.edu")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("anonymous caller is unauthorized", func(t *testing.T) {
		_, err := s.Invites.Accept(ctx, inv.ID, "", "")
		require.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestAcceptExpiryIsMaterialized(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	owner := seedUser(t, s, "principal@northside.edu", "Pat Principal")
	tenant, err := s.Tenants.CreateTenant(ctx, owner, "Northside High", "")
	require.NoError(t, err)

	late := seedUser(t, s, "late@northside.edu", "Lee Late")
	inv := seedInvitation(t, s, tenant.ID, "late@northside.edu", domain.RoleStudent, owner,
		domain.InvitationPending, time.Now().UTC().Add(-time.Hour))

	_, err = s.Invites.Accept(ctx, inv.ID, late, "late@northside.edu")
	require.ErrorIs(t, err, ErrForbidden)

	// The refusal wrote the expired status; it was not just computed.
	stored, err := s.Store.Invitations().GetInvitationByID(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, domain.InvitationExpired, stored.Status)

	// No membership was created.
	_, err = s.Store.Memberships().GetMembership(ctx, tenant.ID, late)
	require.Error(t, err)
}

func TestCancelInvitation(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	owner := seedUser(t, s, "principal@northside.edu", "Pat Principal")
	tenant, err := s.Tenants.CreateTenant(ctx, owner, "Northside High", "")
	require.NoError(t, err)

	t.Run("pending invitations cancel", func(t *testing.T) {
		inv, err := s.Invites.Invite(ctx, owner, tenant.ID, "maybe@northside.edu", domain.RoleStaff)
		require.NoError(t, err)

		require.NoError(t, s.Invites.Cancel(ctx, owner, tenant.ID, inv.ID))

		stored, err := s.Store.Invitations().GetInvitationByID(ctx, inv.ID)
		require.NoError(t, err)
		require.Equal(t, domain.InvitationCancelled, stored.Status)
	})

	t.Run("cancelled invitations cannot be accepted", func(t *testing.T) {
		inv, err := s.Invites.Invite(ctx, owner, tenant.ID, "gone@northside.edu", domain.RoleStaff)
		require.NoError(t, err)
		require.NoError(t, s.Invites.Cancel(ctx, owner, tenant.ID, inv.ID))

		invited := seedUser(t, s, "gone@northside.edu", "Gia Gone")
		_, err = s.Invites.Accept(ctx, inv.ID, invited, "gone@northside.edu")
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("terminal invitations refuse cancel", func(t *testing.T) {
		inv := seedInvitation(t, s, tenant.ID, "done@northside.edu", domain.RoleStaff, owner,
			domain.InvitationAccepted, time.Now().UTC().Add(time.Hour))

		err := s.Invites.Cancel(ctx, owner, tenant.ID, inv.ID)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("invitations of other tenants are invisible", func(t *testing.T) {
		otherOwner := seedUser(t, s, "head@southside.edu", "Sky Head")
		other, err := s.Tenants.CreateTenant(ctx, otherOwner, "Southside High", "")
		require.NoError(t, err)

		inv, err := s.Invites.Invite(ctx, otherOwner, other.ID, "someone@southside.edu", domain.RoleStaff)
		require.NoError(t, err)

		err = s.Invites.Cancel(ctx, owner, tenant.ID, inv.ID)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestListInvitations(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	owner := seedUser(t, s, "principal@northside.edu", "Pat Principal")
	tenant, err := s.Tenants.CreateTenant(ctx, owner, "Northside High", "")
	require.NoError(t, err)

	first, err := s.Invites.Invite(ctx, owner, tenant.ID, "one@northside.edu", domain.RoleStaff)
	require.NoError(t, err)
	require.NoError(t, s.Invites.Cancel(ctx, owner, tenant.ID, first.ID))
	_, err = s.Invites.Invite(ctx, owner, tenant.ID, "two@northside.edu", domain.RoleTeacher)
	require.NoError(t, err)

	list, err := s.Invites.List(ctx, owner, tenant.ID)
	require.NoError(t, err)
	require.Len(t, list, 2) // all statuses, cancelled included
	for _, inv := range list {
		require.Equal(t, "Pat Principal", inv.InviterName)
	}
}

func TestExpireOverdueSweep(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	owner := seedUser(t, s, "principal@northside.edu", "Pat Principal")
	tenant, err := s.Tenants.CreateTenant(ctx, owner, "Northside High", "")
	require.NoError(t, err)

	overdue := seedInvitation(t, s, tenant.ID, "old@northside.edu", domain.RoleStaff, owner,
		domain.InvitationPending, time.Now().UTC().Add(-time.Hour))
	fresh, err := s.Invites.Invite(ctx, owner, tenant.ID, "new@northside.edu", domain.RoleStaff)
	require.NoError(t, err)

	n, err := s.Store.Invitations().ExpireOverdue(ctx, time.Now().UTC())
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	stored, err := s.Store.Invitations().GetInvitationByID(ctx, overdue.ID)
	require.NoError(t, err)
	require.Equal(t, domain.InvitationExpired, stored.Status)

	stored, err = s.Store.Invitations().GetInvitationByID(ctx, fresh.ID)
	require.NoError(t, err)
	require.Equal(t, domain.InvitationPending, stored.Status)
}
