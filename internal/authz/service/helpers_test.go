package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/classhubhq/classhub/internal/authz/domain"
	"github.com/classhubhq/classhub/internal/authz/store"
	"github.com/classhubhq/classhub/internal/authz/store/drivers/sqlite"
	"github.com/classhubhq/classhub/pkg/idx"
	"github.com/classhubhq/classhub/pkg/mailx"
	"github.com/stretchr/testify/require"
)

// services bundles everything a lifecycle test needs against one in-memory
// database.
type services struct {
	Store   store.Store
	Dir     *DirectoryService
	Tenants *TenantService
	Roles   *RoleService
	Perms   *PermissionService
	Guard   *Guard
	Invites *InviteService
	Members *MemberService
	Mail    *fakeSender
}

func newServices(t *testing.T) *services {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	perms := &PermissionService{Store: st}
	guard := &Guard{Store: st, Perms: perms}
	mail := &fakeSender{}

	return &services{
		Store:   st,
		Dir:     &DirectoryService{Store: st},
		Tenants: &TenantService{Store: st, Guard: guard},
		Roles:   &RoleService{Store: st, Guard: guard},
		Perms:   perms,
		Guard:   guard,
		Invites: &InviteService{Store: st, Guard: guard, Mail: mail},
		Members: &MemberService{Store: st, Guard: guard},
		Mail:    mail,
	}
}

// seedUser registers a directory row the way the session middleware would
// and returns the generated user ID.
func seedUser(t *testing.T, s *services, email, name string) string {
	t.Helper()
	id := idx.New().String()
	require.NoError(t, s.Dir.SyncIdentity(context.Background(), id, email, name))
	return id
}

// fakeSender records outbound mail and can be told to fail.
type fakeSender struct {
	Sent []mailx.Message
	Fail bool
}

func (f *fakeSender) Send(_ context.Context, msg mailx.Message) error {
	if f.Fail {
		return errors.New("smtp is down")
	}
	f.Sent = append(f.Sent, msg)
	return nil
}

// acceptAs runs the whole invite-then-accept flow to enroll userID in the
// tenant at the given role.
func acceptAs(t *testing.T, s *services, tenantID, inviterID, email, userID, role string) domain.Membership {
	t.Helper()
	ctx := context.Background()

	inv, err := s.Invites.Invite(ctx, inviterID, tenantID, email, role)
	require.NoError(t, err)

	m, err := s.Invites.Accept(ctx, inv.ID, userID, email)
	require.NoError(t, err)
	return m
}

// seedInvitation inserts an invitation row directly, bypassing the service
// pre-checks, for exercising expiry and status edge cases.
func seedInvitation(t *testing.T, s *services, tenantID, email, role, inviterID string, status domain.InvitationStatus, expiresAt time.Time) domain.Invitation {
	t.Helper()
	now := time.Now().UTC()
	inv := domain.Invitation{
		ID:        idx.New().String(),
		TenantID:  tenantID,
		Email:     email,
		Role:      role,
		Status:    status,
		ExpiresAt: expiresAt,
		InviterID: inviterID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.Store.Invitations().CreateInvitation(context.Background(), inv))
	return inv
}
