package service

import (
	"context"
	"testing"

	"github.com/classhubhq/classhub/internal/authz/domain"
	"github.com/stretchr/testify/require"
)

// TestSchoolOnboardingFlow walks one tenant from creation through invites,
// custom roles and membership churn, the way a real school would.
func TestSchoolOnboardingFlow(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	// The principal signs up and provisions the school.
	principal := seedUser(t, s, "principal@acme.edu", "Pat Principal")
	school, err := s.Tenants.CreateTenant(ctx, principal, "Acme Academy", domain.TenantKindSchool)
	require.NoError(t, err)

	// A teacher is invited and joins.
	teacher := seedUser(t, s, "teach@acme.edu", "Tracy Teacher")
	inv, err := s.Invites.Invite(ctx, principal, school.ID, "teach@acme.edu", domain.RoleTeacher)
	require.NoError(t, err)
	_, err = s.Invites.Accept(ctx, inv.ID, teacher, "teach@acme.edu")
	require.NoError(t, err)

	// The teacher can invite students but cannot manage roles.
	student := seedUser(t, s, "kid@acme.edu", "Kim Kid")
	inv, err = s.Invites.Invite(ctx, teacher, school.ID, "kid@acme.edu", domain.RoleStudent)
	require.NoError(t, err)
	_, err = s.Invites.Accept(ctx, inv.ID, student, "kid@acme.edu")
	require.NoError(t, err)

	_, err = s.Roles.CreateRole(ctx, teacher, school.ID, "club-lead", "", nil)
	require.ErrorIs(t, err, ErrForbidden)

	// The student can read courses, nothing more.
	ok, err := s.Perms.HasPermission(ctx, school.ID, domain.RoleStudent, domain.ResourceCourse, domain.ActionRead)
	require.NoError(t, err)
	require.True(t, ok)
	_, err = s.Invites.List(ctx, student, school.ID)
	require.ErrorIs(t, err, ErrForbidden)

	// The principal carves out a custom role and reassigns the teacher.
	_, err = s.Roles.CreateRole(ctx, principal, school.ID, "department-head", "Runs a department", []domain.Grant{
		{Resource: domain.ResourceCourse, Actions: []string{domain.ActionCreate, domain.ActionRead, domain.ActionUpdate, domain.ActionDelete}},
		{Resource: domain.ResourceMember, Actions: []string{domain.ActionRead}},
		{Resource: domain.ResourceInvitation, Actions: []string{domain.ActionCreate, domain.ActionRead}},
	})
	require.NoError(t, err)

	members, err := s.Members.ListMembers(ctx, principal, school.ID)
	require.NoError(t, err)
	require.Len(t, members, 3)

	var teacherMembershipID string
	for _, m := range members {
		if m.UserID == teacher {
			teacherMembershipID = m.ID
		}
	}
	require.NotEmpty(t, teacherMembershipID)

	updated, err := s.Members.ChangeMemberRole(ctx, principal, school.ID, teacherMembershipID, "department-head")
	require.NoError(t, err)
	require.Equal(t, "department-head", updated.Role)

	// The new role's grants apply immediately.
	ok, err = s.Perms.HasPermission(ctx, school.ID, "department-head", domain.ResourceCourse, domain.ActionDelete)
	require.NoError(t, err)
	require.True(t, ok)

	// The principal remains the only owner and cannot leave.
	var principalMembershipID string
	for _, m := range members {
		if m.UserID == principal {
			principalMembershipID = m.ID
		}
	}
	err = s.Members.RemoveMember(ctx, principal, school.ID, principalMembershipID)
	require.ErrorIs(t, err, ErrForbidden)
}
