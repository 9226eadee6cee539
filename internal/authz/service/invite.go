package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/classhubhq/classhub/internal/authz/domain"
	"github.com/classhubhq/classhub/internal/authz/store"
	"github.com/classhubhq/classhub/pkg/idx"
	"github.com/classhubhq/classhub/pkg/mailx"
	"github.com/classhubhq/classhub/pkg/slogx"
)

// InviteService runs the invitation lifecycle: create, accept, cancel, list.
// Invitations are bound to an email address, carry a role, and expire after
// domain.InvitationTTL. Expiry is enforced lazily on access; a background
// sweep tidies rows nobody touches (see HousekeepingService).
type InviteService struct {
	Store store.Store
	Guard *Guard
	Mail  mailx.Sender
}

// Invite creates a pending invitation and dispatches a notification email.
// The email is best effort: a delivery failure is logged and the invitation
// stands.
func (s *InviteService) Invite(
	ctx context.Context,
	callerID string,
	tenantID string,
	email string,
	roleName string,
) (domain.Invitation, error) {
	log := slogx.FromContext(ctx)

	// 1. Guard.
	inviter, err := s.Guard.RequirePermission(ctx, callerID, tenantID, domain.ResourceInvitation, domain.ActionCreate)
	if err != nil {
		return domain.Invitation{}, err
	}

	// 2. Validate and normalize the address. Matching at accept time is
	// case-insensitive, so store lowercase.
	email = strings.ToLower(strings.TrimSpace(email))
	if !mailx.ValidAddress(email) {
		return domain.Invitation{}, fmt.Errorf("%w: invalid email address", ErrValidation)
	}

	// 3. Tenant must exist and not be soft-deleted.
	tenant, err := s.Store.Tenants().GetTenantByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invitation{}, fmt.Errorf("%w: tenant", ErrNotFound)
		}
		return domain.Invitation{}, err
	}
	if tenant.Deleted() {
		return domain.Invitation{}, fmt.Errorf("%w: tenant", ErrNotFound)
	}

	// 4. The offered role must exist in this tenant.
	if _, err := s.Store.Roles().GetRoleByName(ctx, tenantID, roleName); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invitation{}, fmt.Errorf("%w: unknown role %q", ErrValidation, roleName)
		}
		return domain.Invitation{}, err
	}

	// 5. The address must not already belong to a member.
	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err == nil {
		_, err = s.Store.Memberships().GetMembership(ctx, tenantID, user.ID)
		if err == nil {
			return domain.Invitation{}, fmt.Errorf("%w: %s is already a member", ErrDuplicate, email)
		}
		if !errors.Is(err, store.ErrNotFound) {
			return domain.Invitation{}, err
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.Invitation{}, err
	}

	// 6. Only one pending invitation per (tenant, email).
	_, err = s.Store.Invitations().GetPendingByEmail(ctx, tenantID, email)
	if err == nil {
		return domain.Invitation{}, fmt.Errorf("%w: a pending invitation for %s exists", ErrDuplicate, email)
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.Invitation{}, err
	}

	// 7. Insert. A racing insert trips the partial unique index and is
	// reported the same way as the pre-check.
	now := time.Now().UTC()
	inv := domain.Invitation{
		ID:        idx.New().String(),
		TenantID:  tenantID,
		Email:     email,
		Role:      roleName,
		Status:    domain.InvitationPending,
		ExpiresAt: now.Add(domain.InvitationTTL),
		InviterID: inviter.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.Invitations().CreateInvitation(ctx, inv); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Invitation{}, fmt.Errorf("%w: a pending invitation for %s exists", ErrDuplicate, email)
		}
		log.Error("failed to create invitation",
			slog.String("tenant_id", tenantID),
			slog.Any("error", err),
		)
		return domain.Invitation{}, err
	}

	log.Info("invitation created",
		slog.String("invitation_id", inv.ID),
		slog.String("tenant_id", tenantID),
		slog.String("role", roleName),
		slog.String("inviter_id", inviter.UserID),
		slog.Time("expires_at", inv.ExpiresAt),
	)

	// 8. Notify, best effort.
	s.notify(ctx, inv, tenant)

	return inv, nil
}

func (s *InviteService) notify(ctx context.Context, inv domain.Invitation, tenant domain.Tenant) {
	if s.Mail == nil {
		return
	}

	invitedBy := "A member"
	if inviter, err := s.Store.Users().GetUserByID(ctx, inv.InviterID); err == nil {
		invitedBy = inviter.DisplayName
	}

	msg := mailx.Message{
		To:      inv.Email,
		Subject: fmt.Sprintf("You have been invited to %s", tenant.Name),
		Body: fmt.Sprintf(
			"%s invited you to join %s as %s.\n\n"+
				"Sign in with this email address and accept invitation %s before %s.\n",
			invitedBy, tenant.Name, inv.Role, inv.ID, inv.ExpiresAt.Format(time.RFC1123),
		),
		Tag: "invitation",
	}
	if err := s.Mail.Send(ctx, msg); err != nil {
		slogx.FromContext(ctx).Warn("invitation email not delivered",
			slog.String("invitation_id", inv.ID),
			slog.Any("error", err),
		)
	}
}

// Accept redeems a pending invitation for the authenticated caller. The
// caller's session email must match the invited address. The membership
// insert and the status flip share one transaction, so an invitation is
// never consumed without producing a membership, and never the reverse.
func (s *InviteService) Accept(
	ctx context.Context,
	invitationID string,
	callerID string,
	callerEmail string,
) (domain.Membership, error) {
	log := slogx.FromContext(ctx)

	// 1. Authentication only; accepting needs no prior membership.
	if callerID == "" {
		return domain.Membership{}, fmt.Errorf("%w: no authenticated caller", ErrUnauthorized)
	}

	// 2. Look up the invitation.
	inv, err := s.Store.Invitations().GetInvitationByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Membership{}, fmt.Errorf("%w: invitation", ErrNotFound)
		}
		return domain.Membership{}, err
	}

	// 3. Binding check: the invitation belongs to the invited address.
	if !strings.EqualFold(inv.Email, callerEmail) {
		log.Warn("invitation accept attempted by wrong account",
			slog.String("invitation_id", inv.ID),
			slog.String("user_id", callerID),
		)
		return domain.Membership{}, fmt.Errorf("%w: invitation was issued to a different address", ErrForbidden)
	}

	// 4. Terminal statuses never come back.
	if !inv.Pending() {
		return domain.Membership{}, fmt.Errorf("%w: invitation is %s", ErrForbidden, inv.Status)
	}

	// 5. Overdue pending invitations are materialized as expired first and
	// then refused, so the stored status always matches what the caller saw.
	now := time.Now().UTC()
	if inv.ExpiredBy(now) {
		err := s.Store.Invitations().TransitionFromPending(ctx, inv.ID, domain.InvitationExpired, now)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			log.Error("failed to mark invitation expired",
				slog.String("invitation_id", inv.ID),
				slog.Any("error", err),
			)
			return domain.Membership{}, err
		}
		return domain.Membership{}, fmt.Errorf("%w: invitation has expired", ErrForbidden)
	}

	// 6. The tenant must still exist and not be soft-deleted.
	tenant, err := s.Store.Tenants().GetTenantByID(ctx, inv.TenantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Membership{}, fmt.Errorf("%w: tenant", ErrNotFound)
		}
		return domain.Membership{}, err
	}
	if tenant.Deleted() {
		return domain.Membership{}, fmt.Errorf("%w: tenant", ErrNotFound)
	}

	// 7. Consume the invitation and create the membership atomically. The
	// status-guarded update makes a concurrent double accept lose cleanly.
	membership := domain.Membership{
		ID:       idx.New().String(),
		TenantID: inv.TenantID,
		UserID:   callerID,
		Role:     inv.Role,
		JoinedAt: now,
	}
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Invitations().TransitionFromPending(ctx, inv.ID, domain.InvitationAccepted, now); err != nil {
			return err
		}
		return tx.Memberships().CreateMembership(ctx, membership)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Membership{}, fmt.Errorf("%w: invitation is no longer pending", ErrForbidden)
		}
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Membership{}, fmt.Errorf("%w: already a member of this tenant", ErrDuplicate)
		}
		log.Error("failed to accept invitation",
			slog.String("invitation_id", inv.ID),
			slog.Any("error", err),
		)
		return domain.Membership{}, err
	}

	log.Info("invitation accepted",
		slog.String("invitation_id", inv.ID),
		slog.String("tenant_id", inv.TenantID),
		slog.String("user_id", callerID),
		slog.String("role", inv.Role),
	)
	return membership, nil
}

// Cancel withdraws a pending invitation.
func (s *InviteService) Cancel(ctx context.Context, callerID, tenantID, invitationID string) error {
	log := slogx.FromContext(ctx)

	if _, err := s.Guard.RequirePermission(ctx, callerID, tenantID, domain.ResourceInvitation, domain.ActionDelete); err != nil {
		return err
	}

	inv, err := s.Store.Invitations().GetInvitationByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: invitation", ErrNotFound)
		}
		return err
	}
	// Tenant scoping: an invitation from another tenant does not exist here.
	if inv.TenantID != tenantID {
		return fmt.Errorf("%w: invitation", ErrNotFound)
	}
	if !inv.Pending() {
		return fmt.Errorf("%w: invitation is %s", ErrForbidden, inv.Status)
	}

	err = s.Store.Invitations().TransitionFromPending(ctx, inv.ID, domain.InvitationCancelled, time.Now().UTC())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: invitation is no longer pending", ErrForbidden)
		}
		return err
	}

	log.Info("invitation cancelled",
		slog.String("invitation_id", inv.ID),
		slog.String("tenant_id", tenantID),
		slog.String("cancelled_by", callerID),
	)
	return nil
}

// List returns every invitation of the tenant, newest first, joined with
// inviter display names.
func (s *InviteService) List(ctx context.Context, callerID, tenantID string) ([]domain.InvitationWithInviter, error) {
	if _, err := s.Guard.RequirePermission(ctx, callerID, tenantID, domain.ResourceInvitation, domain.ActionRead); err != nil {
		return nil, err
	}
	return s.Store.Invitations().ListInvitations(ctx, tenantID)
}
