package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/classhubhq/classhub/internal/authz/domain"
	"github.com/classhubhq/classhub/internal/authz/store"
	"github.com/classhubhq/classhub/pkg/slogx"
)

// MemberService manages existing memberships: listing, role changes and
// removal. Both mutations enforce the last-owner invariant inside a
// transaction, so two concurrent removals cannot strand a tenant.
type MemberService struct {
	Store store.Store
	Guard *Guard
}

// ListMembers returns the tenant roster joined with the user directory.
func (s *MemberService) ListMembers(ctx context.Context, callerID, tenantID string) ([]domain.Member, error) {
	if _, err := s.Guard.RequirePermission(ctx, callerID, tenantID, domain.ResourceMember, domain.ActionRead); err != nil {
		return nil, err
	}
	return s.Store.Memberships().ListMembers(ctx, tenantID)
}

// RemoveMember deletes a membership. Removing the last owner is refused;
// the count and the delete run in one transaction.
func (s *MemberService) RemoveMember(ctx context.Context, callerID, tenantID, memberID string) error {
	log := slogx.FromContext(ctx)

	// 1. Guard.
	if _, err := s.Guard.RequirePermission(ctx, callerID, tenantID, domain.ResourceMember, domain.ActionDelete); err != nil {
		return err
	}

	// 2. Delete under the last-owner check.
	var removed domain.Membership
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		target, err := tx.Memberships().GetMembershipByID(ctx, tenantID, memberID)
		if err != nil {
			return err
		}
		if err := requireNotLastOwner(ctx, tx, target); err != nil {
			return err
		}
		removed = target
		return tx.Memberships().DeleteMembership(ctx, tenantID, memberID)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: member", ErrNotFound)
		}
		if errors.Is(err, ErrForbidden) {
			return err
		}
		log.Error("failed to remove member",
			slog.String("tenant_id", tenantID),
			slog.String("member_id", memberID),
			slog.Any("error", err),
		)
		return err
	}

	log.Info("member removed",
		slog.String("tenant_id", tenantID),
		slog.String("member_id", memberID),
		slog.String("user_id", removed.UserID),
		slog.String("role", removed.Role),
		slog.String("removed_by", callerID),
	)
	return nil
}

// ChangeMemberRole assigns a different role to a membership. Demoting the
// last owner is refused under the same transactional count check as removal.
func (s *MemberService) ChangeMemberRole(ctx context.Context, callerID, tenantID, memberID, roleName string) (domain.Membership, error) {
	log := slogx.FromContext(ctx)

	// 1. Guard.
	if _, err := s.Guard.RequirePermission(ctx, callerID, tenantID, domain.ResourceMember, domain.ActionUpdate); err != nil {
		return domain.Membership{}, err
	}

	// 2. The new role must exist in this tenant.
	if _, err := s.Store.Roles().GetRoleByName(ctx, tenantID, roleName); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Membership{}, fmt.Errorf("%w: unknown role %q", ErrValidation, roleName)
		}
		return domain.Membership{}, err
	}

	// 3. Update under the last-owner check.
	var updated domain.Membership
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		target, err := tx.Memberships().GetMembershipByID(ctx, tenantID, memberID)
		if err != nil {
			return err
		}
		if target.Role == roleName {
			updated = target
			return nil
		}
		if target.Role == domain.RoleOwner {
			if err := requireNotLastOwner(ctx, tx, target); err != nil {
				return err
			}
		}
		if err := tx.Memberships().UpdateMembershipRole(ctx, tenantID, memberID, roleName); err != nil {
			return err
		}
		target.Role = roleName
		updated = target
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Membership{}, fmt.Errorf("%w: member", ErrNotFound)
		}
		if errors.Is(err, ErrForbidden) {
			return domain.Membership{}, err
		}
		log.Error("failed to change member role",
			slog.String("tenant_id", tenantID),
			slog.String("member_id", memberID),
			slog.Any("error", err),
		)
		return domain.Membership{}, err
	}

	log.Info("member role changed",
		slog.String("tenant_id", tenantID),
		slog.String("member_id", memberID),
		slog.String("role", roleName),
		slog.String("changed_by", callerID),
	)
	return updated, nil
}

// requireNotLastOwner refuses moving target out of the owner role when it is
// the only owner left. Callers run this inside the same transaction as the
// mutation itself.
func requireNotLastOwner(ctx context.Context, tx store.Tx, target domain.Membership) error {
	if target.Role != domain.RoleOwner {
		return nil
	}
	owners, err := tx.Memberships().CountByRole(ctx, target.TenantID, domain.RoleOwner)
	if err != nil {
		return err
	}
	if owners <= 1 {
		return fmt.Errorf("%w: cannot remove the last owner", ErrForbidden)
	}
	return nil
}
