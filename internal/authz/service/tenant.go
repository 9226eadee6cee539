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
	"github.com/classhubhq/classhub/pkg/slogx"
)

// TenantService manages the tenant lifecycle: creation with role seeding,
// lookup, listing and soft deletion.
type TenantService struct {
	Store store.Store
	Guard *Guard
}

// CreateTenant provisions a tenant for the caller. The tenant row, the full
// system role catalog and the creator's owner membership are written in one
// transaction; a failure anywhere leaves no trace of the tenant.
func (s *TenantService) CreateTenant(ctx context.Context, creatorID, name, kind string) (domain.Tenant, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input.
	if creatorID == "" {
		return domain.Tenant{}, fmt.Errorf("%w: no authenticated caller", ErrUnauthorized)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Tenant{}, fmt.Errorf("%w: tenant name is required", ErrValidation)
	}
	if kind == "" {
		kind = domain.TenantKindSchool
	}

	now := time.Now().UTC()
	tenant := domain.Tenant{
		ID:        idx.New().String(),
		Name:      name,
		Kind:      kind,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// 2. Tenant row, seeded roles and first owner membership, atomically.
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Tenants().CreateTenant(ctx, tenant); err != nil {
			return err
		}
		if err := seedSystemRoles(ctx, tx, tenant.ID, now); err != nil {
			return err
		}
		return tx.Memberships().CreateMembership(ctx, domain.Membership{
			ID:       idx.New().String(),
			TenantID: tenant.ID,
			UserID:   creatorID,
			Role:     domain.RoleOwner,
			JoinedAt: now,
		})
	})
	if err != nil {
		log.Error("failed to create tenant",
			slog.String("name", name),
			slog.Any("error", err),
		)
		return domain.Tenant{}, err
	}

	log.Info("tenant created",
		slog.String("tenant_id", tenant.ID),
		slog.String("name", name),
		slog.String("kind", kind),
		slog.String("owner_id", creatorID),
	)
	return tenant, nil
}

// GetTenant returns the tenant if the caller is a member. Soft-deleted
// tenants are reported as not found.
func (s *TenantService) GetTenant(ctx context.Context, callerID, tenantID string) (domain.Tenant, error) {
	if _, err := s.Guard.RequireMembership(ctx, callerID, tenantID); err != nil {
		return domain.Tenant{}, err
	}

	tenant, err := s.Store.Tenants().GetTenantByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Tenant{}, fmt.Errorf("%w: tenant", ErrNotFound)
		}
		return domain.Tenant{}, err
	}
	if tenant.Deleted() {
		return domain.Tenant{}, fmt.Errorf("%w: tenant", ErrNotFound)
	}
	return tenant, nil
}

// ListTenants returns the non-deleted tenants the caller belongs to.
func (s *TenantService) ListTenants(ctx context.Context, callerID string) ([]domain.Tenant, error) {
	if callerID == "" {
		return nil, fmt.Errorf("%w: no authenticated caller", ErrUnauthorized)
	}
	return s.Store.Tenants().ListTenantsForUser(ctx, callerID)
}

// SoftDeleteTenant marks the tenant deleted. Requires tenant:delete, which
// the seeded catalog grants only to owners.
func (s *TenantService) SoftDeleteTenant(ctx context.Context, callerID, tenantID string) error {
	log := slogx.FromContext(ctx)

	if _, err := s.Guard.RequirePermission(ctx, callerID, tenantID, domain.ResourceTenant, domain.ActionDelete); err != nil {
		return err
	}

	if err := s.Store.Tenants().SoftDeleteTenant(ctx, tenantID, time.Now().UTC()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: tenant", ErrNotFound)
		}
		log.Error("failed to soft delete tenant",
			slog.String("tenant_id", tenantID),
			slog.Any("error", err),
		)
		return err
	}

	log.Info("tenant soft deleted",
		slog.String("tenant_id", tenantID),
		slog.String("deleted_by", callerID),
	)
	return nil
}
