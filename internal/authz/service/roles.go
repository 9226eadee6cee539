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

// RoleService manages tenant-authored custom roles and the grant sets of
// roles generally. System role identity (name, existence) is immutable;
// their grants may be edited like any other role's.
type RoleService struct {
	Store store.Store
	Guard *Guard
}

// CreateRole adds a custom role with its initial grants in one transaction.
func (s *RoleService) CreateRole(
	ctx context.Context,
	callerID string,
	tenantID string,
	name string,
	description string,
	grants []domain.Grant,
) (domain.RoleWithGrants, error) {
	log := slogx.FromContext(ctx)

	// 1. Guard.
	if _, err := s.Guard.RequirePermission(ctx, callerID, tenantID, domain.ResourceRole, domain.ActionCreate); err != nil {
		return domain.RoleWithGrants{}, err
	}

	// 2. Validate the name and grant set.
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.RoleWithGrants{}, fmt.Errorf("%w: role name is required", ErrValidation)
	}
	if domain.IsSystemRoleName(name) {
		return domain.RoleWithGrants{}, fmt.Errorf("%w: %q is a reserved role name", ErrValidation, name)
	}
	if err := validateGrants(grants); err != nil {
		return domain.RoleWithGrants{}, err
	}

	now := time.Now().UTC()
	role := domain.Role{
		ID:          idx.New().String(),
		TenantID:    tenantID,
		Name:        name,
		Kind:        domain.RoleKindCustom,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// 3. Role row plus grant rows, atomically.
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Roles().CreateRole(ctx, role); err != nil {
			return err
		}
		for _, g := range grants {
			if err := tx.Permissions().CreateGrant(ctx, idx.New().String(), role.ID, g); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.RoleWithGrants{}, fmt.Errorf("%w: role %q", ErrDuplicate, name)
		}
		log.Error("failed to create role",
			slog.String("tenant_id", tenantID),
			slog.String("name", name),
			slog.Any("error", err),
		)
		return domain.RoleWithGrants{}, err
	}

	log.Info("role created",
		slog.String("tenant_id", tenantID),
		slog.String("role_id", role.ID),
		slog.String("name", name),
	)
	return domain.RoleWithGrants{Role: role, Grants: grants}, nil
}

// UpdatePermissions replaces a role's entire grant set. The delete and the
// inserts share a transaction, so readers never observe a partial set.
func (s *RoleService) UpdatePermissions(
	ctx context.Context,
	callerID string,
	tenantID string,
	roleID string,
	grants []domain.Grant,
) error {
	log := slogx.FromContext(ctx)

	// 1. Guard.
	if _, err := s.Guard.RequirePermission(ctx, callerID, tenantID, domain.ResourceRole, domain.ActionUpdate); err != nil {
		return err
	}

	// 2. Validate grants and resolve the role within the tenant.
	if err := validateGrants(grants); err != nil {
		return err
	}
	role, err := s.Store.Roles().GetRoleByID(ctx, tenantID, roleID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: role", ErrNotFound)
		}
		return err
	}

	// 3. Full replace in one transaction.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Permissions().DeleteGrantsForRole(ctx, role.ID); err != nil {
			return err
		}
		for _, g := range grants {
			if err := tx.Permissions().CreateGrant(ctx, idx.New().String(), role.ID, g); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to replace role grants",
			slog.String("tenant_id", tenantID),
			slog.String("role_id", role.ID),
			slog.Any("error", err),
		)
		return err
	}

	log.Info("role grants replaced",
		slog.String("tenant_id", tenantID),
		slog.String("role_id", role.ID),
		slog.String("name", role.Name),
		slog.Int("grants", len(grants)),
	)
	return nil
}

// DeleteRole removes a custom role and its grants. System roles refuse.
func (s *RoleService) DeleteRole(ctx context.Context, callerID, tenantID, roleID string) error {
	log := slogx.FromContext(ctx)

	if _, err := s.Guard.RequirePermission(ctx, callerID, tenantID, domain.ResourceRole, domain.ActionDelete); err != nil {
		return err
	}

	role, err := s.Store.Roles().GetRoleByID(ctx, tenantID, roleID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: role", ErrNotFound)
		}
		return err
	}
	if role.System() {
		log.Warn("attempted to delete system role",
			slog.String("tenant_id", tenantID),
			slog.String("role", role.Name),
			slog.String("user_id", callerID),
		)
		return fmt.Errorf("%w: system roles cannot be deleted", ErrForbidden)
	}

	if err := s.Store.Roles().DeleteRole(ctx, tenantID, roleID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: role", ErrNotFound)
		}
		return err
	}

	log.Info("role deleted",
		slog.String("tenant_id", tenantID),
		slog.String("role_id", roleID),
		slog.String("name", role.Name),
	)
	return nil
}

// GetRole fetches one role with its grants.
func (s *RoleService) GetRole(ctx context.Context, callerID, tenantID, roleID string) (domain.RoleWithGrants, error) {
	if _, err := s.Guard.RequirePermission(ctx, callerID, tenantID, domain.ResourceRole, domain.ActionRead); err != nil {
		return domain.RoleWithGrants{}, err
	}

	role, err := s.Store.Roles().GetRoleByID(ctx, tenantID, roleID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.RoleWithGrants{}, fmt.Errorf("%w: role", ErrNotFound)
		}
		return domain.RoleWithGrants{}, err
	}
	grants, err := s.Store.Permissions().ListGrantsForRole(ctx, role.ID)
	if err != nil {
		return domain.RoleWithGrants{}, err
	}
	return domain.RoleWithGrants{Role: role, Grants: grants}, nil
}

// ListRoles returns every role in the tenant with its grants.
func (s *RoleService) ListRoles(ctx context.Context, callerID, tenantID string) ([]domain.RoleWithGrants, error) {
	if _, err := s.Guard.RequirePermission(ctx, callerID, tenantID, domain.ResourceRole, domain.ActionRead); err != nil {
		return nil, err
	}
	return s.Store.Roles().ListRolesWithGrants(ctx, tenantID)
}

func validateGrants(grants []domain.Grant) error {
	seen := make(map[string]struct{}, len(grants))
	for _, g := range grants {
		if g.Resource == "" {
			return fmt.Errorf("%w: grant resource is required", ErrValidation)
		}
		if len(g.Actions) == 0 {
			return fmt.Errorf("%w: grant on %q has no actions", ErrValidation, g.Resource)
		}
		if _, dup := seen[g.Resource]; dup {
			return fmt.Errorf("%w: duplicate grant for resource %q", ErrValidation, g.Resource)
		}
		seen[g.Resource] = struct{}{}
		for _, a := range g.Actions {
			if a == "" {
				return fmt.Errorf("%w: grant on %q has an empty action", ErrValidation, g.Resource)
			}
		}
	}
	return nil
}
