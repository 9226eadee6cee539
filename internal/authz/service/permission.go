package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/classhubhq/classhub/internal/authz/store"
	"github.com/classhubhq/classhub/pkg/slogx"
)

// PermissionService answers one question: may a role perform an action on a
// resource in a tenant. Everything it knows comes from persisted grant rows;
// there is no inheritance and no implicit allow.
type PermissionService struct {
	Store store.Store
}

// HasPermission reports whether roleName in tenantID holds the action on the
// resource. Deny-by-default: an unknown role or a role with no grant on the
// resource answers false, not an error. Only infrastructure failures error.
func (s *PermissionService) HasPermission(
	ctx context.Context,
	tenantID string,
	roleName string,
	resource string,
	action string,
) (bool, error) {
	log := slogx.FromContext(ctx)

	role, err := s.Store.Roles().GetRoleByName(ctx, tenantID, roleName)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		log.Error("failed to resolve role for permission check",
			slog.String("tenant_id", tenantID),
			slog.String("role", roleName),
			slog.Any("error", err),
		)
		return false, err
	}

	grant, err := s.Store.Permissions().GetGrant(ctx, role.ID, resource)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		log.Error("failed to fetch grant for permission check",
			slog.String("role_id", role.ID),
			slog.String("resource", resource),
			slog.Any("error", err),
		)
		return false, err
	}

	return grant.Allows(action), nil
}
