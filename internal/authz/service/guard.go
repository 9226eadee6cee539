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

// Guard is the single choke point for tenant-scoped access. Every operation
// that touches a tenant goes through RequireMembership or RequirePermission,
// reads included. Handlers never re-implement these checks.
type Guard struct {
	Store store.Store
	Perms *PermissionService
}

// RequireMembership resolves the caller's membership in the tenant.
// An empty caller is ErrUnauthorized; a caller without a membership row is
// ErrForbidden regardless of whether the tenant exists, so probing for
// tenant IDs learns nothing.
func (g *Guard) RequireMembership(ctx context.Context, callerID, tenantID string) (domain.Membership, error) {
	if callerID == "" {
		return domain.Membership{}, fmt.Errorf("%w: no authenticated caller", ErrUnauthorized)
	}

	m, err := g.Store.Memberships().GetMembership(ctx, tenantID, callerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slogx.FromContext(ctx).Warn("caller has no membership in tenant",
				slog.String("user_id", callerID),
				slog.String("tenant_id", tenantID),
			)
			return domain.Membership{}, fmt.Errorf("%w: not a member of this tenant", ErrForbidden)
		}
		return domain.Membership{}, err
	}
	return m, nil
}

// RequirePermission resolves the caller's membership and then checks that
// the membership's role grants the action on the resource.
func (g *Guard) RequirePermission(
	ctx context.Context,
	callerID string,
	tenantID string,
	resource string,
	action string,
) (domain.Membership, error) {
	m, err := g.RequireMembership(ctx, callerID, tenantID)
	if err != nil {
		return domain.Membership{}, err
	}

	ok, err := g.Perms.HasPermission(ctx, tenantID, m.Role, resource, action)
	if err != nil {
		return domain.Membership{}, err
	}
	if !ok {
		slogx.FromContext(ctx).Warn("permission denied",
			slog.String("user_id", callerID),
			slog.String("tenant_id", tenantID),
			slog.String("role", m.Role),
			slog.String("resource", resource),
			slog.String("action", action),
		)
		return domain.Membership{}, fmt.Errorf("%w: %s:%s", ErrForbidden, resource, action)
	}
	return m, nil
}
