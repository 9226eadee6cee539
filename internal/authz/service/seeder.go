package service

import (
	"context"
	"time"

	"github.com/classhubhq/classhub/internal/authz/domain"
	"github.com/classhubhq/classhub/internal/authz/store"
	"github.com/classhubhq/classhub/pkg/idx"
)

// seedSystemRoles materializes the system role catalog into role and grant
// rows for one tenant. It runs inside the tenant-creation transaction: a
// failure on any row aborts the tenant entirely, so a tenant either has the
// full six-role catalog or does not exist.
func seedSystemRoles(ctx context.Context, tx store.Tx, tenantID string, now time.Time) error {
	for _, def := range domain.SystemRoleCatalog() {
		role := domain.Role{
			ID:          idx.New().String(),
			TenantID:    tenantID,
			Name:        def.Name,
			Kind:        domain.RoleKindSystem,
			Description: def.Description,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Roles().CreateRole(ctx, role); err != nil {
			return err
		}
		for _, g := range def.Grants {
			if err := tx.Permissions().CreateGrant(ctx, idx.New().String(), role.ID, g); err != nil {
				return err
			}
		}
	}
	return nil
}
