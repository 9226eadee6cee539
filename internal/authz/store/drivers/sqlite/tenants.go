package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/classhubhq/classhub/internal/authz/domain"
)

type tenantsRepo struct {
	db dbtx
}

func (r *tenantsRepo) CreateTenant(ctx context.Context, t domain.Tenant) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tenants (id, name, kind, deleted_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Kind, mapOptionalTime(t.DeletedAt), t.CreatedAt, t.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *tenantsRepo) GetTenantByID(ctx context.Context, id string) (domain.Tenant, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, kind, deleted_at, created_at, updated_at
		FROM tenants WHERE id = ?`, id)

	t, err := scanTenant(row)
	if err != nil {
		return domain.Tenant{}, mapNotFound(err)
	}
	return t, nil
}

func (r *tenantsRepo) ListTenantsForUser(ctx context.Context, userID string) ([]domain.Tenant, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.kind, t.deleted_at, t.created_at, t.updated_at
		FROM tenants t
		JOIN memberships m ON m.tenant_id = t.id
		WHERE m.user_id = ? AND t.deleted_at IS NULL
		ORDER BY t.created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []domain.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

func (r *tenantsRepo) SoftDeleteTenant(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tenants SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`, at, at, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// PurgeDeletedBefore hard-deletes tenants soft-deleted before the cutoff.
// Roles, grants, memberships, and invitations go with them via the foreign
// key cascades.
func (r *tenantsRepo) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM tenants
		WHERE deleted_at IS NOT NULL AND deleted_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTenant(row rowScanner) (domain.Tenant, error) {
	var (
		t         domain.Tenant
		deletedAt sql.NullTime
	)
	if err := row.Scan(&t.ID, &t.Name, &t.Kind, &deletedAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return domain.Tenant{}, err
	}
	t.DeletedAt = mapNullTimePtr(deletedAt)
	return t, nil
}
