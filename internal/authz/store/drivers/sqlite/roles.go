package sqlite

import (
	"context"

	"github.com/classhubhq/classhub/internal/authz/domain"
)

type rolesRepo struct {
	db dbtx
}

func (r *rolesRepo) CreateRole(ctx context.Context, role domain.Role) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO roles (id, tenant_id, name, kind, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		role.ID, role.TenantID, role.Name, string(role.Kind), role.Description,
		role.CreatedAt, role.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *rolesRepo) GetRoleByID(ctx context.Context, tenantID, id string) (domain.Role, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, name, kind, description, created_at, updated_at
		FROM roles WHERE tenant_id = ? AND id = ?`, tenantID, id)

	role, err := scanRole(row)
	if err != nil {
		return domain.Role{}, mapNotFound(err)
	}
	return role, nil
}

func (r *rolesRepo) GetRoleByName(ctx context.Context, tenantID, name string) (domain.Role, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, name, kind, description, created_at, updated_at
		FROM roles WHERE tenant_id = ? AND name = ?`, tenantID, name)

	role, err := scanRole(row)
	if err != nil {
		return domain.Role{}, mapNotFound(err)
	}
	return role, nil
}

// ListRolesWithGrants aggregates roles and their grants from one joined scan
// ordered by role, so grants group contiguously under their role.
func (r *rolesRepo) ListRolesWithGrants(ctx context.Context, tenantID string) ([]domain.RoleWithGrants, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, r.tenant_id, r.name, r.kind, r.description, r.created_at, r.updated_at,
		       p.resource, p.actions
		FROM roles r
		LEFT JOIN permissions p ON p.role_id = r.id
		WHERE r.tenant_id = ?
		ORDER BY r.name, p.resource`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		result  []domain.RoleWithGrants
		current *domain.RoleWithGrants
	)
	for rows.Next() {
		var (
			role     domain.Role
			kind     string
			resource *string
			actions  *string
		)
		if err := rows.Scan(
			&role.ID, &role.TenantID, &role.Name, &kind, &role.Description,
			&role.CreatedAt, &role.UpdatedAt, &resource, &actions,
		); err != nil {
			return nil, err
		}
		role.Kind = domain.RoleKind(kind)

		if current == nil || current.ID != role.ID {
			result = append(result, domain.RoleWithGrants{Role: role})
			current = &result[len(result)-1]
		}
		if resource != nil {
			current.Grants = append(current.Grants, domain.Grant{
				Resource: *resource,
				Actions:  splitActions(derefOr(actions, "")),
			})
		}
	}
	return result, rows.Err()
}

func (r *rolesRepo) DeleteRole(ctx context.Context, tenantID, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM roles WHERE tenant_id = ? AND id = ?`, tenantID, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func scanRole(row rowScanner) (domain.Role, error) {
	var (
		role domain.Role
		kind string
	)
	if err := row.Scan(
		&role.ID, &role.TenantID, &role.Name, &kind, &role.Description,
		&role.CreatedAt, &role.UpdatedAt,
	); err != nil {
		return domain.Role{}, err
	}
	role.Kind = domain.RoleKind(kind)
	return role, nil
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
