package sqlite

import (
	"context"

	"github.com/classhubhq/classhub/internal/authz/domain"
)

type permissionsRepo struct {
	db dbtx
}

func (r *permissionsRepo) CreateGrant(ctx context.Context, id, roleID string, g domain.Grant) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO permissions (id, role_id, resource, actions)
		VALUES (?, ?, ?, ?)`,
		id, roleID, g.Resource, joinActions(g.Actions),
	)
	return mapConstraint(err)
}

func (r *permissionsRepo) GetGrant(ctx context.Context, roleID, resource string) (domain.Grant, error) {
	var actions string
	err := r.db.QueryRowContext(ctx, `
		SELECT actions FROM permissions
		WHERE role_id = ? AND resource = ?`, roleID, resource).Scan(&actions)
	if err != nil {
		return domain.Grant{}, mapNotFound(err)
	}
	return domain.Grant{Resource: resource, Actions: splitActions(actions)}, nil
}

func (r *permissionsRepo) ListGrantsForRole(ctx context.Context, roleID string) ([]domain.Grant, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT resource, actions FROM permissions
		WHERE role_id = ? ORDER BY resource`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []domain.Grant
	for rows.Next() {
		var resource, actions string
		if err := rows.Scan(&resource, &actions); err != nil {
			return nil, err
		}
		grants = append(grants, domain.Grant{Resource: resource, Actions: splitActions(actions)})
	}
	return grants, rows.Err()
}

func (r *permissionsRepo) DeleteGrantsForRole(ctx context.Context, roleID string) error {
	// Deleting zero rows is fine: a role may legitimately hold no grants.
	_, err := r.db.ExecContext(ctx, `DELETE FROM permissions WHERE role_id = ?`, roleID)
	return err
}
