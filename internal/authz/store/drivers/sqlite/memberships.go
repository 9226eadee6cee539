package sqlite

import (
	"context"

	"github.com/classhubhq/classhub/internal/authz/domain"
)

type membershipsRepo struct {
	db dbtx
}

func (r *membershipsRepo) CreateMembership(ctx context.Context, m domain.Membership) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO memberships (id, tenant_id, user_id, role, joined_at)
		VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.TenantID, m.UserID, m.Role, m.JoinedAt,
	)
	return mapConstraint(err)
}

func (r *membershipsRepo) GetMembership(ctx context.Context, tenantID, userID string) (domain.Membership, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, user_id, role, joined_at
		FROM memberships WHERE tenant_id = ? AND user_id = ?`, tenantID, userID)

	m, err := scanMembership(row)
	if err != nil {
		return domain.Membership{}, mapNotFound(err)
	}
	return m, nil
}

func (r *membershipsRepo) GetMembershipByID(ctx context.Context, tenantID, id string) (domain.Membership, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, user_id, role, joined_at
		FROM memberships WHERE tenant_id = ? AND id = ?`, tenantID, id)

	m, err := scanMembership(row)
	if err != nil {
		return domain.Membership{}, mapNotFound(err)
	}
	return m, nil
}

func (r *membershipsRepo) ListMembers(ctx context.Context, tenantID string) ([]domain.Member, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.id, m.tenant_id, m.user_id, m.role, m.joined_at,
		       u.email, u.display_name
		FROM memberships m
		JOIN users u ON u.id = m.user_id
		WHERE m.tenant_id = ?
		ORDER BY m.joined_at`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		var member domain.Member
		if err := rows.Scan(
			&member.ID, &member.TenantID, &member.UserID, &member.Role, &member.JoinedAt,
			&member.Email, &member.DisplayName,
		); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

func (r *membershipsRepo) CountByRole(ctx context.Context, tenantID, role string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM memberships
		WHERE tenant_id = ? AND role = ?`, tenantID, role).Scan(&count)
	return count, err
}

func (r *membershipsRepo) UpdateMembershipRole(ctx context.Context, tenantID, id, role string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE memberships SET role = ?
		WHERE tenant_id = ? AND id = ?`, role, tenantID, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *membershipsRepo) DeleteMembership(ctx context.Context, tenantID, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM memberships WHERE tenant_id = ? AND id = ?`, tenantID, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func scanMembership(row rowScanner) (domain.Membership, error) {
	var m domain.Membership
	if err := row.Scan(&m.ID, &m.TenantID, &m.UserID, &m.Role, &m.JoinedAt); err != nil {
		return domain.Membership{}, err
	}
	return m, nil
}
