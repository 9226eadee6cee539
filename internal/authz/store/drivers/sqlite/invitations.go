package sqlite

import (
	"context"
	"time"

	"github.com/classhubhq/classhub/internal/authz/domain"
)

type invitationsRepo struct {
	db dbtx
}

func (r *invitationsRepo) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO invitations (id, tenant_id, email, role, inviter_id, status, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.TenantID, inv.Email, inv.Role, inv.InviterID, inv.Status,
		inv.ExpiresAt, inv.CreatedAt, inv.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *invitationsRepo) GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, email, role, inviter_id, status, expires_at, created_at, updated_at
		FROM invitations WHERE id = ?`, id)

	inv, err := scanInvitation(row)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitationsRepo) GetPendingByEmail(ctx context.Context, tenantID, email string) (domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, email, role, inviter_id, status, expires_at, created_at, updated_at
		FROM invitations
		WHERE tenant_id = ? AND email = ? AND status = 'pending'`, tenantID, email)

	inv, err := scanInvitation(row)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitationsRepo) ListInvitations(ctx context.Context, tenantID string) ([]domain.InvitationWithInviter, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT i.id, i.tenant_id, i.email, i.role, i.inviter_id, i.status,
		       i.expires_at, i.created_at, i.updated_at, u.display_name
		FROM invitations i
		JOIN users u ON u.id = i.inviter_id
		WHERE i.tenant_id = ?
		ORDER BY i.created_at DESC`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invites []domain.InvitationWithInviter
	for rows.Next() {
		var inv domain.InvitationWithInviter
		if err := rows.Scan(
			&inv.ID, &inv.TenantID, &inv.Email, &inv.Role, &inv.InviterID, &inv.Status,
			&inv.ExpiresAt, &inv.CreatedAt, &inv.UpdatedAt, &inv.InviterName,
		); err != nil {
			return nil, err
		}
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}

// TransitionFromPending flips a pending invitation to a terminal status. The
// status guard in the WHERE clause makes concurrent transitions race-safe:
// whichever write lands second affects zero rows and gets ErrNotFound.
func (r *invitationsRepo) TransitionFromPending(ctx context.Context, id string, to domain.InvitationStatus, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invitations SET status = ?, updated_at = ?
		WHERE id = ? AND status = 'pending'`, to, at, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *invitationsRepo) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invitations SET status = 'expired', updated_at = ?
		WHERE status = 'pending' AND expires_at < ?`, now, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanInvitation(row rowScanner) (domain.Invitation, error) {
	var inv domain.Invitation
	if err := row.Scan(
		&inv.ID, &inv.TenantID, &inv.Email, &inv.Role, &inv.InviterID, &inv.Status,
		&inv.ExpiresAt, &inv.CreatedAt, &inv.UpdatedAt,
	); err != nil {
		return domain.Invitation{}, err
	}
	return inv, nil
}
