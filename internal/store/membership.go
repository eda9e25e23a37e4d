package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"nthora.app/server/core/db"
	"nthora.app/server/internal/model"
)

type membershipStore struct {
	q db.Querier
}

const pendingColumns = `id, user_id, invite_id, status, approval_count, created_at, promoted_at`

func (s *membershipStore) CreatePending(ctx context.Context, pm *model.PendingMember) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO pending_members (id, user_id, invite_id, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING `+pendingColumns,
		pm.ID, pm.UserID, pm.InviteID, pm.Status)

	got, err := scanPending(row)
	if err != nil {
		return err
	}
	*pm = *got
	return nil
}

func (s *membershipStore) GetPending(ctx context.Context, id int64) (*model.PendingMember, error) {
	row := s.q.QueryRow(ctx, `SELECT `+pendingColumns+` FROM pending_members WHERE id = $1`, id)
	return scanPending(row)
}

func (s *membershipStore) GetPendingByUser(ctx context.Context, userID int64) (*model.PendingMember, error) {
	row := s.q.QueryRow(ctx, `SELECT `+pendingColumns+` FROM pending_members WHERE user_id = $1`, userID)
	return scanPending(row)
}

func (s *membershipStore) AddApproval(ctx context.Context, approval *model.MemberApproval) (*model.PendingMember, error) {
	tag, err := s.q.Exec(ctx, `
		INSERT INTO member_approvals (id, pending_member_id, approver_id, reason)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (pending_member_id, approver_id) DO NOTHING`,
		approval.ID, approval.PendingMemberID, approval.ApproverID, approval.Reason)
	if err != nil {
		return nil, err
	}

	if tag.RowsAffected() == 0 {
		// Duplicate approval from the same member; count unchanged.
		return s.GetPending(ctx, approval.PendingMemberID)
	}

	row := s.q.QueryRow(ctx, `
		UPDATE pending_members SET approval_count = approval_count + 1
		WHERE id = $1
		RETURNING `+pendingColumns, approval.PendingMemberID)
	return scanPending(row)
}

func (s *membershipStore) Promote(ctx context.Context, id int64) (*model.PendingMember, error) {
	row := s.q.QueryRow(ctx, `
		UPDATE pending_members SET status = 'approved', promoted_at = now()
		WHERE id = $1 AND status = 'pending'
		RETURNING `+pendingColumns, id)
	return scanPending(row)
}

func (s *membershipStore) ListPending(ctx context.Context) ([]model.PendingMember, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+pendingColumns+` FROM pending_members
		WHERE status = 'pending'
		ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.PendingMember
	for rows.Next() {
		pm, err := scanPending(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *pm)
	}
	return result, rows.Err()
}

func scanPending(row pgx.Row) (*model.PendingMember, error) {
	var pm model.PendingMember
	err := row.Scan(&pm.ID, &pm.UserID, &pm.InviteID, &pm.Status, &pm.ApprovalCount,
		&pm.CreatedAt, &pm.PromotedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &pm, nil
}
