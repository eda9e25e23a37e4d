package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"nthora.app/server/core/db"
	"nthora.app/server/internal/model"
)

type inviteStore struct {
	q db.Querier
}

const inviteColumns = `id, code, created_by, max_uses, current_uses,
	fast_track_threshold, active, expires_at, created_at`

func (s *inviteStore) Create(ctx context.Context, inv *model.InviteCode) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO invite_codes (id, code, created_by, max_uses, fast_track_threshold, active, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+inviteColumns,
		inv.ID, inv.Code, inv.CreatedBy, inv.MaxUses, inv.FastTrackThreshold, inv.Active, inv.ExpiresAt)

	got, err := scanInvite(row)
	if err != nil {
		return err
	}
	*inv = *got
	return nil
}

func (s *inviteStore) GetByCode(ctx context.Context, code string) (*model.InviteCode, error) {
	row := s.q.QueryRow(ctx, `SELECT `+inviteColumns+` FROM invite_codes WHERE code = upper($1)`, code)
	return scanInvite(row)
}

func (s *inviteStore) GetByID(ctx context.Context, id int64) (*model.InviteCode, error) {
	row := s.q.QueryRow(ctx, `SELECT `+inviteColumns+` FROM invite_codes WHERE id = $1`, id)
	return scanInvite(row)
}

// IncrementUses is guarded so two concurrent redemptions cannot push
// current_uses past max_uses.
func (s *inviteStore) IncrementUses(ctx context.Context, id int64) (*model.InviteCode, error) {
	row := s.q.QueryRow(ctx, `
		UPDATE invite_codes SET current_uses = current_uses + 1
		WHERE id = $1
		  AND active
		  AND current_uses < max_uses
		  AND (expires_at IS NULL OR expires_at > now())
		RETURNING `+inviteColumns, id)
	return scanInvite(row)
}

func (s *inviteStore) Deactivate(ctx context.Context, id int64) (*model.InviteCode, error) {
	row := s.q.QueryRow(ctx, `
		UPDATE invite_codes SET active = false
		WHERE id = $1
		RETURNING `+inviteColumns, id)
	return scanInvite(row)
}

func (s *inviteStore) List(ctx context.Context, limit, offset int32) ([]model.InviteCode, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+inviteColumns+` FROM invite_codes
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.InviteCode
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *inv)
	}
	return result, rows.Err()
}

func scanInvite(row pgx.Row) (*model.InviteCode, error) {
	var inv model.InviteCode
	err := row.Scan(&inv.ID, &inv.Code, &inv.CreatedBy, &inv.MaxUses, &inv.CurrentUses,
		&inv.FastTrackThreshold, &inv.Active, &inv.ExpiresAt, &inv.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}
