package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"nthora.app/server/core/db"
	"nthora.app/server/internal/model"
)

type userStore struct {
	q db.Querier
}

const userColumns = `id, full_name, email, headline, avatar_url, early_access, member_since, created_at, updated_at`

func (s *userStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	row := s.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	return scanUser(row)
}

func (s *userStore) Upsert(ctx context.Context, user *model.User) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO users (id, full_name, email, headline, avatar_url, early_access)
		VALUES ($1, $2, lower($3), $4, $5, $6)
		ON CONFLICT (email) DO UPDATE SET
			full_name  = EXCLUDED.full_name,
			headline   = COALESCE(EXCLUDED.headline, users.headline),
			avatar_url = COALESCE(EXCLUDED.avatar_url, users.avatar_url),
			updated_at = now()
		RETURNING `+userColumns,
		user.ID, user.FullName, user.Email, user.Headline, user.AvatarURL, user.EarlyAccess)

	got, err := scanUser(row)
	if err != nil {
		return err
	}
	*user = *got
	return nil
}

func (s *userStore) Update(ctx context.Context, user *model.User) error {
	row := s.q.QueryRow(ctx, `
		UPDATE users
		SET full_name = $2, headline = $3, avatar_url = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		user.ID, user.FullName, user.Headline, user.AvatarURL)

	got, err := scanUser(row)
	if err != nil {
		return err
	}
	*user = *got
	return nil
}

func (s *userStore) MarkMember(ctx context.Context, id int64) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE users SET member_since = now(), updated_at = now()
		WHERE id = $1 AND member_since IS NULL`, id)
	if err != nil {
		return err
	}
	_ = tag
	return nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.Headline, &u.AvatarURL,
		&u.EarlyAccess, &u.MemberSince, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
