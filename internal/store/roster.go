package store

import (
	"context"

	"nthora.app/server/core/db"
)

// rosterStore backs the early-access email roster consulted during
// onboarding. Emails are stored lower-cased.
type rosterStore struct {
	q db.Querier
}

func (s *rosterStore) Contains(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM early_access_roster WHERE email = lower($1))`, email).
		Scan(&exists)
	return exists, err
}

func (s *rosterStore) Add(ctx context.Context, email string) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO early_access_roster (email)
		VALUES (lower($1))
		ON CONFLICT (email) DO NOTHING`, email)
	return err
}
