package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"nthora.app/server/core/db"
)

type preferencesStore struct {
	q db.Querier
}

// Get returns the raw stored document, or an empty map when the user has
// never saved preferences. Resolution against defaults is the service's job.
func (s *preferencesStore) Get(ctx context.Context, userID int64) (map[string]any, error) {
	var raw []byte
	err := s.q.QueryRow(ctx, `SELECT doc FROM user_preferences WHERE user_id = $1`, userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return map[string]any{}, nil
		}
		return nil, err
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *preferencesStore) Put(ctx context.Context, userID int64, doc map[string]any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	_, err = s.q.Exec(ctx, `
		INSERT INTO user_preferences (user_id, doc)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`,
		userID, raw)
	return err
}
