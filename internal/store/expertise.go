package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"nthora.app/server/core/db"
	"nthora.app/server/internal/model"
)

type expertiseStore struct {
	q db.Querier
}

const expertiseColumns = `id, user_id, tag, confidence_score, available,
	max_questions_per_week, current_week_count, week_started_at, created_at`

// Upsert reports whether the row was newly inserted; a conflict that only
// refreshed an existing (user, tag) pair returns false.
func (s *expertiseStore) Upsert(ctx context.Context, e *model.Expertise) (bool, error) {
	row := s.q.QueryRow(ctx, `
		INSERT INTO user_expertise (id, user_id, tag, confidence_score, available, max_questions_per_week)
		VALUES ($1, $2, lower($3), $4, $5, $6)
		ON CONFLICT (user_id, tag) DO UPDATE SET
			confidence_score = GREATEST(user_expertise.confidence_score, EXCLUDED.confidence_score),
			available        = EXCLUDED.available
		RETURNING `+expertiseColumns+`, (xmax = 0)`,
		e.ID, e.UserID, e.Tag, e.ConfidenceScore, e.Available, e.MaxQuestionsPerWeek)

	var (
		got      model.Expertise
		inserted bool
	)
	err := row.Scan(&got.ID, &got.UserID, &got.Tag, &got.ConfidenceScore, &got.Available,
		&got.MaxQuestionsPerWeek, &got.CurrentWeekCount, &got.WeekStartedAt, &got.CreatedAt,
		&inserted)
	if err != nil {
		return false, err
	}
	*e = got
	return inserted, nil
}

func (s *expertiseStore) ListByUser(ctx context.Context, userID int64) ([]model.Expertise, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+expertiseColumns+` FROM user_expertise
		WHERE user_id = $1
		ORDER BY confidence_score DESC, tag ASC`, userID)
	if err != nil {
		return nil, err
	}
	return scanExpertiseRows(rows)
}

func (s *expertiseStore) ListAvailableByTags(ctx context.Context, tags []string) ([]model.Expertise, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+expertiseColumns+` FROM user_expertise
		WHERE available AND tag = ANY($1)
		ORDER BY confidence_score DESC`, tags)
	if err != nil {
		return nil, err
	}
	return scanExpertiseRows(rows)
}

func (s *expertiseStore) IncrementWeekCount(ctx context.Context, id int64) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE user_expertise SET current_week_count = current_week_count + 1
		WHERE id = $1 AND current_week_count < max_questions_per_week`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ResetStaleWeeks zeroes counters whose week window has elapsed.
func (s *expertiseStore) ResetStaleWeeks(ctx context.Context) error {
	_, err := s.q.Exec(ctx, `
		UPDATE user_expertise
		SET current_week_count = 0, week_started_at = now()
		WHERE week_started_at < now() - interval '7 days'`)
	return err
}

func scanExpertise(row pgx.Row) (*model.Expertise, error) {
	var e model.Expertise
	err := row.Scan(&e.ID, &e.UserID, &e.Tag, &e.ConfidenceScore, &e.Available,
		&e.MaxQuestionsPerWeek, &e.CurrentWeekCount, &e.WeekStartedAt, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func scanExpertiseRows(rows pgx.Rows) ([]model.Expertise, error) {
	defer rows.Close()
	var result []model.Expertise
	for rows.Next() {
		e, err := scanExpertise(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}
	return result, rows.Err()
}
