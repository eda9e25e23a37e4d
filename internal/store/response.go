package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"nthora.app/server/core/db"
	"nthora.app/server/internal/model"
)

type responseStore struct {
	q db.Querier
}

const responseColumns = `id, question_id, responder_id, content, source_type,
	quality_level, quality_score, helpful_votes, unhelpful_votes, created_at`

func (s *responseStore) Create(ctx context.Context, r *model.Response) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO responses (id, question_id, responder_id, content, source_type, quality_level, quality_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
		RETURNING `+responseColumns,
		r.ID, r.QuestionID, r.ResponderID, r.Content, r.SourceType, r.QualityLevel, r.QualityScore)

	got, err := scanResponse(row)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Conflicting insert: demo seeding replays fixed IDs.
			return nil
		}
		return err
	}
	*r = *got

	_, err = s.q.Exec(ctx, `
		UPDATE questions SET response_count = response_count + 1, updated_at = now()
		WHERE id = $1`, r.QuestionID)
	return err
}

func (s *responseStore) GetByID(ctx context.Context, id int64) (*model.Response, error) {
	row := s.q.QueryRow(ctx, `SELECT `+responseColumns+` FROM responses WHERE id = $1`, id)
	return scanResponse(row)
}

func (s *responseStore) ListByQuestion(ctx context.Context, questionID int64) ([]model.Response, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+responseColumns+` FROM responses
		WHERE question_id = $1
		ORDER BY created_at ASC`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Response
	for rows.Next() {
		r, err := scanResponse(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *r)
	}
	return result, rows.Err()
}

func (s *responseStore) Vote(ctx context.Context, id int64, helpful bool) (*model.Response, error) {
	column := "unhelpful_votes"
	if helpful {
		column = "helpful_votes"
	}

	row := s.q.QueryRow(ctx, `
		UPDATE responses SET `+column+` = `+column+` + 1
		WHERE id = $1
		RETURNING `+responseColumns, id)
	return scanResponse(row)
}

func scanResponse(row pgx.Row) (*model.Response, error) {
	var r model.Response
	err := row.Scan(&r.ID, &r.QuestionID, &r.ResponderID, &r.Content, &r.SourceType,
		&r.QualityLevel, &r.QualityScore, &r.HelpfulVotes, &r.UnhelpfulVotes, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}
