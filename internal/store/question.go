package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"nthora.app/server/core/db"
	"nthora.app/server/internal/model"
)

type questionStore struct {
	q db.Querier
}

const questionColumns = `id, author_id, title, content, primary_tags, secondary_tags, topic,
	answer_type, urgency, visibility, status, view_count, response_count, is_demo,
	created_at, updated_at`

func (s *questionStore) Create(ctx context.Context, q *model.Question) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO questions (id, author_id, title, content, primary_tags, secondary_tags, topic,
			answer_type, urgency, visibility, status, is_demo)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO NOTHING
		RETURNING `+questionColumns,
		q.ID, q.AuthorID, q.Title, q.Content, q.PrimaryTags, q.SecondaryTags, q.Topic,
		q.AnswerType, q.Urgency, q.Visibility, q.Status, q.IsDemo)

	got, err := scanQuestion(row)
	if err != nil {
		// Demo seeding relies on conflicting inserts being silently dropped.
		if errors.Is(err, ErrNotFound) && q.IsDemo {
			return nil
		}
		return err
	}
	*q = *got
	return nil
}

func (s *questionStore) GetByID(ctx context.Context, id int64) (*model.Question, error) {
	row := s.q.QueryRow(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = $1`, id)
	return scanQuestion(row)
}

func (s *questionStore) ListAll(ctx context.Context, limit int32) ([]model.Question, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+questionColumns+` FROM questions
		WHERE NOT is_demo
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return scanQuestions(rows)
}

func (s *questionStore) ListByAuthor(ctx context.Context, authorID int64, limit int32) ([]model.Question, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+questionColumns+` FROM questions
		WHERE author_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, authorID, limit)
	if err != nil {
		return nil, err
	}
	return scanQuestions(rows)
}

func (s *questionStore) ListMatched(ctx context.Context, tags []string, excludeAuthorID int64, limit int32) ([]model.Question, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+questionColumns+` FROM questions
		WHERE NOT is_demo
		  AND status = 'active'
		  AND author_id <> $2
		  AND (primary_tags && $1 OR secondary_tags && $1)
		ORDER BY created_at DESC
		LIMIT $3`, tags, excludeAuthorID, limit)
	if err != nil {
		return nil, err
	}
	return scanQuestions(rows)
}

func (s *questionStore) SearchTopics(ctx context.Context, topic string, limit int32) ([]model.Question, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+questionColumns+` FROM questions
		WHERE NOT is_demo
		  AND (title ILIKE '%' || $1 || '%'
			OR content ILIKE '%' || $1 || '%'
			OR topic ILIKE '%' || $1 || '%'
			OR EXISTS (SELECT 1 FROM unnest(primary_tags || secondary_tags) t WHERE t ILIKE '%' || $1 || '%'))
		ORDER BY created_at DESC
		LIMIT $2`, topic, limit)
	if err != nil {
		return nil, err
	}
	return scanQuestions(rows)
}

func (s *questionStore) ListDemo(ctx context.Context, limit int32) ([]model.Question, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+questionColumns+` FROM questions
		WHERE is_demo
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return scanQuestions(rows)
}

func (s *questionStore) SetStatus(ctx context.Context, id int64, status model.QuestionStatus) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE questions SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *questionStore) IncrementViews(ctx context.Context, id int64) error {
	_, err := s.q.Exec(ctx, `
		UPDATE questions SET view_count = view_count + 1 WHERE id = $1`, id)
	return err
}

func scanQuestion(row pgx.Row) (*model.Question, error) {
	var q model.Question
	err := row.Scan(&q.ID, &q.AuthorID, &q.Title, &q.Content, &q.PrimaryTags, &q.SecondaryTags,
		&q.Topic, &q.AnswerType, &q.Urgency, &q.Visibility, &q.Status, &q.ViewCount,
		&q.ResponseCount, &q.IsDemo, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

func scanQuestions(rows pgx.Rows) ([]model.Question, error) {
	defer rows.Close()
	var result []model.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *q)
	}
	return result, rows.Err()
}
