package store

import (
	"context"

	"nthora.app/server/core/db"
	"nthora.app/server/internal/model"
)

type activityStore struct {
	q db.Querier
}

// ListForAuthors returns the combined question/response stream for the given
// authors, newest first. NetworkDegree is zero here; the activity service
// annotates it from the graph traversal result.
func (s *activityStore) ListForAuthors(ctx context.Context, authorIDs []int64, limit int32) ([]model.ActivityItem, error) {
	rows, err := s.q.Query(ctx, `
		SELECT * FROM (
			SELECT q.id, 'question'::text AS type, q.id AS question_id, NULL::bigint AS response_id,
				q.author_id, u.full_name, q.title, q.content,
				q.primary_tags || q.secondary_tags AS tags,
				q.response_count, 0 AS helpful_votes, q.created_at
			FROM questions q
			JOIN users u ON u.id = q.author_id
			WHERE q.author_id = ANY($1) AND NOT q.is_demo

			UNION ALL

			SELECT r.id, 'answer'::text AS type, r.question_id, r.id AS response_id,
				r.responder_id AS author_id, u.full_name, q.title, r.content,
				q.primary_tags || q.secondary_tags AS tags,
				q.response_count, r.helpful_votes, r.created_at
			FROM responses r
			JOIN questions q ON q.id = r.question_id
			JOIN users u ON u.id = r.responder_id
			WHERE r.responder_id = ANY($1) AND NOT q.is_demo
		) stream
		ORDER BY created_at DESC
		LIMIT $2`, authorIDs, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.ActivityItem
	for rows.Next() {
		var item model.ActivityItem
		if err := rows.Scan(&item.ID, &item.Type, &item.QuestionID, &item.ResponseID,
			&item.AuthorID, &item.AuthorName, &item.Title, &item.Content, &item.Tags,
			&item.ResponseCount, &item.HelpfulVotes, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
