package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"nthora.app/server/core/db"
	"nthora.app/server/internal/model"
)

type statsStore struct {
	q db.Querier
}

const statsColumns = `user_id, questions_asked, responses_given, helpful_votes,
	members_invited, approvals_given, expertise_declared, updated_at`

var metricColumns = map[model.StatMetric]string{
	model.MetricQuestionsAsked:    "questions_asked",
	model.MetricResponsesGiven:    "responses_given",
	model.MetricHelpfulVotes:      "helpful_votes",
	model.MetricMembersInvited:    "members_invited",
	model.MetricApprovalsGiven:    "approvals_given",
	model.MetricExpertiseDeclared: "expertise_declared",
}

func (s *statsStore) Get(ctx context.Context, userID int64) (*model.UserStats, error) {
	row := s.q.QueryRow(ctx, `SELECT `+statsColumns+` FROM user_stats WHERE user_id = $1`, userID)
	return scanStats(row)
}

func (s *statsStore) Increment(ctx context.Context, userID int64, metric model.StatMetric, delta int) (*model.UserStats, error) {
	column, ok := metricColumns[metric]
	if !ok {
		return nil, fmt.Errorf("unknown stat metric %q", metric)
	}

	row := s.q.QueryRow(ctx, `
		INSERT INTO user_stats (user_id, `+column+`)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET
			`+column+` = user_stats.`+column+` + EXCLUDED.`+column+`,
			updated_at = now()
		RETURNING `+statsColumns, userID, delta)
	return scanStats(row)
}

func (s *statsStore) ListEarned(ctx context.Context, userID int64) ([]model.EarnedBadge, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, user_id, badge_id, earned_at
		FROM earned_badges
		WHERE user_id = $1
		ORDER BY earned_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.EarnedBadge
	for rows.Next() {
		var b model.EarnedBadge
		if err := rows.Scan(&b.ID, &b.UserID, &b.BadgeID, &b.EarnedAt); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

func (s *statsStore) InsertEarned(ctx context.Context, userID int64, badgeID string) (bool, error) {
	tag, err := s.q.Exec(ctx, `
		INSERT INTO earned_badges (user_id, badge_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, badge_id) DO NOTHING`, userID, badgeID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanStats(row pgx.Row) (*model.UserStats, error) {
	var st model.UserStats
	err := row.Scan(&st.UserID, &st.QuestionsAsked, &st.ResponsesGiven, &st.HelpfulVotes,
		&st.MembersInvited, &st.ApprovalsGiven, &st.ExpertiseDeclared, &st.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &st, nil
}
