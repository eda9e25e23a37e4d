package service

import (
	"context"
	"fmt"
	"log/slog"

	"nthora.app/server/internal/model"
)

// Demo rows use fixed ids far below the snowflake range so reseeding is a
// pure upsert and real traffic can never collide with them.
const demoIDBase = 1000

type demoQuestion struct {
	question  model.Question
	responses []model.Response
}

func demoDataset() []demoQuestion {
	quality := func(level model.QualityLevel, score float64) (*model.QualityLevel, *float64) {
		return &level, &score
	}

	q1Level, q1Score := quality(model.QualityHigh, 0.92)
	q2Level, q2Score := quality(model.QualityMedium, 0.64)
	q3Level, q3Score := quality(model.QualityHigh, 0.88)

	return []demoQuestion{
		{
			question: model.Question{
				ID:          demoIDBase + 1,
				AuthorID:    demoIDBase + 101,
				Title:       "How do I structure my first enterprise sales hire?",
				Content:     "We just closed our seed round and our founder-led sales motion is maxed out. Should the first hire be an AE or a sales leader?",
				PrimaryTags: []string{"sales", "hiring"},
				Topic:       "sales",
				AnswerType:  model.AnswerTypeStrategic,
				Urgency:     model.UrgencyMedium,
				Visibility:  model.VisibilitySecondDegree,
				Status:      model.QuestionStatusActive,
				IsDemo:      true,
			},
			responses: []model.Response{
				{
					ID:           demoIDBase + 11,
					ResponderID:  demoIDBase + 102,
					Content:      "Hire a senior AE who has sold at your price point before, not a VP. You need someone closing alongside you for two quarters before you layer in management.",
					SourceType:   model.ResponseSourceAgentic,
					QualityLevel: q1Level,
					QualityScore: q1Score,
					HelpfulVotes: 4,
				},
			},
		},
		{
			question: model.Question{
				ID:          demoIDBase + 2,
				AuthorID:    demoIDBase + 102,
				Title:       "SAFE vs priced round for a $1.5M raise?",
				Content:     "Angels are ready to wire. Is it worth the legal cost of a priced round at this size, or do we stack SAFEs?",
				PrimaryTags: []string{"fundraising"},
				Topic:       "fundraising",
				AnswerType:  model.AnswerTypeTactical,
				Urgency:     model.UrgencyHigh,
				Visibility:  model.VisibilityFirstDegree,
				Status:      model.QuestionStatusActive,
				IsDemo:      true,
			},
			responses: []model.Response{
				{
					ID:           demoIDBase + 21,
					ResponderID:  demoIDBase + 103,
					Content:      "Under $2M nearly everyone stacks SAFEs. Just keep the cap consistent across the round or the stack gets ugly at conversion.",
					SourceType:   model.ResponseSourceAgentic,
					QualityLevel: q2Level,
					QualityScore: q2Score,
					HelpfulVotes: 2,
				},
			},
		},
		{
			question: model.Question{
				ID:          demoIDBase + 3,
				AuthorID:    demoIDBase + 103,
				Title:       "Postgres or a dedicated vector store for semantic search?",
				Content:     "We index about two million documents. pgvector keeps the stack simple but I am worried about recall at that scale.",
				PrimaryTags: []string{"engineering", "infrastructure"},
				Topic:       "engineering",
				AnswerType:  model.AnswerTypeTactical,
				Urgency:     model.UrgencyLow,
				Visibility:  model.VisibilityThirdDegree,
				Status:      model.QuestionStatusAnswered,
				IsDemo:      true,
			},
			responses: []model.Response{
				{
					ID:           demoIDBase + 31,
					ResponderID:  demoIDBase + 101,
					Content:      "Two million documents is comfortably inside pgvector territory with HNSW indexes. Revisit when you pass twenty million or need hybrid ranking.",
					SourceType:   model.ResponseSourceAgentic,
					QualityLevel: q3Level,
					QualityScore: q3Score,
					HelpfulVotes: 7,
				},
			},
		},
	}
}

// SeedDemo writes every row on every call; the fixed ids turn conflicting
// inserts into no-ops, so a reseed after a mid-seed failure finishes the
// partial dataset instead of wedging on it.
func (s *questionService) SeedDemo(ctx context.Context) (int, error) {
	seeded := 0
	for _, entry := range demoDataset() {
		q := entry.question
		if err := s.questionStore.Create(ctx, &q); err != nil {
			return seeded, fmt.Errorf("seeding demo question %d: %w", q.ID, err)
		}
		seeded++

		for _, r := range entry.responses {
			r.QuestionID = q.ID
			if err := s.responseStore.Create(ctx, &r); err != nil {
				return seeded, fmt.Errorf("seeding demo response %d: %w", r.ID, err)
			}
		}
	}

	slog.InfoContext(ctx, "demo dataset seeded", "questions", seeded)
	return seeded, nil
}
