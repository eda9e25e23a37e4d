package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"nthora.app/server/common"
	"nthora.app/server/common/id"
	"nthora.app/server/internal/classify"
	"nthora.app/server/internal/model"
	"nthora.app/server/internal/queue"
	"nthora.app/server/internal/store"
)

var ErrEmptyExpertise = errors.New("expertise description is empty")

type DeclareExpertiseParams struct {
	UserID              int64
	Tags                []string // explicit tags; free text goes through the classifier
	FreeText            string
	MaxQuestionsPerWeek int
}

type ExpertiseService interface {
	Declare(ctx context.Context, params DeclareExpertiseParams) ([]model.Expertise, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Expertise, error)
}

type expertiseService struct {
	expertiseStore store.ExpertiseStore
	classifier     *classify.Classifier
	producer       queue.Producer
}

func NewExpertiseService(expertiseStore store.ExpertiseStore, classifier *classify.Classifier, producer queue.Producer) ExpertiseService {
	return &expertiseService{
		expertiseStore: expertiseStore,
		classifier:     classifier,
		producer:       producer,
	}
}

func (s *expertiseService) Declare(ctx context.Context, params DeclareExpertiseParams) ([]model.Expertise, error) {
	tags := params.Tags
	confidence := 1.0 // explicit declarations are authoritative

	if len(tags) == 0 {
		text := strings.TrimSpace(params.FreeText)
		if text == "" {
			return nil, ErrEmptyExpertise
		}

		result := s.classifier.Classify(ctx, classify.KindExpertise, text)
		tags = result.Tags
		confidence = result.Confidence
	}

	quota := params.MaxQuestionsPerWeek
	if quota <= 0 {
		quota = 5
	}

	declared := make([]model.Expertise, 0, len(tags))
	newTags := 0
	for _, raw := range tags {
		// Tags are stored in slug form so "Machine Learning" and
		// "machine-learning" dedupe to one row.
		tag, err := common.Slugify(raw, "")
		if err != nil {
			continue
		}

		e := model.Expertise{
			ID:                  id.New(),
			UserID:              params.UserID,
			Tag:                 tag,
			ConfidenceScore:     confidence,
			Available:           true,
			MaxQuestionsPerWeek: quota,
		}
		inserted, err := s.expertiseStore.Upsert(ctx, &e)
		if err != nil {
			return declared, fmt.Errorf("upserting expertise %q: %w", tag, err)
		}
		if inserted {
			newTags++
		}
		declared = append(declared, e)
	}

	// Re-declaring an existing tag is not progress toward anything.
	if newTags > 0 {
		if err := s.producer.Enqueue(ctx, queue.Event{
			Type:   queue.EventExpertiseDeclared,
			UserID: params.UserID,
			Delta:  newTags,
		}); err != nil {
			slog.ErrorContext(ctx, "failed to enqueue expertise event", "error", err, "user_id", params.UserID)
		}
	}

	slog.InfoContext(ctx, "expertise declared",
		"user_id", params.UserID,
		"tags", len(declared),
		"new_tags", newTags,
	)
	return declared, nil
}

func (s *expertiseService) ListByUser(ctx context.Context, userID int64) ([]model.Expertise, error) {
	return s.expertiseStore.ListByUser(ctx, userID)
}
