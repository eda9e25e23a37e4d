package service

import (
	"context"
	"errors"
	"fmt"

	"nthora.app/server/internal/badge"
	"nthora.app/server/internal/model"
	"nthora.app/server/internal/store"
)

const badgeViewCap = 3

type BadgeService interface {
	// Summary is read-only: awarding happens in the worker, the API only
	// reflects what the stats snapshot and earned rows already say.
	Summary(ctx context.Context, userID int64) (*badge.Summary, error)
}

type badgeService struct {
	statsStore     store.StatsStore
	expertiseStore store.ExpertiseStore
}

func NewBadgeService(statsStore store.StatsStore, expertiseStore store.ExpertiseStore) BadgeService {
	return &badgeService{
		statsStore:     statsStore,
		expertiseStore: expertiseStore,
	}
}

func (s *badgeService) Summary(ctx context.Context, userID int64) (*badge.Summary, error) {
	stats, err := s.statsStore.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			stats = &model.UserStats{UserID: userID}
		} else {
			return nil, fmt.Errorf("getting stats: %w", err)
		}
	}

	earned, err := s.statsStore.ListEarned(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing earned badges: %w", err)
	}

	// Declared expertise areas drive the recommended list.
	categories := []string{"questions", "answers"}
	if expertise, err := s.expertiseStore.ListByUser(ctx, userID); err == nil && len(expertise) > 0 {
		categories = append(categories, "expertise")
	}

	summary := badge.Classify(*stats, earned, categories, badgeViewCap)
	return &summary, nil
}
