package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"nthora.app/server/internal/badge"
	"nthora.app/server/internal/model"
	"nthora.app/server/internal/queue"
	"nthora.app/server/internal/store"
)

// statsProcessor turns activity events into stat increments and awards any
// badge whose requirement the new snapshot satisfies. InsertEarned is
// idempotent per (user, badge), so replayed events award nothing twice.
type statsProcessor struct{}

func NewStatsProcessor() EventProcessor {
	return &statsProcessor{}
}

func (p *statsProcessor) Process(ctx context.Context, msg queue.Message, sp StoreProvider) error {
	switch msg.Type {
	case queue.EventQuestionPosted:
		return p.bumpAndAward(ctx, sp, msg.UserID, model.MetricQuestionsAsked, 1)

	case queue.EventResponsePosted:
		return p.bumpAndAward(ctx, sp, msg.UserID, model.MetricResponsesGiven, 1)

	case queue.EventVoteCast:
		if msg.Helpful == nil || !*msg.Helpful {
			return nil
		}
		return p.bumpAndAward(ctx, sp, msg.UserID, model.MetricHelpfulVotes, 1)

	case queue.EventApprovalGiven:
		return p.bumpAndAward(ctx, sp, msg.UserID, model.MetricApprovalsGiven, 1)

	case queue.EventExpertiseDeclared:
		// Delta carries the number of newly declared tags.
		delta := msg.Delta
		if delta <= 0 {
			delta = 1
		}
		return p.bumpAndAward(ctx, sp, msg.UserID, model.MetricExpertiseDeclared, delta)

	case queue.EventUserJoined:
		return p.processJoin(ctx, sp, msg.UserID)

	default:
		return fmt.Errorf("unknown event type %q", msg.Type)
	}
}

// processJoin credits the invite creator, not the joiner.
func (p *statsProcessor) processJoin(ctx context.Context, sp StoreProvider, userID int64) error {
	pending, err := sp.Memberships().GetPendingByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Early-access joins have no invite to credit.
			return nil
		}
		return fmt.Errorf("getting pending member: %w", err)
	}

	if pending.InviteID == nil {
		return nil
	}

	invite, err := sp.Invites().GetByID(ctx, *pending.InviteID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.WarnContext(ctx, "invite vanished before join was credited", "invite_id", *pending.InviteID)
			return nil
		}
		return fmt.Errorf("getting invite: %w", err)
	}

	return p.bumpAndAward(ctx, sp, invite.CreatedBy, model.MetricMembersInvited, 1)
}

func (p *statsProcessor) bumpAndAward(ctx context.Context, sp StoreProvider, userID int64, metric model.StatMetric, delta int) error {
	stats, err := sp.Stats().Increment(ctx, userID, metric, delta)
	if err != nil {
		return fmt.Errorf("incrementing %s: %w", metric, err)
	}

	earned, err := sp.Stats().ListEarned(ctx, userID)
	if err != nil {
		return fmt.Errorf("listing earned badges: %w", err)
	}

	for _, def := range badge.NewlyMet(*stats, earned) {
		inserted, err := sp.Stats().InsertEarned(ctx, userID, def.ID)
		if err != nil {
			return fmt.Errorf("awarding badge %s: %w", def.ID, err)
		}
		if inserted {
			slog.InfoContext(ctx, "badge awarded",
				"user_id", userID,
				"badge_id", def.ID,
				"tier", def.Tier,
			)
		}
	}

	return nil
}
