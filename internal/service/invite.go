package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"nthora.app/server/common/id"
	"nthora.app/server/common/logger"
	"nthora.app/server/internal/model"
	"nthora.app/server/internal/queue"
	"nthora.app/server/internal/store"
)

var (
	ErrInviteNotFound  = errors.New("invite code not found")
	ErrInviteInactive  = errors.New("invite code is inactive")
	ErrInviteExpired   = errors.New("invite code has expired")
	ErrInviteExhausted = errors.New("invite code has no uses remaining")
	ErrAlreadyPending  = errors.New("user already has a pending membership")
	ErrSelfApproval    = errors.New("members cannot approve themselves")
)

const (
	defaultMaxUses            = 10
	defaultFastTrackThreshold = 3
	codeLength                = 8
)

type CreateInviteParams struct {
	CreatedBy          int64
	MaxUses            int
	FastTrackThreshold int
	ExpiresAt          *time.Time
}

type InviteService interface {
	Create(ctx context.Context, params CreateInviteParams) (*model.InviteCode, error)
	Validate(ctx context.Context, code string) (*model.InviteCode, error)
	// Redeem re-validates, consumes one use and registers the user as a
	// pending member, all in one transaction.
	Redeem(ctx context.Context, code string, userID int64) (*model.PendingMember, error)
	// Approve records one approval per (approver, pending member) pair and
	// promotes the member once the invite's fast-track threshold is reached.
	Approve(ctx context.Context, pendingMemberID, approverID int64, reason *string) (*model.PendingMember, error)
	Deactivate(ctx context.Context, inviteID int64) (*model.InviteCode, error)
	List(ctx context.Context, limit, offset int32) ([]model.InviteCode, error)
	ListPending(ctx context.Context) ([]model.PendingMember, error)
}

type inviteService struct {
	inviteStore     store.InviteStore
	membershipStore store.MembershipStore
	userStore       store.UserStore
	txRunner        TxRunner
	producer        queue.Producer
}

func NewInviteService(
	inviteStore store.InviteStore,
	membershipStore store.MembershipStore,
	userStore store.UserStore,
	txRunner TxRunner,
	producer queue.Producer,
) InviteService {
	return &inviteService{
		inviteStore:     inviteStore,
		membershipStore: membershipStore,
		userStore:       userStore,
		txRunner:        txRunner,
		producer:        producer,
	}
}

// codeAlphabet drops the lookalikes (0/O, 1/I/L) so codes survive being
// read over the phone.
const codeAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

func generateCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating invite code: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}

func (s *inviteService) Create(ctx context.Context, params CreateInviteParams) (*model.InviteCode, error) {
	code, err := generateCode()
	if err != nil {
		return nil, err
	}

	maxUses := params.MaxUses
	if maxUses <= 0 {
		maxUses = defaultMaxUses
	}
	threshold := params.FastTrackThreshold
	if threshold <= 0 {
		threshold = defaultFastTrackThreshold
	}

	invite := &model.InviteCode{
		ID:                 id.New(),
		Code:               code,
		CreatedBy:          params.CreatedBy,
		MaxUses:            maxUses,
		FastTrackThreshold: threshold,
		Active:             true,
		ExpiresAt:          params.ExpiresAt,
	}

	if err := s.inviteStore.Create(ctx, invite); err != nil {
		return nil, fmt.Errorf("creating invite: %w", err)
	}

	slog.InfoContext(ctx, "invite code created",
		"invite_id", invite.ID,
		"created_by", invite.CreatedBy,
		"max_uses", invite.MaxUses,
	)
	return invite, nil
}

func (s *inviteService) Validate(ctx context.Context, code string) (*model.InviteCode, error) {
	invite, err := s.inviteStore.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("getting invite: %w", err)
	}

	if !invite.Active {
		return nil, ErrInviteInactive
	}
	if invite.ExpiresAt != nil && time.Now().After(*invite.ExpiresAt) {
		return nil, ErrInviteExpired
	}
	if invite.RemainingUses() == 0 {
		return nil, ErrInviteExhausted
	}

	return invite, nil
}

func (s *inviteService) Redeem(ctx context.Context, code string, userID int64) (*model.PendingMember, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		UserID:    logger.Ptr(userID),
		Component: "nthora.service.invite",
	})

	invite, err := s.Validate(ctx, code)
	if err != nil {
		return nil, err
	}

	if existing, err := s.membershipStore.GetPendingByUser(ctx, userID); err == nil && existing != nil {
		return nil, ErrAlreadyPending
	} else if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("checking pending membership: %w", err)
	}

	var pending *model.PendingMember
	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		// The guarded increment is the authority on remaining uses; the
		// Validate above is only a fast path.
		if _, err := stores.Invites().IncrementUses(ctx, invite.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInviteExhausted
			}
			return fmt.Errorf("incrementing invite uses: %w", err)
		}

		pending = &model.PendingMember{
			ID:       id.New(),
			UserID:   userID,
			InviteID: &invite.ID,
			Status:   model.MembershipStatusPending,
		}
		if err := stores.Memberships().CreatePending(ctx, pending); err != nil {
			return fmt.Errorf("creating pending membership: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "invite redeemed",
		"invite_id", invite.ID,
		"pending_member_id", pending.ID,
	)
	return pending, nil
}

func (s *inviteService) Approve(ctx context.Context, pendingMemberID, approverID int64, reason *string) (*model.PendingMember, error) {
	pending, err := s.membershipStore.GetPending(ctx, pendingMemberID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("getting pending member: %w", err)
	}

	if pending.UserID == approverID {
		return nil, ErrSelfApproval
	}
	if pending.Status != model.MembershipStatusPending {
		return pending, nil
	}

	// The threshold lives on the invite row, not in code.
	threshold := defaultFastTrackThreshold
	if pending.InviteID != nil {
		invite, err := s.inviteStore.GetByID(ctx, *pending.InviteID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("getting invite: %w", err)
		}
		if invite != nil {
			threshold = invite.FastTrackThreshold
		}
	}

	priorApprovals := pending.ApprovalCount

	var updated *model.PendingMember
	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		approval := &model.MemberApproval{
			ID:              id.New(),
			PendingMemberID: pendingMemberID,
			ApproverID:      approverID,
			Reason:          reason,
		}

		updated, err = stores.Memberships().AddApproval(ctx, approval)
		if err != nil {
			return fmt.Errorf("adding approval: %w", err)
		}

		if updated.ApprovalCount >= threshold && updated.Status == model.MembershipStatusPending {
			updated, err = stores.Memberships().Promote(ctx, pendingMemberID)
			if err != nil {
				return fmt.Errorf("promoting member: %w", err)
			}
			if err := stores.Users().MarkMember(ctx, updated.UserID); err != nil {
				return fmt.Errorf("marking user as member: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// A duplicate approval from the same member leaves the count untouched
	// and earns nothing.
	if updated.ApprovalCount > priorApprovals {
		if err := s.producer.Enqueue(ctx, queue.Event{
			Type:   queue.EventApprovalGiven,
			UserID: approverID,
		}); err != nil {
			slog.ErrorContext(ctx, "failed to enqueue approval event", "error", err, "approver_id", approverID)
		}
	}

	if updated.Status == model.MembershipStatusApproved {
		slog.InfoContext(ctx, "pending member fast-tracked",
			"pending_member_id", pendingMemberID,
			"approvals", updated.ApprovalCount,
			"threshold", threshold,
		)
	}
	return updated, nil
}

func (s *inviteService) Deactivate(ctx context.Context, inviteID int64) (*model.InviteCode, error) {
	invite, err := s.inviteStore.Deactivate(ctx, inviteID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("deactivating invite: %w", err)
	}
	return invite, nil
}

func (s *inviteService) List(ctx context.Context, limit, offset int32) ([]model.InviteCode, error) {
	return s.inviteStore.List(ctx, limit, offset)
}

func (s *inviteService) ListPending(ctx context.Context) ([]model.PendingMember, error) {
	return s.membershipStore.ListPending(ctx)
}
