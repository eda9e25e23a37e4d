package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"nthora.app/server/common/logger"
	"nthora.app/server/internal/model"
	"nthora.app/server/internal/queue"
	"nthora.app/server/internal/store"
)

var (
	ErrInvalidEmail    = errors.New("a valid email address is required")
	ErrMissingFullName = errors.New("full name is required")
)

type OnboardingStep string

const (
	StepEmailInput      OnboardingStep = "email_input"
	StepEarlyUserOTP    OnboardingStep = "early_user_otp"
	StepInviteCodeInput OnboardingStep = "invite_code_input"
	StepNewUserForm     OnboardingStep = "new_user_form"
	StepSignupOTP       OnboardingStep = "signup_otp"
	StepJoined          OnboardingStep = "joined"
)

// OnboardingState is a tagged union: Step selects which payload fields are
// meaningful. A failed guard returns the current state unchanged with
// Error set; nothing is rolled back and nothing retries automatically.
type OnboardingState struct {
	Step  OnboardingStep `json:"step"`
	Email string         `json:"email"`

	// invite_code_input onward
	InviteCode string `json:"invite_code,omitempty"`

	// new_user_form onward
	FullName      string `json:"full_name,omitempty"`
	Headline      string `json:"headline,omitempty"`
	ExpertiseText string `json:"expertise_text,omitempty"`

	// joined
	User    *model.User    `json:"user,omitempty"`
	Session *model.Session `json:"session,omitempty"`

	Error string `json:"error,omitempty"`
}

type SubmitProfileParams struct {
	Email         string
	InviteCode    string
	FullName      string
	Headline      string
	ExpertiseText string
}

type OnboardingService interface {
	// Start routes the email: early-access roster members go straight to
	// OTP, everyone else must present an invite code.
	Start(ctx context.Context, email string) (OnboardingState, error)
	SubmitInviteCode(ctx context.Context, email, code string) (OnboardingState, error)
	SubmitProfile(ctx context.Context, params SubmitProfileParams) (OnboardingState, error)
	// VerifyOTP completes either OTP state. For signup flows it redeems
	// the invite and registers the new member as pending.
	VerifyOTP(ctx context.Context, state OnboardingState, otp string) (OnboardingState, error)
}

type onboardingService struct {
	rosterStore store.RosterStore
	auth        AuthService
	invites     InviteService
	userStore   store.UserStore
	expertise   ExpertiseService
	producer    queue.Producer
}

func NewOnboardingService(
	rosterStore store.RosterStore,
	auth AuthService,
	invites InviteService,
	userStore store.UserStore,
	expertise ExpertiseService,
	producer queue.Producer,
) OnboardingService {
	return &onboardingService{
		rosterStore: rosterStore,
		auth:        auth,
		invites:     invites,
		userStore:   userStore,
		expertise:   expertise,
		producer:    producer,
	}
}

func held(state OnboardingState, err error) OnboardingState {
	state.Error = err.Error()
	return state
}

// inviteIssue reports whether err is a guard failure the user can act on,
// as opposed to an infrastructure error.
func inviteIssue(err error) bool {
	return errors.Is(err, ErrInviteNotFound) || errors.Is(err, ErrInviteInactive) ||
		errors.Is(err, ErrInviteExpired) || errors.Is(err, ErrInviteExhausted)
}

func (s *onboardingService) Start(ctx context.Context, email string) (OnboardingState, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	state := OnboardingState{Step: StepEmailInput, Email: email}

	if email == "" || !strings.Contains(email, "@") {
		return held(state, ErrInvalidEmail), nil
	}

	onRoster, err := s.rosterStore.Contains(ctx, email)
	if err != nil {
		return state, fmt.Errorf("checking early-access roster: %w", err)
	}

	if !onRoster {
		state.Step = StepInviteCodeInput
		return state, nil
	}

	// Roster members skip the invite flow entirely.
	if err := s.auth.SendCode(ctx, email); err != nil {
		return held(state, err), nil
	}

	state.Step = StepEarlyUserOTP
	return state, nil
}

func (s *onboardingService) SubmitInviteCode(ctx context.Context, email, code string) (OnboardingState, error) {
	state := OnboardingState{
		Step:       StepInviteCodeInput,
		Email:      strings.ToLower(strings.TrimSpace(email)),
		InviteCode: strings.ToUpper(strings.TrimSpace(code)),
	}

	if _, err := s.invites.Validate(ctx, state.InviteCode); err != nil {
		if inviteIssue(err) {
			return held(state, err), nil
		}
		return state, err
	}

	state.Step = StepNewUserForm
	return state, nil
}

func (s *onboardingService) SubmitProfile(ctx context.Context, params SubmitProfileParams) (OnboardingState, error) {
	state := OnboardingState{
		Step:          StepNewUserForm,
		Email:         strings.ToLower(strings.TrimSpace(params.Email)),
		InviteCode:    strings.ToUpper(strings.TrimSpace(params.InviteCode)),
		FullName:      strings.TrimSpace(params.FullName),
		Headline:      strings.TrimSpace(params.Headline),
		ExpertiseText: strings.TrimSpace(params.ExpertiseText),
	}

	if state.FullName == "" {
		return held(state, ErrMissingFullName), nil
	}

	// The invite can die between form render and submit.
	if _, err := s.invites.Validate(ctx, state.InviteCode); err != nil {
		if inviteIssue(err) {
			return held(state, err), nil
		}
		return state, err
	}

	if err := s.auth.SendCode(ctx, state.Email); err != nil {
		return held(state, err), nil
	}

	state.Step = StepSignupOTP
	return state, nil
}

func (s *onboardingService) VerifyOTP(ctx context.Context, state OnboardingState, otp string) (OnboardingState, error) {
	switch state.Step {
	case StepEarlyUserOTP, StepSignupOTP:
	default:
		return held(state, fmt.Errorf("no verification pending in step %q", state.Step)), nil
	}

	user, session, err := s.auth.VerifyCode(ctx, state.Email, otp)
	if err != nil {
		if errors.Is(err, ErrInvalidOTP) {
			return held(state, err), nil
		}
		return state, err
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		UserID:    logger.Ptr(user.ID),
		Component: "nthora.service.onboarding",
	})

	if state.Step == StepSignupOTP {
		if state.FullName != "" || state.Headline != "" {
			if state.FullName != "" {
				user.FullName = state.FullName
			}
			if state.Headline != "" {
				user.Headline = &state.Headline
			}
			if err := s.userStore.Update(ctx, user); err != nil {
				return state, fmt.Errorf("updating profile: %w", err)
			}
		}

		if state.ExpertiseText != "" {
			if _, err := s.expertise.Declare(ctx, DeclareExpertiseParams{
				UserID:   user.ID,
				FreeText: state.ExpertiseText,
			}); err != nil {
				slog.WarnContext(ctx, "failed to record declared expertise", "error", err)
			}
		}

		if _, err := s.invites.Redeem(ctx, state.InviteCode, user.ID); err != nil {
			switch {
			case errors.Is(err, ErrAlreadyPending):
				// A replayed verify; the join already happened, carry on.
			case inviteIssue(err):
				// The invite died between form and OTP. Same treatment as
				// every other guard: hold the state with an inline error.
				return held(state, err), nil
			default:
				return state, fmt.Errorf("redeeming invite: %w", err)
			}
		}
	} else {
		if err := s.userStore.MarkMember(ctx, user.ID); err != nil {
			return state, fmt.Errorf("marking member: %w", err)
		}
	}

	if err := s.producer.Enqueue(ctx, queue.Event{
		Type:   queue.EventUserJoined,
		UserID: user.ID,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to enqueue join event", "error", err)
	}

	slog.InfoContext(ctx, "onboarding completed", "step", state.Step)

	return OnboardingState{
		Step:    StepJoined,
		Email:   state.Email,
		User:    user,
		Session: session,
	}, nil
}
