package store

import (
	"context"
	"errors"

	"nthora.app/server/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// UserStore defines the contract for user data access
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Upsert(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	MarkMember(ctx context.Context, id int64) error
}

// SessionStore defines the contract for session data access
type SessionStore interface {
	GetValid(ctx context.Context, id int64) (*model.Session, error) // checks expiry
	Create(ctx context.Context, session *model.Session) error
	Delete(ctx context.Context, id int64) error
	DeleteExpired(ctx context.Context) error
}

// QuestionStore defines the contract for question data access.
// The List* accessors implement the feed views server-side; the feed
// assembler never filters question lists in memory.
type QuestionStore interface {
	Create(ctx context.Context, q *model.Question) error
	GetByID(ctx context.Context, id int64) (*model.Question, error)
	ListAll(ctx context.Context, limit int32) ([]model.Question, error)
	ListByAuthor(ctx context.Context, authorID int64, limit int32) ([]model.Question, error)
	ListMatched(ctx context.Context, tags []string, excludeAuthorID int64, limit int32) ([]model.Question, error)
	SearchTopics(ctx context.Context, topic string, limit int32) ([]model.Question, error)
	ListDemo(ctx context.Context, limit int32) ([]model.Question, error)
	SetStatus(ctx context.Context, id int64, status model.QuestionStatus) error
	IncrementViews(ctx context.Context, id int64) error
}

// ResponseStore defines the contract for response data access
type ResponseStore interface {
	Create(ctx context.Context, r *model.Response) error
	GetByID(ctx context.Context, id int64) (*model.Response, error)
	ListByQuestion(ctx context.Context, questionID int64) ([]model.Response, error)
	Vote(ctx context.Context, id int64, helpful bool) (*model.Response, error)
}

// ExpertiseStore defines the contract for expertise data access.
// (user, tag) is unique; Upsert refreshes confidence on conflict and
// reports whether the row was newly inserted.
type ExpertiseStore interface {
	Upsert(ctx context.Context, e *model.Expertise) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Expertise, error)
	ListAvailableByTags(ctx context.Context, tags []string) ([]model.Expertise, error)
	IncrementWeekCount(ctx context.Context, id int64) error
	ResetStaleWeeks(ctx context.Context) error
}

// InviteStore defines the contract for invite-code data access
type InviteStore interface {
	Create(ctx context.Context, inv *model.InviteCode) error
	GetByCode(ctx context.Context, code string) (*model.InviteCode, error)
	GetByID(ctx context.Context, id int64) (*model.InviteCode, error)
	// IncrementUses bumps current_uses only while uses remain; returns
	// ErrNotFound when the code is already exhausted or inactive.
	IncrementUses(ctx context.Context, id int64) (*model.InviteCode, error)
	Deactivate(ctx context.Context, id int64) (*model.InviteCode, error)
	List(ctx context.Context, limit, offset int32) ([]model.InviteCode, error)
}

// MembershipStore defines the contract for pending-member and approval data access
type MembershipStore interface {
	CreatePending(ctx context.Context, pm *model.PendingMember) error
	GetPending(ctx context.Context, id int64) (*model.PendingMember, error)
	GetPendingByUser(ctx context.Context, userID int64) (*model.PendingMember, error)
	// AddApproval records one approval per (approver, pending) pair and
	// returns the updated pending row with the incremented count.
	AddApproval(ctx context.Context, approval *model.MemberApproval) (*model.PendingMember, error)
	Promote(ctx context.Context, id int64) (*model.PendingMember, error)
	ListPending(ctx context.Context) ([]model.PendingMember, error)
}

// PreferencesStore stores the raw (partial) preferences document per user.
// Resolution against defaults happens in the service layer.
type PreferencesStore interface {
	Get(ctx context.Context, userID int64) (map[string]any, error)
	Put(ctx context.Context, userID int64, doc map[string]any) error
}

// StatsStore defines the contract for user stats and earned badges
type StatsStore interface {
	Get(ctx context.Context, userID int64) (*model.UserStats, error)
	Increment(ctx context.Context, userID int64, metric model.StatMetric, delta int) (*model.UserStats, error)
	ListEarned(ctx context.Context, userID int64) ([]model.EarnedBadge, error)
	// InsertEarned is idempotent per (user, badge); reports whether the
	// row was newly inserted.
	InsertEarned(ctx context.Context, userID int64, badgeID string) (bool, error)
}

// ActivityStore fetches the pre-joined question/response stream for a set
// of authors. Degree annotation happens in the service from the graph result.
type ActivityStore interface {
	ListForAuthors(ctx context.Context, authorIDs []int64, limit int32) ([]model.ActivityItem, error)
}

// RosterStore checks the early-access email roster used during onboarding
type RosterStore interface {
	Contains(ctx context.Context, email string) (bool, error)
	Add(ctx context.Context, email string) error
}
