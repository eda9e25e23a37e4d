package model

import "time"

type BadgeTier string

const (
	BadgeTierBronze BadgeTier = "bronze"
	BadgeTierSilver BadgeTier = "silver"
	BadgeTierGold   BadgeTier = "gold"
)

type BadgeRarity string

const (
	BadgeRarityCommon   BadgeRarity = "common"
	BadgeRarityUncommon BadgeRarity = "uncommon"
	BadgeRarityRare     BadgeRarity = "rare"
)

// StatMetric identifies a counter in a user's stats snapshot.
type StatMetric string

const (
	MetricQuestionsAsked    StatMetric = "questions_asked"
	MetricResponsesGiven    StatMetric = "responses_given"
	MetricHelpfulVotes      StatMetric = "helpful_votes"
	MetricMembersInvited    StatMetric = "members_invited"
	MetricApprovalsGiven    StatMetric = "approvals_given"
	MetricExpertiseDeclared StatMetric = "expertise_declared"
)

// BadgeDef is a static catalog entry. The catalog ships with the binary;
// only the earned projection lives in the database.
type BadgeDef struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Tier        BadgeTier   `json:"tier"`
	Rarity      BadgeRarity `json:"rarity"`
	Metric      StatMetric  `json:"metric"`
	Target      int         `json:"target"`
	Rewards     []string    `json:"rewards,omitempty"`
}

// EarnedBadge is the per-user earned projection of a catalog entry.
type EarnedBadge struct {
	ID       int64     `json:"id"`
	UserID   int64     `json:"user_id"`
	BadgeID  string    `json:"badge_id"`
	EarnedAt time.Time `json:"earned_at"`
}

// BadgeProgress describes how far along an unearned badge is.
type BadgeProgress struct {
	Current    int     `json:"current"`
	Target     int     `json:"target"`
	Percentage float64 `json:"percentage"`
}

// UserStats is the snapshot the badge engine classifies against.
// Maintained by the worker on activity events.
type UserStats struct {
	UserID            int64     `json:"user_id"`
	QuestionsAsked    int       `json:"questions_asked"`
	ResponsesGiven    int       `json:"responses_given"`
	HelpfulVotes      int       `json:"helpful_votes"`
	MembersInvited    int       `json:"members_invited"`
	ApprovalsGiven    int       `json:"approvals_given"`
	ExpertiseDeclared int       `json:"expertise_declared"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Metric returns the snapshot value for a catalog metric.
func (s UserStats) Metric(m StatMetric) int {
	switch m {
	case MetricQuestionsAsked:
		return s.QuestionsAsked
	case MetricResponsesGiven:
		return s.ResponsesGiven
	case MetricHelpfulVotes:
		return s.HelpfulVotes
	case MetricMembersInvited:
		return s.MembersInvited
	case MetricApprovalsGiven:
		return s.ApprovalsGiven
	case MetricExpertiseDeclared:
		return s.ExpertiseDeclared
	default:
		return 0
	}
}
