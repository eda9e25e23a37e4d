package model

import "time"

// Expertise is a declared or inferred (user, tag) pair. Tag uniqueness
// per user is enforced by the store.
type Expertise struct {
	ID                  int64     `json:"id"`
	UserID              int64     `json:"user_id"`
	Tag                 string    `json:"tag"`
	ConfidenceScore     float64   `json:"confidence_score"` // in [0,1]
	Available           bool      `json:"available"`
	MaxQuestionsPerWeek int       `json:"max_questions_per_week"`
	CurrentWeekCount    int       `json:"current_week_count"`
	WeekStartedAt       time.Time `json:"week_started_at"`
	CreatedAt           time.Time `json:"created_at"`
}

// HasWeeklyCapacity reports whether the responder can still be routed
// questions this week. Enforced at routing time, not on write.
func (e *Expertise) HasWeeklyCapacity() bool {
	return e.Available && e.CurrentWeekCount < e.MaxQuestionsPerWeek
}
