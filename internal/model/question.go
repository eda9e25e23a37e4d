package model

import "time"

type AnswerType string

const (
	AnswerTypeTactical      AnswerType = "tactical"
	AnswerTypeStrategic     AnswerType = "strategic"
	AnswerTypeResource      AnswerType = "resource"
	AnswerTypeIntroduction  AnswerType = "introduction"
	AnswerTypeBrainstorming AnswerType = "brainstorming"
)

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
	UrgencyUrgent Urgency = "urgent"
)

type Visibility string

const (
	VisibilityFirstDegree  Visibility = "first_degree"
	VisibilitySecondDegree Visibility = "second_degree"
	VisibilityThirdDegree  Visibility = "third_degree"
)

type QuestionStatus string

const (
	QuestionStatusActive    QuestionStatus = "active"
	QuestionStatusAnswered  QuestionStatus = "answered"
	QuestionStatusClosed    QuestionStatus = "closed"
	QuestionStatusForwarded QuestionStatus = "forwarded"
)

type Question struct {
	ID            int64          `json:"id"`
	AuthorID      int64          `json:"author_id"`
	Title         string         `json:"title"`
	Content       string         `json:"content"`
	PrimaryTags   []string       `json:"primary_tags"`
	SecondaryTags []string       `json:"secondary_tags"`
	Topic         string         `json:"topic"`
	AnswerType    AnswerType     `json:"answer_type"`
	Urgency       Urgency        `json:"urgency"`
	Visibility    Visibility     `json:"visibility"`
	Status        QuestionStatus `json:"status"`
	ViewCount     int            `json:"view_count"`
	ResponseCount int            `json:"response_count"`
	IsDemo        bool           `json:"is_demo"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// MaxVisibilityDegree maps visibility to the maximum network degree
// allowed to see the question.
func (q *Question) MaxVisibilityDegree() int {
	switch q.Visibility {
	case VisibilityFirstDegree:
		return 1
	case VisibilitySecondDegree:
		return 2
	case VisibilityThirdDegree:
		return 3
	default:
		return 2
	}
}
