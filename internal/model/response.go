package model

import "time"

type ResponseSource string

const (
	ResponseSourceHuman   ResponseSource = "human"
	ResponseSourceAgentic ResponseSource = "agentic_human"
)

type QualityLevel string

const (
	QualityLow    QualityLevel = "low"
	QualityMedium QualityLevel = "medium"
	QualityHigh   QualityLevel = "high"
)

type Response struct {
	ID             int64          `json:"id"`
	QuestionID     int64          `json:"question_id"`
	ResponderID    int64          `json:"responder_id"`
	Content        string         `json:"content"`
	SourceType     ResponseSource `json:"source_type"`
	QualityLevel   *QualityLevel  `json:"quality_level,omitempty"` // demo responses only
	QualityScore   *float64       `json:"quality_score,omitempty"` // demo responses only, in [0,1]
	HelpfulVotes   int            `json:"helpful_votes"`
	UnhelpfulVotes int            `json:"unhelpful_votes"`
	CreatedAt      time.Time      `json:"created_at"`
}
