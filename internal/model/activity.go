package model

import "time"

type ActivityType string

const (
	ActivityTypeQuestion ActivityType = "question"
	ActivityTypeAnswer   ActivityType = "answer"
)

// ActivityItem is one row of the pre-joined question/response stream,
// annotated with the author's network degree relative to the viewer.
type ActivityItem struct {
	ID            int64        `json:"id"`
	Type          ActivityType `json:"type"`
	QuestionID    int64        `json:"question_id"`
	ResponseID    *int64       `json:"response_id,omitempty"`
	AuthorID      int64        `json:"author_id"`
	AuthorName    string       `json:"author_name"`
	Title         string       `json:"title"`
	Content       string       `json:"content"`
	Tags          []string     `json:"tags"`
	NetworkDegree int          `json:"network_degree"`
	ResponseCount int          `json:"response_count"`
	HelpfulVotes  int          `json:"helpful_votes"`
	CreatedAt     time.Time    `json:"created_at"`
}
