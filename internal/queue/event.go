package queue

type EventType string

const (
	EventQuestionPosted    EventType = "question_posted"
	EventResponsePosted    EventType = "response_posted"
	EventUserJoined        EventType = "user_joined"
	EventVoteCast          EventType = "vote_cast"
	EventApprovalGiven     EventType = "approval_given"
	EventExpertiseDeclared EventType = "expertise_declared"
)

// Event is an activity fact published by the API and consumed by the
// badge worker. UserID is the actor the stats update applies to. Delta
// is how many occurrences the event represents; zero means one.
type Event struct {
	Type       EventType
	UserID     int64
	QuestionID *int64
	ResponseID *int64
	Helpful    *bool
	TraceID    *string
	Attempt    int
	Delta      int
}
