package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within a context.
// Fields flow through context enrichment, enabling zero-touch logging where business
// context (question_id, user_id, etc.) is automatically included in all log statements.
type LogFields struct {
	UserID     *int64  // Acting user
	QuestionID *int64  // Question being processed
	InviteID   *int64  // Invite code row
	MessageID  *string // Redis stream message ID
	EventType  *string // Activity event type (e.g., "question_posted", "response_posted")
	Component  string  // Component name (OTel semantic convention style, e.g., "nthora.worker.badges")
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
// Context timeouts and cancellation are preserved.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, updated LogFields) LogFields {
	result := existing

	if updated.UserID != nil {
		result.UserID = updated.UserID
	}
	if updated.QuestionID != nil {
		result.QuestionID = updated.QuestionID
	}
	if updated.InviteID != nil {
		result.InviteID = updated.InviteID
	}
	if updated.MessageID != nil {
		result.MessageID = updated.MessageID
	}
	if updated.EventType != nil {
		result.EventType = updated.EventType
	}
	if updated.Component != "" {
		result.Component = updated.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{UserID: logger.Ptr(id)})
func Ptr[T any](v T) *T {
	return &v
}

// Truncate truncates a string to maxLen characters, appending "..." if truncated.
// Useful for logging potentially long strings like question bodies.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
