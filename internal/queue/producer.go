package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

type Producer interface {
	Enqueue(ctx context.Context, evt Event) error
	Close() error
}

type redisProducer struct {
	client *redis.Client
	stream string
	logger *slog.Logger
}

func NewRedisProducer(client *redis.Client, stream string, logger *slog.Logger) Producer {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisProducer{
		client: client,
		stream: stream,
		logger: logger,
	}
}

func (p *redisProducer) Enqueue(ctx context.Context, evt Event) error {
	attempt := evt.Attempt
	if attempt <= 0 {
		attempt = 1
	}

	fields := map[string]any{
		"event_type": string(evt.Type),
		"user_id":    evt.UserID,
		"attempt":    attempt,
	}

	if evt.QuestionID != nil {
		fields["question_id"] = *evt.QuestionID
	}
	if evt.ResponseID != nil {
		fields["response_id"] = *evt.ResponseID
	}
	if evt.Helpful != nil {
		fields["helpful"] = *evt.Helpful
	}
	if evt.Delta > 1 {
		fields["delta"] = evt.Delta
	}
	if evt.TraceID != nil && *evt.TraceID != "" {
		fields["trace_id"] = *evt.TraceID
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: fields,
	}).Err(); err != nil {
		return fmt.Errorf("enqueue activity event: %w", err)
	}

	p.logger.InfoContext(ctx, "enqueued activity event", "event_type", evt.Type, "user_id", evt.UserID, "attempt", attempt)
	return nil
}

func (p *redisProducer) Close() error {
	return p.client.Close()
}
