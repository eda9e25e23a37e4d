package worker

import (
	"context"

	"nthora.app/server/internal/queue"
	"nthora.app/server/internal/store"
)

// Consumer abstracts the message queue for testability.
type Consumer interface {
	Read(ctx context.Context) ([]queue.Message, error)
	Ack(ctx context.Context, msg queue.Message) error
	Requeue(ctx context.Context, msg queue.Message, errMsg string) error
	SendDLQ(ctx context.Context, msg queue.Message, errMsg string) error
}

// Mirrors service.StoreProvider - defined here to avoid import cycles.
type StoreProvider interface {
	Stats() store.StatsStore
	Memberships() store.MembershipStore
	Invites() store.InviteStore
}

// Mirrors service.TxRunner - defined here to avoid import cycles.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(stores StoreProvider) error) error
}

// EventProcessor applies one activity event inside the worker transaction.
type EventProcessor interface {
	Process(ctx context.Context, msg queue.Message, sp StoreProvider) error
}
