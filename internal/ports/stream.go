package ports

import "context"

// Unsubscribe tears down one subscription.
type Unsubscribe func() error

// EventStream is the optional asynchronous hand-off in both directions:
// inbound consideration events and outbound qualified intake events. When no
// stream is configured the pipeline runs synchronously.
type EventStream interface {
	PublishConsideration(ctx context.Context, payload []byte) error
	PublishQualified(ctx context.Context, payload []byte) error
	ConsumeConsiderations(ctx context.Context, handle func(ctx context.Context, payload []byte)) (Unsubscribe, error)
	ConsumeQualified(ctx context.Context, handle func(ctx context.Context, payload []byte)) (Unsubscribe, error)
}
