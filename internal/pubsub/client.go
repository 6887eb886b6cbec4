// Package pubsub provides the Redis transport shared by the feed, the
// engine and the API: stream publish/consume with consumer groups, plus the
// key/value and set operations used for snapshot storage and symbol
// tracking.
package pubsub

import (
	"context"
	"time"
)

// StreamMessage is a single entry read from a Redis stream.
type StreamMessage struct {
	ID     string
	Stream string
	Values map[string]interface{}
}

// Client is the Redis surface the services depend on. Implementations must
// be safe for concurrent use.
type Client interface {
	// Streams
	PublishToStream(ctx context.Context, stream string, key string, value interface{}) error
	ConsumeFromStream(ctx context.Context, stream, group, consumer string) (<-chan StreamMessage, error)
	AcknowledgeMessage(ctx context.Context, stream, group, id string) error

	// Key/value with TTL (indicator snapshots, latest signals)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetJSON(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, key string) error

	// Sets (active symbol tracking)
	SetAdd(ctx context.Context, key string, members ...string) error
	SetMembers(ctx context.Context, key string) ([]string, error)

	Ping(ctx context.Context) error
	Close() error
}
