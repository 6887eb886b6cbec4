// Package feed supplies price bars from an external market-data source.
// The engine only needs an ordered stream of bars per symbol; providers
// handle connection management and deliver bars on a channel.
package feed

import (
	"context"
	"errors"
	"fmt"

	"github.com/omarelsayed/signal-engine/internal/config"
	"github.com/omarelsayed/signal-engine/internal/models"
)

var (
	// ErrNotConnected is returned when a stream is requested before Connect.
	ErrNotConnected = errors.New("provider is not connected")
	// ErrAlreadyConnected is returned when Connect is called twice.
	ErrAlreadyConnected = errors.New("provider is already connected")
)

// Provider is a source of finalized price bars.
type Provider interface {
	// Connect establishes the upstream connection.
	Connect(ctx context.Context) error

	// Bars subscribes to the given symbols and returns a channel of bars.
	// The channel closes when ctx is cancelled or the provider is closed.
	Bars(ctx context.Context, symbols []string) (<-chan *models.PriceBar, error)

	// Close tears down the connection.
	Close() error

	IsConnected() bool
	Name() string
}

// NewProvider builds the provider named in the configuration.
func NewProvider(cfg config.FeedConfig) (Provider, error) {
	switch cfg.Provider {
	case "mock", "":
		return NewMockProvider(cfg), nil
	case "websocket":
		if cfg.WebSocketURL == "" {
			return nil, fmt.Errorf("websocket provider requires FEED_WS_URL")
		}
		return NewWebSocketProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown feed provider: %s", cfg.Provider)
	}
}
