package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/omarelsayed/signal-engine/internal/config"
	"github.com/omarelsayed/signal-engine/internal/models"
	"github.com/omarelsayed/signal-engine/pkg/logger"
)

// WebSocketProvider streams bars from an upstream websocket feed. The
// connection is re-established with exponential backoff; the subscription
// is replayed after every reconnect.
type WebSocketProvider struct {
	url               string
	reconnectDelay    time.Duration
	maxReconnectDelay time.Duration

	mu        sync.Mutex
	connected bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// subscribeMessage is the upstream subscription request.
type subscribeMessage struct {
	Action  string   `json:"action"`
	Symbols []string `json:"symbols"`
}

// NewWebSocketProvider creates a provider for the configured feed URL.
func NewWebSocketProvider(cfg config.FeedConfig) *WebSocketProvider {
	return &WebSocketProvider{
		url:               cfg.WebSocketURL,
		reconnectDelay:    cfg.ReconnectDelay,
		maxReconnectDelay: cfg.MaxReconnectDelay,
	}
}

func (w *WebSocketProvider) Connect(_ context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.connected {
		return ErrAlreadyConnected
	}
	w.connected = true
	return nil
}

// Bars dials the feed, subscribes to the symbols, and delivers parsed bars
// until ctx is cancelled. Dial and read failures trigger reconnection.
func (w *WebSocketProvider) Bars(ctx context.Context, symbols []string) (<-chan *models.PriceBar, error) {
	w.mu.Lock()
	if !w.connected {
		w.mu.Unlock()
		return nil, ErrNotConnected
	}
	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.mu.Unlock()

	bars := make(chan *models.PriceBar, 100)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer close(bars)

		attempts := 0
		for {
			select {
			case <-runCtx.Done():
				return
			default:
			}

			err := w.streamOnce(runCtx, symbols, bars)
			if err != nil {
				logger.Error("Feed connection lost",
					logger.ErrorField(err),
					logger.String("url", w.url),
				)
			}
			if runCtx.Err() != nil {
				return
			}

			delay := w.backoff(attempts)
			attempts++
			logger.Info("Reconnecting to feed",
				logger.String("url", w.url),
				logger.Duration("delay", delay),
				logger.Int("attempt", attempts),
			)
			select {
			case <-runCtx.Done():
				return
			case <-time.After(delay):
			}
		}
	}()

	return bars, nil
}

// streamOnce runs a single connection lifetime: dial, subscribe, read until
// error or cancellation.
func (w *WebSocketProvider) streamOnce(ctx context.Context, symbols []string, bars chan<- *models.PriceBar) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, w.url, nil)
	if err != nil {
		return fmt.Errorf("failed to dial feed: %w", err)
	}
	defer conn.Close()

	logger.Info("Feed connected", logger.String("url", w.url))

	if err := conn.WriteJSON(subscribeMessage{Action: "subscribe", Symbols: symbols}); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	// Unblock ReadMessage on cancellation
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read failed: %w", err)
		}

		var bar models.PriceBar
		if err := json.Unmarshal(message, &bar); err != nil {
			logger.Warn("Dropping malformed feed message", logger.ErrorField(err))
			continue
		}
		if err := bar.Validate(); err != nil {
			logger.Warn("Dropping invalid bar",
				logger.ErrorField(err),
				logger.String("symbol", bar.Symbol),
			)
			continue
		}

		select {
		case bars <- &bar:
		case <-ctx.Done():
			return nil
		default:
			logger.Warn("Bar channel full, dropping bar",
				logger.String("symbol", bar.Symbol),
			)
		}
	}
}

func (w *WebSocketProvider) backoff(attempts int) time.Duration {
	delay := w.reconnectDelay * time.Duration(1<<uint(attempts))
	if delay > w.maxReconnectDelay || delay <= 0 {
		delay = w.maxReconnectDelay
	}
	return delay
}

func (w *WebSocketProvider) Close() error {
	w.mu.Lock()
	w.connected = false
	cancel := w.cancel
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
	return nil
}

func (w *WebSocketProvider) IsConnected() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.connected
}

func (w *WebSocketProvider) Name() string { return "websocket" }
