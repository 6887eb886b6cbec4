package feed

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/omarelsayed/signal-engine/internal/config"
	"github.com/omarelsayed/signal-engine/internal/models"
	"github.com/omarelsayed/signal-engine/pkg/logger"
)

// MockProvider emits synthetic random-walk bars for local development and
// tests. Each symbol walks independently from a fixed starting price.
type MockProvider struct {
	interval time.Duration

	mu        sync.Mutex
	connected bool
	prices    map[string]float64
	rng       *rand.Rand
}

// NewMockProvider creates a mock provider. The emit interval defaults to
// one second.
func NewMockProvider(_ config.FeedConfig) *MockProvider {
	return &MockProvider{
		interval: time.Second,
		prices:   make(map[string]float64),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetInterval overrides the emit interval. Tests use short intervals.
func (m *MockProvider) SetInterval(interval time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interval = interval
}

func (m *MockProvider) Connect(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.connected {
		return ErrAlreadyConnected
	}
	m.connected = true
	return nil
}

// Bars emits one bar per symbol per interval until ctx is cancelled.
func (m *MockProvider) Bars(ctx context.Context, symbols []string) (<-chan *models.PriceBar, error) {
	m.mu.Lock()
	if !m.connected {
		m.mu.Unlock()
		return nil, ErrNotConnected
	}
	for _, symbol := range symbols {
		if _, ok := m.prices[symbol]; !ok {
			m.prices[symbol] = 100 + m.rng.Float64()*400
		}
	}
	interval := m.interval
	m.mu.Unlock()

	bars := make(chan *models.PriceBar, len(symbols)*4)

	go func() {
		defer close(bars)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				for _, symbol := range symbols {
					bar := m.nextBar(symbol, now)
					select {
					case bars <- bar:
					case <-ctx.Done():
						return
					default:
						logger.Warn("Bar channel full, dropping bar",
							logger.String("symbol", symbol),
						)
					}
				}
			}
		}
	}()

	return bars, nil
}

// nextBar advances the symbol's random walk by one step.
func (m *MockProvider) nextBar(symbol string, ts time.Time) *models.PriceBar {
	m.mu.Lock()
	defer m.mu.Unlock()

	open := m.prices[symbol]
	drift := (m.rng.Float64() - 0.5) * open * 0.01
	close := open + drift
	if close <= 0 {
		close = open
	}
	high := open
	low := open
	if close > high {
		high = close
	}
	if close < low {
		low = close
	}
	high += m.rng.Float64() * open * 0.002
	low -= m.rng.Float64() * open * 0.002

	m.prices[symbol] = close

	return &models.PriceBar{
		Symbol:    symbol,
		Timestamp: ts.UTC(),
		Open:      open,
		High:      high,
		Low:       low,
		Close:     close,
	}
}

func (m *MockProvider) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = false
	return nil
}

func (m *MockProvider) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

func (m *MockProvider) Name() string { return "mock" }
