// Package engine hosts the streaming pipeline: bars come in from a stream
// consumer, each symbol's calculator set is updated, and the resulting
// indicator snapshot plus classified signals are handed to the publisher.
package engine

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/omarelsayed/signal-engine/internal/models"
	"github.com/omarelsayed/signal-engine/internal/signal"
	"github.com/omarelsayed/signal-engine/pkg/indicator"
	"github.com/omarelsayed/signal-engine/pkg/logger"
)

var (
	signalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_signals_total",
			Help: "Total number of per-family signals classified, by direction",
		},
		[]string{"direction"},
	)

	symbolsTracked = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "engine_symbols_tracked",
			Help: "Number of symbols with live calculator state",
		},
	)
)

// CalculatorFactory creates a fresh calculator instance. Each symbol gets
// its own instances; calculators are not safe to share across streams.
type CalculatorFactory func() (indicator.Calculator, error)

// OnUpdate is called after a bar has been applied to a symbol's
// calculators, with the ready indicator values and the classified signals.
type OnUpdate func(snapshot *models.IndicatorSnapshot, signals models.SignalSet)

// Engine owns per-symbol calculator state and runs the classifier over
// each bar's snapshot.
type Engine struct {
	factories  []CalculatorFactory
	classifier *signal.Classifier

	mu     sync.RWMutex
	states map[string]*symbolState

	onUpdate OnUpdate
}

// NewEngine creates an engine that instantiates the given calculators for
// every symbol it encounters.
func NewEngine(factories []CalculatorFactory, classifier *signal.Classifier) *Engine {
	return &Engine{
		factories:  factories,
		classifier: classifier,
		states:     make(map[string]*symbolState),
	}
}

// SetOnUpdate sets the callback invoked after every processed bar.
func (e *Engine) SetOnUpdate(callback OnUpdate) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onUpdate = callback
}

// ProcessBar applies one bar to the owning symbol's calculators, assembles
// the snapshot of ready values, classifies it, and fires the callback.
func (e *Engine) ProcessBar(bar *models.PriceBar) error {
	if bar == nil {
		return fmt.Errorf("bar cannot be nil")
	}
	if err := bar.Validate(); err != nil {
		return fmt.Errorf("invalid bar: %w", err)
	}

	e.mu.Lock()
	state, exists := e.states[bar.Symbol]
	if !exists {
		var err error
		state, err = newSymbolState(bar.Symbol, e.factories)
		if err != nil {
			e.mu.Unlock()
			return fmt.Errorf("failed to build calculators for %s: %w", bar.Symbol, err)
		}
		e.states[bar.Symbol] = state
		symbolsTracked.Set(float64(len(e.states)))
		logger.Info("Tracking new symbol", logger.String("symbol", bar.Symbol))
	}
	callback := e.onUpdate
	e.mu.Unlock()

	snapshot, err := state.apply(bar)
	if err != nil {
		return err
	}

	signals := e.classifier.Classify(bar.Close, snapshot.Values)
	for _, s := range signals {
		signalsTotal.WithLabelValues(string(s)).Inc()
	}

	if callback != nil {
		callback(snapshot, signals)
	}
	return nil
}

// Snapshot returns the latest indicator values for a symbol.
func (e *Engine) Snapshot(symbol string) (*models.IndicatorSnapshot, error) {
	e.mu.RLock()
	state, exists := e.states[symbol]
	e.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("symbol %s not found", symbol)
	}
	snap := state.snapshot()
	if snap == nil {
		return nil, fmt.Errorf("no bars processed yet for symbol %s", symbol)
	}
	return snap, nil
}

// Symbols returns every symbol with live state.
func (e *Engine) Symbols() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	symbols := make([]string, 0, len(e.states))
	for symbol := range e.states {
		symbols = append(symbols, symbol)
	}
	return symbols
}

// SymbolCount returns the number of tracked symbols.
func (e *Engine) SymbolCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.states)
}
