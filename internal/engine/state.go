package engine

import (
	"sync"

	"github.com/omarelsayed/signal-engine/internal/models"
	"github.com/omarelsayed/signal-engine/pkg/indicator"
	"github.com/omarelsayed/signal-engine/pkg/logger"
)

// symbolState owns one symbol's calculator instances and its latest
// snapshot. Each state is mutated by a single consumer goroutine; the lock
// only guards snapshot reads from the API side.
type symbolState struct {
	symbol      string
	calculators []indicator.Calculator

	mu   sync.RWMutex
	last *models.IndicatorSnapshot
}

func newSymbolState(symbol string, factories []CalculatorFactory) (*symbolState, error) {
	calculators := make([]indicator.Calculator, 0, len(factories))
	for _, factory := range factories {
		calc, err := factory()
		if err != nil {
			return nil, err
		}
		calculators = append(calculators, calc)
	}
	return &symbolState{symbol: symbol, calculators: calculators}, nil
}

// apply feeds the bar to every calculator and collects the ready values.
// Calculators still warming up contribute nothing; a calculator error is
// logged and skipped so one bad indicator cannot stall the symbol.
func (s *symbolState) apply(bar *models.PriceBar) (*models.IndicatorSnapshot, error) {
	values := make(map[string]float64, len(s.calculators)*2)

	for _, calc := range s.calculators {
		if _, err := calc.Update(bar); err != nil {
			logger.Warn("Calculator update failed",
				logger.String("symbol", s.symbol),
				logger.String("indicator", calc.Name()),
				logger.ErrorField(err),
			)
			continue
		}
		if !calc.IsReady() {
			continue
		}

		if mv, ok := calc.(indicator.MultiValueCalculator); ok {
			vals, err := mv.Values()
			if err != nil {
				continue
			}
			for name, v := range vals {
				values[name] = v
			}
			continue
		}

		v, err := calc.Value()
		if err != nil {
			continue
		}
		values[calc.Name()] = v
	}

	snapshot := &models.IndicatorSnapshot{
		Symbol:    s.symbol,
		Timestamp: bar.Timestamp,
		Price:     bar.Close,
		Values:    values,
	}

	s.mu.Lock()
	s.last = snapshot
	s.mu.Unlock()

	return snapshot, nil
}

// snapshot returns the latest snapshot, or nil before the first bar.
func (s *symbolState) snapshot() *models.IndicatorSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}
