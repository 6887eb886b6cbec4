package indicator

import (
	"fmt"
	"math"

	"github.com/omarelsayed/signal-engine/internal/models"
)

// EMA calculates the Exponential Moving Average.
// EMA = Price*Multiplier + PreviousEMA*(1 - Multiplier)
// Multiplier = 2 / (Period + 1)
//
// The first price seeds the EMA directly instead of waiting for a simple
// moving average over the first period. This is a deliberate simplification:
// the series converges to the textbook EMA after a few multiples of the
// period, and it lets the calculator emit a value from the first bar.
type EMA struct {
	period     int
	name       string
	multiplier float64
	value      float64
	ready      bool
	processed  int
}

// NewEMA creates a new EMA calculator with the specified period
func NewEMA(period int) (*EMA, error) {
	if period < 1 {
		return nil, fmt.Errorf("EMA period must be at least 1, got %d", period)
	}
	return &EMA{
		period:     period,
		name:       fmt.Sprintf("ema_%d", period),
		multiplier: 2.0 / float64(period+1),
	}, nil
}

// Name returns the indicator name
func (e *EMA) Name() string {
	return e.name
}

// Update processes a new bar and updates the EMA calculation
func (e *EMA) Update(bar *models.PriceBar) (float64, error) {
	if bar == nil {
		return 0, fmt.Errorf("bar cannot be nil")
	}
	return e.Apply(bar.Close), nil
}

// Apply feeds a raw value through the EMA recurrence and returns the new
// average. Higher-level indicators (MACD) use it to smooth derived series
// that are not close prices.
func (e *EMA) Apply(price float64) float64 {
	e.processed++

	if !e.ready {
		e.value = price
		e.ready = true
		return e.value
	}

	e.value = price*e.multiplier + e.value*(1-e.multiplier)

	if math.IsNaN(e.value) || math.IsInf(e.value, 0) {
		e.value = price
	}
	return e.value
}

// Value returns the last computed EMA without mutating state. This is the
// read-only accessor used for composition by higher-level indicators.
func (e *EMA) Value() (float64, error) {
	if !e.ready {
		return 0, fmt.Errorf("EMA not ready: need at least 1 bar")
	}
	return e.value, nil
}

// Reset clears the EMA state
func (e *EMA) Reset() {
	e.value = 0
	e.ready = false
	e.processed = 0
}

// IsReady returns true if the EMA has enough data
func (e *EMA) IsReady() bool {
	return e.ready
}

// WindowSize returns 1 (EMA can start immediately)
func (e *EMA) WindowSize() int {
	return 1
}

// BarsProcessed returns the number of bars processed
func (e *EMA) BarsProcessed() int {
	return e.processed
}
