// Package indicator provides streaming technical indicator calculators.
//
// Every calculator is an incremental state machine: it consumes one price
// bar at a time, keeps bounded internal state, and never recomputes from
// scratch. Calculators are single-owner — one instance per symbol stream —
// and are not safe for concurrent use without external synchronization.
package indicator

import (
	"github.com/omarelsayed/signal-engine/internal/models"
)

// Calculator is the interface for computing technical indicators.
type Calculator interface {
	// Name returns the unique name of this indicator (e.g., "rsi_14", "ema_20")
	Name() string

	// Update processes a new bar and updates the indicator state.
	// Until enough history has accumulated it returns (0, nil) with
	// IsReady() reporting false — insufficient history is expected,
	// not an error.
	Update(bar *models.PriceBar) (float64, error)

	// Value returns the current indicator value without mutating state.
	// Returns an error if not enough data has been processed.
	Value() (float64, error)

	// Reset clears the indicator state
	Reset()

	// IsReady returns true if the indicator has enough data to produce a valid value
	IsReady() bool
}

// WindowedCalculator extends Calculator for indicators that require a window of bars
type WindowedCalculator interface {
	Calculator

	// WindowSize returns the number of bars required for this indicator
	WindowSize() int

	// BarsProcessed returns the number of bars processed so far
	BarsProcessed() int
}

// MultiValueCalculator extends Calculator for indicators that produce a
// bundle of named values per bar (e.g. Stochastic %K/%D, MACD line/signal/
// histogram). Values returns the full bundle; the embedded Calculator's
// Value returns the primary value.
type MultiValueCalculator interface {
	Calculator

	// Values returns all current output values keyed by name.
	// Returns an error if not enough data has been processed.
	Values() (map[string]float64, error)
}
