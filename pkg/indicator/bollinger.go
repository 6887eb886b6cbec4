package indicator

import (
	"fmt"

	"github.com/omarelsayed/signal-engine/internal/models"
)

// Bollinger calculates Bollinger Bands over a rolling window of closes:
// middle band = SMA(period), upper/lower = middle ± multiplier * stddev.
type Bollinger struct {
	period     int
	multiplier float64
	name       string

	window *RollingWindow

	middle float64
	upper  float64
	lower  float64

	processed int
}

// NewBollinger creates a new Bollinger Bands calculator
// (typically period=20, multiplier=2.0)
func NewBollinger(period int, multiplier float64) (*Bollinger, error) {
	if period < 2 {
		return nil, fmt.Errorf("bollinger period must be at least 2, got %d", period)
	}
	if multiplier <= 0 {
		return nil, fmt.Errorf("bollinger multiplier must be positive, got %f", multiplier)
	}
	window, err := NewRollingWindow(period)
	if err != nil {
		return nil, err
	}
	return &Bollinger{
		period:     period,
		multiplier: multiplier,
		name:       fmt.Sprintf("bb_%d_%.1f", period, multiplier),
		window:     window,
	}, nil
}

// Name returns the indicator name
func (b *Bollinger) Name() string {
	return b.name
}

// Update processes a new bar and returns the new middle band value
func (b *Bollinger) Update(bar *models.PriceBar) (float64, error) {
	if bar == nil {
		return 0, fmt.Errorf("bar cannot be nil")
	}
	b.processed++

	b.window.Add(bar.Close)
	if !b.window.IsFull() {
		return 0, nil
	}

	b.middle = b.window.Average()
	deviation := b.multiplier * b.window.StdDev()
	b.upper = b.middle + deviation
	b.lower = b.middle - deviation

	return b.middle, nil
}

// Value returns the current middle band value
func (b *Bollinger) Value() (float64, error) {
	if !b.window.IsFull() {
		return 0, fmt.Errorf("bollinger not ready: need at least %d bars", b.period)
	}
	return b.middle, nil
}

// Values returns all three bands keyed by name
func (b *Bollinger) Values() (map[string]float64, error) {
	if !b.window.IsFull() {
		return nil, fmt.Errorf("bollinger not ready: need at least %d bars", b.period)
	}
	return map[string]float64{
		"bb_upper":  b.upper,
		"bb_middle": b.middle,
		"bb_lower":  b.lower,
	}, nil
}

// Reset clears the bollinger state
func (b *Bollinger) Reset() {
	b.window.Reset()
	b.middle = 0
	b.upper = 0
	b.lower = 0
	b.processed = 0
}

// IsReady returns true if the window is full
func (b *Bollinger) IsReady() bool {
	return b.window.IsFull()
}

// WindowSize returns the period (number of bars required)
func (b *Bollinger) WindowSize() int {
	return b.period
}

// BarsProcessed returns the number of bars processed
func (b *Bollinger) BarsProcessed() int {
	return b.processed
}
