package indicator

import (
	"fmt"
	"math"

	"github.com/omarelsayed/signal-engine/internal/models"
)

// RSI calculates the Relative Strength Index using Wilder's smoothing.
// RSI = 100 - (100 / (1 + RS)), RS = Average Gain / Average Loss.
//
// The calculator runs in three phases: the first bar only records the
// close (no delta exists yet), the next `period` bars accumulate gain and
// loss samples in rolling windows and seed the averages with their simple
// mean, and every bar after that applies Wilder's smoothing:
//
//	avgGain = (avgGain*(period-1) + gain) / period
//
// The seed windows are capped at `period` entries, so memory stays bounded
// no matter how long the stream runs.
type RSI struct {
	period    int
	name      string
	gains     *RollingWindow
	losses    *RollingWindow
	prevClose float64
	primed    bool
	seeded    bool
	avgGain   float64
	avgLoss   float64
	processed int
}

// NewRSI creates a new RSI calculator with the specified period (typically 14)
func NewRSI(period int) (*RSI, error) {
	if period < 2 {
		return nil, fmt.Errorf("RSI period must be at least 2, got %d", period)
	}
	gains, err := NewRollingWindow(period)
	if err != nil {
		return nil, err
	}
	losses, err := NewRollingWindow(period)
	if err != nil {
		return nil, err
	}
	return &RSI{
		period: period,
		name:   fmt.Sprintf("rsi_%d", period),
		gains:  gains,
		losses: losses,
	}, nil
}

// Name returns the indicator name
func (r *RSI) Name() string {
	return r.name
}

// Update processes a new bar and updates the RSI calculation
func (r *RSI) Update(bar *models.PriceBar) (float64, error) {
	if bar == nil {
		return 0, fmt.Errorf("bar cannot be nil")
	}
	r.processed++

	// First bar: just store the close price, no delta yet
	if !r.primed {
		r.prevClose = bar.Close
		r.primed = true
		return 0, nil
	}

	change := bar.Close - r.prevClose
	r.prevClose = bar.Close

	var gain, loss float64
	if change > 0 {
		gain = change
	} else {
		loss = -change // loss is positive
	}

	if !r.seeded {
		// Seeding phase: accumulate period samples, then seed with their
		// simple mean
		r.gains.Add(gain)
		r.losses.Add(loss)
		if !r.gains.IsFull() {
			return 0, nil
		}
		r.avgGain = r.gains.Average()
		r.avgLoss = r.losses.Average()
		r.seeded = true
		return r.calculateRSI(), nil
	}

	// Steady state: Wilder's smoothing
	p := float64(r.period)
	r.avgGain = (r.avgGain*(p-1) + gain) / p
	r.avgLoss = (r.avgLoss*(p-1) + loss) / p

	return r.calculateRSI(), nil
}

// calculateRSI computes the RSI value from the current averages
func (r *RSI) calculateRSI() float64 {
	// Pure uptrend: defined as exactly 100, not infinity
	if r.avgLoss == 0 {
		return 100.0
	}

	rs := r.avgGain / r.avgLoss
	rsi := 100.0 - (100.0 / (1.0 + rs))

	if math.IsNaN(rsi) || math.IsInf(rsi, 0) {
		return 50.0
	}
	return math.Max(0.0, math.Min(100.0, rsi))
}

// Value returns the current RSI value
func (r *RSI) Value() (float64, error) {
	if !r.seeded {
		return 0, fmt.Errorf("RSI not ready: need at least %d bars", r.period+1)
	}
	return r.calculateRSI(), nil
}

// Reset clears the RSI state
func (r *RSI) Reset() {
	r.gains.Reset()
	r.losses.Reset()
	r.prevClose = 0
	r.primed = false
	r.seeded = false
	r.avgGain = 0
	r.avgLoss = 0
	r.processed = 0
}

// IsReady returns true if the RSI has enough data
func (r *RSI) IsReady() bool {
	return r.seeded
}

// WindowSize returns the number of bars required (period + 1 for the first change)
func (r *RSI) WindowSize() int {
	return r.period + 1
}

// BarsProcessed returns the number of bars processed
func (r *RSI) BarsProcessed() int {
	return r.processed
}
