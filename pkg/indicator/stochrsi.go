package indicator

import (
	"fmt"

	"github.com/omarelsayed/signal-engine/internal/models"
)

// StochRSI applies the stochastic formula to an RSI series instead of raw
// prices: an internal RSI(rsiPeriod) feeds a rolling window of size
// stochPeriod, and
//
//	%K = (rsi - lowestRSI) / (highestRSI - lowestRSI) * 100
//	%D = rolling average of the last dPeriod %K values
//
// Both outputs stay unavailable while the RSI is still seeding or the RSI
// window has not filled. A flat RSI window yields %K = 50, matching the
// Stochastic Oscillator's flat-range policy.
type StochRSI struct {
	stochPeriod int
	dPeriod     int
	name        string

	rsi       *RSI
	rsiWindow *RollingWindow
	dWindow   *RollingWindow

	k     float64
	d     float64
	ready bool

	processed int
}

// NewStochRSI creates a new Stochastic-RSI calculator
// (typically rsiPeriod=14, stochPeriod=14, dPeriod=3)
func NewStochRSI(rsiPeriod, stochPeriod, dPeriod int) (*StochRSI, error) {
	if stochPeriod < 1 {
		return nil, fmt.Errorf("stochRSI stochastic period must be at least 1, got %d", stochPeriod)
	}
	if dPeriod < 1 {
		return nil, fmt.Errorf("stochRSI %%D period must be at least 1, got %d", dPeriod)
	}
	rsi, err := NewRSI(rsiPeriod)
	if err != nil {
		return nil, err
	}
	rsiWindow, err := NewRollingWindow(stochPeriod)
	if err != nil {
		return nil, err
	}
	dWindow, err := NewRollingWindow(dPeriod)
	if err != nil {
		return nil, err
	}
	return &StochRSI{
		stochPeriod: stochPeriod,
		dPeriod:     dPeriod,
		name:        fmt.Sprintf("stochrsi_%d_%d_%d", rsiPeriod, stochPeriod, dPeriod),
		rsi:         rsi,
		rsiWindow:   rsiWindow,
		dWindow:     dWindow,
	}, nil
}

// Name returns the indicator name
func (s *StochRSI) Name() string {
	return s.name
}

// Update processes a new bar and returns the new %K value
func (s *StochRSI) Update(bar *models.PriceBar) (float64, error) {
	if bar == nil {
		return 0, fmt.Errorf("bar cannot be nil")
	}
	s.processed++

	rsiValue, err := s.rsi.Update(bar)
	if err != nil {
		return 0, err
	}
	if !s.rsi.IsReady() {
		return 0, nil
	}

	s.rsiWindow.Add(rsiValue)
	if !s.rsiWindow.IsFull() {
		return 0, nil
	}

	highest := s.rsiWindow.Max()
	lowest := s.rsiWindow.Min()

	if highest == lowest {
		s.k = 50.0
	} else {
		s.k = (rsiValue - lowest) / (highest - lowest) * 100.0
	}

	s.dWindow.Add(s.k)
	s.d = s.dWindow.Average()
	s.ready = true

	return s.k, nil
}

// Value returns the current %K value
func (s *StochRSI) Value() (float64, error) {
	if !s.ready {
		return 0, fmt.Errorf("stochRSI not ready: need at least %d bars", s.WindowSize())
	}
	return s.k, nil
}

// K returns the current %K value
func (s *StochRSI) K() (float64, error) {
	return s.Value()
}

// D returns the current %D value
func (s *StochRSI) D() (float64, error) {
	if !s.ready {
		return 0, fmt.Errorf("stochRSI not ready: need at least %d bars", s.WindowSize())
	}
	return s.d, nil
}

// Values returns both outputs keyed by name
func (s *StochRSI) Values() (map[string]float64, error) {
	if !s.ready {
		return nil, fmt.Errorf("stochRSI not ready: need at least %d bars", s.WindowSize())
	}
	return map[string]float64{
		"stochrsi_k": s.k,
		"stochrsi_d": s.d,
	}, nil
}

// Reset clears the stochRSI state
func (s *StochRSI) Reset() {
	s.rsi.Reset()
	s.rsiWindow.Reset()
	s.dWindow.Reset()
	s.k = 0
	s.d = 0
	s.ready = false
	s.processed = 0
}

// IsReady returns true once the RSI is seeded and its window is full
func (s *StochRSI) IsReady() bool {
	return s.ready
}

// WindowSize returns the number of bars required before %K is available
func (s *StochRSI) WindowSize() int {
	return s.rsi.WindowSize() + s.stochPeriod - 1
}

// BarsProcessed returns the number of bars processed
func (s *StochRSI) BarsProcessed() int {
	return s.processed
}
