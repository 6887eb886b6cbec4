package indicator

import (
	"fmt"

	"github.com/omarelsayed/signal-engine/internal/models"
)

// Stochastic calculates the Stochastic Oscillator.
//
//	%K = (close - lowestLow) / (highestHigh - lowestLow) * 100
//	%D = rolling average of the last dPeriod %K values
//
// Highs and lows are tracked in two rolling windows of size kPeriod; both
// outputs stay unavailable until those windows fill. A perfectly flat range
// (highestHigh == lowestLow) yields %K = 50, the neutral midpoint.
type Stochastic struct {
	kPeriod int
	dPeriod int
	name    string

	highs   *RollingWindow
	lows    *RollingWindow
	dWindow *RollingWindow

	k     float64
	d     float64
	ready bool

	processed int
}

// NewStochastic creates a new Stochastic Oscillator calculator
// (typically kPeriod=14, dPeriod=3)
func NewStochastic(kPeriod, dPeriod int) (*Stochastic, error) {
	if kPeriod < 1 {
		return nil, fmt.Errorf("stochastic %%K period must be at least 1, got %d", kPeriod)
	}
	if dPeriod < 1 {
		return nil, fmt.Errorf("stochastic %%D period must be at least 1, got %d", dPeriod)
	}
	highs, err := NewRollingWindow(kPeriod)
	if err != nil {
		return nil, err
	}
	lows, err := NewRollingWindow(kPeriod)
	if err != nil {
		return nil, err
	}
	dWindow, err := NewRollingWindow(dPeriod)
	if err != nil {
		return nil, err
	}
	return &Stochastic{
		kPeriod: kPeriod,
		dPeriod: dPeriod,
		name:    fmt.Sprintf("stoch_%d_%d", kPeriod, dPeriod),
		highs:   highs,
		lows:    lows,
		dWindow: dWindow,
	}, nil
}

// Name returns the indicator name
func (s *Stochastic) Name() string {
	return s.name
}

// Update processes a new bar and returns the new %K value
func (s *Stochastic) Update(bar *models.PriceBar) (float64, error) {
	if bar == nil {
		return 0, fmt.Errorf("bar cannot be nil")
	}
	s.processed++

	s.highs.Add(bar.High)
	s.lows.Add(bar.Low)

	if !s.highs.IsFull() {
		return 0, nil
	}

	highest := s.highs.Max()
	lowest := s.lows.Min()

	if highest == lowest {
		// Flat range: the formula divides by zero, emit the midpoint
		s.k = 50.0
	} else {
		s.k = (bar.Close - lowest) / (highest - lowest) * 100.0
	}

	s.dWindow.Add(s.k)
	s.d = s.dWindow.Average()
	s.ready = true

	return s.k, nil
}

// Value returns the current %K value
func (s *Stochastic) Value() (float64, error) {
	if !s.ready {
		return 0, fmt.Errorf("stochastic not ready: need at least %d bars", s.kPeriod)
	}
	return s.k, nil
}

// K returns the current %K value
func (s *Stochastic) K() (float64, error) {
	return s.Value()
}

// D returns the current %D value
func (s *Stochastic) D() (float64, error) {
	if !s.ready {
		return 0, fmt.Errorf("stochastic not ready: need at least %d bars", s.kPeriod)
	}
	return s.d, nil
}

// Values returns both outputs keyed by name
func (s *Stochastic) Values() (map[string]float64, error) {
	if !s.ready {
		return nil, fmt.Errorf("stochastic not ready: need at least %d bars", s.kPeriod)
	}
	return map[string]float64{
		"stoch_k": s.k,
		"stoch_d": s.d,
	}, nil
}

// Reset clears the stochastic state
func (s *Stochastic) Reset() {
	s.highs.Reset()
	s.lows.Reset()
	s.dWindow.Reset()
	s.k = 0
	s.d = 0
	s.ready = false
	s.processed = 0
}

// IsReady returns true if the %K windows are full
func (s *Stochastic) IsReady() bool {
	return s.ready
}

// WindowSize returns the number of bars required for %K
func (s *Stochastic) WindowSize() int {
	return s.kPeriod
}

// BarsProcessed returns the number of bars processed
func (s *Stochastic) BarsProcessed() int {
	return s.processed
}
