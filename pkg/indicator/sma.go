package indicator

import (
	"fmt"

	"github.com/omarelsayed/signal-engine/internal/models"
)

// SMA calculates the Simple Moving Average of close prices over a rolling window.
type SMA struct {
	period    int
	name      string
	window    *RollingWindow
	processed int
}

// NewSMA creates a new SMA calculator with the specified period
func NewSMA(period int) (*SMA, error) {
	if period < 1 {
		return nil, fmt.Errorf("SMA period must be at least 1, got %d", period)
	}
	window, err := NewRollingWindow(period)
	if err != nil {
		return nil, err
	}
	return &SMA{
		period: period,
		name:   fmt.Sprintf("sma_%d", period),
		window: window,
	}, nil
}

// Name returns the indicator name
func (s *SMA) Name() string {
	return s.name
}

// Update processes a new bar and updates the SMA calculation
func (s *SMA) Update(bar *models.PriceBar) (float64, error) {
	if bar == nil {
		return 0, fmt.Errorf("bar cannot be nil")
	}

	s.window.Add(bar.Close)
	s.processed++

	if !s.window.IsFull() {
		return 0, nil
	}
	return s.window.Average(), nil
}

// Value returns the current SMA value
func (s *SMA) Value() (float64, error) {
	if !s.window.IsFull() {
		return 0, fmt.Errorf("SMA not ready: need at least %d bars", s.period)
	}
	return s.window.Average(), nil
}

// Reset clears the SMA state
func (s *SMA) Reset() {
	s.window.Reset()
	s.processed = 0
}

// IsReady returns true if the SMA has enough data
func (s *SMA) IsReady() bool {
	return s.window.IsFull()
}

// WindowSize returns the period (number of bars required)
func (s *SMA) WindowSize() int {
	return s.period
}

// BarsProcessed returns the number of bars processed
func (s *SMA) BarsProcessed() int {
	return s.processed
}
