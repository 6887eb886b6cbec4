package indicator

import (
	"fmt"
	"math"

	"github.com/omarelsayed/signal-engine/internal/models"
)

// sarTrend tags the direction the SAR state machine is currently tracking.
// The extreme point's meaning depends on it: highest high in an uptrend,
// lowest low in a downtrend.
type sarTrend int

const (
	sarUptrend sarTrend = iota
	sarDowntrend
)

// SAR calculates the Parabolic Stop-and-Reverse indicator.
//
// Each bar advances the stop via sar' = sar + AF*(EP - sar). In an uptrend
// the stop is clamped so it never rises above the lower of the previous and
// current lows; if price falls to or below it, the trend reverses: the old
// extreme point becomes the new SAR, the acceleration factor resets to
// `step`, and the current low becomes the new extreme point. The downtrend
// branch mirrors this. AF grows by `step` (capped at `maxStep`) whenever a
// new extreme is observed.
type SAR struct {
	step    float64
	maxStep float64
	name    string

	trend    sarTrend
	sar      float64
	ep       float64
	af       float64
	prevHigh float64
	prevLow  float64

	ready     bool
	processed int
}

// SARValue is the per-bar SAR output: the stop value together with the
// configured step bounds, for traceability.
type SARValue struct {
	Value   float64 `json:"value"`
	Step    float64 `json:"step"`
	MaxStep float64 `json:"maxStep"`
}

// NewSAR creates a new Parabolic SAR calculator. Typical parameters are
// step=0.02 and maxStep=0.2.
func NewSAR(step, maxStep float64) (*SAR, error) {
	if step <= 0 {
		return nil, fmt.Errorf("SAR step must be positive, got %f", step)
	}
	if maxStep < step {
		return nil, fmt.Errorf("SAR max step (%f) must not be below step (%f)", maxStep, step)
	}
	return &SAR{
		step:    step,
		maxStep: maxStep,
		name:    fmt.Sprintf("psar_%g_%g", step, maxStep),
	}, nil
}

// Name returns the indicator name
func (s *SAR) Name() string {
	return s.name
}

// Update processes a new bar and advances the SAR state machine
func (s *SAR) Update(bar *models.PriceBar) (float64, error) {
	if bar == nil {
		return 0, fmt.Errorf("bar cannot be nil")
	}
	s.processed++

	// Initial bar seeds the state and returns the seed directly;
	// the recurrence only starts on bar two.
	if !s.ready {
		s.sar = bar.Low
		s.ep = bar.High
		s.trend = sarUptrend
		s.af = s.step
		s.prevHigh = bar.High
		s.prevLow = bar.Low
		s.ready = true
		return s.sar, nil
	}

	next := s.sar + s.af*(s.ep-s.sar)

	switch s.trend {
	case sarUptrend:
		// The stop may never rise above the lower of the last two lows
		if clamp := math.Min(s.prevLow, bar.Low); next > clamp {
			next = clamp
		}
		if bar.Low <= next {
			// Reversal: previous extreme becomes the new stop
			s.trend = sarDowntrend
			next = s.ep
			s.af = s.step
			s.ep = bar.Low
		} else if bar.High > s.ep {
			s.ep = bar.High
			s.af = math.Min(s.af+s.step, s.maxStep)
		}
	case sarDowntrend:
		// Mirror image: the stop may never fall below the higher of the
		// last two highs
		if clamp := math.Max(s.prevHigh, bar.High); next < clamp {
			next = clamp
		}
		if bar.High >= next {
			s.trend = sarUptrend
			next = s.ep
			s.af = s.step
			s.ep = bar.High
		} else if bar.Low < s.ep {
			s.ep = bar.Low
			s.af = math.Min(s.af+s.step, s.maxStep)
		}
	}

	s.prevHigh = bar.High
	s.prevLow = bar.Low
	s.sar = next
	return s.sar, nil
}

// Value returns the current SAR value
func (s *SAR) Value() (float64, error) {
	if !s.ready {
		return 0, fmt.Errorf("SAR not ready: need at least 1 bar")
	}
	return s.sar, nil
}

// State returns the full SAR output bundle
func (s *SAR) State() (SARValue, error) {
	if !s.ready {
		return SARValue{}, fmt.Errorf("SAR not ready: need at least 1 bar")
	}
	return SARValue{Value: s.sar, Step: s.step, MaxStep: s.maxStep}, nil
}

// IsUptrend reports the current trend direction
func (s *SAR) IsUptrend() bool {
	return s.trend == sarUptrend
}

// AccelerationFactor returns the current acceleration factor
func (s *SAR) AccelerationFactor() float64 {
	return s.af
}

// ExtremePoint returns the current extreme point
func (s *SAR) ExtremePoint() float64 {
	return s.ep
}

// Reset clears the SAR state
func (s *SAR) Reset() {
	s.trend = sarUptrend
	s.sar = 0
	s.ep = 0
	s.af = 0
	s.prevHigh = 0
	s.prevLow = 0
	s.ready = false
	s.processed = 0
}

// IsReady returns true once the first bar has seeded the state
func (s *SAR) IsReady() bool {
	return s.ready
}

// WindowSize returns 1 (SAR emits from the first bar)
func (s *SAR) WindowSize() int {
	return 1
}

// BarsProcessed returns the number of bars processed
func (s *SAR) BarsProcessed() int {
	return s.processed
}
