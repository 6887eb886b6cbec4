package indicator

import (
	"fmt"

	"github.com/omarelsayed/signal-engine/internal/models"
)

// MACD calculates Moving Average Convergence Divergence by composing three
// EMA calculators: the MACD line is EMA(fast) - EMA(slow) over closes, the
// signal line smooths the MACD line with EMA(signalPeriod), and the
// histogram is their difference.
//
// Because the EMAs seed from the first price, values exist immediately, but
// the calculator only reports ready after slowPeriod bars — earlier values
// have not converged.
type MACD struct {
	name         string
	fastPeriod   int
	slowPeriod   int
	signalPeriod int

	fast   *EMA
	slow   *EMA
	signal *EMA

	macd      float64
	sig       float64
	hist      float64
	processed int
}

// NewMACD creates a new MACD calculator (typically 12, 26, 9)
func NewMACD(fastPeriod, slowPeriod, signalPeriod int) (*MACD, error) {
	if fastPeriod < 1 || slowPeriod < 1 || signalPeriod < 1 {
		return nil, fmt.Errorf("MACD periods must be at least 1, got %d/%d/%d",
			fastPeriod, slowPeriod, signalPeriod)
	}
	if fastPeriod >= slowPeriod {
		return nil, fmt.Errorf("MACD fast period (%d) must be less than slow period (%d)",
			fastPeriod, slowPeriod)
	}
	fast, err := NewEMA(fastPeriod)
	if err != nil {
		return nil, err
	}
	slow, err := NewEMA(slowPeriod)
	if err != nil {
		return nil, err
	}
	signal, err := NewEMA(signalPeriod)
	if err != nil {
		return nil, err
	}
	return &MACD{
		name:         fmt.Sprintf("macd_%d_%d_%d", fastPeriod, slowPeriod, signalPeriod),
		fastPeriod:   fastPeriod,
		slowPeriod:   slowPeriod,
		signalPeriod: signalPeriod,
		fast:         fast,
		slow:         slow,
		signal:       signal,
	}, nil
}

// Name returns the indicator name
func (m *MACD) Name() string {
	return m.name
}

// Update processes a new bar and returns the new MACD line value
func (m *MACD) Update(bar *models.PriceBar) (float64, error) {
	if bar == nil {
		return 0, fmt.Errorf("bar cannot be nil")
	}
	m.processed++

	fast := m.fast.Apply(bar.Close)
	slow := m.slow.Apply(bar.Close)
	m.macd = fast - slow
	m.sig = m.signal.Apply(m.macd)
	m.hist = m.macd - m.sig

	if !m.IsReady() {
		return 0, nil
	}
	return m.macd, nil
}

// Value returns the current MACD line value
func (m *MACD) Value() (float64, error) {
	if !m.IsReady() {
		return 0, fmt.Errorf("MACD not ready: need at least %d bars", m.slowPeriod)
	}
	return m.macd, nil
}

// Values returns the MACD line, signal line and histogram keyed by name
func (m *MACD) Values() (map[string]float64, error) {
	if !m.IsReady() {
		return nil, fmt.Errorf("MACD not ready: need at least %d bars", m.slowPeriod)
	}
	return map[string]float64{
		"macd":        m.macd,
		"macd_signal": m.sig,
		"macd_hist":   m.hist,
	}, nil
}

// Reset clears the MACD state
func (m *MACD) Reset() {
	m.fast.Reset()
	m.slow.Reset()
	m.signal.Reset()
	m.macd = 0
	m.sig = 0
	m.hist = 0
	m.processed = 0
}

// IsReady returns true once slowPeriod bars have been processed
func (m *MACD) IsReady() bool {
	return m.processed >= m.slowPeriod
}

// WindowSize returns the number of bars required before MACD is reported
func (m *MACD) WindowSize() int {
	return m.slowPeriod
}

// BarsProcessed returns the number of bars processed
func (m *MACD) BarsProcessed() int {
	return m.processed
}
