package indicator

import (
	"fmt"
	"math"
	"time"

	"github.com/sdcoffey/big"
	"github.com/sdcoffey/techan"

	"github.com/omarelsayed/signal-engine/internal/models"
)

// TechanCalculator wraps a techan indicator so it can run beside the native
// calculators. Used for supplementary indicators (ATR) that the signal
// layer consumes but the native package does not implement.
type TechanCalculator struct {
	name      string
	series    *techan.TimeSeries
	build     func(*techan.TimeSeries) techan.Indicator
	indicator techan.Indicator
	period    int
	ready     bool
}

// NewTechanCalculator creates a calculator backed by a techan indicator.
// build receives the internal TimeSeries and must construct the indicator
// over it; the series is replayed bar by bar on Update.
func NewTechanCalculator(
	name string,
	period int,
	build func(*techan.TimeSeries) techan.Indicator,
) *TechanCalculator {
	series := techan.NewTimeSeries()
	return &TechanCalculator{
		name:      name,
		series:    series,
		build:     build,
		indicator: build(series),
		period:    period,
	}
}

func (t *TechanCalculator) Name() string {
	return t.name
}

// Update appends the bar to the underlying time series and recalculates
func (t *TechanCalculator) Update(bar *models.PriceBar) (float64, error) {
	if bar == nil {
		return 0, fmt.Errorf("bar cannot be nil")
	}

	timePeriod := techan.NewTimePeriod(bar.Timestamp, time.Minute)
	candle := techan.NewCandle(timePeriod)
	candle.OpenPrice = big.NewDecimal(bar.Open)
	candle.MaxPrice = big.NewDecimal(bar.High)
	candle.MinPrice = big.NewDecimal(bar.Low)
	candle.ClosePrice = big.NewDecimal(bar.Close)

	t.series.AddCandle(candle)

	lastIndex := t.series.LastIndex()
	if lastIndex+1 < t.period {
		return 0, nil
	}

	value := t.indicator.Calculate(lastIndex).Float()
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, nil
	}

	t.ready = true
	return value, nil
}

func (t *TechanCalculator) Value() (float64, error) {
	if !t.ready {
		return 0, fmt.Errorf("%s not ready: need at least %d bars", t.name, t.period)
	}
	return t.indicator.Calculate(t.series.LastIndex()).Float(), nil
}

func (t *TechanCalculator) Reset() {
	t.series = techan.NewTimeSeries()
	t.indicator = t.build(t.series)
	t.ready = false
}

func (t *TechanCalculator) IsReady() bool {
	return t.ready
}

// WindowSize returns the number of bars required for this indicator
func (t *TechanCalculator) WindowSize() int {
	return t.period
}

// BarsProcessed returns the number of bars processed so far
func (t *TechanCalculator) BarsProcessed() int {
	return t.series.LastIndex() + 1
}

// NewATR creates an Average True Range calculator backed by techan
func NewATR(period int) (Calculator, error) {
	if period < 1 {
		return nil, fmt.Errorf("ATR period must be at least 1, got %d", period)
	}
	return NewTechanCalculator(
		fmt.Sprintf("atr_%d", period),
		period,
		func(series *techan.TimeSeries) techan.Indicator {
			return techan.NewAverageTrueRangeIndicator(series, period)
		},
	), nil
}
