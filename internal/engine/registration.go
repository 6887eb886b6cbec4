package engine

import (
	"fmt"

	"github.com/omarelsayed/signal-engine/internal/config"
	"github.com/omarelsayed/signal-engine/internal/signal"
	"github.com/omarelsayed/signal-engine/pkg/indicator"
)

// BuildFactories returns one factory per configured calculator. Every
// symbol the engine encounters gets a fresh instance of each.
func BuildFactories(p config.IndicatorParams) []CalculatorFactory {
	return []CalculatorFactory{
		func() (indicator.Calculator, error) { return indicator.NewSMA(p.SMAShort) },
		func() (indicator.Calculator, error) { return indicator.NewSMA(p.SMALong) },
		func() (indicator.Calculator, error) { return indicator.NewEMA(p.EMAShort) },
		func() (indicator.Calculator, error) { return indicator.NewEMA(p.EMALong) },
		func() (indicator.Calculator, error) { return indicator.NewRSI(p.RSIPeriod) },
		func() (indicator.Calculator, error) {
			return indicator.NewStochastic(p.StochKPeriod, p.StochDPeriod)
		},
		func() (indicator.Calculator, error) {
			return indicator.NewStochRSI(p.StochRSIPeriod, p.StochRSIStochPeriod, p.StochRSIDPeriod)
		},
		func() (indicator.Calculator, error) {
			return indicator.NewMACD(p.MACDFast, p.MACDSlow, p.MACDSignal)
		},
		func() (indicator.Calculator, error) {
			return indicator.NewBollinger(p.BBPeriod, p.BBMultiplier)
		},
		func() (indicator.Calculator, error) { return indicator.NewSAR(p.SARStep, p.SARMaxStep) },
		func() (indicator.Calculator, error) { return indicator.NewATR(p.ATRPeriod) },
	}
}

// SignalKeys maps the configured periods to the snapshot keys the
// classifier reads. The formats must match the calculators' Name() output.
func SignalKeys(p config.IndicatorParams) signal.Keys {
	return signal.Keys{
		SMAShort: fmt.Sprintf("sma_%d", p.SMAShort),
		SMALong:  fmt.Sprintf("sma_%d", p.SMALong),
		EMAShort: fmt.Sprintf("ema_%d", p.EMAShort),
		EMALong:  fmt.Sprintf("ema_%d", p.EMALong),
		RSI:      fmt.Sprintf("rsi_%d", p.RSIPeriod),
		PSAR:     fmt.Sprintf("psar_%g_%g", p.SARStep, p.SARMaxStep),
	}
}

// Thresholds converts the configured signal parameters into classifier
// thresholds.
func Thresholds(sp config.SignalParams) signal.Thresholds {
	return signal.Thresholds{
		RSIOverbought:   sp.RSIOverbought,
		RSIOversold:     sp.RSIOversold,
		StochOverbought: sp.StochOverbought,
		StochOversold:   sp.StochOversold,
		BBProximity:     sp.BBProximity,
	}
}
