// Package signal turns indicator values into directional trading signals.
//
// It has two independent modes. The per-bar classifier is level-based: it
// reads the latest indicator snapshot plus the current price and classifies
// each indicator family into buy/sell/neutral. The batch generator is
// edge-based: it walks full historical series and emits BUY/SELL/HOLD per
// index, firing only where two series cross. The two modes use different
// rules on purpose and are never mixed.
package signal

import (
	"github.com/omarelsayed/signal-engine/internal/models"
)

// Thresholds holds the level bounds used by the per-bar classifier.
type Thresholds struct {
	RSIOverbought   float64
	RSIOversold     float64
	StochOverbought float64
	StochOversold   float64
	// BBProximity is the fraction of the band width within which the price
	// counts as touching a Bollinger band.
	BBProximity float64
}

// DefaultThresholds returns the conventional bounds (RSI 70/30,
// Stochastic 80/20, 10% band proximity).
func DefaultThresholds() Thresholds {
	return Thresholds{
		RSIOverbought:   70,
		RSIOversold:     30,
		StochOverbought: 80,
		StochOversold:   20,
		BBProximity:     0.1,
	}
}

// Keys names the snapshot entries whose keys depend on configured periods.
// Fixed-name entries (stoch_k, macd, bb_upper, ...) are looked up directly.
type Keys struct {
	SMAShort string
	SMALong  string
	EMAShort string
	EMALong  string
	RSI      string
	PSAR     string
}

// Classifier classifies indicator snapshots into per-family signals.
// It is stateless apart from its configuration and safe for concurrent use.
type Classifier struct {
	keys Keys
	th   Thresholds
}

// NewClassifier creates a classifier for snapshots using the given value
// keys and level thresholds.
func NewClassifier(keys Keys, th Thresholds) *Classifier {
	return &Classifier{keys: keys, th: th}
}

// Classify evaluates every indicator family present in the snapshot and
// returns one signal per family. Families whose inputs are missing from the
// snapshot are omitted entirely rather than defaulted to neutral.
func (c *Classifier) Classify(price float64, values map[string]float64) models.SignalSet {
	set := models.SignalSet{}

	if s, ok := c.trendSignal(price, values, c.keys.SMAShort, c.keys.SMALong); ok {
		set["sma"] = s
	}
	if s, ok := c.trendSignal(price, values, c.keys.EMAShort, c.keys.EMALong); ok {
		set["ema"] = s
	}
	if s, ok := c.rsiSignal(values); ok {
		set["rsi"] = s
	}
	if s, ok := c.macdSignal(values); ok {
		set["macd"] = s
	}
	if s, ok := c.bollingerSignal(price, values); ok {
		set["bollinger"] = s
	}
	if s, ok := c.stochSignal(values, "stoch_k", "stoch_d"); ok {
		set["stochastic"] = s
	}
	if s, ok := c.stochSignal(values, "stochrsi_k", "stochrsi_d"); ok {
		set["stochRsi"] = s
	}
	if s, ok := c.psarSignal(price, values); ok {
		set["psar"] = s
	}

	return set
}

// trendSignal requires a strict ordering of price, short average and long
// average: ascending is bullish, descending is bearish.
func (c *Classifier) trendSignal(price float64, values map[string]float64, shortKey, longKey string) (models.Signal, bool) {
	short, okS := values[shortKey]
	long, okL := values[longKey]
	if !okS || !okL {
		return "", false
	}
	switch {
	case price > short && short > long:
		return models.SignalBuy, true
	case price < short && short < long:
		return models.SignalSell, true
	default:
		return models.SignalNeutral, true
	}
}

func (c *Classifier) rsiSignal(values map[string]float64) (models.Signal, bool) {
	rsi, ok := values[c.keys.RSI]
	if !ok {
		return "", false
	}
	switch {
	case rsi > c.th.RSIOverbought:
		return models.SignalSell, true
	case rsi < c.th.RSIOversold:
		return models.SignalBuy, true
	default:
		return models.SignalNeutral, true
	}
}

func (c *Classifier) macdSignal(values map[string]float64) (models.Signal, bool) {
	line, okL := values["macd"]
	sig, okS := values["macd_signal"]
	hist, okH := values["macd_hist"]
	if !okL || !okS || !okH {
		return "", false
	}
	switch {
	case line > sig && hist > 0:
		return models.SignalBuy, true
	case line < sig && hist < 0:
		return models.SignalSell, true
	default:
		return models.SignalNeutral, true
	}
}

// bollingerSignal fires when the price is within BBProximity of the band
// width from either band.
func (c *Classifier) bollingerSignal(price float64, values map[string]float64) (models.Signal, bool) {
	upper, okU := values["bb_upper"]
	lower, okL := values["bb_lower"]
	if !okU || !okL {
		return "", false
	}
	margin := (upper - lower) * c.th.BBProximity
	switch {
	case price >= upper-margin:
		return models.SignalSell, true
	case price <= lower+margin:
		return models.SignalBuy, true
	default:
		return models.SignalNeutral, true
	}
}

// stochSignal requires both %K and %D to sit in the overbought or oversold
// zone together.
func (c *Classifier) stochSignal(values map[string]float64, kKey, dKey string) (models.Signal, bool) {
	k, okK := values[kKey]
	d, okD := values[dKey]
	if !okK || !okD {
		return "", false
	}
	switch {
	case k > c.th.StochOverbought && d > c.th.StochOverbought:
		return models.SignalSell, true
	case k < c.th.StochOversold && d < c.th.StochOversold:
		return models.SignalBuy, true
	default:
		return models.SignalNeutral, true
	}
}

func (c *Classifier) psarSignal(price float64, values map[string]float64) (models.Signal, bool) {
	sar, ok := values[c.keys.PSAR]
	if !ok {
		return "", false
	}
	switch {
	case price > sar:
		return models.SignalBuy, true
	case price < sar:
		return models.SignalSell, true
	default:
		return models.SignalNeutral, true
	}
}
