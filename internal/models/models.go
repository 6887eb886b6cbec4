package models

import (
	"time"
)

// PriceBar represents a single OHLC price bar for one symbol.
// Bars are expected to arrive in strictly increasing timestamp order;
// monotonicity is the producer's responsibility.
type PriceBar struct {
	Symbol    string    `json:"symbol"`
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
}

// Validate validates a PriceBar
func (b *PriceBar) Validate() error {
	if b.Symbol == "" {
		return ErrInvalidSymbol
	}
	if b.Timestamp.IsZero() {
		return ErrInvalidTimestamp
	}
	if b.High < b.Low {
		return ErrInvalidBar
	}
	return nil
}

// Signal is a per-bar directional classification produced by the
// snapshot classifier.
type Signal string

const (
	SignalBuy     Signal = "buy"
	SignalSell    Signal = "sell"
	SignalNeutral Signal = "neutral"
)

// BatchSignal is a per-index directional classification produced by the
// batch (crossover) generator. The casing difference versus Signal is
// deliberate: the two modes have different semantics and are never mixed.
type BatchSignal string

const (
	BatchBuy  BatchSignal = "BUY"
	BatchSell BatchSignal = "SELL"
	BatchHold BatchSignal = "HOLD"
)

// SignalSet maps an indicator family (e.g. "rsi", "macd") to its signal.
// Families whose inputs are not ready yet are absent from the map.
type SignalSet map[string]Signal

// IndicatorSnapshot is the per-bar bundle of ready indicator values for
// one symbol, keyed by indicator name (e.g. "rsi_14", "stoch_k").
type IndicatorSnapshot struct {
	Symbol    string             `json:"symbol"`
	Timestamp time.Time          `json:"timestamp"`
	Price     float64            `json:"price"`
	Values    map[string]float64 `json:"values"`
}

// SignalEvent is a published signal update for one symbol.
type SignalEvent struct {
	ID        string    `json:"id"`
	Symbol    string    `json:"symbol"`
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
	Signals   SignalSet `json:"signals"`
}

// Validate validates a SignalEvent
func (e *SignalEvent) Validate() error {
	if e.Symbol == "" {
		return ErrInvalidSymbol
	}
	if e.Timestamp.IsZero() {
		return ErrInvalidTimestamp
	}
	return nil
}

// HistoryRecord carries one row of pre-computed indicator history for the
// batch signal generator. Field names follow the REST request payload.
type HistoryRecord struct {
	Close      float64 `json:"close"`
	SMA20      float64 `json:"sma20"`
	SMA50      float64 `json:"sma50"`
	EMA20      float64 `json:"ema20"`
	RSI14      float64 `json:"rsi14"`
	StochK     float64 `json:"stochK"`
	StochD     float64 `json:"stochD"`
	StochRsiK  float64 `json:"stochRsiK"`
	StochRsiD  float64 `json:"stochRsiD"`
	MACDLine   float64 `json:"macdLine"`
	MACDSignal float64 `json:"macdSignal"`
	BBUpper    float64 `json:"bbUpper"`
	BBLower    float64 `json:"bbLower"`
	PSAR       float64 `json:"psar"`
}
