package signal

import (
	"github.com/omarelsayed/signal-engine/internal/models"
)

// Batch signal families, in the order callers usually render them.
const (
	FamilySMA        = "sma"
	FamilyEMA        = "ema"
	FamilyRSI        = "rsi"
	FamilyMACD       = "macd"
	FamilyBollinger  = "bollinger"
	FamilyStochastic = "stochastic"
	FamilyStochRSI   = "stochRsi"
	FamilyPSAR       = "psar"
)

// GenerateAllSignals computes one signal sequence per indicator family over
// a historical array of pre-computed indicator records. Every sequence is
// aligned index-for-index with the input; HOLD is the default everywhere,
// including index 0. The RSI edge bounds come from th, so batch and
// streaming classification share one configured threshold set. Fails with
// models.ErrInvalidInput when the history is missing or empty.
func GenerateAllSignals(records []models.HistoryRecord, th Thresholds) (map[string][]models.BatchSignal, error) {
	if len(records) == 0 {
		return nil, models.ErrInvalidInput
	}

	n := len(records)
	closes := make([]float64, n)
	sma20 := make([]float64, n)
	sma50 := make([]float64, n)
	ema20 := make([]float64, n)
	rsi14 := make([]float64, n)
	stochK := make([]float64, n)
	stochD := make([]float64, n)
	stochRsiK := make([]float64, n)
	stochRsiD := make([]float64, n)
	macdLine := make([]float64, n)
	macdSignal := make([]float64, n)
	bbUpper := make([]float64, n)
	bbLower := make([]float64, n)
	psar := make([]float64, n)

	for i, r := range records {
		closes[i] = r.Close
		sma20[i] = r.SMA20
		sma50[i] = r.SMA50
		ema20[i] = r.EMA20
		rsi14[i] = r.RSI14
		stochK[i] = r.StochK
		stochD[i] = r.StochD
		stochRsiK[i] = r.StochRsiK
		stochRsiD[i] = r.StochRsiD
		macdLine[i] = r.MACDLine
		macdSignal[i] = r.MACDSignal
		bbUpper[i] = r.BBUpper
		bbLower[i] = r.BBLower
		psar[i] = r.PSAR
	}

	out := make(map[string][]models.BatchSignal, 8)
	var err error
	if out[FamilySMA], err = CrossoverSignals(sma20, sma50); err != nil {
		return nil, err
	}
	if out[FamilyEMA], err = CrossoverSignals(closes, ema20); err != nil {
		return nil, err
	}
	if out[FamilyRSI], err = RSISignals(rsi14, th.RSIOversold, th.RSIOverbought); err != nil {
		return nil, err
	}
	if out[FamilyMACD], err = CrossoverSignals(macdLine, macdSignal); err != nil {
		return nil, err
	}
	if out[FamilyBollinger], err = BollingerSignals(closes, bbUpper, bbLower); err != nil {
		return nil, err
	}
	if out[FamilyStochastic], err = CrossoverSignals(stochK, stochD); err != nil {
		return nil, err
	}
	if out[FamilyStochRSI], err = CrossoverSignals(stochRsiK, stochRsiD); err != nil {
		return nil, err
	}
	if out[FamilyPSAR], err = CrossoverSignals(closes, psar); err != nil {
		return nil, err
	}
	return out, nil
}

// CrossoverSignals emits BUY at each index where the fast series crosses
// above the slow series (previous difference <= 0, current difference > 0)
// and SELL at the mirror crossing. Everything else, including index 0, is
// HOLD. The two series must have identical length.
func CrossoverSignals(fast, slow []float64) ([]models.BatchSignal, error) {
	if len(fast) != len(slow) {
		return nil, models.ErrLengthMismatch
	}

	signals := holdSeries(len(fast))
	for i := 1; i < len(fast); i++ {
		prev := fast[i-1] - slow[i-1]
		cur := fast[i] - slow[i]
		switch {
		case prev <= 0 && cur > 0:
			signals[i] = models.BatchBuy
		case prev >= 0 && cur < 0:
			signals[i] = models.BatchSell
		}
	}
	return signals, nil
}

// RSISignals emits BUY where the RSI crosses up through the oversold bound
// and SELL where it crosses down through the overbought bound. This is an
// edge rule, deliberately different from the classifier's level rule: a
// series sitting below the oversold bound never fires until it climbs back
// out.
func RSISignals(rsi []float64, oversold, overbought float64) ([]models.BatchSignal, error) {
	if rsi == nil {
		return nil, models.ErrInvalidInput
	}

	signals := holdSeries(len(rsi))
	for i := 1; i < len(rsi); i++ {
		switch {
		case rsi[i-1] < oversold && rsi[i] >= oversold:
			signals[i] = models.BatchBuy
		case rsi[i-1] > overbought && rsi[i] <= overbought:
			signals[i] = models.BatchSell
		}
	}
	return signals, nil
}

// BollingerSignals uses a flat threshold test rather than a crossover: BUY
// where the close sits at or below the lower band, SELL at or above the
// upper band. Evaluation starts at index 2, leaving the first two indices
// HOLD while the bands settle.
func BollingerSignals(closes, upper, lower []float64) ([]models.BatchSignal, error) {
	if len(closes) != len(upper) || len(closes) != len(lower) {
		return nil, models.ErrLengthMismatch
	}

	signals := holdSeries(len(closes))
	for i := 2; i < len(closes); i++ {
		switch {
		case closes[i] <= lower[i]:
			signals[i] = models.BatchBuy
		case closes[i] >= upper[i]:
			signals[i] = models.BatchSell
		}
	}
	return signals, nil
}

func holdSeries(n int) []models.BatchSignal {
	signals := make([]models.BatchSignal, n)
	for i := range signals {
		signals[i] = models.BatchHold
	}
	return signals
}
