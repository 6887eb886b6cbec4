package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/omarelsayed/signal-engine/internal/models"
)

func testKeys() Keys {
	return Keys{
		SMAShort: "sma_20",
		SMALong:  "sma_50",
		EMAShort: "ema_20",
		EMALong:  "ema_50",
		RSI:      "rsi_14",
		PSAR:     "psar_0.02_0.2",
	}
}

func TestClassifier_TrendOrdering(t *testing.T) {
	c := NewClassifier(testKeys(), DefaultThresholds())

	tests := []struct {
		name   string
		price  float64
		short  float64
		long   float64
		expect models.Signal
	}{
		{"ascending order is bullish", 110, 105, 100, models.SignalBuy},
		{"descending order is bearish", 90, 95, 100, models.SignalSell},
		{"price below short is neutral", 104, 105, 100, models.SignalNeutral},
		{"short below long is neutral", 110, 100, 105, models.SignalNeutral},
		{"equal averages are neutral", 110, 100, 100, models.SignalNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := c.Classify(tt.price, map[string]float64{
				"sma_20": tt.short,
				"sma_50": tt.long,
				"ema_20": tt.short,
				"ema_50": tt.long,
			})
			assert.Equal(t, tt.expect, set["sma"])
			assert.Equal(t, tt.expect, set["ema"])
		})
	}
}

func TestClassifier_RSILevels(t *testing.T) {
	c := NewClassifier(testKeys(), DefaultThresholds())

	assert.Equal(t, models.SignalSell, c.Classify(100, map[string]float64{"rsi_14": 75})["rsi"])
	assert.Equal(t, models.SignalBuy, c.Classify(100, map[string]float64{"rsi_14": 25})["rsi"])
	assert.Equal(t, models.SignalNeutral, c.Classify(100, map[string]float64{"rsi_14": 50})["rsi"])
	// Bounds themselves are neutral
	assert.Equal(t, models.SignalNeutral, c.Classify(100, map[string]float64{"rsi_14": 70})["rsi"])
	assert.Equal(t, models.SignalNeutral, c.Classify(100, map[string]float64{"rsi_14": 30})["rsi"])
}

func TestClassifier_MACD(t *testing.T) {
	c := NewClassifier(testKeys(), DefaultThresholds())

	set := c.Classify(100, map[string]float64{
		"macd": 1.5, "macd_signal": 1.0, "macd_hist": 0.5,
	})
	assert.Equal(t, models.SignalBuy, set["macd"])

	set = c.Classify(100, map[string]float64{
		"macd": -1.5, "macd_signal": -1.0, "macd_hist": -0.5,
	})
	assert.Equal(t, models.SignalSell, set["macd"])

	set = c.Classify(100, map[string]float64{
		"macd": 1.0, "macd_signal": 1.0, "macd_hist": 0,
	})
	assert.Equal(t, models.SignalNeutral, set["macd"])
}

func TestClassifier_BollingerProximity(t *testing.T) {
	c := NewClassifier(testKeys(), DefaultThresholds())
	bands := map[string]float64{"bb_upper": 110, "bb_lower": 90}
	// Band width 20, 10% margin = 2

	assert.Equal(t, models.SignalSell, c.Classify(108.5, bands)["bollinger"])
	assert.Equal(t, models.SignalBuy, c.Classify(91.5, bands)["bollinger"])
	assert.Equal(t, models.SignalNeutral, c.Classify(100, bands)["bollinger"])
}

func TestClassifier_StochasticNeedsBothLines(t *testing.T) {
	c := NewClassifier(testKeys(), DefaultThresholds())

	set := c.Classify(100, map[string]float64{"stoch_k": 85, "stoch_d": 82})
	assert.Equal(t, models.SignalSell, set["stochastic"])

	set = c.Classify(100, map[string]float64{"stoch_k": 15, "stoch_d": 18})
	assert.Equal(t, models.SignalBuy, set["stochastic"])

	// One line outside the zone keeps the pair neutral
	set = c.Classify(100, map[string]float64{"stoch_k": 85, "stoch_d": 75})
	assert.Equal(t, models.SignalNeutral, set["stochastic"])

	set = c.Classify(100, map[string]float64{"stochrsi_k": 10, "stochrsi_d": 12})
	assert.Equal(t, models.SignalBuy, set["stochRsi"])
}

func TestClassifier_PSAR(t *testing.T) {
	c := NewClassifier(testKeys(), DefaultThresholds())

	assert.Equal(t, models.SignalBuy, c.Classify(100, map[string]float64{"psar_0.02_0.2": 95})["psar"])
	assert.Equal(t, models.SignalSell, c.Classify(100, map[string]float64{"psar_0.02_0.2": 105})["psar"])
	assert.Equal(t, models.SignalNeutral, c.Classify(100, map[string]float64{"psar_0.02_0.2": 100})["psar"])
}

func TestClassifier_MissingInputsAreOmitted(t *testing.T) {
	c := NewClassifier(testKeys(), DefaultThresholds())

	// Only RSI present: every other family must be absent, not neutral
	set := c.Classify(100, map[string]float64{"rsi_14": 50})
	assert.Len(t, set, 1)
	assert.Contains(t, set, "rsi")

	// Half a pair is not enough
	set = c.Classify(100, map[string]float64{"sma_20": 105, "stoch_k": 85, "macd": 1})
	assert.Empty(t, set)
}

func TestClassifier_FullSnapshot(t *testing.T) {
	c := NewClassifier(testKeys(), DefaultThresholds())

	set := c.Classify(110, map[string]float64{
		"sma_20": 105, "sma_50": 100,
		"ema_20": 106, "ema_50": 101,
		"rsi_14": 25,
		"macd":   1.5, "macd_signal": 1.0, "macd_hist": 0.5,
		"bb_upper": 120, "bb_lower": 100,
		"stoch_k": 15, "stoch_d": 18,
		"stochrsi_k": 10, "stochrsi_d": 12,
		"psar_0.02_0.2": 95,
	})

	assert.Len(t, set, 8)
	assert.Equal(t, models.SignalBuy, set["sma"])
	assert.Equal(t, models.SignalBuy, set["ema"])
	assert.Equal(t, models.SignalBuy, set["rsi"])
	assert.Equal(t, models.SignalBuy, set["macd"])
	assert.Equal(t, models.SignalNeutral, set["bollinger"])
	assert.Equal(t, models.SignalBuy, set["stochastic"])
	assert.Equal(t, models.SignalBuy, set["stochRsi"])
	assert.Equal(t, models.SignalBuy, set["psar"])
}
