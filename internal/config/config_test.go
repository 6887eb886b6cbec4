package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, "bars.finalized", cfg.Engine.StreamName)
	assert.Equal(t, "signals.generated", cfg.Engine.SignalStream)
	assert.Equal(t, 14, cfg.Indicators.RSIPeriod)
	assert.Equal(t, 2.0, cfg.Indicators.BBMultiplier)
	assert.Equal(t, 70.0, cfg.Signals.RSIOverbought)
	assert.Equal(t, 10*time.Minute, cfg.Engine.SnapshotTTL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("REDIS_HOST", "redis.internal")
	t.Setenv("IND_RSI_PERIOD", "7")
	t.Setenv("IND_SAR_STEP", "0.01")
	t.Setenv("FEED_SYMBOLS", "AAPL,MSFT, TSLA")
	t.Setenv("ENGINE_SNAPSHOT_TTL", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "redis.internal", cfg.Redis.Host)
	assert.Equal(t, 7, cfg.Indicators.RSIPeriod)
	assert.Equal(t, 0.01, cfg.Indicators.SARStep)
	assert.Equal(t, []string{"AAPL", "MSFT", "TSLA"}, cfg.Feed.Symbols)
	assert.Equal(t, 30*time.Second, cfg.Engine.SnapshotTTL)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("IND_RSI_PERIOD", "fourteen")
	t.Setenv("IND_BB_MULTIPLIER", "wide")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 14, cfg.Indicators.RSIPeriod)
	assert.Equal(t, 2.0, cfg.Indicators.BBMultiplier)
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"short SMA above long", map[string]string{"IND_SMA_SHORT": "50", "IND_SMA_LONG": "20"}},
		{"MACD fast above slow", map[string]string{"IND_MACD_FAST": "26", "IND_MACD_SLOW": "12"}},
		{"zero period", map[string]string{"IND_RSI_PERIOD": "0"}},
		{"SAR max below step", map[string]string{"IND_SAR_STEP": "0.3", "IND_SAR_MAX_STEP": "0.2"}},
		{"inverted RSI bounds", map[string]string{"SIG_RSI_OVERSOLD": "80", "SIG_RSI_OVERBOUGHT": "20"}},
		{"band proximity out of range", map[string]string{"SIG_BB_PROXIMITY": "1.5"}},
		{"websocket feed without URL", map[string]string{"FEED_PROVIDER": "websocket"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
