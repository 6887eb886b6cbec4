package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Common
	Environment string
	LogLevel    string

	// Redis
	Redis RedisConfig

	// Services
	Feed   FeedConfig
	Engine EngineConfig
	API    APIConfig

	// Indicator parameters
	Indicators IndicatorParams

	// Signal thresholds
	Signals SignalParams
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// FeedConfig holds market-data feed configuration
type FeedConfig struct {
	Provider          string // "mock" or "websocket"
	WebSocketURL      string
	Symbols           []string
	StreamName        string
	HealthCheckPort   int
	ReconnectDelay    time.Duration
	MaxReconnectDelay time.Duration
}

// EngineConfig holds indicator/signal engine configuration
type EngineConfig struct {
	HealthCheckPort int
	ConsumerGroup   string
	StreamName      string
	SignalStream    string
	SnapshotTTL     time.Duration
	BatchSize       int
	AckTimeout      time.Duration
}

// APIConfig holds REST API configuration
type APIConfig struct {
	Port            int
	HealthCheckPort int
	RateLimitRPS    int
}

// IndicatorParams holds the period configuration for every calculator.
// All values are plain numbers supplied at construction time; the
// calculators themselves never read the environment.
type IndicatorParams struct {
	SMAShort int
	SMALong  int
	EMAShort int
	EMALong  int

	RSIPeriod int

	StochKPeriod int
	StochDPeriod int

	StochRSIPeriod      int
	StochRSIStochPeriod int
	StochRSIDPeriod     int

	MACDFast   int
	MACDSlow   int
	MACDSignal int

	BBPeriod     int
	BBMultiplier float64

	SARStep    float64
	SARMaxStep float64

	ATRPeriod int
}

// SignalParams holds the thresholds used by the signal rule layer.
type SignalParams struct {
	RSIOverbought   float64
	RSIOversold     float64
	StochOverbought float64
	StochOversold   float64
	BBProximity     float64 // fraction of band width treated as "near" a band
}

// Load loads configuration from environment variables.
// It automatically loads a .env file if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvAsInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
		},
		Feed: FeedConfig{
			Provider:          getEnv("FEED_PROVIDER", "mock"),
			WebSocketURL:      getEnv("FEED_WS_URL", ""),
			Symbols:           getEnvAsStringSlice("FEED_SYMBOLS", []string{}),
			StreamName:        getEnv("FEED_STREAM_NAME", "bars.finalized"),
			HealthCheckPort:   getEnvAsInt("FEED_HEALTH_PORT", 8081),
			ReconnectDelay:    getEnvAsDuration("FEED_RECONNECT_DELAY", 1*time.Second),
			MaxReconnectDelay: getEnvAsDuration("FEED_MAX_RECONNECT_DELAY", 30*time.Second),
		},
		Engine: EngineConfig{
			HealthCheckPort: getEnvAsInt("ENGINE_HEALTH_PORT", 8083),
			ConsumerGroup:   getEnv("ENGINE_CONSUMER_GROUP", "signal-engine"),
			StreamName:      getEnv("ENGINE_STREAM_NAME", "bars.finalized"),
			SignalStream:    getEnv("ENGINE_SIGNAL_STREAM", "signals.generated"),
			SnapshotTTL:     getEnvAsDuration("ENGINE_SNAPSHOT_TTL", 10*time.Minute),
			BatchSize:       getEnvAsInt("ENGINE_BATCH_SIZE", 100),
			AckTimeout:      getEnvAsDuration("ENGINE_ACK_TIMEOUT", 10*time.Second),
		},
		API: APIConfig{
			Port:            getEnvAsInt("API_PORT", 8090),
			HealthCheckPort: getEnvAsInt("API_HEALTH_PORT", 8091),
			RateLimitRPS:    getEnvAsInt("API_RATE_LIMIT_RPS", 100),
		},
		Indicators: IndicatorParams{
			SMAShort:            getEnvAsInt("IND_SMA_SHORT", 20),
			SMALong:             getEnvAsInt("IND_SMA_LONG", 50),
			EMAShort:            getEnvAsInt("IND_EMA_SHORT", 20),
			EMALong:             getEnvAsInt("IND_EMA_LONG", 50),
			RSIPeriod:           getEnvAsInt("IND_RSI_PERIOD", 14),
			StochKPeriod:        getEnvAsInt("IND_STOCH_K_PERIOD", 14),
			StochDPeriod:        getEnvAsInt("IND_STOCH_D_PERIOD", 3),
			StochRSIPeriod:      getEnvAsInt("IND_STOCHRSI_RSI_PERIOD", 14),
			StochRSIStochPeriod: getEnvAsInt("IND_STOCHRSI_STOCH_PERIOD", 14),
			StochRSIDPeriod:     getEnvAsInt("IND_STOCHRSI_D_PERIOD", 3),
			MACDFast:            getEnvAsInt("IND_MACD_FAST", 12),
			MACDSlow:            getEnvAsInt("IND_MACD_SLOW", 26),
			MACDSignal:          getEnvAsInt("IND_MACD_SIGNAL", 9),
			BBPeriod:            getEnvAsInt("IND_BB_PERIOD", 20),
			BBMultiplier:        getEnvAsFloat("IND_BB_MULTIPLIER", 2.0),
			SARStep:             getEnvAsFloat("IND_SAR_STEP", 0.02),
			SARMaxStep:          getEnvAsFloat("IND_SAR_MAX_STEP", 0.2),
			ATRPeriod:           getEnvAsInt("IND_ATR_PERIOD", 14),
		},
		Signals: SignalParams{
			RSIOverbought:   getEnvAsFloat("SIG_RSI_OVERBOUGHT", 70),
			RSIOversold:     getEnvAsFloat("SIG_RSI_OVERSOLD", 30),
			StochOverbought: getEnvAsFloat("SIG_STOCH_OVERBOUGHT", 80),
			StochOversold:   getEnvAsFloat("SIG_STOCH_OVERSOLD", 20),
			BBProximity:     getEnvAsFloat("SIG_BB_PROXIMITY", 0.1),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks configuration consistency
func (c *Config) Validate() error {
	if c.Redis.Host == "" {
		return fmt.Errorf("redis host cannot be empty")
	}
	ind := c.Indicators
	for name, period := range map[string]int{
		"IND_SMA_SHORT":            ind.SMAShort,
		"IND_SMA_LONG":             ind.SMALong,
		"IND_EMA_SHORT":            ind.EMAShort,
		"IND_EMA_LONG":             ind.EMALong,
		"IND_RSI_PERIOD":           ind.RSIPeriod,
		"IND_STOCH_K_PERIOD":       ind.StochKPeriod,
		"IND_STOCH_D_PERIOD":       ind.StochDPeriod,
		"IND_STOCHRSI_RSI_PERIOD":  ind.StochRSIPeriod,
		"IND_STOCHRSI_STOCH_PERIOD": ind.StochRSIStochPeriod,
		"IND_STOCHRSI_D_PERIOD":    ind.StochRSIDPeriod,
		"IND_MACD_FAST":            ind.MACDFast,
		"IND_MACD_SLOW":            ind.MACDSlow,
		"IND_MACD_SIGNAL":          ind.MACDSignal,
		"IND_BB_PERIOD":            ind.BBPeriod,
	} {
		if period < 1 {
			return fmt.Errorf("%s must be at least 1, got %d", name, period)
		}
	}
	if ind.SMAShort >= ind.SMALong {
		return fmt.Errorf("IND_SMA_SHORT (%d) must be less than IND_SMA_LONG (%d)", ind.SMAShort, ind.SMALong)
	}
	if ind.EMAShort >= ind.EMALong {
		return fmt.Errorf("IND_EMA_SHORT (%d) must be less than IND_EMA_LONG (%d)", ind.EMAShort, ind.EMALong)
	}
	if ind.MACDFast >= ind.MACDSlow {
		return fmt.Errorf("IND_MACD_FAST (%d) must be less than IND_MACD_SLOW (%d)", ind.MACDFast, ind.MACDSlow)
	}
	if ind.SARStep <= 0 || ind.SARMaxStep < ind.SARStep {
		return fmt.Errorf("SAR step (%f) must be positive and not exceed max step (%f)", ind.SARStep, ind.SARMaxStep)
	}
	if c.Signals.RSIOversold >= c.Signals.RSIOverbought {
		return fmt.Errorf("SIG_RSI_OVERSOLD must be below SIG_RSI_OVERBOUGHT")
	}
	if c.Signals.StochOversold >= c.Signals.StochOverbought {
		return fmt.Errorf("SIG_STOCH_OVERSOLD must be below SIG_STOCH_OVERBOUGHT")
	}
	if c.Signals.BBProximity <= 0 || c.Signals.BBProximity >= 1 {
		return fmt.Errorf("SIG_BB_PROXIMITY must be in (0, 1)")
	}
	if c.Feed.Provider == "websocket" && c.Feed.WebSocketURL == "" {
		return fmt.Errorf("FEED_WS_URL is required when FEED_PROVIDER is websocket")
	}
	return nil
}

// getEnv gets an environment variable with a fallback default
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsFloat gets an environment variable as a float64
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration gets an environment variable as a time.Duration
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsStringSlice gets an environment variable as a comma-separated slice
func getEnvAsStringSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
