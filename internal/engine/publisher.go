package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/omarelsayed/signal-engine/internal/models"
	"github.com/omarelsayed/signal-engine/internal/pubsub"
	"github.com/omarelsayed/signal-engine/pkg/logger"
)

var (
	snapshotsPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_snapshots_published_total",
			Help: "Total number of indicator snapshots written to Redis",
		},
	)

	publishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_publish_errors_total",
			Help: "Total number of snapshot/signal publish errors",
		},
		[]string{"kind"},
	)
)

// Redis key layout shared with the API service.
const (
	SnapshotKeyPrefix = "ind:"
	SignalKeyPrefix   = "sig:"
	ActiveSymbolsKey  = "symbols:active"
)

// Publisher writes snapshots and signal events to Redis: snapshots and the
// latest signal set to TTL'd keys for the API, signal events to a stream
// for downstream consumers.
type Publisher struct {
	redis        pubsub.Client
	signalStream string
	ttl          time.Duration
	timeout      time.Duration
}

// NewPublisher creates a publisher writing to the given signal stream with
// the given snapshot TTL.
func NewPublisher(redis pubsub.Client, signalStream string, ttl time.Duration) *Publisher {
	return &Publisher{
		redis:        redis,
		signalStream: signalStream,
		ttl:          ttl,
		timeout:      5 * time.Second,
	}
}

// Publish is the engine's OnUpdate callback.
func (p *Publisher) Publish(snapshot *models.IndicatorSnapshot, signals models.SignalSet) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if err := p.redis.Set(ctx, SnapshotKeyPrefix+snapshot.Symbol, snapshot, p.ttl); err != nil {
		publishErrors.WithLabelValues("snapshot").Inc()
		logger.Error("Failed to publish snapshot",
			logger.ErrorField(err),
			logger.String("symbol", snapshot.Symbol),
		)
	} else {
		snapshotsPublished.Inc()
	}

	if err := p.redis.SetAdd(ctx, ActiveSymbolsKey, snapshot.Symbol); err != nil {
		publishErrors.WithLabelValues("symbols").Inc()
		logger.Error("Failed to track symbol",
			logger.ErrorField(err),
			logger.String("symbol", snapshot.Symbol),
		)
	}

	if len(signals) == 0 {
		return
	}

	event := &models.SignalEvent{
		ID:        uuid.NewString(),
		Symbol:    snapshot.Symbol,
		Timestamp: snapshot.Timestamp,
		Price:     snapshot.Price,
		Signals:   signals,
	}

	if err := p.redis.Set(ctx, SignalKeyPrefix+event.Symbol, event, p.ttl); err != nil {
		publishErrors.WithLabelValues("signal_key").Inc()
		logger.Error("Failed to store latest signals",
			logger.ErrorField(err),
			logger.String("symbol", event.Symbol),
		)
	}

	if err := p.redis.PublishToStream(ctx, p.signalStream, "signal", event); err != nil {
		publishErrors.WithLabelValues("signal_stream").Inc()
		logger.Error("Failed to publish signal event",
			logger.ErrorField(err),
			logger.String("symbol", event.Symbol),
		)
	}
}
