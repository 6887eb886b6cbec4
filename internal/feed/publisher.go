package feed

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/omarelsayed/signal-engine/internal/models"
	"github.com/omarelsayed/signal-engine/internal/pubsub"
	"github.com/omarelsayed/signal-engine/pkg/logger"
)

var (
	barsPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_bars_published_total",
			Help: "Total number of bars published to the bar stream",
		},
	)

	barsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_bars_dropped_total",
			Help: "Total number of bars that failed to publish",
		},
	)
)

// BarPublisher forwards provider bars to the Redis bar stream the engine
// consumes.
type BarPublisher struct {
	redis  pubsub.Client
	stream string
}

// NewBarPublisher creates a publisher for the given stream.
func NewBarPublisher(redis pubsub.Client, stream string) *BarPublisher {
	return &BarPublisher{redis: redis, stream: stream}
}

// Run publishes every bar from the channel until it closes or ctx is
// cancelled. Publish failures are logged and counted, not fatal.
func (p *BarPublisher) Run(ctx context.Context, bars <-chan *models.PriceBar) {
	for {
		select {
		case <-ctx.Done():
			return
		case bar, ok := <-bars:
			if !ok {
				return
			}
			if err := p.redis.PublishToStream(ctx, p.stream, "bar", bar); err != nil {
				barsDropped.Inc()
				logger.Error("Failed to publish bar",
					logger.ErrorField(err),
					logger.String("symbol", bar.Symbol),
				)
				continue
			}
			barsPublished.Inc()
		}
	}
}
