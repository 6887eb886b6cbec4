package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/omarelsayed/signal-engine/internal/config"
	"github.com/omarelsayed/signal-engine/internal/models"
	"github.com/omarelsayed/signal-engine/internal/pubsub"
	"github.com/omarelsayed/signal-engine/pkg/logger"
)

var (
	barsProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_bars_processed_total",
			Help: "Total number of bars successfully processed",
		},
	)

	barsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_bars_failed_total",
			Help: "Total number of bars that failed to deserialize or process",
		},
	)
)

// BarProcessor consumes deserialized bars. Engine implements it.
type BarProcessor interface {
	ProcessBar(bar *models.PriceBar) error
}

// BarConsumer reads finalized bars from a Redis stream through a consumer
// group, batches them, and feeds them to a processor. Entries are only
// acknowledged after the processor accepts them.
type BarConsumer struct {
	cfg          config.EngineConfig
	consumerName string
	redis        pubsub.Client
	processor    BarProcessor

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	running bool
}

// NewBarConsumer creates a consumer bound to the configured stream.
func NewBarConsumer(redis pubsub.Client, cfg config.EngineConfig, consumerName string, processor BarProcessor) *BarConsumer {
	ctx, cancel := context.WithCancel(context.Background())
	return &BarConsumer{
		cfg:          cfg,
		consumerName: consumerName,
		redis:        redis,
		processor:    processor,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start begins consuming in a background goroutine.
func (c *BarConsumer) Start() error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("consumer is already running")
	}
	c.running = true
	c.mu.Unlock()

	logger.Info("Starting bar consumer",
		logger.String("stream", c.cfg.StreamName),
		logger.String("consumer_group", c.cfg.ConsumerGroup),
		logger.String("consumer", c.consumerName),
	)

	c.wg.Add(1)
	go c.consume()
	return nil
}

// Stop cancels the consume loop and waits for it to drain.
func (c *BarConsumer) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	c.mu.Unlock()

	logger.Info("Stopping bar consumer")
	c.cancel()
	c.wg.Wait()
	logger.Info("Bar consumer stopped")
}

func (c *BarConsumer) consume() {
	defer c.wg.Done()

	messageChan, err := c.redis.ConsumeFromStream(c.ctx, c.cfg.StreamName, c.cfg.ConsumerGroup, c.consumerName)
	if err != nil {
		logger.Error("Failed to start consuming from stream",
			logger.ErrorField(err),
			logger.String("stream", c.cfg.StreamName),
		)
		return
	}

	batch := make([]pubsub.StreamMessage, 0, c.cfg.BatchSize)
	ticker := time.NewTicker(c.cfg.AckTimeout)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			if len(batch) > 0 {
				c.processBatch(batch)
			}
			return

		case msg, ok := <-messageChan:
			if !ok {
				logger.Warn("Message channel closed",
					logger.String("stream", c.cfg.StreamName),
				)
				return
			}
			batch = append(batch, msg)
			if len(batch) >= c.cfg.BatchSize {
				c.processBatch(batch)
				batch = batch[:0]
			}

		case <-ticker.C:
			if len(batch) > 0 {
				c.processBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

func (c *BarConsumer) processBatch(messages []pubsub.StreamMessage) {
	processed := make([]string, 0, len(messages))
	failedCount := 0

	for _, msg := range messages {
		bar, err := deserializeBar(msg)
		if err != nil {
			logger.Error("Failed to deserialize bar",
				logger.ErrorField(err),
				logger.String("message_id", msg.ID),
			)
			barsFailed.Inc()
			failedCount++
			continue
		}

		if err := c.processor.ProcessBar(bar); err != nil {
			logger.Error("Failed to process bar",
				logger.ErrorField(err),
				logger.String("symbol", bar.Symbol),
				logger.String("message_id", msg.ID),
			)
			barsFailed.Inc()
			failedCount++
			continue
		}

		processed = append(processed, msg.ID)
		barsProcessed.Inc()
	}

	if len(processed) > 0 {
		c.acknowledge(processed)
	}
	if failedCount > 0 {
		logger.Warn("Some bars failed to process",
			logger.Int("failed_count", failedCount),
			logger.String("stream", c.cfg.StreamName),
		)
	}
}

func (c *BarConsumer) acknowledge(messageIDs []string) {
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.AckTimeout)
	defer cancel()

	for _, id := range messageIDs {
		if err := c.redis.AcknowledgeMessage(ctx, c.cfg.StreamName, c.cfg.ConsumerGroup, id); err != nil {
			logger.Error("Failed to acknowledge message",
				logger.ErrorField(err),
				logger.String("message_id", id),
			)
		}
	}
}

// deserializeBar extracts the JSON bar payload from a stream entry. The
// producer publishes under the "bar" field; any string field is accepted as
// a fallback.
func deserializeBar(msg pubsub.StreamMessage) (*models.PriceBar, error) {
	barJSON, ok := msg.Values["bar"].(string)
	if !ok {
		for _, v := range msg.Values {
			if str, ok := v.(string); ok {
				barJSON = str
				break
			}
		}
		if barJSON == "" {
			return nil, fmt.Errorf("no bar data found in message")
		}
	}

	var bar models.PriceBar
	if err := json.Unmarshal([]byte(barJSON), &bar); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bar: %w", err)
	}
	return &bar, nil
}
