package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/omarelsayed/signal-engine/internal/config"
	"github.com/omarelsayed/signal-engine/internal/engine"
	"github.com/omarelsayed/signal-engine/internal/pubsub"
	sig "github.com/omarelsayed/signal-engine/internal/signal"
	"github.com/omarelsayed/signal-engine/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogLevel, cfg.Environment); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting signal engine service",
		logger.String("stream", cfg.Engine.StreamName),
		logger.String("consumer_group", cfg.Engine.ConsumerGroup),
		logger.Int("health_port", cfg.Engine.HealthCheckPort),
	)

	redisClient, err := pubsub.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to initialize Redis client", logger.ErrorField(err))
	}
	defer redisClient.Close()

	classifier := sig.NewClassifier(
		engine.SignalKeys(cfg.Indicators),
		engine.Thresholds(cfg.Signals),
	)
	eng := engine.NewEngine(engine.BuildFactories(cfg.Indicators), classifier)

	publisher := engine.NewPublisher(redisClient, cfg.Engine.SignalStream, cfg.Engine.SnapshotTTL)
	eng.SetOnUpdate(publisher.Publish)

	consumerName := fmt.Sprintf("engine-%d", os.Getpid())
	consumer := engine.NewBarConsumer(redisClient, cfg.Engine, consumerName, eng)
	if err := consumer.Start(); err != nil {
		logger.Fatal("Failed to start bar consumer", logger.ErrorField(err))
	}
	defer consumer.Stop()

	logger.Info("Signal engine service started")

	healthServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Engine.HealthCheckPort),
		Handler:      healthRouter(eng, redisClient),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Starting health and metrics server",
			logger.Int("port", cfg.Engine.HealthCheckPort),
		)
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Health and metrics server failed", logger.ErrorField(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	logger.Info("Shutting down signal engine service")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Health server shutdown failed", logger.ErrorField(err))
	}

	logger.Info("Signal engine service stopped")
}

func healthRouter(eng *engine.Engine, redisClient pubsub.Client) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":    "UP",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"checks": map[string]interface{}{
				"engine": map[string]interface{}{
					"status":       "ok",
					"symbol_count": eng.SymbolCount(),
				},
			},
		})
	}).Methods(http.MethodGet)

	router.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := redisClient.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("NOT READY"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("READY"))
	}).Methods(http.MethodGet)

	router.HandleFunc("/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("LIVE"))
	}).Methods(http.MethodGet)

	router.Handle("/metrics", promhttp.Handler())

	return router
}
