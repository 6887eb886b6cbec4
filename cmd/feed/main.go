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
	"github.com/omarelsayed/signal-engine/internal/feed"
	"github.com/omarelsayed/signal-engine/internal/pubsub"
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

	if len(cfg.Feed.Symbols) == 0 {
		logger.Fatal("No symbols configured, set FEED_SYMBOLS")
	}

	logger.Info("Starting feed service",
		logger.String("provider", cfg.Feed.Provider),
		logger.String("stream", cfg.Feed.StreamName),
		logger.Any("symbols", cfg.Feed.Symbols),
	)

	redisClient, err := pubsub.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to initialize Redis client", logger.ErrorField(err))
	}
	defer redisClient.Close()

	provider, err := feed.NewProvider(cfg.Feed)
	if err != nil {
		logger.Fatal("Failed to create feed provider", logger.ErrorField(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := provider.Connect(ctx); err != nil {
		logger.Fatal("Failed to connect feed provider", logger.ErrorField(err))
	}
	defer provider.Close()

	bars, err := provider.Bars(ctx, cfg.Feed.Symbols)
	if err != nil {
		logger.Fatal("Failed to subscribe to bars", logger.ErrorField(err))
	}

	publisher := feed.NewBarPublisher(redisClient, cfg.Feed.StreamName)
	go publisher.Run(ctx, bars)

	logger.Info("Feed service started")

	healthServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Feed.HealthCheckPort),
		Handler:      healthRouter(provider, redisClient),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Starting health and metrics server",
			logger.Int("port", cfg.Feed.HealthCheckPort),
		)
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Health and metrics server failed", logger.ErrorField(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	logger.Info("Shutting down feed service")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Health server shutdown failed", logger.ErrorField(err))
	}

	logger.Info("Feed service stopped")
}

func healthRouter(provider feed.Provider, redisClient pubsub.Client) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		state := "UP"
		if !provider.IsConnected() {
			status = http.StatusServiceUnavailable
			state = "DOWN"
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":    state,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"provider":  provider.Name(),
		})
	}).Methods(http.MethodGet)

	router.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := redisClient.Ping(r.Context()); err != nil || !provider.IsConnected() {
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
