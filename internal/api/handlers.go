// Package api exposes the REST surface: indicator snapshots and latest
// signals read from Redis, the active symbol list, and batch signal
// generation over posted history.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"github.com/gorilla/mux"

	"github.com/omarelsayed/signal-engine/internal/models"
	"github.com/omarelsayed/signal-engine/internal/pubsub"
	"github.com/omarelsayed/signal-engine/internal/signal"
	"github.com/omarelsayed/signal-engine/pkg/logger"
)

// Redis key layout shared with the engine service.
const (
	snapshotKeyPrefix = "ind:"
	signalKeyPrefix   = "sig:"
	activeSymbolsKey  = "symbols:active"
)

// Handler serves the REST endpoints.
type Handler struct {
	redis      pubsub.Client
	thresholds signal.Thresholds
}

// NewHandler creates a handler backed by the given Redis client. The
// thresholds feed the batch signal generator so it classifies with the same
// bounds as the streaming engine.
func NewHandler(redis pubsub.Client, thresholds signal.Thresholds) *Handler {
	return &Handler{redis: redis, thresholds: thresholds}
}

// GetIndicators handles GET /api/v1/indicators/{symbol}
func (h *Handler) GetIndicators(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	var snapshot models.IndicatorSnapshot
	err := h.redis.GetJSON(r.Context(), snapshotKeyPrefix+symbol, &snapshot)
	if errors.Is(err, pubsub.ErrNotFound) {
		respondWithError(w, http.StatusNotFound, "No indicator data for symbol")
		return
	}
	if err != nil {
		logger.Error("Failed to read snapshot",
			logger.ErrorField(err),
			logger.String("symbol", symbol),
		)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve indicators")
		return
	}

	respondWithJSON(w, http.StatusOK, snapshot)
}

// GetSignals handles GET /api/v1/signals/{symbol}
func (h *Handler) GetSignals(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	var event models.SignalEvent
	err := h.redis.GetJSON(r.Context(), signalKeyPrefix+symbol, &event)
	if errors.Is(err, pubsub.ErrNotFound) {
		respondWithError(w, http.StatusNotFound, "No signals for symbol")
		return
	}
	if err != nil {
		logger.Error("Failed to read signals",
			logger.ErrorField(err),
			logger.String("symbol", symbol),
		)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve signals")
		return
	}

	respondWithJSON(w, http.StatusOK, event)
}

// ListSymbols handles GET /api/v1/symbols
func (h *Handler) ListSymbols(w http.ResponseWriter, r *http.Request) {
	symbols, err := h.redis.SetMembers(r.Context(), activeSymbolsKey)
	if err != nil {
		logger.Error("Failed to list symbols", logger.ErrorField(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve symbols")
		return
	}
	sort.Strings(symbols)

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"symbols": symbols,
		"count":   len(symbols),
	})
}

// batchRequest is the POST /api/v1/signals/batch payload.
type batchRequest struct {
	History []models.HistoryRecord `json:"history"`
}

// GenerateBatchSignals handles POST /api/v1/signals/batch
func (h *Handler) GenerateBatchSignals(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	signals, err := signal.GenerateAllSignals(req.History, h.thresholds)
	if errors.Is(err, models.ErrInvalidInput) {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		logger.Error("Batch signal generation failed", logger.ErrorField(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to generate signals")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"signals": signals,
		"count":   len(req.History),
	})
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /ready: verifies the Redis connection.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.redis.Ping(r.Context()); err != nil {
		respondWithError(w, http.StatusServiceUnavailable, "Redis unavailable")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Live handles GET /live
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": message,
		"code":  code,
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
