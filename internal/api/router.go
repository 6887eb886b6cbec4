package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the full route table with the standard middleware chain.
func NewRouter(handler *Handler, rateLimitRPS int) *mux.Router {
	router := mux.NewRouter()

	chain := ChainMiddleware(
		RecoveryMiddleware(),
		CORSMiddleware(),
		LoggingMiddleware(),
		MetricsMiddleware(),
		RateLimitMiddleware(rateLimitRPS),
	)
	router.Use(mux.MiddlewareFunc(chain))

	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/indicators/{symbol}", handler.GetIndicators).Methods(http.MethodGet)
	v1.HandleFunc("/signals/batch", handler.GenerateBatchSignals).Methods(http.MethodPost)
	v1.HandleFunc("/signals/{symbol}", handler.GetSignals).Methods(http.MethodGet)
	v1.HandleFunc("/symbols", handler.ListSymbols).Methods(http.MethodGet)

	router.HandleFunc("/health", handler.Health).Methods(http.MethodGet)
	router.HandleFunc("/ready", handler.Ready).Methods(http.MethodGet)
	router.HandleFunc("/live", handler.Live).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return router
}
