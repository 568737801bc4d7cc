package httpserver

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsServer exposes Prometheus metrics on a dedicated port so the
// scrape endpoint stays reachable even when the dashboard server is busy.
type MetricsServer struct {
	logger *zap.Logger
	server *http.Server
}

// NewMetricsServer creates a metrics-only HTTP server
func NewMetricsServer(logger *zap.Logger) *MetricsServer {
	return &MetricsServer{logger: logger}
}

// Start starts the metrics server on the given address
func (m *MetricsServer) Start(addr string) error {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	m.server = &http.Server{
		Addr:    addr,
		Handler: router,
	}

	m.logger.Info("Starting metrics server", zap.String("addr", addr))
	return m.server.ListenAndServe()
}

// Stop gracefully shuts down the metrics server
func (m *MetricsServer) Stop(ctx context.Context) error {
	if m.server == nil {
		return nil
	}
	return m.server.Shutdown(ctx)
}
