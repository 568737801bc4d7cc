package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/emailid501-ux/optionsense-app/internal/notify"
	"github.com/emailid501-ux/optionsense-app/internal/syncctl"
)

// Server exposes the presentation surface: intent endpoints feeding the sync
// controller, the state feed (pull and websocket push), and operational
// endpoints.
type Server struct {
	controller *syncctl.Controller
	session    *syncctl.Session
	dispatcher *notify.Dispatcher
	feed       *StateFeed
	logger     *zap.Logger
	server     *http.Server
}

// NewServer creates a new presentation HTTP server
func NewServer(controller *syncctl.Controller, session *syncctl.Session, dispatcher *notify.Dispatcher, logger *zap.Logger) *Server {
	s := &Server{
		controller: controller,
		session:    session,
		dispatcher: dispatcher,
		feed:       NewStateFeed(logger),
		logger:     logger,
	}
	session.OnChange(s.feed.Broadcast)
	return s
}

// Start starts the HTTP server on the given address
func (s *Server) Start(addr string) error {
	router := s.createRouter()

	s.server = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting presentation HTTP server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping presentation HTTP server")
	s.feed.Close()
	return s.server.Shutdown(ctx)
}

// createRouter creates and configures the HTTP router
func (s *Server) createRouter() *mux.Router {
	router := mux.NewRouter()

	// State feed
	router.HandleFunc("/state", s.handleState).Methods("GET")
	router.HandleFunc("/state/ws", s.feed.HandleWS).Methods("GET")

	// Presentation intents
	router.HandleFunc("/intents/symbol", s.handleSymbol).Methods("POST")
	router.HandleFunc("/intents/tab", s.handleTab).Methods("POST")
	router.HandleFunc("/intents/filter", s.handleFilter).Methods("POST")
	router.HandleFunc("/intents/search", s.handleSearch).Methods("POST")
	router.HandleFunc("/intents/refresh", s.handleRefresh).Methods("POST")
	router.HandleFunc("/intents/visibility", s.handleVisibility).Methods("POST")

	// Push side channel
	router.HandleFunc("/push", s.handlePush).Methods("POST")

	// Health check
	router.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return router
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeResponse(w, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().UTC(),
	})
}

// parseRequest parses JSON request body
func (s *Server) parseRequest(r *http.Request, v interface{}) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	defer r.Body.Close()

	return json.Unmarshal(body, v)
}

// writeResponse writes JSON response
func (s *Server) writeResponse(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write response", zap.Error(err))
	}
}

// writeErrorResponse writes error response
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	response := map[string]interface{}{
		"success": false,
		"error":   message,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Error("Failed to write error response", zap.Error(err))
	}
}
