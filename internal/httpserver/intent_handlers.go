package httpserver

import (
	"io"
	"net/http"
)

// handleState serves a pull snapshot of the session state feed.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeResponse(w, s.session.Snapshot())
}

// handleSymbol handles the change-symbol intent
func (s *Server) handleSymbol(w http.ResponseWriter, r *http.Request) {
	var req IntentRequest
	if err := s.parseRequest(r, &req); err != nil {
		s.writeErrorResponse(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Symbol == "" {
		s.writeErrorResponse(w, "Missing required field: symbol", http.StatusBadRequest)
		return
	}

	if err := s.controller.ChangeSymbol(req.Symbol); err != nil {
		s.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.writeResponse(w, &IntentResponse{Success: true})
}

// handleTab handles the change-tab intent
func (s *Server) handleTab(w http.ResponseWriter, r *http.Request) {
	var req IntentRequest
	if err := s.parseRequest(r, &req); err != nil {
		s.writeErrorResponse(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Tab == "" {
		s.writeErrorResponse(w, "Missing required field: tab", http.StatusBadRequest)
		return
	}

	s.controller.ChangeTab(req.Tab)
	s.writeResponse(w, &IntentResponse{Success: true})
}

// handleFilter handles the change-filter intent
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	var req IntentRequest
	if err := s.parseRequest(r, &req); err != nil {
		s.writeErrorResponse(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Filter == "" {
		s.writeErrorResponse(w, "Missing required field: filter", http.StatusBadRequest)
		return
	}

	s.controller.ChangeFilter(req.Filter)
	s.writeResponse(w, &IntentResponse{Success: true})
}

// handleSearch handles the debounced search-text intent
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req IntentRequest
	if err := s.parseRequest(r, &req); err != nil {
		s.writeErrorResponse(w, "Invalid request", http.StatusBadRequest)
		return
	}

	s.controller.Search(req.Text, req.Immediate)
	s.writeResponse(w, &IntentResponse{Success: true})
}

// handleRefresh handles the manual-refresh intent
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.controller.ManualRefresh()
	s.writeResponse(w, &IntentResponse{Success: true})
}

// handleVisibility handles the visibility-changed intent
func (s *Server) handleVisibility(w http.ResponseWriter, r *http.Request) {
	var req IntentRequest
	if err := s.parseRequest(r, &req); err != nil {
		s.writeErrorResponse(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Visible == nil {
		s.writeErrorResponse(w, "Missing required field: visible", http.StatusBadRequest)
		return
	}

	s.controller.VisibilityChanged(*req.Visible)
	s.writeResponse(w, &IntentResponse{Success: true})
}

// handlePush accepts a raw push payload and renders its notification.
func (s *Server) handlePush(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeErrorResponse(w, "Invalid request", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := s.dispatcher.HandlePush(payload); err != nil {
		s.writeErrorResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeResponse(w, &IntentResponse{Success: true})
}
