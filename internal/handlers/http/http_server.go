package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"salestat/internal/domain/service"
	"salestat/internal/domain/useCases"
	"salestat/internal/handlers/websocket"
)

// Server represents an HTTP server with all routes configured
type Server struct {
	reportService useCases.ReportService
	broadcaster   *websocket.WebSocketBroadcaster
	notifier      useCases.Notifier
	mux           *http.ServeMux
	server        *http.Server
}

// NewServer creates a new HTTP server with configured routes. The notifier
// may be nil when no webhook is configured.
func NewServer(addr string, reportService useCases.ReportService, broadcaster *websocket.WebSocketBroadcaster, notifier useCases.Notifier) *Server {
	mux := http.NewServeMux()

	server := &Server{
		reportService: reportService,
		broadcaster:   broadcaster,
		notifier:      notifier,
		mux:           mux,
		server: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	// Register routes
	server.registerRoutes()

	return server
}

// registerRoutes configures all HTTP routes
func (s *Server) registerRoutes() {
	// Latest report, display-ready
	s.mux.HandleFunc("/report", s.handleReport)

	// Push the latest summary to the chat webhook
	s.mux.HandleFunc("/notify", s.handleNotify)

	// Health check endpoint
	s.mux.HandleFunc("/health", s.handleHealth)

	// WebSocket endpoint
	s.mux.HandleFunc("/ws", s.broadcaster.Handler())
}

// handleReport serves the latest formatted report
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.reportService.LatestReport(r.Context())
	if err != nil {
		http.Error(w, "failed to get report", http.StatusInternalServerError)
		return
	}
	if report == nil {
		http.Error(w, "no report available yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(service.Format(report)); err != nil {
		log.Printf("failed to encode report: %v", err)
	}
}

// handleNotify pushes a summary of the latest report to the chat webhook
func (s *Server) handleNotify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.notifier == nil {
		http.Error(w, "no webhook configured", http.StatusServiceUnavailable)
		return
	}

	report, err := s.reportService.LatestReport(r.Context())
	if err != nil {
		http.Error(w, "failed to get report", http.StatusInternalServerError)
		return
	}
	if report == nil {
		http.Error(w, "no report available yet", http.StatusNotFound)
		return
	}

	if err := s.notifier.SendSummary(r.Context(), service.Summary(report)); err != nil {
		log.Printf("failed to send summary: %v", err)
		http.Error(w, "failed to send summary", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "sent"})
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
