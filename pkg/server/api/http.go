// Package api provides the HTTP API endpoints for the barcode lookup server.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/ksaccary/barcode-app/pkg/logging"
	"github.com/ksaccary/barcode-app/pkg/lookup"
	"github.com/ksaccary/barcode-app/pkg/metrics"
)

// Server represents the HTTP API server.
type Server struct {
	addr       string
	aggregator *lookup.Aggregator
	limiter    *rate.Limiter
	server     *http.Server
	logger     *logging.Logger
}

// errorResponse is the JSON body for non-success statuses.
type errorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Barcode   string `json:"barcode,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// lookupResponse wraps a Product with per-request metadata.
type lookupResponse struct {
	*lookup.Product
	RequestTime string `json:"request_time"`
	RequestID   string `json:"request_id"`
}

// NewServer creates a new HTTP API server. limiter may be nil to disable
// client-facing rate limiting.
func NewServer(addr string, aggregator *lookup.Aggregator, limiter *rate.Limiter, logger *logging.Logger) *Server {
	return &Server{
		addr:       addr,
		aggregator: aggregator,
		limiter:    limiter,
		logger:     logger,
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/lookup/", s.handleLookup)

	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("Starting HTTP server", "addr", s.addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Stop gracefully stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		s.logger.Info("Stopping HTTP server")
		return s.server.Shutdown(ctx)
	}
	return nil
}

// handleHealth handles the /health endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()
	defer func() {
		metrics.RecordHTTPRequest("/health", "200", time.Since(start))
	}()

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleLookup handles GET /lookup/{barcode}?currency=CAD.
func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "200"
	defer func() {
		metrics.RecordHTTPRequest("/lookup", status, time.Since(start))
	}()

	requestID := uuid.NewString()
	barcode := strings.TrimPrefix(r.URL.Path, "/lookup/")
	currency := r.URL.Query().Get("currency")

	if s.limiter != nil && !s.limiter.Allow() {
		status = "429"
		s.sendError(w, http.StatusTooManyRequests, errorResponse{
			Error:     "Rate limit exceeded",
			Message:   "Please wait before making another request",
			RequestID: requestID,
		})
		return
	}

	product, err := s.aggregator.Lookup(r.Context(), barcode, currency)
	switch {
	case err == nil:
	case errors.Is(err, lookup.ErrInvalidBarcode):
		status = "400"
		s.sendError(w, http.StatusBadRequest, errorResponse{
			Error:     "Invalid barcode",
			Message:   "Barcode must be a non-empty product code",
			Barcode:   barcode,
			RequestID: requestID,
		})
		return
	case errors.Is(err, lookup.ErrNotFound):
		status = "404"
		s.sendError(w, http.StatusNotFound, errorResponse{
			Error:     "Product not found",
			Message:   "Product not found in any database",
			Barcode:   barcode,
			RequestID: requestID,
		})
		return
	default:
		status = "500"
		s.logger.Error("Lookup failed", "barcode", barcode, "request_id", requestID, "error", err.Error())
		s.sendError(w, http.StatusInternalServerError, errorResponse{
			Error:     "Server error",
			Message:   "Unexpected error during lookup",
			Barcode:   barcode,
			RequestID: requestID,
		})
		return
	}

	s.sendJSON(w, http.StatusOK, lookupResponse{
		Product:     product,
		RequestTime: time.Now().UTC().Format(time.RFC3339),
		RequestID:   requestID,
	})
}

func (s *Server) sendJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("Failed to encode response", "error", err.Error())
	}
}

func (s *Server) sendError(w http.ResponseWriter, code int, body errorResponse) {
	s.sendJSON(w, code, body)
}
