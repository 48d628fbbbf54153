package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/farmsight/engine/internal/catalog"
	"github.com/farmsight/engine/internal/engine"
	"github.com/farmsight/engine/internal/logger"
	"github.com/farmsight/engine/internal/types"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

var webLogger = logger.GetForComponent("web_server")

// Server exposes the farming engine as a JSON API consumed by the dashboard
// frontend.
type Server struct {
	router    *mux.Router
	port      string
	catalog   *catalog.Service
	params    types.EngineParameters
	estimator *engine.RewardEstimator
}

// NewServer creates a new API server instance.
func NewServer(port string, catalogService *catalog.Service, params types.EngineParameters, estimator *engine.RewardEstimator) *Server {
	if port == "" {
		port = "8080"
	}

	server := &Server{
		router:    mux.NewRouter(),
		port:      port,
		catalog:   catalogService,
		params:    params,
		estimator: estimator,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health endpoint (direct route)
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	// API endpoints
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/protocols", s.handleGetProtocols).Methods("GET")
	api.HandleFunc("/estimates", s.handleGetEstimates).Methods("GET")
	api.HandleFunc("/predictions", s.handleGetPredictions).Methods("GET")
	api.HandleFunc("/strategies", s.handleGetStrategies).Methods("GET")
	api.HandleFunc("/sequence", s.handleOptimizeSequence).Methods("POST")
	api.HandleFunc("/parameters", s.handleGetParameters).Methods("GET")
	api.HandleFunc("/wallets/{address}/coverage", s.handleGetCoverage).Methods("GET")
	api.HandleFunc("/wallets/{address}/gaps", s.handleGetGaps).Methods("GET")
	api.HandleFunc("/wallets/{address}/activity", s.handlePutActivity).Methods("PUT")

	s.router.Use(s.corsMiddleware)
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.loggingMiddleware)
}

// Router exposes the configured router. Used by tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the API server.
func (s *Server) Start() error {
	webLogger.Info().Str("port", s.port).Msg("Starting API server")

	server := &http.Server{
		Addr:         ":" + s.port,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server.ListenAndServe()
}

// writeJSONResponse writes a JSON response
func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		webLogger.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeErrorResponse writes an error response
func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	response := map[string]interface{}{
		"error":     true,
		"message":   message,
		"timestamp": time.Now().UTC(),
	}

	s.writeJSONResponse(w, statusCode, response)
}

// corsMiddleware adds CORS headers for the dashboard frontend
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requestIDMiddleware tags every request with an ID for log correlation
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		duration := time.Since(start)

		webLogger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Str("request_id", wrapper.Header().Get("X-Request-ID")).
			Int("status", wrapper.statusCode).
			Dur("duration", duration).
			Msg("HTTP request")
	})
}

// responseWriterWrapper wraps http.ResponseWriter to capture status code
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
