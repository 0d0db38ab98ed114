package routes

import (
	"net/http"

	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/api/handlers"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/api/middleware"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux            *http.ServeMux
	analyzeHandler *handlers.AnalyzeHandler
	metrics        *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(analyzeHandler *handlers.AnalyzeHandler, metrics *observability.Metrics) *Router {
	return &Router{
		mux:            http.NewServeMux(),
		analyzeHandler: analyzeHandler,
		metrics:        metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			return
		}
	})

	// Analysis endpoint
	r.mux.HandleFunc("POST /analyze", r.analyzeHandler.Analyze)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.Compression(handler)

	// CORS wraps everything so headers are set even on errors
	handler = middleware.CORSMiddleware(handler)

	return handler
}
