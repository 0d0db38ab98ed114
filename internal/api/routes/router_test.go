package routes_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/api/handlers"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/api/routes"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/domain/entities"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/infrastructure/observability"
)

type noopAnalysis struct{}

func (noopAnalysis) Analyze(ctx context.Context, text string) ([]entities.Entity, error) {
	return []entities.Entity{}, nil
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	metrics, err := observability.InitMetrics()
	assert.NoError(t, err)
	analyzeHandler := handlers.NewAnalyzeHandler(noopAnalysis{}, nil, 0)
	return routes.NewRouter(analyzeHandler, metrics).SetupRoutes()
}

func TestRouter_Health(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	err := json.NewDecoder(w.Body).Decode(&response)
	assert.NoError(t, err)
	assert.Equal(t, "ok", response["status"])
}

func TestRouter_AnalyzeRoute(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest("POST", "/analyze", strings.NewReader(`{"text":"note"}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_AnalyzeRejectsGet(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest("GET", "/analyze", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRouter_UnknownRoute(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest("GET", "/nope", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_PropagatesRequestID(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest("POST", "/analyze", strings.NewReader(`{"text":"note"}`))
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
}
