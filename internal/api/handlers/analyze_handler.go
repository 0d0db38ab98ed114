package handlers

import (
	"context"
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/time/rate"

	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/domain/entities"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/domain/providers"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/infrastructure/observability"
)

const analyzeRateWindow = time.Minute

var (
	rateLimitMetricsOnce sync.Once
	rateLimitRejectCount metric.Int64Counter
)

// AnalysisProvider defines the analysis operation used by the handler.
type AnalysisProvider interface {
	Analyze(ctx context.Context, text string) ([]entities.Entity, error)
}

// AnalyzeHandler handles clinical note analysis requests.
type AnalyzeHandler struct {
	service    AnalysisProvider
	cache      providers.CacheProvider
	local      *localRateLimiter
	ratePerMin int
}

// NewAnalyzeHandler creates a new analyze handler. cache may be nil; rate
// limit state then lives in-process instead of being shared across
// replicas. ratePerMinute <= 0 disables rate limiting.
func NewAnalyzeHandler(service AnalysisProvider, cache providers.CacheProvider, ratePerMinute int) *AnalyzeHandler {
	return &AnalyzeHandler{
		service:    service,
		cache:      cache,
		local:      newLocalRateLimiter(ratePerMinute),
		ratePerMin: ratePerMinute,
	}
}

type analyzeRequest struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	Entities []entities.Entity `json:"entities"`
}

// Analyze handles POST /analyze
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var payload analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if payload.Text == "" {
		respondWithError(w, http.StatusBadRequest, "Missing 'text' field")
		return
	}

	if h.ratePerMin > 0 {
		key := "analyze:rate:" + clientIP(r)
		allowed, retryAfter := h.allowRequest(r.Context(), key)
		if !allowed {
			recordRateLimitReject(r.Context())
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			respondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
	}

	result, err := h.service.Analyze(r.Context(), payload.Text)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error().
			Err(err).
			Msg("analysis failed")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if result == nil {
		result = []entities.Entity{}
	}

	respondWithJSON(w, http.StatusOK, analyzeResponse{Entities: result})
}

func (h *AnalyzeHandler) allowRequest(ctx context.Context, key string) (bool, time.Duration) {
	if h.cache == nil {
		return h.local.allow(key)
	}

	state := rateLimitState{}
	if data, err := h.cache.Get(ctx, key); err == nil {
		_ = json.Unmarshal(data, &state)
	}

	if state.Count >= h.ratePerMin {
		return false, analyzeRateWindow
	}

	state.Count++
	data, _ := json.Marshal(state)
	_ = h.cache.Set(ctx, key, data, int(analyzeRateWindow.Seconds()))
	return true, analyzeRateWindow
}

type rateLimitState struct {
	Count int `json:"count"`
}

// localRateLimiter keeps a token bucket per client for single-replica
// deployments without Redis.
type localRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	perMin   int
}

func newLocalRateLimiter(perMinute int) *localRateLimiter {
	return &localRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		perMin:   perMinute,
	}
}

func (l *localRateLimiter) allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(analyzeRateWindow/time.Duration(l.perMin)), l.perMin)
		l.limiters[key] = limiter
	}
	l.mu.Unlock()

	reservation := limiter.Reserve()
	if !reservation.OK() {
		return false, analyzeRateWindow
	}
	delay := reservation.Delay()
	if delay == 0 {
		return true, 0
	}

	// Not allowed yet; give the tokens back and tell the client when to retry.
	reservation.Cancel()
	return false, delay
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}

func initRateLimitRejectCounter() {
	meter := otel.Meter("github.com/zatekoja/Clinicalentitydiscoverydesign/backend/handlers")
	counter, err := meter.Int64Counter(
		"ratelimit.reject.count",
		metric.WithDescription("Number of requests rejected by rate limiting"),
	)
	if err == nil {
		rateLimitRejectCount = counter
	}
}

func recordRateLimitReject(ctx context.Context) {
	rateLimitMetricsOnce.Do(initRateLimitRejectCounter)
	if rateLimitRejectCount == nil {
		return
	}
	rateLimitRejectCount.Add(ctx, 1)
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}
