//go:build integration

package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/adapters/pipeline"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/api/handlers"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/api/routes"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/application/services"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/domain/providers"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/infrastructure/clients/redis"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/infrastructure/observability"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/rules"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/pkg/config"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func maybeTestRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	cfg := &config.RedisConfig{
		Host:     getEnv("TEST_REDIS_HOST", "localhost"),
		Port:     getEnvAsInt("TEST_REDIS_PORT", 6379),
		Password: getEnv("TEST_REDIS_PASSWORD", ""),
		DB:       getEnvAsInt("TEST_REDIS_DB", 0),
	}

	client, err := redis.NewClient(context.Background(), cfg)
	if err != nil {
		t.Logf("Redis unavailable: %v", err)
		return nil
	}
	return client
}

// newAnalysisService builds the full analysis stack on the embedded default
// rule tables and the built-in target matcher. No external services needed.
func newAnalysisService(t *testing.T) *services.AnalysisService {
	t.Helper()

	ruleSet, err := rules.Load("")
	require.NoError(t, err, "Failed to load default rule tables")

	clinicalPipeline, err := pipeline.New(pipeline.Config{Provider: pipeline.ProviderTarget, Rules: ruleSet})
	require.NoError(t, err, "Failed to build target pipeline")

	detector := services.NewContextDetector(ruleSet.Cues)
	labExtractor, err := services.NewLabExtractor(ruleSet.LabRules, detector)
	require.NoError(t, err, "Failed to compile lab rules")

	normalizer := services.NewEntityNormalizer(services.NewCodeMapper(ruleSet.CodeMap), detector)
	return services.NewAnalysisService(clinicalPipeline, normalizer, labExtractor)
}

// newTestServer serves the full middleware-wrapped router over httptest.
func newTestServer(t *testing.T, cache providers.CacheProvider, ratePerMinute int) *httptest.Server {
	t.Helper()

	metrics, err := observability.InitMetrics()
	require.NoError(t, err, "Failed to initialize metrics")

	handler := handlers.NewAnalyzeHandler(newAnalysisService(t), cache, ratePerMinute)
	router := routes.NewRouter(handler, metrics)

	server := httptest.NewServer(router.SetupRoutes())
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()

	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err, "POST %s failed", url)
	return resp
}
