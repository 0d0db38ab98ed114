package services

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/domain/entities"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/domain/providers"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/Clinicalentitydiscoverydesign/backend/pkg/errors"
)

var (
	analysisMetricsOnce   sync.Once
	pipelineDurationHist  metric.Float64Histogram
	analysisEntityCounter metric.Int64Counter
)

// AnalysisService runs the full post-processing flow for one clinical note:
// pipeline recognition, normalization, lab extraction, then merge/dedup.
// It holds no per-request state and caches nothing, so the same text always
// produces the same entities.
type AnalysisService struct {
	pipeline   providers.ClinicalPipeline
	normalizer *EntityNormalizer
	labs       *LabExtractor
}

// NewAnalysisService wires the analysis flow. The pipeline is injected so
// callers choose between the built-in matcher, a local model, or a remote
// service.
func NewAnalysisService(pipeline providers.ClinicalPipeline, normalizer *EntityNormalizer, labs *LabExtractor) *AnalysisService {
	return &AnalysisService{
		pipeline:   pipeline,
		normalizer: normalizer,
		labs:       labs,
	}
}

// Analyze extracts unified entities from the given note text. A pipeline
// failure is returned as-is (wrapped, not retried); there is no partial
// result. The returned slice is never nil.
func (s *AnalysisService) Analyze(ctx context.Context, text string) ([]entities.Entity, error) {
	ctx, span := observability.StartSpan(ctx, "AnalysisService.Analyze")
	defer span.End()

	pipelineStart := time.Now()
	spans, err := s.pipeline.Analyze(ctx, text)
	if err != nil {
		observability.RecordError(span, err)
		return nil, apperrors.NewExternalError("clinical pipeline analyze failed", err)
	}
	recordPipelineDuration(ctx, time.Since(pipelineStart))

	nlpEntities := s.normalizer.Normalize(spans, text)
	labEntities := s.labs.Extract(text)
	merged := MergeEntities(nlpEntities, labEntities)

	observability.SetSpanAttributes(span,
		attribute.Int("analysis.pipeline_spans", len(spans)),
		attribute.Int("analysis.entities", len(merged)),
	)
	recordEntityCount(ctx, len(merged))

	return merged, nil
}

func initAnalysisMetrics() {
	meter := otel.Meter("github.com/zatekoja/Clinicalentitydiscoverydesign/backend/analysis")
	if hist, err := meter.Float64Histogram(
		"pipeline.analyze.duration",
		metric.WithDescription("Clinical pipeline call duration in milliseconds"),
		metric.WithUnit("ms"),
	); err == nil {
		pipelineDurationHist = hist
	}
	if counter, err := meter.Int64Counter(
		"analysis.entity.count",
		metric.WithDescription("Count of entities produced by analysis"),
	); err == nil {
		analysisEntityCounter = counter
	}
}

func recordPipelineDuration(ctx context.Context, d time.Duration) {
	analysisMetricsOnce.Do(initAnalysisMetrics)
	if pipelineDurationHist == nil {
		return
	}
	pipelineDurationHist.Record(ctx, float64(d.Milliseconds()))
}

func recordEntityCount(ctx context.Context, count int) {
	analysisMetricsOnce.Do(initAnalysisMetrics)
	if analysisEntityCounter == nil {
		return
	}
	analysisEntityCounter.Add(ctx, int64(count))
}
