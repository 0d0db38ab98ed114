package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/domain/providers"
	apperrors "github.com/zatekoja/Clinicalentitydiscoverydesign/backend/pkg/errors"
)

const modelDir = "./models"

// HugotPipeline runs token-classification NER against a local ONNX model.
// The underlying session is not documented as safe for concurrent
// inference, so Analyze serializes calls.
type HugotPipeline struct {
	mu      sync.Mutex
	session *hugot.Session
	ner     *pipelines.TokenClassificationPipeline
}

// NewHugotPipeline downloads the model on first use and builds the NER
// pipeline. modelName is either a HuggingFace model id or a path to an
// already-prepared model directory.
func NewHugotPipeline(modelName string) (*HugotPipeline, error) {
	modelPath, err := prepareModel(modelName)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to prepare NER model", err)
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to create hugot session", err)
	}

	config := hugot.TokenClassificationConfig{
		ModelPath: modelPath,
		Name:      "clinical-ner",
		Options: []hugot.TokenClassificationOption{
			pipelines.WithSimpleAggregation(),
			pipelines.WithIgnoreLabels([]string{"O"}),
		},
	}
	ner, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, apperrors.NewInternalError("failed to create NER pipeline", fmt.Errorf("%w (cleanup error: %v)", err, destroyErr))
		}
		return nil, apperrors.NewInternalError("failed to create NER pipeline", err)
	}

	return &HugotPipeline{session: session, ner: ner}, nil
}

// prepareModel downloads the model if it is not already present and returns
// the local model path.
func prepareModel(modelName string) (string, error) {
	if info, err := os.Stat(modelName); err == nil && info.IsDir() {
		return modelName, nil
	}

	modelPath := filepath.Join(modelDir, strings.ReplaceAll(modelName, "/", "_"))
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		if err := os.MkdirAll(modelDir, 0755); err != nil {
			return "", fmt.Errorf("failed to create model directory: %w", err)
		}
		downloadOptions := hugot.NewDownloadOptions()
		downloadOptions.OnnxFilePath = "model.onnx"
		downloadedPath, err := hugot.DownloadModel(modelName, modelDir, downloadOptions)
		if err != nil {
			return "", fmt.Errorf("failed to download model %s: %w", modelName, err)
		}
		modelPath = downloadedPath
	}

	return modelPath, nil
}

// Analyze runs NER and converts aggregated token groups to pipeline spans.
// Model offsets are trusted when they land inside the text; otherwise the
// aggregated word is kept and offsets are passed through as reported.
func (p *HugotPipeline) Analyze(ctx context.Context, text string) ([]providers.PipelineSpan, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	result, err := p.ner.RunPipeline([]string{text})
	if err != nil {
		return nil, fmt.Errorf("failed to run NER: %w", err)
	}
	if len(result.Entities) == 0 {
		return []providers.PipelineSpan{}, nil
	}

	spans := make([]providers.PipelineSpan, 0, len(result.Entities[0]))
	for _, entity := range result.Entities[0] {
		start, end := int(entity.Start), int(entity.End)
		spanText := strings.TrimSpace(entity.Word)
		if start >= 0 && end > start && end <= len(text) {
			spanText = text[start:end]
		}
		spans = append(spans, providers.PipelineSpan{
			Text:  spanText,
			Label: normalizeLabel(entity.Entity),
			Start: start,
			End:   end,
		})
	}
	return spans, nil
}

// Close releases the ONNX session.
func (p *HugotPipeline) Close() error {
	return p.session.Destroy()
}

// normalizeLabel strips BIO prefixes and upper-cases the model label so
// generic NER models and clinically fine-tuned ones land in the same label
// space. Labels with no mapping become "other" downstream.
func normalizeLabel(label string) string {
	label = strings.TrimPrefix(label, "B-")
	label = strings.TrimPrefix(label, "I-")
	return strings.ToUpper(strings.ReplaceAll(label, " ", "_"))
}
