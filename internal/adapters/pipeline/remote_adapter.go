package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/domain/providers"
	apperrors "github.com/zatekoja/Clinicalentitydiscoverydesign/backend/pkg/errors"
)

// RemotePipeline calls an external NLP service over HTTP. The client
// carries no timeout and performs no retries; a slow collaborator slows the
// request and a failed one fails it.
type RemotePipeline struct {
	baseURL    string
	httpClient *http.Client
}

type remoteAnalyzeRequest struct {
	Text string `json:"text"`
}

type remoteAnalyzeResponse struct {
	Spans []providers.PipelineSpan `json:"spans"`
}

// NewRemotePipeline builds a client for the NLP service at baseURL.
func NewRemotePipeline(baseURL string) *RemotePipeline {
	return &RemotePipeline{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// Analyze posts the note text to the remote service and decodes the labeled
// spans. The remote negation flag, when present, survives the round trip.
func (p *RemotePipeline) Analyze(ctx context.Context, text string) ([]providers.PipelineSpan, error) {
	payload, err := json.Marshal(remoteAnalyzeRequest{Text: text})
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode pipeline request", err)
	}

	endpoint := fmt.Sprintf("%s/analyze", p.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build pipeline request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalError("pipeline request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.NewExternalError(fmt.Sprintf("pipeline returned status %d", resp.StatusCode), nil)
	}

	var out remoteAnalyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, apperrors.NewExternalError("failed to decode pipeline response", err)
	}
	if out.Spans == nil {
		return []providers.PipelineSpan{}, nil
	}
	return out.Spans, nil
}
