package providers

import "context"

// PipelineSpan is a single labeled mention produced by a clinical NLP
// pipeline. Start and End are character offsets into the analyzed text.
// Negated is optional pipeline-side context: nil means the pipeline does
// not classify negation and the caller falls back to lexical detection.
type PipelineSpan struct {
	Text    string `json:"text"`
	Label   string `json:"label"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Negated *bool  `json:"negated,omitempty"`
}

// ClinicalPipeline recognizes clinical concepts in free text and returns
// labeled spans. Implementations must be safe for concurrent use.
type ClinicalPipeline interface {
	Analyze(ctx context.Context, text string) ([]PipelineSpan, error)
}
