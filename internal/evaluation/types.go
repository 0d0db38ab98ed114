package evaluation

import "time"

// GoldenEntity is one expected extraction from a golden note.
type GoldenEntity struct {
	Text        string `json:"text"`
	Type        string `json:"type"`
	Assertion   string `json:"assertion"`
	Temporality string `json:"temporality"`
	Code        string `json:"code,omitempty"`
}

// GoldenNote represents a labeled clinical note with expected extractions.
type GoldenNote struct {
	ID         string         `json:"id"`
	Text       string         `json:"text"`
	Expected   []GoldenEntity `json:"expected"`
	Difficulty string         `json:"difficulty"` // easy, medium, hard
}

// EvalResult holds the evaluation outcome for a single note.
type EvalResult struct {
	NoteID              string
	Precision           float64
	Recall              float64
	F1                  float64
	AssertionAccuracy   float64
	TemporalityAccuracy float64
	ExtractedCount      int
	Latency             time.Duration
}

// EvalSummary holds aggregate metrics across all golden notes.
type EvalSummary struct {
	TotalNotes             int
	AvgPrecision           float64
	AvgRecall              float64
	AvgF1                  float64
	AvgAssertionAccuracy   float64
	AvgTemporalityAccuracy float64
	AvgLatency             time.Duration
	NotesWithEntities      int // notes that produced at least 1 entity
	ByType                 map[string]*TypeSummary
}

// TypeSummary holds recall grouped by entity type.
type TypeSummary struct {
	Expected int
	Matched  int
	Recall   float64
}
