package evaluation

import (
	"context"
	"time"

	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/domain/entities"
)

// AnalysisProvider is the analysis operation under evaluation.
type AnalysisProvider interface {
	Analyze(ctx context.Context, text string) ([]entities.Entity, error)
}

// Runner runs evaluation across a set of golden notes.
type Runner struct {
	analysis AnalysisProvider
}

func NewRunner(svc AnalysisProvider) *Runner {
	return &Runner{analysis: svc}
}

func (r *Runner) Run(ctx context.Context, notes []GoldenNote) (*EvalSummary, error) {
	summary := &EvalSummary{
		TotalNotes: len(notes),
		ByType:     make(map[string]*TypeSummary),
	}

	for _, note := range notes {
		start := time.Now()
		extracted, err := r.analysis.Analyze(ctx, note.Text)
		duration := time.Since(start)

		if err != nil {
			continue
		}

		result := scoreNote(note, extracted, duration)
		r.updateSummary(summary, result)
		r.updateTypeSummary(summary, note, extracted)
	}

	r.finalizeSummary(summary)
	return summary, nil
}

// scoreNote compares one note's extractions against its golden labels.
func scoreNote(note GoldenNote, extracted []entities.Entity, latency time.Duration) EvalResult {
	expectedKeys := make([]string, 0, len(note.Expected))
	expectedAssertions := make(map[string]string, len(note.Expected))
	expectedTemporalities := make(map[string]string, len(note.Expected))
	for _, want := range note.Expected {
		key := entityKey(want.Text, want.Type)
		expectedKeys = append(expectedKeys, key)
		expectedAssertions[key] = want.Assertion
		expectedTemporalities[key] = want.Temporality
	}

	extractedKeys := make([]string, 0, len(extracted))
	extractedAssertions := make(map[string]string, len(extracted))
	extractedTemporalities := make(map[string]string, len(extracted))
	for _, got := range extracted {
		key := entityKey(got.Text, string(got.Type))
		extractedKeys = append(extractedKeys, key)
		extractedAssertions[key] = string(got.Assertion)
		extractedTemporalities[key] = string(got.Temporality)
	}

	precision := Precision(expectedKeys, extractedKeys)
	recall := Recall(expectedKeys, extractedKeys)

	return EvalResult{
		NoteID:              note.ID,
		Precision:           precision,
		Recall:              recall,
		F1:                  F1(precision, recall),
		AssertionAccuracy:   LabelAccuracy(expectedAssertions, extractedAssertions),
		TemporalityAccuracy: LabelAccuracy(expectedTemporalities, extractedTemporalities),
		ExtractedCount:      len(extracted),
		Latency:             latency,
	}
}

func (r *Runner) updateSummary(s *EvalSummary, res EvalResult) {
	s.AvgPrecision += res.Precision
	s.AvgRecall += res.Recall
	s.AvgF1 += res.F1
	s.AvgAssertionAccuracy += res.AssertionAccuracy
	s.AvgTemporalityAccuracy += res.TemporalityAccuracy
	s.AvgLatency += res.Latency
	if res.ExtractedCount > 0 {
		s.NotesWithEntities++
	}
}

func (r *Runner) updateTypeSummary(s *EvalSummary, note GoldenNote, extracted []entities.Entity) {
	extractedSet := make(map[string]struct{}, len(extracted))
	for _, got := range extracted {
		extractedSet[entityKey(got.Text, string(got.Type))] = struct{}{}
	}

	for _, want := range note.Expected {
		ts, ok := s.ByType[want.Type]
		if !ok {
			ts = &TypeSummary{}
			s.ByType[want.Type] = ts
		}
		ts.Expected++
		if _, found := extractedSet[entityKey(want.Text, want.Type)]; found {
			ts.Matched++
		}
	}
}

func (r *Runner) finalizeSummary(s *EvalSummary) {
	if s.TotalNotes > 0 {
		n := float64(s.TotalNotes)
		s.AvgPrecision /= n
		s.AvgRecall /= n
		s.AvgF1 /= n
		s.AvgAssertionAccuracy /= n
		s.AvgTemporalityAccuracy /= n
		s.AvgLatency /= time.Duration(s.TotalNotes)
	}

	for _, ts := range s.ByType {
		if ts.Expected > 0 {
			ts.Recall = float64(ts.Matched) / float64(ts.Expected)
		}
	}
}
