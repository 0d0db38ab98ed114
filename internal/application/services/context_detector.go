package services

import (
	"strings"

	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/domain/entities"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/rules"
)

const (
	// assertionWindowSize is how far back (in characters) negation cues are
	// searched before a mention.
	assertionWindowSize = 60

	// temporalityWindowSize is how far back temporality cues are searched.
	temporalityWindowSize = 80
)

// ContextDetector classifies assertion and temporality for a mention from
// lexical cues in the text window preceding it. The windows are fixed-size
// and do not respect sentence boundaries; a cue in a previous sentence that
// falls inside the window still counts.
type ContextDetector struct {
	negationCues     []string
	historicalCues   []string
	hypotheticalCues []string
}

// NewContextDetector creates a detector from the loaded cue lists.
func NewContextDetector(cues rules.ContextCues) *ContextDetector {
	return &ContextDetector{
		negationCues:     cues.Negation,
		historicalCues:   cues.Historical,
		hypotheticalCues: cues.Hypothetical,
	}
}

// DetectAssertion returns negated when any negation cue occurs in the
// window preceding start, affirmed otherwise.
func (d *ContextDetector) DetectAssertion(text string, start int) entities.Assertion {
	window := precedingWindow(text, start, assertionWindowSize)
	for _, cue := range d.negationCues {
		if strings.Contains(window, cue) {
			return entities.AssertionNegated
		}
	}
	return entities.AssertionAffirmed
}

// DetectTemporality returns historical or hypothetical when a matching cue
// occurs in the window preceding start, current otherwise. Historical cues
// take precedence over hypothetical ones.
func (d *ContextDetector) DetectTemporality(text string, start int) entities.Temporality {
	window := precedingWindow(text, start, temporalityWindowSize)
	for _, cue := range d.historicalCues {
		if strings.Contains(window, cue) {
			return entities.TemporalityHistorical
		}
	}
	for _, cue := range d.hypotheticalCues {
		if strings.Contains(window, cue) {
			return entities.TemporalityHypothetical
		}
	}
	return entities.TemporalityCurrent
}

// precedingWindow returns the lower-cased text slice of at most size
// characters ending at start, clamped to the document bounds.
func precedingWindow(text string, start, size int) string {
	if start > len(text) {
		start = len(text)
	}
	if start < 0 {
		start = 0
	}
	from := start - size
	if from < 0 {
		from = 0
	}
	return strings.ToLower(text[from:start])
}
