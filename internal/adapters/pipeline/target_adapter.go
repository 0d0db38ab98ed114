package pipeline

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/domain/providers"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/rules"
	apperrors "github.com/zatekoja/Clinicalentitydiscoverydesign/backend/pkg/errors"
)

// TargetMatcher is the built-in pipeline: a dictionary matcher over the
// configured target phrases. Matching is case-insensitive and bounded at
// word boundaries, so "cough" does not fire inside "coughing". Overlapping
// matches resolve in favor of the longer span.
type TargetMatcher struct {
	patterns []targetPattern
}

type targetPattern struct {
	re    *regexp.Regexp
	label string
}

// NewTargetMatcher compiles one pattern per target phrase. Spaces inside a
// phrase match any whitespace run, so line-wrapped notes still match.
func NewTargetMatcher(targetRules []rules.TargetRule) (*TargetMatcher, error) {
	patterns := make([]targetPattern, 0, len(targetRules))
	for _, rule := range targetRules {
		expr := `(?i)\b` + strings.ReplaceAll(regexp.QuoteMeta(rule.Phrase), " ", `\s+`) + `\b`
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, apperrors.NewInternalError("invalid target phrase "+rule.Phrase, err)
		}
		patterns = append(patterns, targetPattern{re: re, label: rule.Label})
	}
	return &TargetMatcher{patterns: patterns}, nil
}

// Analyze returns non-overlapping labeled spans ordered by position. It
// never fails and carries no negation flag; assertion is left to the
// caller's lexical detection.
func (m *TargetMatcher) Analyze(ctx context.Context, text string) ([]providers.PipelineSpan, error) {
	var candidates []providers.PipelineSpan
	for _, pattern := range m.patterns {
		for _, loc := range pattern.re.FindAllStringIndex(text, -1) {
			candidates = append(candidates, providers.PipelineSpan{
				Text:  text[loc[0]:loc[1]],
				Label: pattern.label,
				Start: loc[0],
				End:   loc[1],
			})
		}
	}

	// Longer span wins on overlap; earlier rule wins on exact ties.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Start != candidates[j].Start {
			return candidates[i].Start < candidates[j].Start
		}
		return candidates[i].End > candidates[j].End
	})

	spans := make([]providers.PipelineSpan, 0, len(candidates))
	lastEnd := 0
	for _, candidate := range candidates {
		if candidate.Start < lastEnd {
			continue
		}
		spans = append(spans, candidate)
		lastEnd = candidate.End
	}
	return spans, nil
}
