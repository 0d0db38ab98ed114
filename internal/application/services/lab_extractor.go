package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/domain/entities"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/rules"
	apperrors "github.com/zatekoja/Clinicalentitydiscoverydesign/backend/pkg/errors"
)

// loincSystem is the coding system attached to every lab/vital entity.
const loincSystem = "http://loinc.org"

// LabExtractor finds lab and vital-sign values in note text with an ordered
// list of pattern rules. It runs independently of the NLP pipeline, so a
// value like "HR: 110" is extracted even when the pipeline misses it.
type LabExtractor struct {
	rules    []compiledLabRule
	detector *ContextDetector
}

type compiledLabRule struct {
	re      *regexp.Regexp
	code    string
	unit    string
	display string
}

// NewLabExtractor compiles the lab rules. Rule order is preserved: output
// entities are grouped by rule, then by match position.
func NewLabExtractor(labRules []rules.LabRule, detector *ContextDetector) (*LabExtractor, error) {
	compiled := make([]compiledLabRule, 0, len(labRules))
	for _, rule := range labRules {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, apperrors.NewInternalError("invalid lab rule pattern "+rule.Pattern, err)
		}
		compiled = append(compiled, compiledLabRule{
			re:      re,
			code:    rule.Code,
			unit:    rule.Unit,
			display: rule.Display,
		})
	}
	return &LabExtractor{rules: compiled, detector: detector}, nil
}

// Extract returns one lab entity per non-overlapping match of each rule.
// Rules are applied independently, so text matched by one rule can still be
// matched by a later rule. The entity span covers the full match including
// the label prefix, e.g. "HR: 110".
func (e *LabExtractor) Extract(text string) []entities.Entity {
	var out []entities.Entity
	for _, rule := range e.rules {
		for _, match := range rule.re.FindAllStringSubmatchIndex(text, -1) {
			start, end := match[0], match[1]

			code := rule.code
			system := loincSystem
			display := rule.display

			entity := entities.Entity{
				Text:        text[start:end],
				Type:        entities.EntityTypeLab,
				Code:        &code,
				CodeSystem:  &system,
				CodeDisplay: &display,
				Assertion:   e.detector.DetectAssertion(text, start),
				Temporality: e.detector.DetectTemporality(text, start),
				Spans:       []entities.Span{{Start: start, End: end}},
			}

			// Compound readings such as "120/80" stay textual; everything
			// else is parsed, and values that still fail to parse are
			// reported without a numeric value rather than dropped.
			if len(match) >= 4 && match[2] >= 0 {
				value := text[match[2]:match[3]]
				if !strings.Contains(value, "/") {
					if parsed, err := strconv.ParseFloat(value, 64); err == nil {
						unit := rule.unit
						entity.NumericValue = &parsed
						entity.Unit = &unit
					}
				}
			}

			out = append(out, entity)
		}
	}
	return out
}
