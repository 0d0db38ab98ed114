package rules

import (
	"fmt"
	"regexp"
)

// ContextCues holds the lexical cue lists for assertion and temporality
// detection. Matching is a substring check over a lower-cased window, so
// cues that must be followed by another word keep their trailing space.
type ContextCues struct {
	Negation     []string `json:"negation"`
	Historical   []string `json:"historical"`
	Hypothetical []string `json:"hypothetical"`
}

// LabRule pairs a value-extraction pattern with its LOINC coding. The
// pattern's first capture group, when present, holds the candidate numeric
// value.
type LabRule struct {
	Pattern string `json:"pattern"`
	Code    string `json:"code"`
	Unit    string `json:"unit"`
	Display string `json:"display"`
}

// CodeEntry maps an entity surface form to a standard code.
type CodeEntry struct {
	Code   string `json:"code"`
	System string `json:"system"`
}

// TargetRule is a literal phrase the built-in concept matcher recognizes.
type TargetRule struct {
	Phrase string `json:"phrase"`
	Label  string `json:"label"`
}

// Set bundles every rule table the analysis flow needs. It is loaded once
// at startup and shared read-only across requests.
type Set struct {
	Cues        ContextCues
	LabRules    []LabRule
	CodeMap     map[string]CodeEntry
	TargetRules []TargetRule
}

// Validate checks the structural integrity of all tables, including that
// every lab pattern compiles.
func (s *Set) Validate() error {
	if len(s.Cues.Negation) == 0 {
		return fmt.Errorf("context cues: negation list is empty")
	}
	if len(s.Cues.Historical) == 0 {
		return fmt.Errorf("context cues: historical list is empty")
	}
	if len(s.Cues.Hypothetical) == 0 {
		return fmt.Errorf("context cues: hypothetical list is empty")
	}

	if len(s.LabRules) == 0 {
		return fmt.Errorf("lab rules: list is empty")
	}
	for i, rule := range s.LabRules {
		if rule.Pattern == "" {
			return fmt.Errorf("lab rule %d: pattern is required", i)
		}
		if _, err := regexp.Compile(rule.Pattern); err != nil {
			return fmt.Errorf("lab rule %d: invalid pattern: %w", i, err)
		}
		if rule.Code == "" {
			return fmt.Errorf("lab rule %d: code is required", i)
		}
		if rule.Display == "" {
			return fmt.Errorf("lab rule %d: display is required", i)
		}
	}

	if len(s.CodeMap) == 0 {
		return fmt.Errorf("code map: table is empty")
	}
	for surface, entry := range s.CodeMap {
		if surface == "" {
			return fmt.Errorf("code map: empty surface form")
		}
		if entry.Code == "" || entry.System == "" {
			return fmt.Errorf("code map: entry %q is missing code or system", surface)
		}
	}

	if len(s.TargetRules) == 0 {
		return fmt.Errorf("target rules: list is empty")
	}
	for i, rule := range s.TargetRules {
		if rule.Phrase == "" {
			return fmt.Errorf("target rule %d: phrase is required", i)
		}
		if rule.Label == "" {
			return fmt.Errorf("target rule %d: label is required", i)
		}
	}

	return nil
}
