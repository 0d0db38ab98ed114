package evaluation

import "strings"

// entityKey identifies an entity for golden comparison: lowercased trimmed
// text plus type. Span offsets are deliberately excluded so golden notes
// stay readable and robust to whitespace edits.
func entityKey(text, entityType string) string {
	return strings.ToLower(strings.TrimSpace(text)) + "|" + entityType
}

// Precision computes the fraction of extracted keys that appear in the
// expected set. Returns 0.0 if nothing was extracted.
func Precision(expected, extracted []string) float64 {
	if len(extracted) == 0 {
		return 0.0
	}

	expectedSet := make(map[string]struct{}, len(expected))
	for _, key := range expected {
		expectedSet[key] = struct{}{}
	}

	found := 0
	for _, key := range extracted {
		if _, ok := expectedSet[key]; ok {
			found++
		}
	}

	return float64(found) / float64(len(extracted))
}

// Recall computes the fraction of expected keys that were extracted.
// Returns 0.0 if nothing was expected.
func Recall(expected, extracted []string) float64 {
	if len(expected) == 0 {
		return 0.0
	}

	extractedSet := make(map[string]struct{}, len(extracted))
	for _, key := range extracted {
		extractedSet[key] = struct{}{}
	}

	found := 0
	for _, key := range expected {
		if _, ok := extractedSet[key]; ok {
			found++
		}
	}

	return float64(found) / float64(len(expected))
}

// F1 computes the harmonic mean of precision and recall. Returns 0.0 when
// both are zero.
func F1(precision, recall float64) float64 {
	if precision+recall == 0 {
		return 0.0
	}
	return 2 * precision * recall / (precision + recall)
}

// LabelAccuracy computes, over the keys present in both maps, the fraction
// whose label agrees. Returns 1.0 when no keys overlap: an unmatched entity
// is a recall problem, not a labeling one.
func LabelAccuracy(expected, extracted map[string]string) float64 {
	matched := 0
	agree := 0
	for key, wantLabel := range expected {
		gotLabel, ok := extracted[key]
		if !ok {
			continue
		}
		matched++
		if gotLabel == wantLabel {
			agree++
		}
	}

	if matched == 0 {
		return 1.0
	}
	return float64(agree) / float64(matched)
}
