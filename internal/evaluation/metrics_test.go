package evaluation

import (
	"math"
	"testing"
)

const floatTolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

// --- Precision tests ---

func TestPrecision_AllCorrect(t *testing.T) {
	expected := []string{"chest pain|problem", "copd|problem"}
	extracted := []string{"chest pain|problem", "copd|problem"}
	got := Precision(expected, extracted)
	if !almostEqual(got, 1.0) {
		t.Errorf("expected 1.0, got %f", got)
	}
}

func TestPrecision_SpuriousExtraction(t *testing.T) {
	expected := []string{"chest pain|problem"}
	extracted := []string{"chest pain|problem", "pain|other"}
	// 1 of 2 extracted is expected
	got := Precision(expected, extracted)
	if !almostEqual(got, 0.5) {
		t.Errorf("expected 0.5, got %f", got)
	}
}

func TestPrecision_NothingExtracted(t *testing.T) {
	expected := []string{"chest pain|problem"}
	got := Precision(expected, nil)
	if !almostEqual(got, 0.0) {
		t.Errorf("expected 0.0, got %f", got)
	}
}

// --- Recall tests ---

func TestRecall_AllFound(t *testing.T) {
	expected := []string{"copd|problem", "hr: 110|lab"}
	extracted := []string{"hr: 110|lab", "copd|problem", "albuterol|medication"}
	got := Recall(expected, extracted)
	if !almostEqual(got, 1.0) {
		t.Errorf("expected 1.0, got %f", got)
	}
}

func TestRecall_SomeMissed(t *testing.T) {
	expected := []string{"copd|problem", "wheezing|sign_symptom", "hr: 110|lab", "albuterol|medication"}
	extracted := []string{"copd|problem", "hr: 110|lab"}
	// 2 of 4 expected found
	got := Recall(expected, extracted)
	if !almostEqual(got, 0.5) {
		t.Errorf("expected 0.5, got %f", got)
	}
}

func TestRecall_NothingExpected(t *testing.T) {
	extracted := []string{"copd|problem"}
	// No expectations means recall is undefined; we return 0
	got := Recall(nil, extracted)
	if !almostEqual(got, 0.0) {
		t.Errorf("expected 0.0, got %f", got)
	}
}

// --- F1 tests ---

func TestF1_Perfect(t *testing.T) {
	got := F1(1.0, 1.0)
	if !almostEqual(got, 1.0) {
		t.Errorf("expected 1.0, got %f", got)
	}
}

func TestF1_Zero(t *testing.T) {
	got := F1(0.0, 0.0)
	if !almostEqual(got, 0.0) {
		t.Errorf("expected 0.0, got %f", got)
	}
}

func TestF1_Mixed(t *testing.T) {
	got := F1(0.5, 1.0)
	if !almostEqual(got, 2.0/3.0) {
		t.Errorf("expected %f, got %f", 2.0/3.0, got)
	}
}

// --- LabelAccuracy tests ---

func TestLabelAccuracy_AllAgree(t *testing.T) {
	expected := map[string]string{"copd|problem": "negated", "chest pain|problem": "affirmed"}
	extracted := map[string]string{"copd|problem": "negated", "chest pain|problem": "affirmed"}
	got := LabelAccuracy(expected, extracted)
	if !almostEqual(got, 1.0) {
		t.Errorf("expected 1.0, got %f", got)
	}
}

func TestLabelAccuracy_Disagreement(t *testing.T) {
	expected := map[string]string{"copd|problem": "negated", "chest pain|problem": "affirmed"}
	extracted := map[string]string{"copd|problem": "affirmed", "chest pain|problem": "affirmed"}
	// 1 of 2 matched entities labeled correctly
	got := LabelAccuracy(expected, extracted)
	if !almostEqual(got, 0.5) {
		t.Errorf("expected 0.5, got %f", got)
	}
}

func TestLabelAccuracy_IgnoresUnmatched(t *testing.T) {
	expected := map[string]string{"copd|problem": "negated", "wheezing|sign_symptom": "affirmed"}
	extracted := map[string]string{"copd|problem": "negated"}
	// wheezing was never extracted; only copd counts, and it agrees
	got := LabelAccuracy(expected, extracted)
	if !almostEqual(got, 1.0) {
		t.Errorf("expected 1.0, got %f", got)
	}
}

func TestLabelAccuracy_NoOverlap(t *testing.T) {
	expected := map[string]string{"copd|problem": "negated"}
	extracted := map[string]string{"asthma|problem": "affirmed"}
	// Nothing matched, so labeling cannot be judged
	got := LabelAccuracy(expected, extracted)
	if !almostEqual(got, 1.0) {
		t.Errorf("expected 1.0, got %f", got)
	}
}

func TestEntityKey_Normalizes(t *testing.T) {
	if entityKey("  Chest Pain ", "problem") != "chest pain|problem" {
		t.Errorf("unexpected key: %s", entityKey("  Chest Pain ", "problem"))
	}
}
