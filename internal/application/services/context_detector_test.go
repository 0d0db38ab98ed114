package services

import (
	"strings"
	"testing"

	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/domain/entities"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/rules"
)

func newTestDetector(t *testing.T) *ContextDetector {
	t.Helper()
	set, err := rules.Load("")
	if err != nil {
		t.Fatalf("failed to load default rules: %v", err)
	}
	return NewContextDetector(set.Cues)
}

func TestDetectAssertion_NegationCue(t *testing.T) {
	detector := newTestDetector(t)
	text := "Patient denies chest pain"

	got := detector.DetectAssertion(text, strings.Index(text, "chest"))
	if got != entities.AssertionNegated {
		t.Errorf("expected negated, got %s", got)
	}
}

func TestDetectAssertion_DefaultAffirmed(t *testing.T) {
	detector := newTestDetector(t)
	text := "chest pain with radiation to the left arm"

	got := detector.DetectAssertion(text, 0)
	if got != entities.AssertionAffirmed {
		t.Errorf("expected affirmed, got %s", got)
	}
}

func TestDetectAssertion_CaseInsensitive(t *testing.T) {
	detector := newTestDetector(t)
	text := "Patient DENIES chest pain"

	got := detector.DetectAssertion(text, strings.Index(text, "chest"))
	if got != entities.AssertionNegated {
		t.Errorf("expected negated, got %s", got)
	}
}

func TestDetectAssertion_WindowBoundary(t *testing.T) {
	detector := newTestDetector(t)

	// Cue fully inside the 60-character window.
	inside := "no " + strings.Repeat("a", 57) + "fever"
	if got := detector.DetectAssertion(inside, 60); got != entities.AssertionNegated {
		t.Errorf("cue at window edge: expected negated, got %s", got)
	}

	// One character further and the cue is truncated out of the window.
	outside := "no " + strings.Repeat("a", 58) + "fever"
	if got := detector.DetectAssertion(outside, 61); got != entities.AssertionAffirmed {
		t.Errorf("cue outside window: expected affirmed, got %s", got)
	}
}

func TestDetectAssertion_WindowCrossesSentenceBoundary(t *testing.T) {
	detector := newTestDetector(t)

	// The window is character-based, not sentence-based: a cue in the
	// previous sentence still counts.
	text := "No fever. Has COPD"
	got := detector.DetectAssertion(text, strings.Index(text, "COPD"))
	if got != entities.AssertionNegated {
		t.Errorf("expected negated, got %s", got)
	}
}

func TestDetectAssertion_OffsetsClamped(t *testing.T) {
	detector := newTestDetector(t)
	text := "short"

	// Out-of-range offsets must not panic.
	if got := detector.DetectAssertion(text, len(text)+10); got != entities.AssertionAffirmed {
		t.Errorf("expected affirmed, got %s", got)
	}
	if got := detector.DetectAssertion(text, -3); got != entities.AssertionAffirmed {
		t.Errorf("expected affirmed, got %s", got)
	}
}

func TestDetectTemporality_Historical(t *testing.T) {
	detector := newTestDetector(t)
	text := "History of COPD"

	got := detector.DetectTemporality(text, strings.Index(text, "COPD"))
	if got != entities.TemporalityHistorical {
		t.Errorf("expected historical, got %s", got)
	}
}

func TestDetectTemporality_Hypothetical(t *testing.T) {
	detector := newTestDetector(t)
	text := "if fever develops, start antibiotics"

	got := detector.DetectTemporality(text, strings.Index(text, "fever"))
	if got != entities.TemporalityHypothetical {
		t.Errorf("expected hypothetical, got %s", got)
	}
}

func TestDetectTemporality_DefaultCurrent(t *testing.T) {
	detector := newTestDetector(t)
	text := "fever and productive cough"

	got := detector.DetectTemporality(text, 0)
	if got != entities.TemporalityCurrent {
		t.Errorf("expected current, got %s", got)
	}
}

func TestDetectTemporality_HistoricalPrecedesHypothetical(t *testing.T) {
	detector := newTestDetector(t)

	// Both cue families are in the window; historical must win.
	text := "past concerns remain, if symptoms worsen: dyspnea"
	got := detector.DetectTemporality(text, strings.Index(text, "dyspnea"))
	if got != entities.TemporalityHistorical {
		t.Errorf("expected historical, got %s", got)
	}
}

func TestDetectTemporality_WiderWindowThanAssertion(t *testing.T) {
	detector := newTestDetector(t)

	// The cue sits between 60 and 80 characters back: visible to the
	// temporality window, invisible to the assertion window.
	text := "prior " + strings.Repeat("a", 64) + "pneumonia"
	start := strings.Index(text, "pneumonia")

	if got := detector.DetectTemporality(text, start); got != entities.TemporalityHistorical {
		t.Errorf("expected historical, got %s", got)
	}
	// "prior" is not a negation cue anyway, but a negation cue at the same
	// distance is also outside the narrower window.
	negText := "denies " + strings.Repeat("a", 63) + "pneumonia"
	if got := detector.DetectAssertion(negText, strings.Index(negText, "pneumonia")); got != entities.AssertionAffirmed {
		t.Errorf("expected affirmed, got %s", got)
	}
}
