package services

import (
	"testing"

	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/rules"
)

func newTestCodeMapper(t *testing.T) *CodeMapper {
	t.Helper()
	set, err := rules.Load("")
	if err != nil {
		t.Fatalf("failed to load default rules: %v", err)
	}
	return NewCodeMapper(set.CodeMap)
}

func TestLookup_ExactMatch(t *testing.T) {
	mapper := newTestCodeMapper(t)

	code, system, ok := mapper.Lookup("sepsis")
	if !ok {
		t.Fatal("expected a code for sepsis")
	}
	if code != "A41.9" {
		t.Errorf("expected code A41.9, got %s", code)
	}
	if system != "http://hl7.org/fhir/sid/icd-10-cm" {
		t.Errorf("unexpected coding system %s", system)
	}
}

func TestLookup_CaseInsensitive(t *testing.T) {
	mapper := newTestCodeMapper(t)

	code, _, ok := mapper.Lookup("COPD")
	if !ok {
		t.Fatal("expected a code for COPD")
	}
	if code != "J44.1" {
		t.Errorf("expected code J44.1, got %s", code)
	}
}

func TestLookup_MissIsNotAnError(t *testing.T) {
	mapper := newTestCodeMapper(t)

	code, system, ok := mapper.Lookup("pulmonary embolism")
	if ok {
		t.Errorf("expected no entry, got %s / %s", code, system)
	}
	if code != "" || system != "" {
		t.Errorf("expected empty code and system on miss, got %q / %q", code, system)
	}
}

func TestLookup_NoPartialMatch(t *testing.T) {
	mapper := newTestCodeMapper(t)

	if _, _, ok := mapper.Lookup("severe sepsis"); ok {
		t.Error("expected no entry for a superstring of a known surface form")
	}
}

func TestNewCodeMapper_NormalizesSurfaceForms(t *testing.T) {
	mapper := NewCodeMapper(map[string]rules.CodeEntry{
		"  Fever  ": {Code: "R50.9", System: "http://hl7.org/fhir/sid/icd-10-cm"},
	})

	code, _, ok := mapper.Lookup("fever")
	if !ok {
		t.Fatal("expected table keys to be trimmed and lower-cased")
	}
	if code != "R50.9" {
		t.Errorf("expected code R50.9, got %s", code)
	}
}
