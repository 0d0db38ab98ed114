package services

import (
	"reflect"
	"testing"

	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/domain/entities"
)

func problemAt(text string, start int) entities.Entity {
	return entities.Entity{
		Text:        text,
		Type:        entities.EntityTypeProblem,
		Assertion:   entities.AssertionAffirmed,
		Temporality: entities.TemporalityCurrent,
		Spans:       []entities.Span{{Start: start, End: start + len(text)}},
	}
}

func labAt(text string, start int) entities.Entity {
	entity := problemAt(text, start)
	entity.Type = entities.EntityTypeLab
	return entity
}

func TestMergeEntities_KeepsFirstOccurrence(t *testing.T) {
	nlp := []entities.Entity{
		problemAt("fever", 10),
		problemAt("fever", 10), // duplicate key, dropped
	}

	got := MergeEntities(nlp, nil)
	if len(got) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(got))
	}
}

func TestMergeEntities_OrderIsNLPThenLabs(t *testing.T) {
	nlp := []entities.Entity{problemAt("COPD", 40), problemAt("sepsis", 3)}
	labs := []entities.Entity{labAt("HR: 110", 20)}

	got := MergeEntities(nlp, labs)
	if len(got) != 3 {
		t.Fatalf("expected 3 entities, got %d", len(got))
	}
	wantOrder := []string{"COPD", "sepsis", "HR: 110"}
	for i, want := range wantOrder {
		if got[i].Text != want {
			t.Errorf("position %d: expected %q, got %q", i, want, got[i].Text)
		}
	}
}

func TestMergeEntities_SameTextDifferentOffsetKept(t *testing.T) {
	nlp := []entities.Entity{
		problemAt("fever", 5),
		problemAt("fever", 42),
	}

	got := MergeEntities(nlp, nil)
	if len(got) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(got))
	}
}

func TestMergeEntities_SameOffsetDifferentTypeKept(t *testing.T) {
	nlp := []entities.Entity{problemAt("fever", 5)}
	labs := []entities.Entity{labAt("fever", 5)}

	got := MergeEntities(nlp, labs)
	if len(got) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(got))
	}
}

func TestMergeEntities_TextComparisonIsCaseInsensitive(t *testing.T) {
	nlp := []entities.Entity{problemAt("COPD", 7), problemAt("copd", 7)}

	got := MergeEntities(nlp, nil)
	if len(got) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(got))
	}
	// First occurrence wins, original casing preserved.
	if got[0].Text != "COPD" {
		t.Errorf("expected first occurrence kept, got %q", got[0].Text)
	}
}

func TestMergeEntities_Idempotent(t *testing.T) {
	nlp := []entities.Entity{problemAt("sepsis", 0), problemAt("fever", 12)}
	labs := []entities.Entity{labAt("BP: 120/80", 20), labAt("fever", 12)}

	once := MergeEntities(nlp, labs)
	twice := MergeEntities(once, nil)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("expected merge to be idempotent: %v vs %v", once, twice)
	}
}

func TestMergeEntities_EmptyInputs(t *testing.T) {
	got := MergeEntities(nil, nil)
	if got == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(got) != 0 {
		t.Errorf("expected no entities, got %d", len(got))
	}
}
