package evaluation

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadGoldenNotes reads and parses a golden note set from a JSON file.
func LoadGoldenNotes(path string) ([]GoldenNote, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read golden notes file: %w", err)
	}

	var notes []GoldenNote
	if err := json.Unmarshal(data, &notes); err != nil {
		return nil, fmt.Errorf("failed to parse golden notes: %w", err)
	}

	return notes, nil
}

var validDifficulties = map[string]bool{
	"easy":   true,
	"medium": true,
	"hard":   true,
}

var validEntityTypes = map[string]bool{
	"problem":      true,
	"medication":   true,
	"sign_symptom": true,
	"lab":          true,
	"other":        true,
}

var validAssertions = map[string]bool{
	"affirmed": true,
	"negated":  true,
}

var validTemporalities = map[string]bool{
	"current":      true,
	"historical":   true,
	"hypothetical": true,
}

// ValidateGoldenNotes checks that all golden notes have required fields and valid values.
func ValidateGoldenNotes(notes []GoldenNote) error {
	seen := make(map[string]struct{}, len(notes))

	for i, n := range notes {
		if n.ID == "" {
			return fmt.Errorf("note at index %d: missing id", i)
		}
		if _, dup := seen[n.ID]; dup {
			return fmt.Errorf("note at index %d: duplicate id %q", i, n.ID)
		}
		seen[n.ID] = struct{}{}

		if n.Text == "" {
			return fmt.Errorf("note %q: missing text", n.ID)
		}
		if !validDifficulties[n.Difficulty] {
			return fmt.Errorf("note %q: invalid difficulty %q (must be easy/medium/hard)", n.ID, n.Difficulty)
		}

		for j, e := range n.Expected {
			if e.Text == "" {
				return fmt.Errorf("note %q: expected entity %d missing text", n.ID, j)
			}
			if !validEntityTypes[e.Type] {
				return fmt.Errorf("note %q: expected entity %d has invalid type %q", n.ID, j, e.Type)
			}
			if !validAssertions[e.Assertion] {
				return fmt.Errorf("note %q: expected entity %d has invalid assertion %q", n.ID, j, e.Assertion)
			}
			if !validTemporalities[e.Temporality] {
				return fmt.Errorf("note %q: expected entity %d has invalid temporality %q", n.ID, j, e.Temporality)
			}
		}
	}

	return nil
}
