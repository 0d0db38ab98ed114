package evaluation

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestGuardrails_Pass(t *testing.T) {
	g := NewGuardrails(GuardrailConfig{
		MinF1:                  0.8,
		MinAssertionAccuracy:   0.9,
		MinTemporalityAccuracy: 0.9,
	})

	summary := &EvalSummary{
		AvgF1:                  0.85,
		AvgAssertionAccuracy:   0.95,
		AvgTemporalityAccuracy: 0.92,
	}

	assert.True(t, g.Pass(summary))
	assert.Empty(t, g.Violations(summary))
}

func TestGuardrails_FailLowF1(t *testing.T) {
	g := NewGuardrails(GuardrailConfig{
		MinF1:                  0.8,
		MinAssertionAccuracy:   0.9,
		MinTemporalityAccuracy: 0.9,
	})

	summary := &EvalSummary{
		AvgF1:                  0.6,
		AvgAssertionAccuracy:   0.95,
		AvgTemporalityAccuracy: 0.92,
	}

	assert.False(t, g.Pass(summary))
	violations := g.Violations(summary)
	assert.Len(t, violations, 1)
	assert.Contains(t, violations[0], "F1")
}

func TestGuardrails_MultipleViolations(t *testing.T) {
	g := NewGuardrails(GuardrailConfig{
		MinF1:                  0.8,
		MinAssertionAccuracy:   0.9,
		MinTemporalityAccuracy: 0.9,
	})

	summary := &EvalSummary{
		AvgF1:                  0.5,
		AvgAssertionAccuracy:   0.5,
		AvgTemporalityAccuracy: 0.5,
	}

	assert.False(t, g.Pass(summary))
	assert.Len(t, g.Violations(summary), 3)
}

func TestGuardrails_DefaultFloors(t *testing.T) {
	g := NewGuardrails(GuardrailConfig{})

	failing := &EvalSummary{
		AvgF1:                  0.75,
		AvgAssertionAccuracy:   0.95,
		AvgTemporalityAccuracy: 0.95,
	}
	assert.False(t, g.Pass(failing))

	passing := &EvalSummary{
		AvgF1:                  0.85,
		AvgAssertionAccuracy:   0.95,
		AvgTemporalityAccuracy: 0.95,
	}
	assert.True(t, g.Pass(passing))
}
