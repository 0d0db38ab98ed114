package evaluation

import "fmt"

type GuardrailConfig struct {
	MinF1                  float64
	MinAssertionAccuracy   float64
	MinTemporalityAccuracy float64
}

type Guardrails struct {
	config GuardrailConfig
}

func NewGuardrails(config GuardrailConfig) *Guardrails {
	if config.MinF1 <= 0 {
		config.MinF1 = 0.8
	}
	if config.MinAssertionAccuracy <= 0 {
		config.MinAssertionAccuracy = 0.9
	}
	if config.MinTemporalityAccuracy <= 0 {
		config.MinTemporalityAccuracy = 0.9
	}
	return &Guardrails{config: config}
}

// Violations lists the quality floors the summary fails to clear.
func (g *Guardrails) Violations(s *EvalSummary) []string {
	var violations []string
	if s.AvgF1 < g.config.MinF1 {
		violations = append(violations, fmt.Sprintf("avg F1 %.3f below floor %.3f", s.AvgF1, g.config.MinF1))
	}
	if s.AvgAssertionAccuracy < g.config.MinAssertionAccuracy {
		violations = append(violations, fmt.Sprintf("assertion accuracy %.3f below floor %.3f", s.AvgAssertionAccuracy, g.config.MinAssertionAccuracy))
	}
	if s.AvgTemporalityAccuracy < g.config.MinTemporalityAccuracy {
		violations = append(violations, fmt.Sprintf("temporality accuracy %.3f below floor %.3f", s.AvgTemporalityAccuracy, g.config.MinTemporalityAccuracy))
	}
	return violations
}

// Pass reports whether the summary clears every configured floor.
func (g *Guardrails) Pass(s *EvalSummary) bool {
	return len(g.Violations(s)) == 0
}
