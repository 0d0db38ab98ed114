package entities

// EntityType classifies a clinical entity in the unified output schema.
type EntityType string

const (
	EntityTypeProblem     EntityType = "problem"
	EntityTypeMedication  EntityType = "medication"
	EntityTypeSignSymptom EntityType = "sign_symptom"
	EntityTypeLab         EntityType = "lab"
	EntityTypeOther       EntityType = "other"
)

// Assertion states whether a concept is asserted present or explicitly absent.
type Assertion string

const (
	AssertionAffirmed Assertion = "affirmed"
	AssertionNegated  Assertion = "negated"
)

// Temporality places a concept in time relative to the encounter.
type Temporality string

const (
	TemporalityCurrent      Temporality = "current"
	TemporalityHistorical   Temporality = "historical"
	TemporalityHypothetical Temporality = "hypothetical"
)

// Span is a half-open [start, end) character range into the source note.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Entity is one extracted clinical concept with context and coding attached.
// Code, CodeSystem, CodeDisplay, NumericValue and Unit are optional and
// omitted when the producing stage had nothing to attach.
type Entity struct {
	Text         string      `json:"text"`
	Type         EntityType  `json:"type"`
	Code         *string     `json:"code,omitempty"`
	CodeSystem   *string     `json:"codeSystem,omitempty"`
	CodeDisplay  *string     `json:"codeDisplay,omitempty"`
	Assertion    Assertion   `json:"assertion"`
	Temporality  Temporality `json:"temporality"`
	NumericValue *float64    `json:"numericValue,omitempty"`
	Unit         *string     `json:"unit,omitempty"`
	Spans        []Span      `json:"spans"`
}
