package services

import (
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/domain/entities"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/domain/providers"
)

// pipelineLabelTypes maps pipeline labels to output entity types. Labels
// not listed here become EntityTypeOther.
var pipelineLabelTypes = map[string]entities.EntityType{
	"PROBLEM":      entities.EntityTypeProblem,
	"MEDICATION":   entities.EntityTypeMedication,
	"SIGN_SYMPTOM": entities.EntityTypeSignSymptom,
}

// EntityNormalizer converts raw pipeline spans into unified entities with
// context and coding attached.
type EntityNormalizer struct {
	mapper   *CodeMapper
	detector *ContextDetector
}

// NewEntityNormalizer creates a normalizer over the given code mapper and
// context detector.
func NewEntityNormalizer(mapper *CodeMapper, detector *ContextDetector) *EntityNormalizer {
	return &EntityNormalizer{mapper: mapper, detector: detector}
}

// Normalize maps each pipeline span to an output entity, preserving span
// order. An explicit true negation flag from the pipeline wins; in every
// other case (flag absent or false) assertion falls back to lexical
// detection. Temporality is always detected lexically.
func (n *EntityNormalizer) Normalize(spans []providers.PipelineSpan, text string) []entities.Entity {
	out := make([]entities.Entity, 0, len(spans))
	for _, span := range spans {
		entityType, ok := pipelineLabelTypes[span.Label]
		if !ok {
			entityType = entities.EntityTypeOther
		}

		entity := entities.Entity{
			Text:        span.Text,
			Type:        entityType,
			Temporality: n.detector.DetectTemporality(text, span.Start),
			Spans:       []entities.Span{{Start: span.Start, End: span.End}},
		}

		if code, system, ok := n.mapper.Lookup(span.Text); ok {
			c, s := code, system
			entity.Code = &c
			entity.CodeSystem = &s
		}

		if span.Negated != nil && *span.Negated {
			entity.Assertion = entities.AssertionNegated
		} else {
			entity.Assertion = n.detector.DetectAssertion(text, span.Start)
		}

		out = append(out, entity)
	}
	return out
}
