package services

import (
	"strings"

	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/domain/entities"
)

type dedupKey struct {
	text  string
	typ   entities.EntityType
	start int
}

// MergeEntities concatenates pipeline-derived and lab-derived entities and
// drops duplicates, keeping the first occurrence. Two entities are
// duplicates when they agree on lower-cased text, type and first span
// start; the same text at a different offset is a distinct entity. Input
// order is preserved, pipeline entities first.
func MergeEntities(nlpEntities, labEntities []entities.Entity) []entities.Entity {
	seen := make(map[dedupKey]struct{}, len(nlpEntities)+len(labEntities))
	merged := make([]entities.Entity, 0, len(nlpEntities)+len(labEntities))

	for _, list := range [][]entities.Entity{nlpEntities, labEntities} {
		for _, entity := range list {
			key := dedupKey{text: strings.ToLower(entity.Text), typ: entity.Type}
			if len(entity.Spans) > 0 {
				key.start = entity.Spans[0].Start
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, entity)
		}
	}

	return merged
}
