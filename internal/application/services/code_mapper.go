package services

import (
	"context"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/rules"
)

var (
	codeMapMissCounterOnce sync.Once
	codeMapMissCounter     metric.Int64Counter
)

// CodeMapper resolves entity surface text to a standard code by exact,
// lower-cased lookup. A miss is a normal outcome, not an error: the entity
// is still reported, just without coding.
type CodeMapper struct {
	table map[string]rules.CodeEntry
}

// NewCodeMapper builds the lookup table, lower-casing surface forms so the
// table behaves the same regardless of how it was authored.
func NewCodeMapper(table map[string]rules.CodeEntry) *CodeMapper {
	normalized := make(map[string]rules.CodeEntry, len(table))
	for surface, entry := range table {
		normalized[strings.ToLower(strings.TrimSpace(surface))] = entry
	}
	return &CodeMapper{table: normalized}
}

// Lookup returns the code and coding system for the given surface text.
// ok is false when the table has no entry for it.
func (m *CodeMapper) Lookup(surface string) (code, system string, ok bool) {
	entry, ok := m.table[strings.ToLower(surface)]
	if !ok {
		m.recordMiss(surface)
		return "", "", false
	}
	return entry.Code, entry.System, true
}

func initCodeMapMissCounter() {
	meter := otel.Meter("github.com/zatekoja/Clinicalentitydiscoverydesign/backend/code_mapping")
	counter, err := meter.Int64Counter(
		"codemap.miss.count",
		metric.WithDescription("Count of entity surface forms with no code table entry"),
	)
	if err == nil {
		codeMapMissCounter = counter
	}
}

func (m *CodeMapper) recordMiss(surface string) {
	codeMapMissCounterOnce.Do(initCodeMapMissCounter)
	if codeMapMissCounter == nil {
		return
	}
	codeMapMissCounter.Add(
		context.Background(),
		1,
		metric.WithAttributes(attribute.String("concept.surface", strings.ToLower(surface))),
	)
}
