package rag

import (
	"strings"

	"github.com/cafeops/cortado/internal/store"
)

// NoResultsAnswer is the literal answer returned when retrieval finds
// nothing. Callers short-circuit generation on this sentinel.
const NoResultsAnswer = "I couldn't find any matching products or outlets."

// contextSeparator joins rendered hits in the context block.
const contextSeparator = "\n\n"

// ContextAssembler renders ranked hits into the context block passed to
// the answer generator.
type ContextAssembler struct{}

// NewContextAssembler creates a context assembler.
func NewContextAssembler() *ContextAssembler {
	return &ContextAssembler{}
}

// Render joins each hit's embedded text with a blank-line separator.
// The text was templated per item type at reindex time, so it already
// carries the identifying fields (name, price or address). An empty hit
// list renders to NoResultsAnswer, never to an empty string.
func (a *ContextAssembler) Render(hits []store.Hit) string {
	if len(hits) == 0 {
		return NoResultsAnswer
	}

	pieces := make([]string, 0, len(hits))
	for _, h := range hits {
		pieces = append(pieces, h.Meta.Text)
	}
	return strings.Join(pieces, contextSeparator)
}
