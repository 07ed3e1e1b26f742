package rag

import (
	"context"
	"log/slog"

	"github.com/cafeops/cortado/internal/store"
)

// Answer is the result of one retrieval-and-answer request.
type Answer struct {
	Query   string      `json:"query"`
	Summary string      `json:"summary"`
	Hits    []store.Hit `json:"hits"`
}

// Pipeline runs retrieval, context assembly, and summary generation as
// one operation.
type Pipeline struct {
	retriever  *Retriever
	assembler  *ContextAssembler
	summarizer *Summarizer
	logger     *slog.Logger
}

// NewPipeline wires the three stages together.
func NewPipeline(retriever *Retriever, assembler *ContextAssembler, summarizer *Summarizer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		retriever:  retriever,
		assembler:  assembler,
		summarizer: summarizer,
		logger:     logger,
	}
}

// Ask retrieves the top-k neighbors for query and summarizes them.
// No hits short-circuits generation: the no-results answer goes back
// as the summary without touching the language model.
func (p *Pipeline) Ask(ctx context.Context, query string, k int) (*Answer, error) {
	hits, err := p.retriever.Search(ctx, query, k)
	if err != nil {
		return nil, err
	}

	if len(hits) == 0 {
		return &Answer{
			Query:   query,
			Summary: NoResultsAnswer,
			Hits:    []store.Hit{},
		}, nil
	}

	contextBlock := p.assembler.Render(hits)
	summary, err := p.summarizer.Summarize(ctx, query, contextBlock)
	if err != nil {
		return nil, err
	}

	return &Answer{
		Query:   query,
		Summary: summary,
		Hits:    hits,
	}, nil
}
