// Package rag implements the retrieval-and-answer pipeline: query
// embedding, nearest-neighbor search, metadata join, context assembly,
// and guarded summary generation.
package rag

import (
	"context"
	"log/slog"
	"strings"

	"github.com/cafeops/cortado/internal/errors"
	"github.com/cafeops/cortado/internal/store"
)

// Retriever embeds queries and searches the live snapshot.
type Retriever struct {
	embedder Embedder
	handle   *store.Handle
	logger   *slog.Logger
}

// Embedder is the slice of the embedding provider the retriever needs.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// NewRetriever creates a retriever over the given snapshot handle.
func NewRetriever(embedder Embedder, handle *store.Handle, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{
		embedder: embedder,
		handle:   handle,
		logger:   logger,
	}
}

// Search returns up to k hits ordered by descending similarity. An empty
// result is a valid outcome, not an error. The snapshot is captured once
// per call, so the index and metadata always come from the same reindex
// pass even if a swap lands mid-search.
func (r *Retriever) Search(ctx context.Context, query string, k int) ([]store.Hit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New(errors.ErrCodeQueryEmpty, "query must not be empty", nil)
	}
	if k < 1 {
		return nil, errors.New(errors.ErrCodeInvalidTopK, "top_k must be at least 1", nil)
	}

	snap := r.handle.Snapshot()
	if snap == nil {
		return nil, errors.ServiceUnavailable("search index is not initialized; run reindex first", nil)
	}

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		r.logger.Error("query embedding failed", "error", err)
		return nil, errors.New(errors.ErrCodeEmbeddingFailed, "failed to embed query", err)
	}

	scores, ordinals, err := snap.Index.Search(vector, k)
	if err != nil {
		r.logger.Error("vector search failed", "error", err)
		return nil, errors.InternalError("vector search failed", err)
	}

	hits := make([]store.Hit, 0, len(ordinals))
	for i, ord := range ordinals {
		if ord == store.OrdinalNone {
			continue
		}
		// Ordinals past the record count mean the index and metadata
		// disagree; drop them rather than panic.
		if ord >= len(snap.Records) {
			r.logger.Warn("ordinal beyond metadata range, skipping", "ordinal", ord, "records", len(snap.Records))
			continue
		}
		hits = append(hits, store.Hit{
			Score: scores[i],
			Meta:  snap.Records[ord],
		})
	}

	r.logger.Debug("search complete", "query_len", len(query), "k", k, "hits", len(hits))
	return hits, nil
}
