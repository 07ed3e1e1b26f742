// Package reindex rebuilds the vector index and metadata from the live
// catalog. The job is the sole writer of the index: it builds a fresh
// (index, metadata) pair off to the side, persists both, and publishes
// them with one atomic swap so in-flight searches never observe a new
// index joined against stale metadata.
package reindex

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cafeops/cortado/internal/errors"
	"github.com/cafeops/cortado/internal/store"
)

// Catalog is the slice of the catalog store the job reads and updates.
type Catalog interface {
	AllItems(ctx context.Context) ([]*store.Item, error)
	ReplaceEmbeddingMetadata(ctx context.Context, records []store.Record) error
}

// Embedder is the slice of the embedding provider the job needs.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
}

// Job rebuilds the search snapshot from catalog contents.
type Job struct {
	catalog   Catalog
	embedder  Embedder
	handle    *store.Handle
	indexPath string
	metaPath  string
	logger    *slog.Logger
}

// NewJob creates a reindex job. indexPath and metaPath are where the
// fresh pair is persisted; empty paths skip persistence (tests).
func NewJob(catalog Catalog, embedder Embedder, handle *store.Handle, indexPath, metaPath string, logger *slog.Logger) *Job {
	if logger == nil {
		logger = slog.Default()
	}
	return &Job{
		catalog:   catalog,
		embedder:  embedder,
		handle:    handle,
		indexPath: indexPath,
		metaPath:  metaPath,
		logger:    logger,
	}
}

// Rebuild regenerates the index and metadata from the current catalog
// and returns the number of items indexed. It runs synchronously in the
// triggering call. An empty catalog publishes an empty snapshot, which
// makes searches return no hits rather than fail.
func (j *Job) Rebuild(ctx context.Context) (int, error) {
	start := time.Now()

	items, err := j.catalog.AllItems(ctx)
	if err != nil {
		return 0, errors.New(errors.ErrCodeReindexFailed, "failed to read catalog", err)
	}

	texts := make([]string, len(items))
	records := make([]store.Record, len(items))
	for i, item := range items {
		text := RenderItemText(item)
		texts[i] = text
		records[i] = store.Record{
			ItemType:  item.Type,
			ItemIndex: item.ID,
			Text:      text,
		}
	}

	index, err := store.NewVectorIndex(j.embedder.Dimensions())
	if err != nil {
		return 0, errors.New(errors.ErrCodeReindexFailed, "failed to create index", err)
	}

	if len(texts) > 0 {
		vectors, err := j.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return 0, errors.New(errors.ErrCodeReindexFailed, "failed to embed catalog texts", err)
		}
		if err := index.Add(vectors); err != nil {
			return 0, errors.New(errors.ErrCodeReindexFailed, "failed to populate index", err)
		}
	}

	if j.indexPath != "" {
		if err := index.Save(j.indexPath); err != nil {
			return 0, errors.New(errors.ErrCodeReindexFailed, "failed to persist index", err)
		}
	}
	if j.metaPath != "" {
		if err := store.SaveRecords(j.metaPath, records); err != nil {
			return 0, errors.New(errors.ErrCodeReindexFailed, "failed to persist metadata", err)
		}
	}

	if err := j.catalog.ReplaceEmbeddingMetadata(ctx, records); err != nil {
		return 0, errors.New(errors.ErrCodeReindexFailed, "failed to update embedding metadata", err)
	}

	j.handle.Publish(store.NewSnapshot(index, records))

	j.logger.Info("reindex complete",
		"items", len(items),
		"dimensions", j.embedder.Dimensions(),
		"duration", time.Since(start).Round(time.Millisecond).String(),
	)
	return len(items), nil
}

// RenderItemText renders the display text embedded for an item. The
// same template is consulted at query time via the metadata record, so
// it must stay deterministic for idempotent rebuilds. Outlets get their
// own template; everything else follows the product shape.
func RenderItemText(item *store.Item) string {
	if item.Type == store.ItemTypeOutlet {
		return fmt.Sprintf("Outlet: %s, Region: %s, Address: %s",
			orNA(item.Name), orNA(item.Category), orNA(item.Address))
	}

	var label string
	switch item.Type {
	case store.ItemTypeFood:
		label = "Food"
	case store.ItemTypeDrink:
		label = "Drink"
	default:
		label = "Product"
	}
	return fmt.Sprintf("%s: %s, Category: %s, Price: %s",
		label, orNA(item.Name), orNA(item.Category), orNA(item.Price))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
