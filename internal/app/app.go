// Package app wires the application together: one explicit context
// object constructed at startup, passed to request handlers, and torn
// down at shutdown. No package-level mutable state.
package app

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/cafeops/cortado/internal/config"
	"github.com/cafeops/cortado/internal/embed"
	"github.com/cafeops/cortado/internal/errors"
	"github.com/cafeops/cortado/internal/llm"
	"github.com/cafeops/cortado/internal/nlsql"
	"github.com/cafeops/cortado/internal/rag"
	"github.com/cafeops/cortado/internal/reindex"
	"github.com/cafeops/cortado/internal/session"
	"github.com/cafeops/cortado/internal/store"
)

// App is the application context: configuration, collaborators, and the
// live search snapshot.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	catalog    *store.CatalogStore
	embedder   embed.Embedder
	generator  llm.Generator
	handle     *store.Handle
	pipeline   *rag.Pipeline
	translator *nlsql.Translator
	job        *reindex.Job
	sessions   session.Store
}

// New constructs the application context. A persisted index pair is
// loaded from disk when present; otherwise searches report
// ServiceUnavailable until the first reindex.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	catalog, err := store.NewCatalogStore(cfg.Paths.DatabasePath)
	if err != nil {
		return nil, errors.New(errors.ErrCodeConfigInvalid, "failed to open catalog database", err)
	}

	embedder, err := embed.New(ctx, embed.FactoryConfig{
		Provider:   cfg.Embeddings.Provider,
		Model:      cfg.Embeddings.Model,
		Dimensions: cfg.Embeddings.Dimensions,
		BatchSize:  cfg.Embeddings.BatchSize,
		OllamaHost: cfg.Embeddings.OllamaHost,
		Timeout:    cfg.Embeddings.Timeout,
		CacheSize:  cfg.Embeddings.CacheSize,
	})
	if err != nil {
		_ = catalog.Close()
		return nil, errors.New(errors.ErrCodeEmbedderNotReady, "failed to initialize embedding provider", err)
	}

	generator := llm.NewOllamaGenerator(llm.Config{
		Host:    cfg.LLM.OllamaHost,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	})

	handle := store.NewHandle()

	a := &App{
		cfg:       cfg,
		logger:    logger,
		catalog:   catalog,
		embedder:  embedder,
		generator: generator,
		handle:    handle,
		pipeline: rag.NewPipeline(
			rag.NewRetriever(embedder, handle, logger),
			rag.NewContextAssembler(),
			rag.NewSummarizer(generator, logger),
			logger,
		),
		translator: nlsql.NewTranslator(generator, catalog, cfg.SQL.MaxRows, logger),
		job: reindex.NewJob(catalog, embedder, handle,
			cfg.Paths.IndexPath, cfg.Paths.MetaPath, logger),
		sessions: session.NewMemoryStore(cfg.Sessions.MaxSessions, cfg.Sessions.MaxHistory),
	}

	a.loadPersistedSnapshot()
	return a, nil
}

// loadPersistedSnapshot publishes the on-disk index pair if both files
// exist and agree in size. Any failure leaves the handle empty; the
// next reindex rebuilds from the catalog.
func (a *App) loadPersistedSnapshot() {
	indexPath := a.cfg.Paths.IndexPath
	metaPath := a.cfg.Paths.MetaPath
	if indexPath == "" || metaPath == "" {
		return
	}
	if _, err := os.Stat(indexPath); err != nil {
		a.logger.Info("no persisted index found, search unavailable until reindex", "path", indexPath)
		return
	}

	index, err := store.LoadVectorIndex(indexPath, a.embedder.Dimensions())
	if err != nil {
		a.logger.Warn("failed to load persisted index", "path", indexPath, "error", err)
		return
	}
	records, err := store.LoadRecords(metaPath)
	if err != nil {
		a.logger.Warn("failed to load persisted metadata", "path", metaPath, "error", err)
		return
	}
	if index.Count() != len(records) {
		a.logger.Warn("persisted index and metadata disagree, ignoring both",
			"vectors", index.Count(), "records", len(records))
		return
	}

	a.handle.Publish(store.NewSnapshot(index, records))
	a.logger.Info("loaded persisted index", "vectors", index.Count())
}

// Ask runs the retrieval-and-answer pipeline. k <= 0 falls back to the
// configured default; k above the configured maximum is rejected. A
// non-empty sessionID records the exchange in that session's history.
func (a *App) Ask(ctx context.Context, query string, k int, sessionID string) (*rag.Answer, error) {
	if k <= 0 {
		k = a.cfg.Search.TopK
	}
	if k > a.cfg.Search.MaxTopK {
		return nil, errors.New(errors.ErrCodeInvalidTopK, "top_k exceeds the configured maximum", nil).
			WithDetail("max_top_k", strconv.Itoa(a.cfg.Search.MaxTopK))
	}

	answer, err := a.pipeline.Ask(ctx, query, k)
	if err != nil {
		return nil, err
	}

	if sessionID != "" {
		now := time.Now()
		a.sessions.Append(sessionID, session.Message{Role: session.RoleUser, Content: query, Timestamp: now})
		a.sessions.Append(sessionID, session.Message{Role: session.RoleAssistant, Content: answer.Summary, Timestamp: now})
	}
	return answer, nil
}

// Query translates a natural-language question to constrained SQL and
// executes it read-only.
func (a *App) Query(ctx context.Context, question string) (*nlsql.Result, error) {
	return a.translator.Query(ctx, question)
}

// Reindex rebuilds the search snapshot from the catalog and returns the
// number of items indexed.
func (a *App) Reindex(ctx context.Context) (int, error) {
	return a.job.Rebuild(ctx)
}

// IndexStatus describes the live index and its on-disk artifacts.
type IndexStatus struct {
	Status          string `json:"status"` // "ready" or "not_initialized"
	TotalEmbeddings int    `json:"total_embeddings"`
	IndexFileExists bool   `json:"index_file_exists"`
	MetaFileExists  bool   `json:"meta_file_exists"`
	EmbedModel      string `json:"embed_model"`
	LLMModel        string `json:"llm_model"`
}

// Status reports index readiness without touching collaborators.
func (a *App) Status(ctx context.Context) *IndexStatus {
	st := &IndexStatus{
		Status:     "not_initialized",
		EmbedModel: a.embedder.ModelName(),
		LLMModel:   a.generator.ModelName(),
	}

	if _, err := os.Stat(a.cfg.Paths.IndexPath); err == nil {
		st.IndexFileExists = true
	}
	if _, err := os.Stat(a.cfg.Paths.MetaPath); err == nil {
		st.MetaFileExists = true
	}

	if snap := a.handle.Snapshot(); snap != nil {
		st.TotalEmbeddings = snap.Index.Count()
		if st.TotalEmbeddings > 0 {
			st.Status = "ready"
		}
	}
	return st
}

// Catalog exposes the catalog store for admin operations (seeding,
// item CRUD) outside the core pipeline.
func (a *App) Catalog() *store.CatalogStore {
	return a.catalog
}

// Sessions exposes the chat history store.
func (a *App) Sessions() session.Store {
	return a.sessions
}

// Config returns the resolved configuration.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Close tears down collaborators in reverse construction order.
func (a *App) Close() error {
	var firstErr error
	if err := a.generator.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := a.embedder.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := a.catalog.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
