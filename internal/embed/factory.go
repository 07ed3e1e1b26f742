package embed

import (
	"context"
	"fmt"
	"time"
)

// FactoryConfig selects and configures an embedding provider.
type FactoryConfig struct {
	Provider   string // "ollama" or "static"
	Model      string
	Dimensions int
	BatchSize  int
	OllamaHost string
	Timeout    time.Duration
	CacheSize  int
}

// New creates an embedder from config, wrapped in an LRU cache.
func New(ctx context.Context, cfg FactoryConfig) (Embedder, error) {
	var inner Embedder

	switch cfg.Provider {
	case "", "ollama":
		e, err := NewOllamaEmbedder(ctx, OllamaConfig{
			Host:       cfg.OllamaHost,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
			BatchSize:  cfg.BatchSize,
			Timeout:    cfg.Timeout,
		})
		if err != nil {
			return nil, err
		}
		inner = e
	case "static":
		inner = NewStaticEmbedder()
	default:
		return nil, fmt.Errorf("unknown embedding provider: %q", cfg.Provider)
	}

	return NewCachedEmbedder(inner, cfg.CacheSize), nil
}
