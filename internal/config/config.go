// Package config loads and validates Cortado configuration.
//
// Configuration is resolved in three layers, lowest priority first:
//  1. Built-in defaults
//  2. YAML config file (cortado.yaml)
//  3. Environment variables (CORTADO_*)
//
// A .env file in the working directory is loaded before environment
// variables are read, so local development secrets stay out of the shell.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file name looked up in the data directory.
const DefaultConfigFile = "cortado.yaml"

// Config represents the complete Cortado configuration.
type Config struct {
	Paths      PathsConfig      `yaml:"paths"`
	Embeddings EmbeddingsConfig `yaml:"embeddings"`
	LLM        LLMConfig        `yaml:"llm"`
	Search     SearchConfig     `yaml:"search"`
	SQL        SQLConfig        `yaml:"sql"`
	Sessions   SessionsConfig   `yaml:"sessions"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// PathsConfig configures on-disk locations for the catalog and index pair.
type PathsConfig struct {
	// DataDir is the base directory for all Cortado state (default: ~/.cortado).
	DataDir string `yaml:"data_dir"`
	// DatabasePath is the SQLite catalog database. Defaults to
	// <data_dir>/catalog.db.
	DatabasePath string `yaml:"database_path"`
	// IndexPath is the vector index file. Defaults to <data_dir>/vectors.hnsw.
	IndexPath string `yaml:"index_path"`
	// MetaPath is the ordinal-aligned metadata file. Defaults to
	// <data_dir>/vectors.meta.
	MetaPath string `yaml:"meta_path"`
}

// EmbeddingsConfig configures the embedding provider.
type EmbeddingsConfig struct {
	// Provider selects the embedding backend: "ollama" (default) or "static".
	Provider string `yaml:"provider"`
	// Model is the embedding model name (default: embeddinggemma).
	Model string `yaml:"model"`
	// Dimensions is the embedding dimension. 0 means auto-detect.
	Dimensions int `yaml:"dimensions"`
	// BatchSize is the number of texts per embedding request.
	BatchSize int `yaml:"batch_size"`
	// OllamaHost is the Ollama API endpoint.
	OllamaHost string `yaml:"ollama_host"`
	// Timeout bounds a single embedding request.
	Timeout time.Duration `yaml:"timeout"`
	// CacheSize is the number of query embeddings kept in the LRU cache.
	CacheSize int `yaml:"cache_size"`
}

// LLMConfig configures the generation collaborator.
type LLMConfig struct {
	// Model is the generation model name.
	Model string `yaml:"model"`
	// OllamaHost is the Ollama API endpoint.
	OllamaHost string `yaml:"ollama_host"`
	// Timeout bounds a single generation call. Generation latency is
	// unbounded upstream, so this is the caller-visible cap.
	Timeout time.Duration `yaml:"timeout"`
}

// SearchConfig configures the retrieval pipeline.
type SearchConfig struct {
	// TopK is the default number of neighbors to retrieve.
	TopK int `yaml:"top_k"`
	// MaxTopK caps caller-supplied k values.
	MaxTopK int `yaml:"max_top_k"`
}

// SQLConfig configures the natural-language SQL translator.
type SQLConfig struct {
	// MaxRows is the row limit injected into generated statements that
	// lack their own LIMIT clause.
	MaxRows int `yaml:"max_rows"`
}

// SessionsConfig configures chat session bookkeeping.
type SessionsConfig struct {
	// MaxSessions is the maximum number of concurrent sessions kept.
	MaxSessions int `yaml:"max_sessions"`
	// MaxHistory is the maximum number of messages retained per session.
	MaxHistory int `yaml:"max_history"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level    string `yaml:"level"`
	FilePath string `yaml:"file_path"`
}

// Default returns the default configuration.
func Default() *Config {
	dataDir := defaultDataDir()
	return &Config{
		Paths: PathsConfig{
			DataDir:      dataDir,
			DatabasePath: filepath.Join(dataDir, "catalog.db"),
			IndexPath:    filepath.Join(dataDir, "vectors.hnsw"),
			MetaPath:     filepath.Join(dataDir, "vectors.meta"),
		},
		Embeddings: EmbeddingsConfig{
			Provider:   "ollama",
			Model:      "embeddinggemma",
			Dimensions: 0,
			BatchSize:  32,
			OllamaHost: "http://localhost:11434",
			Timeout:    60 * time.Second,
			CacheSize:  1000,
		},
		LLM: LLMConfig{
			Model:      "qwen3:4b",
			OllamaHost: "http://localhost:11434",
			Timeout:    45 * time.Second,
		},
		Search: SearchConfig{
			TopK:    5,
			MaxTopK: 50,
		},
		SQL: SQLConfig{
			MaxRows: 50,
		},
		Sessions: SessionsConfig{
			MaxSessions: 20,
			MaxHistory:  50,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load resolves configuration from defaults, an optional YAML file, and
// environment variables. path may be empty, in which case the default
// location (<data_dir>/cortado.yaml) is tried.
func Load(path string) (*Config, error) {
	// Side effect only; a missing .env file is not an error.
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = filepath.Join(cfg.Paths.DataDir, DefaultConfigFile)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			path = ""
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.applyDerivedDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv overrides config values from CORTADO_* environment variables.
// Env vars have the highest priority.
func (c *Config) applyEnv() {
	if v := os.Getenv("CORTADO_DATA_DIR"); v != "" {
		c.Paths.DataDir = v
	}
	if v := os.Getenv("CORTADO_DATABASE_PATH"); v != "" {
		c.Paths.DatabasePath = v
	}
	if v := os.Getenv("CORTADO_OLLAMA_HOST"); v != "" {
		c.Embeddings.OllamaHost = v
		c.LLM.OllamaHost = v
	}
	if v := os.Getenv("CORTADO_EMBED_MODEL"); v != "" {
		c.Embeddings.Model = v
	}
	if v := os.Getenv("CORTADO_LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("CORTADO_TOP_K"); v != "" {
		if k, err := strconv.Atoi(v); err == nil {
			c.Search.TopK = k
		}
	}
	if v := os.Getenv("CORTADO_SQL_MAX_ROWS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.SQL.MaxRows = n
		}
	}
	if v := os.Getenv("CORTADO_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// applyDerivedDefaults fills path fields that depend on DataDir when the
// user overrode DataDir but not the individual paths.
func (c *Config) applyDerivedDefaults() {
	if c.Paths.DatabasePath == "" {
		c.Paths.DatabasePath = filepath.Join(c.Paths.DataDir, "catalog.db")
	}
	if c.Paths.IndexPath == "" {
		c.Paths.IndexPath = filepath.Join(c.Paths.DataDir, "vectors.hnsw")
	}
	if c.Paths.MetaPath == "" {
		c.Paths.MetaPath = filepath.Join(c.Paths.DataDir, "vectors.meta")
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Paths.DataDir == "" {
		return fmt.Errorf("paths.data_dir must not be empty")
	}
	if c.Search.TopK < 1 {
		return fmt.Errorf("search.top_k must be >= 1, got %d", c.Search.TopK)
	}
	if c.Search.MaxTopK < c.Search.TopK {
		return fmt.Errorf("search.max_top_k (%d) must be >= search.top_k (%d)",
			c.Search.MaxTopK, c.Search.TopK)
	}
	if c.SQL.MaxRows < 1 {
		return fmt.Errorf("sql.max_rows must be >= 1, got %d", c.SQL.MaxRows)
	}
	if c.Embeddings.BatchSize < 1 {
		return fmt.Errorf("embeddings.batch_size must be >= 1, got %d", c.Embeddings.BatchSize)
	}
	switch c.Embeddings.Provider {
	case "ollama", "static":
	default:
		return fmt.Errorf("embeddings.provider must be \"ollama\" or \"static\", got %q",
			c.Embeddings.Provider)
	}
	return nil
}

// Save writes the configuration to the given path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// DefaultConfigPath returns the default config file location,
// <data_dir>/cortado.yaml.
func DefaultConfigPath() string {
	return filepath.Join(defaultDataDir(), DefaultConfigFile)
}

// defaultDataDir returns ~/.cortado, falling back to the temp directory.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".cortado")
	}
	return filepath.Join(home, ".cortado")
}
