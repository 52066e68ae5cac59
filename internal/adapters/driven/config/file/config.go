// Package file provides TOML-backed application configuration.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Defaults mirror the reference deployment.
const (
	DefaultChunkSize          = 512
	DefaultChunkOverlap       = 64
	DefaultEmbeddingModel     = "text-embedding-3-small"
	DefaultEmbeddingDimension = 1536
	DefaultChatModel          = "gpt-4o"
	DefaultCollection         = "physical-ai-textbook"
	DefaultScoreThreshold     = 0.3
	DefaultTopK               = 3
	DefaultBatchSize          = 20
	DefaultHistoryLimit       = 10
	DefaultDocsRoot           = "book-source/docs"
)

// Config is the application configuration surface. Every knob carries the
// reference default; API keys are deliberately absent and come from the
// environment instead.
type Config struct {
	DocsRoot           string  `toml:"docs_root"`
	ChunkSize          int     `toml:"chunk_size"`
	ChunkOverlap       int     `toml:"chunk_overlap"`
	EmbeddingModel     string  `toml:"embedding_model"`
	EmbeddingDimension int     `toml:"embedding_dimension"`
	ChatModel          string  `toml:"chat_model"`
	QdrantURL          string  `toml:"qdrant_url"`
	Collection         string  `toml:"collection"`
	ScoreThreshold     float64 `toml:"score_threshold"`
	TopK               int     `toml:"top_k"`
	BatchSize          int     `toml:"batch_size"`
	HistoryLimit       int     `toml:"history_limit"`
	GuardEnabled       bool    `toml:"guard_enabled"`
}

// DefaultConfig returns the configuration with every reference default set.
func DefaultConfig() Config {
	return Config{
		DocsRoot:           DefaultDocsRoot,
		ChunkSize:          DefaultChunkSize,
		ChunkOverlap:       DefaultChunkOverlap,
		EmbeddingModel:     DefaultEmbeddingModel,
		EmbeddingDimension: DefaultEmbeddingDimension,
		ChatModel:          DefaultChatModel,
		QdrantURL:          "http://localhost:6333",
		Collection:         DefaultCollection,
		ScoreThreshold:     DefaultScoreThreshold,
		TopK:               DefaultTopK,
		BatchSize:          DefaultBatchSize,
		HistoryLimit:       DefaultHistoryLimit,
		GuardEnabled:       true,
	}
}

// DefaultPath returns ~/.textbook-rag/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".textbook-rag", "config.toml"), nil
}

// Load reads configuration from path, applying defaults for absent keys.
// A missing file is not an error: the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate rejects configurations the pipeline cannot honour.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("config: chunk_size must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("config: chunk_overlap %d must be in [0, chunk_size)", c.ChunkOverlap)
	}
	if c.EmbeddingDimension <= 0 {
		return fmt.Errorf("config: embedding_dimension must be positive, got %d", c.EmbeddingDimension)
	}
	if c.ScoreThreshold < 0 || c.ScoreThreshold > 1 {
		return fmt.Errorf("config: score_threshold %g must be in [0, 1]", c.ScoreThreshold)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("config: batch_size must be positive, got %d", c.BatchSize)
	}
	return nil
}
