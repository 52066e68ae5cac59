// textbook-rag is a RAG chatbot for the Physical AI textbook.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/adapters/driven/config/file"
	openaiembed "github.com/ahmergit/hackathon-physical-ai-textbook/internal/adapters/driven/embedding/openai"
	openaillm "github.com/ahmergit/hackathon-physical-ai-textbook/internal/adapters/driven/llm/openai"
	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/adapters/driven/storage/sqlite"
	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/adapters/driven/vector/qdrant"
	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/adapters/driving/cli"
	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/chunker"
	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/core/services"
	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/logger"
)

// version is set via -ldflags at build time.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Local development convenience; absence is not an error.
	_ = godotenv.Load()

	cfgPath, err := file.DefaultPath()
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	cfg, err := file.Load(cfgPath)
	if err != nil {
		return err
	}
	cli.SetDocsRoot(cfg.DocsRoot)

	openaiKey := os.Getenv("OPENAI_API_KEY")
	qdrantKey := os.Getenv("QDRANT_API_KEY")
	if url := os.Getenv("QDRANT_URL"); url != "" {
		cfg.QdrantURL = url
	}

	store, err := qdrant.NewStore(qdrant.Config{
		URL:        cfg.QdrantURL,
		APIKey:     qdrantKey,
		Collection: cfg.Collection,
	})
	if err != nil {
		return err
	}

	if openaiKey == "" {
		// Commands that need OpenAI report this themselves; status and
		// version still work.
		logger.Debug("OPENAI_API_KEY not set; only offline commands available")
		cli.SetServices(nil, nil, nil, store)
		return cli.Execute(version)
	}

	embedder, err := openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     openaiKey,
		Model:      cfg.EmbeddingModel,
		Dimensions: cfg.EmbeddingDimension,
	})
	if err != nil {
		return err
	}

	enc, err := chunker.NewTiktokenEncoding(chunker.DefaultEncoding)
	if err != nil {
		return fmt.Errorf("load tokenizer: %w", err)
	}
	ch, err := chunker.New(enc,
		chunker.WithChunkSize(cfg.ChunkSize),
		chunker.WithOverlap(cfg.ChunkOverlap),
	)
	if err != nil {
		return err
	}

	pipeline, err := services.NewPipeline(embedder, store, ch,
		services.WithBatchSize(cfg.BatchSize),
	)
	if err != nil {
		return err
	}

	retriever, err := services.NewRetriever(embedder, store,
		services.WithScoreThreshold(cfg.ScoreThreshold),
		services.WithDefaultTopK(cfg.TopK),
	)
	if err != nil {
		return err
	}

	model, err := openaillm.NewChatModel(openaillm.Config{
		APIKey: openaiKey,
		Model:  cfg.ChatModel,
	})
	if err != nil {
		return err
	}

	chatOpts := []services.ChatOption{
		services.WithHistoryLimit(cfg.HistoryLimit),
	}

	if cfg.GuardEnabled {
		guard, err := openaillm.NewTopicGuard(openaillm.GuardConfig{APIKey: openaiKey})
		if err != nil {
			return err
		}
		chatOpts = append(chatOpts, services.WithTopicClassifier(guard))
	}

	historyPath, err := sqlite.DefaultPath()
	if err != nil {
		return fmt.Errorf("resolve history path: %w", err)
	}
	history, err := sqlite.New(historyPath)
	if err != nil {
		return err
	}
	defer history.Close()
	chatOpts = append(chatOpts, services.WithHistoryStore(history))

	chat, err := services.NewChat(model, retriever, chatOpts...)
	if err != nil {
		return err
	}

	cli.SetServices(pipeline, retriever, chat, store)
	return cli.Execute(version)
}
