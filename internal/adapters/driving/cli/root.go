// Package cli implements the textbook-rag command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/core/ports/driven"
	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/core/ports/driving"
	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/logger"
)

// Services injected by main before Execute runs. Commands check for nil so
// that partial wiring (e.g. no OpenAI key) still lets unrelated commands work.
var (
	ingestService   driving.Ingestor
	retrieveService driving.RetrieverService
	chatService     driving.ChatService
	vectorStore     driven.VectorStore
)

var (
	version = "dev"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "textbook-rag",
	Short: "RAG chatbot for the Physical AI textbook",
	Long: `textbook-rag ingests the textbook's markdown sources into a Qdrant
vector collection and answers questions about the material with citations
back to the exact sections used.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// SetServices wires the application services into the command tree.
func SetServices(
	ingestor driving.Ingestor,
	retriever driving.RetrieverService,
	chat driving.ChatService,
	store driven.VectorStore,
) {
	ingestService = ingestor
	retrieveService = retriever
	chatService = chat
	vectorStore = store
}

// Execute runs the root command with the given build version.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.Execute()
}
