package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/core/domain"
	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/core/services"
)

var (
	searchTopK    int
	searchChapter string
	searchJSON    bool
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	snippetStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).PaddingLeft(6)
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the indexed textbook",
	Long: `Embeds the query and returns the most similar textbook chunks along
with citation links back to the source pages.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "n", 0, "maximum number of results (0 = default)")
	searchCmd.Flags().StringVarP(&searchChapter, "chapter", "c", "", "restrict results to a chapter ID")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output citations as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if retrieveService == nil {
		return errors.New("retrieval service not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	chunks, err := retrieveService.Retrieve(ctx, query, searchTopK, searchChapter)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, chunks)
	}
	return outputSearchText(cmd, chunks)
}

func outputSearchJSON(cmd *cobra.Command, chunks []domain.RetrievedChunk) error {
	citations, err := services.BuildCitations(chunks)
	if err != nil {
		return fmt.Errorf("failed to build citations: %w", err)
	}
	data, err := json.MarshalIndent(citations, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal citations: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchText(cmd *cobra.Command, chunks []domain.RetrievedChunk) error {
	if len(chunks) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, c := range chunks {
		title := c.SectionTitle
		if c.Heading != "" {
			title += " > " + c.Heading
		}

		snippet := domain.Snippet(c.Content)

		cmd.Printf("  [%d] %s %s\n", i+1,
			titleStyle.Render(title),
			scoreStyle.Render(fmt.Sprintf("(%.2f)", c.Score)))
		cmd.Printf("      %s\n", pathStyle.Render(c.PagePath))
		cmd.Println(snippetStyle.Render(snippet))
		cmd.Println()
	}
	return nil
}
