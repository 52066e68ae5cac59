package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show vector collection status",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if vectorStore == nil {
		return errors.New("vector store not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	info, err := vectorStore.CollectionInfo(ctx)
	if err != nil {
		return fmt.Errorf("failed to read collection info: %w", err)
	}

	cmd.Printf("Points: %d\n", info.PointCount)
	cmd.Printf("Status: %s\n", info.Status)
	return nil
}
