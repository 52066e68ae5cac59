package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/core/domain"
	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/logger"
)

var ingestWatch bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [docs-root]",
	Short: "Index textbook markdown into the vector collection",
	Long: `Walks the docs tree, splits each chapter into sections and token-bounded
chunks, embeds them, and replaces the vector collection with the result.
A full re-run always rebuilds the collection from scratch.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "re-ingest when markdown files change")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	docsRoot := docsRootDefault
	if len(args) > 0 {
		docsRoot = args[0]
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := ingestOnce(ctx, cmd, docsRoot); err != nil {
		return err
	}
	if !ingestWatch {
		return nil
	}
	return watchAndIngest(ctx, cmd, docsRoot)
}

// docsRootDefault is overridden by main from the loaded configuration.
var docsRootDefault = "book-source/docs"

// SetDocsRoot sets the default docs tree used when none is given on the
// command line.
func SetDocsRoot(root string) {
	if root != "" {
		docsRootDefault = root
	}
}

func ingestOnce(ctx context.Context, cmd *cobra.Command, docsRoot string) error {
	cmd.Printf("Ingesting %s...\n", docsRoot)
	start := time.Now()

	summary, err := ingestService.Ingest(ctx, docsRoot)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	printSummary(cmd, summary, time.Since(start))
	return nil
}

func printSummary(cmd *cobra.Command, s domain.IngestSummary, elapsed time.Duration) {
	cmd.Printf("Done in %s.\n", elapsed.Round(time.Millisecond))
	cmd.Printf("  Files processed: %d\n", s.FilesProcessed)
	if s.FilesSkipped > 0 {
		cmd.Printf("  Files skipped:   %d\n", s.FilesSkipped)
	}
	cmd.Printf("  Sections:        %d\n", s.Sections)
	cmd.Printf("  Chunks:          %d\n", s.Chunks)
	cmd.Printf("  Points written:  %d\n", s.PointsWritten)
	if s.PointsFailed > 0 {
		cmd.Printf("  Points failed:   %d\n", s.PointsFailed)
	}
}

// watchAndIngest re-runs the full ingest whenever a markdown file under
// docsRoot changes. Events are debounced so an editor save burst triggers a
// single run.
func watchAndIngest(ctx context.Context, cmd *cobra.Command, docsRoot string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, docsRoot); err != nil {
		return err
	}

	cmd.Printf("Watching %s for changes (Ctrl+C to stop)...\n", docsRoot)

	const debounce = 2 * time.Second
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isMarkdownEvent(event) {
				continue
			}
			logger.Debug("change detected: %s", event.Name)
			if timer == nil {
				timer = time.NewTimer(debounce)
				fire = timer.C
			} else {
				timer.Reset(debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		case <-fire:
			timer = nil
			fire = nil
			if err := ingestOnce(ctx, cmd, docsRoot); err != nil {
				logger.Warn("re-ingest failed: %v", err)
			}
		}
	}
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

func isMarkdownEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	return ext == ".md" || ext == ".mdx"
}
