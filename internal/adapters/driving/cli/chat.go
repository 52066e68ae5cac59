package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/core/domain"
	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/core/ports/driving"
)

var (
	chatSession  string
	chatAction   string
	chatSelected string
)

var (
	promptStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	citationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Chat with the textbook",
	Long: `Answers questions about the textbook using retrieved content, streaming
the answer as it is generated and citing the sections it drew from.
With a message argument a single turn is run; without one an interactive
session starts.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatSession, "session", "s", "", "session ID for conversation history (default: new session)")
	chatCmd.Flags().StringVarP(&chatAction, "action", "a", "", "quick action: explain, summarize or simplify")
	chatCmd.Flags().StringVar(&chatSelected, "selected", "", "selected passage the question refers to")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	session := chatSession
	if session == "" {
		session = uuid.NewString()
	}

	if len(args) > 0 {
		return chatTurn(ctx, cmd, session, args[0])
	}
	return chatLoop(ctx, cmd, session)
}

func chatLoop(ctx context.Context, cmd *cobra.Command, session string) error {
	cmd.Printf("Session %s. Type a question, or \"exit\" to quit.\n\n", session)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cmd.Print(promptStyle.Render("> ") + " ")
		if !scanner.Scan() {
			cmd.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}
		if err := chatTurn(ctx, cmd, session, line); err != nil {
			cmd.Println(errorStyle.Render(fmt.Sprintf("error: %v", err)))
		}
	}
}

func chatTurn(ctx context.Context, cmd *cobra.Command, session, message string) error {
	req := driving.ChatRequest{
		SessionID:    session,
		Message:      message,
		SelectedText: chatSelected,
		QuickAction:  chatAction,
	}

	var turnErr error
	err := chatService.StreamTurn(ctx, req, func(event driving.ChatEvent) {
		switch event.Type {
		case driving.EventDelta:
			cmd.Print(event.Content)
		case driving.EventDone:
			cmd.Println()
			printCitations(cmd, event.Citations)
		case driving.EventError:
			cmd.Println()
			turnErr = fmt.Errorf("%s: %s", event.Code, event.Content)
		}
	})
	if err != nil {
		return err
	}
	return turnErr
}

func printCitations(cmd *cobra.Command, citations []domain.Citation) {
	if len(citations) == 0 {
		return
	}
	cmd.Println()
	cmd.Println(citationStyle.Render("Sources:"))
	for i, c := range citations {
		cmd.Println(citationStyle.Render(fmt.Sprintf("  [%d] %s - %s", i+1, c.Title, c.URL)))
	}
	cmd.Println()
}
