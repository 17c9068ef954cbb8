package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/growthpilot-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/growthpilot-cli/internal/core/domain"
)

var (
	chatCampaign  string
	chatWorkspace string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Launch the interactive chat UI",
	Long: `Launch an interactive terminal chat with the workspace assistant.

Answers are grounded in your indexed content and cite their sources.

Controls:
  Enter       Send question
  ↑/↓, PgUp   Scroll conversation
  Esc, ctrl+c Quit`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatCampaign, "campaign", "", "scope retrieval to a campaign ID")
	chatCmd.Flags().StringVar(&chatWorkspace, "workspace", "", "scope retrieval to a workspace ID")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if assistantService == nil {
		return errors.New("assistant service not configured")
	}

	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat UI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	workspace := chatWorkspace
	if workspace == "" && settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			workspace = settings.Assistant.WorkspaceID
		}
	}

	ports := &tui.Ports{Assistant: assistantService}

	app, err := tui.NewApp(ports, domain.AskContext{
		WorkspaceID: workspace,
		CampaignID:  chatCampaign,
	})
	if err != nil {
		return fmt.Errorf("failed to create chat UI: %w", err)
	}

	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat UI error: %w", err)
	}

	return nil
}
