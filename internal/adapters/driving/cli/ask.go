package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/growthpilot-cli/internal/core/domain"
)

var (
	askCampaign  string
	askWorkspace string
	askPath      string
	askPersona   string
	askJSON      bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your workspace",
	Long: `Answers a question grounded strictly in your indexed marketing content.
Retrieval is scoped to the narrowest filter you provide: a campaign,
then a workspace, then everything indexed. Answers cite their sources.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askCampaign, "campaign", "", "scope retrieval to a campaign ID")
	askCmd.Flags().StringVar(&askWorkspace, "workspace", "", "scope retrieval to a workspace ID")
	askCmd.Flags().StringVar(&askPath, "path", "", "app route context for query enhancement (e.g. /pricing)")
	askCmd.Flags().StringVar(&askPersona, "persona", "", "override the assistant persona")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	if assistantService == nil {
		return errors.New("assistant service not configured")
	}

	workspace := askWorkspace
	if workspace == "" && settingsService != nil {
		// Fall back to the configured default workspace.
		if settings, err := settingsService.Get(); err == nil {
			workspace = settings.Assistant.WorkspaceID
		}
	}

	askCtx := domain.AskContext{
		WorkspaceID: workspace,
		CampaignID:  askCampaign,
		CurrentPath: askPath,
		Persona:     askPersona,
	}

	answer, err := assistantService.Ask(context.Background(), question, askCtx)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		out, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode answer: %w", err)
		}
		cmd.Println(string(out))
		return nil
	}

	cmd.Println(answer.Answer)

	if len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for i, src := range answer.Sources {
			title := src.Title
			if title == "" {
				title = src.ID
			}
			cmd.Printf("  %d. %s (%s) %s\n", i+1, title, src.EntityType, src.URL)
		}
	}

	if answer.Cached {
		cmd.Println()
		cmd.Println("(cached)")
	}

	return nil
}
