// Package cli provides the growthpilot command-line interface.
// It is a driving adapter: commands translate terminal input into calls
// on the core service ports.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/growthpilot-cli/internal/cache"
	"github.com/custodia-labs/growthpilot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/growthpilot-cli/internal/core/ports/driving"
	"github.com/custodia-labs/growthpilot-cli/internal/logger"
)

// version is the build version, overridden at build time via
// -ldflags "-X .../cli.version=v1.2.3".
var version = "dev"

// Injected services. Commands nil-check these so the package stays
// testable without a full composition root.
var (
	assistantService driving.AssistantService
	indexerService   driving.IndexerService
	settingsService  driving.SettingsService
	vectorStore      driven.VectorStore
	queryCache       *cache.QueryCache
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "growthpilot",
	Short: "Grounded marketing workspace assistant",
	Long: `GrowthPilot indexes your marketing workspace (campaigns, offers,
strategies, copy, audiences) into a local vector store and answers
questions grounded strictly in that content, with navigable citations.

Run 'growthpilot settings wizard' first to configure AI providers.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

// Services aggregates everything the commands need. A single injection
// point keeps the composition root in main.
type Services struct {
	Assistant driving.AssistantService
	Indexer   driving.IndexerService
	Settings  driving.SettingsService

	// VectorStore backs the clear command.
	VectorStore driven.VectorStore

	// Cache is invalidated alongside the vector store.
	Cache *cache.QueryCache
}

// SetServices wires the core services into the command tree.
func SetServices(s Services) {
	assistantService = s.Assistant
	indexerService = s.Indexer
	settingsService = s.Settings
	vectorStore = s.VectorStore
	queryCache = s.Cache
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
