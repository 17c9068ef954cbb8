// Command growthpilot is the grounded marketing workspace assistant CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/growthpilot-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/growthpilot-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/growthpilot-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/growthpilot-cli/internal/adapters/driven/vectorstore"
	"github.com/custodia-labs/growthpilot-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/growthpilot-cli/internal/cache"
	"github.com/custodia-labs/growthpilot-cli/internal/core/services"
	"github.com/custodia-labs/growthpilot-cli/internal/logger"
	"github.com/custodia-labs/growthpilot-cli/internal/metrics"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run builds the service graph and hands control to the command tree.
//
// AI providers may be unconfigured or unreachable; in that case the
// assistant and indexer stay nil and only settings commands work, so a
// first run can reach 'settings wizard'.
func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("failed to open config store: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	queryCache := cache.New()
	recorder := metrics.NewRecorder()

	svcs := cli.Services{
		Settings: settingsService,
		Cache:    queryCache,
	}

	embedder, err := ai.CreateAndValidateEmbeddingService(&settings.Embedding)
	if err != nil {
		logger.Warn("embedding service unavailable: %v", err)
	}

	if embedder != nil {
		docStore, err := sqlite.NewStore("")
		if err != nil {
			return fmt.Errorf("failed to open document store: %w", err)
		}

		store, err := vectorstore.NewStore(embedder, docStore, vectorstore.Config{})
		if err != nil {
			return fmt.Errorf("failed to create vector store: %w", err)
		}
		if err := store.Initialize(context.Background()); err != nil {
			return fmt.Errorf("failed to initialise vector store: %w", err)
		}

		llm, err := ai.CreateAndValidateLLMService(&settings.LLM)
		if err != nil {
			logger.Warn("LLM service unavailable: %v", err)
		}

		assistant := services.NewAssistantService(store, llm, queryCache, recorder)
		assistant.SetTopK(settings.Assistant.TopK)

		promptStore, err := file.NewPromptStore("")
		if err != nil {
			logger.Warn("prompt store unavailable, using built-in prompts: %v", err)
		} else {
			assistant.SetPromptStore(promptStore)
		}

		svcs.Assistant = assistant
		svcs.Indexer = services.NewIndexerService(store)
		svcs.VectorStore = store

		defer store.Close() //nolint:errcheck // best-effort shutdown
	}

	cli.SetServices(svcs)
	return cli.Execute()
}
