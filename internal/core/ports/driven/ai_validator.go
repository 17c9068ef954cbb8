package driven

import "github.com/custodia-labs/growthpilot-cli/internal/core/domain"

// AIConfigValidator validates AI provider configurations.
// Implementations typically construct the provider client and ping it.
type AIConfigValidator interface {
	// ValidateEmbedding validates an embedding configuration by pinging the provider.
	ValidateEmbedding(config *domain.EmbeddingSettings) error

	// ValidateLLM validates an LLM configuration by pinging the provider.
	ValidateLLM(config *domain.LLMSettings) error
}
