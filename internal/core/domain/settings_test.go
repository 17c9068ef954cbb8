package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestAIProvider_IsValid tests all valid and invalid providers
func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider AIProvider
		expected bool
	}{
		{
			name:     "ollama is valid",
			provider: AIProviderOllama,
			expected: true,
		},
		{
			name:     "openai is valid",
			provider: AIProviderOpenAI,
			expected: true,
		},
		{
			name:     "anthropic is valid",
			provider: AIProviderAnthropic,
			expected: true,
		},
		{
			name:     "empty string is invalid",
			provider: AIProvider(""),
			expected: false,
		},
		{
			name:     "unknown provider is invalid",
			provider: AIProvider("gemini"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

// TestAIProvider_RequiresAPIKey tests API key requirements per provider
func TestAIProvider_RequiresAPIKey(t *testing.T) {
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.True(t, AIProviderAnthropic.RequiresAPIKey())
}

func TestAIProvider_IsLocal(t *testing.T) {
	assert.True(t, AIProviderOllama.IsLocal())
	assert.False(t, AIProviderOpenAI.IsLocal())
	assert.False(t, AIProviderAnthropic.IsLocal())
}

func TestAIProvider_Description(t *testing.T) {
	assert.Equal(t, "Ollama (local)", AIProviderOllama.Description())
	assert.Equal(t, "OpenAI (cloud)", AIProviderOpenAI.Description())
	assert.Equal(t, "Anthropic (cloud)", AIProviderAnthropic.Description())
	assert.Equal(t, "Unknown", AIProvider("gemini").Description())
}

// TestEmbeddingSettings_IsConfigured tests embedding configuration states
func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings EmbeddingSettings
		expected bool
	}{
		{
			name:     "unconfigured is not configured",
			settings: EmbeddingSettings{},
			expected: false,
		},
		{
			name: "ollama without key is configured",
			settings: EmbeddingSettings{
				Provider: AIProviderOllama,
				Model:    "nomic-embed-text",
			},
			expected: true,
		},
		{
			name: "openai without key is not configured",
			settings: EmbeddingSettings{
				Provider: AIProviderOpenAI,
				Model:    "text-embedding-3-small",
			},
			expected: false,
		},
		{
			name: "openai with key is configured",
			settings: EmbeddingSettings{
				Provider: AIProviderOpenAI,
				Model:    "text-embedding-3-small",
				APIKey:   "sk-test",
			},
			expected: true,
		},
		{
			name: "invalid provider is not configured",
			settings: EmbeddingSettings{
				Provider: AIProvider("gemini"),
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.IsConfigured())
		})
	}
}

// TestLLMSettings_IsConfigured tests LLM configuration states
func TestLLMSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings LLMSettings
		expected bool
	}{
		{
			name:     "unconfigured is not configured",
			settings: LLMSettings{},
			expected: false,
		},
		{
			name: "ollama without key is configured",
			settings: LLMSettings{
				Provider: AIProviderOllama,
				Model:    "llama3.2",
			},
			expected: true,
		},
		{
			name: "anthropic without key is not configured",
			settings: LLMSettings{
				Provider: AIProviderAnthropic,
				Model:    "claude-3-5-sonnet-latest",
			},
			expected: false,
		},
		{
			name: "anthropic with key is configured",
			settings: LLMSettings{
				Provider: AIProviderAnthropic,
				Model:    "claude-3-5-sonnet-latest",
				APIKey:   "sk-ant-test",
			},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.IsConfigured())
		})
	}
}

func TestDefaultAppSettings(t *testing.T) {
	defaults := DefaultAppSettings()

	assert.Equal(t, "AI Marketing Copilot", defaults.Assistant.Persona)
	assert.Equal(t, 5, defaults.Assistant.TopK)
	assert.Empty(t, defaults.Assistant.WorkspaceID)

	// AI providers start unconfigured.
	assert.False(t, defaults.Embedding.IsConfigured())
	assert.False(t, defaults.LLM.IsConfigured())
}

func TestAllEmbeddingProviders_ExcludesAnthropic(t *testing.T) {
	providers := AllEmbeddingProviders()

	assert.Contains(t, providers, AIProviderOllama)
	assert.Contains(t, providers, AIProviderOpenAI)
	assert.NotContains(t, providers, AIProviderAnthropic)
}

func TestDefaultModels_CoverAllProviders(t *testing.T) {
	embedDefaults := DefaultEmbeddingModels()
	for _, p := range AllEmbeddingProviders() {
		assert.NotEmpty(t, embedDefaults[p], "missing embedding default for %s", p)
	}

	llmDefaults := DefaultLLMModels()
	for _, p := range AllLLMProviders() {
		assert.NotEmpty(t, llmDefaults[p], "missing LLM default for %s", p)
	}
}

func TestEmbeddingDimensions_KnownModels(t *testing.T) {
	dims := EmbeddingDimensions()

	assert.Equal(t, 768, dims["nomic-embed-text"])
	assert.Equal(t, 1536, dims["text-embedding-3-small"])
	assert.Equal(t, 3072, dims["text-embedding-3-large"])
	assert.Zero(t, dims["unknown-model"])
}
