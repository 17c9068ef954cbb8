package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/growthpilot-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/growthpilot-cli/internal/core/domain"
)

// mockAIValidator records validation calls and returns injected errors.
type mockAIValidator struct {
	embeddingErr   error
	llmErr         error
	embeddingCalls int
	llmCalls       int
}

func (m *mockAIValidator) ValidateEmbedding(_ *domain.EmbeddingSettings) error {
	m.embeddingCalls++
	return m.embeddingErr
}

func (m *mockAIValidator) ValidateLLM(_ *domain.LLMSettings) error {
	m.llmCalls++
	return m.llmErr
}

func TestNewSettingsService(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	require.NotNil(t, settings)

	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Assistant.Persona, settings.Assistant.Persona)
	assert.Equal(t, defaults.Assistant.TopK, settings.Assistant.TopK)
	assert.Equal(t, defaults.Embedding.Provider, settings.Embedding.Provider)
	assert.Equal(t, defaults.LLM.Provider, settings.LLM.Provider)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("assistant.persona", "Growth Strategist")
	_ = store.Set("assistant.top_k", 8)
	_ = store.Set("embedding.provider", "openai")
	_ = store.Set("embedding.model", "text-embedding-3-large")

	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, "Growth Strategist", settings.Assistant.Persona)
	assert.Equal(t, 8, settings.Assistant.TopK)
	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-large", settings.Embedding.Model)
}

func TestSettingsService_Get_InvalidProviderReturnsDefault(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "invalid_provider")

	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Embedding.Provider, settings.Embedding.Provider)
}

func TestSettingsService_Save(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	settings := &domain.AppSettings{
		Assistant: domain.AssistantSettings{
			Persona:     "Launch Copilot",
			TopK:        10,
			WorkspaceID: "ws-1",
		},
		Embedding: domain.EmbeddingSettings{
			Provider: domain.AIProviderOpenAI,
			Model:    "text-embedding-3-small",
			APIKey:   "sk-test-key",
		},
		LLM: domain.LLMSettings{
			Provider: domain.AIProviderAnthropic,
			Model:    "claude-3-5-sonnet-latest",
			APIKey:   "sk-ant-test",
		},
	}

	err := service.Save(settings)
	require.NoError(t, err)

	retrieved, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "Launch Copilot", retrieved.Assistant.Persona)
	assert.Equal(t, 10, retrieved.Assistant.TopK)
	assert.Equal(t, "ws-1", retrieved.Assistant.WorkspaceID)
	assert.Equal(t, domain.AIProviderOpenAI, retrieved.Embedding.Provider)
	assert.Equal(t, "sk-test-key", retrieved.Embedding.APIKey)
	assert.Equal(t, domain.AIProviderAnthropic, retrieved.LLM.Provider)
	assert.Equal(t, "claude-3-5-sonnet-latest", retrieved.LLM.Model)
	assert.Equal(t, "sk-ant-test", retrieved.LLM.APIKey)
}

func TestSettingsService_SetPersona(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	err := service.SetPersona("Brand Voice Coach")
	require.NoError(t, err)

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "Brand Voice Coach", settings.Assistant.Persona)
}

func TestSettingsService_SetPersona_Empty(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	err := service.SetPersona("")
	assert.Error(t, err)
}

func TestSettingsService_SetTopK(t *testing.T) {
	tests := []struct {
		name    string
		k       int
		wantErr bool
	}{
		{"minimum is valid", 1, false},
		{"typical value", 5, false},
		{"maximum is valid", 50, false},
		{"zero is invalid", 0, true},
		{"negative is invalid", -1, true},
		{"above maximum is invalid", 51, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			service := NewSettingsService(store, nil)

			err := service.SetTopK(tt.k)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			settings, err := service.Get()
			require.NoError(t, err)
			assert.Equal(t, tt.k, settings.Assistant.TopK)
		})
	}
}

func TestSettingsService_SetDefaultWorkspace(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	require.NoError(t, service.SetDefaultWorkspace("ws-42"))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "ws-42", settings.Assistant.WorkspaceID)

	// Clearing is allowed.
	require.NoError(t, service.SetDefaultWorkspace(""))
	settings, err = service.Get()
	require.NoError(t, err)
	assert.Empty(t, settings.Assistant.WorkspaceID)
}

func TestSettingsService_SetEmbeddingProvider(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	err := service.SetEmbeddingProvider(domain.AIProviderOpenAI, "", "sk-test")
	require.NoError(t, err)

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	// Empty model falls back to the provider default.
	assert.Equal(t, "text-embedding-3-small", settings.Embedding.Model)
	assert.Equal(t, "sk-test", settings.Embedding.APIKey)
	// Cloud providers get no base URL.
	assert.Empty(t, settings.Embedding.BaseURL)
}

func TestSettingsService_SetEmbeddingProvider_LocalGetsBaseURL(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	err := service.SetEmbeddingProvider(domain.AIProviderOllama, "nomic-embed-text", "")
	require.NoError(t, err)

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:11434", settings.Embedding.BaseURL)
}

func TestSettingsService_SetEmbeddingProvider_Anthropic(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	// Anthropic has no embeddings API.
	err := service.SetEmbeddingProvider(domain.AIProviderAnthropic, "", "sk-ant")
	assert.ErrorContains(t, err, "does not support embeddings")
}

func TestSettingsService_SetEmbeddingProvider_MissingKey(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	err := service.SetEmbeddingProvider(domain.AIProviderOpenAI, "", "")
	assert.ErrorContains(t, err, "API key required")
}

func TestSettingsService_SetLLMProvider(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	err := service.SetLLMProvider(domain.AIProviderAnthropic, "", "sk-ant-test")
	require.NoError(t, err)

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderAnthropic, settings.LLM.Provider)
	assert.Equal(t, "claude-3-5-sonnet-latest", settings.LLM.Model)
	assert.Equal(t, "sk-ant-test", settings.LLM.APIKey)
}

func TestSettingsService_SetLLMProvider_Invalid(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	err := service.SetLLMProvider(domain.AIProvider("gemini"), "", "")
	assert.ErrorContains(t, err, "invalid LLM provider")
}

func TestSettingsService_Validate(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	// Fresh install: nothing configured.
	err := service.Validate()
	assert.ErrorContains(t, err, "embedding provider")

	require.NoError(t, service.SetEmbeddingProvider(domain.AIProviderOllama, "", ""))
	err = service.Validate()
	assert.ErrorContains(t, err, "LLM provider")

	require.NoError(t, service.SetLLMProvider(domain.AIProviderOllama, "", ""))
	assert.NoError(t, service.Validate())
}

func TestSettingsService_ValidateEmbeddingConfig(t *testing.T) {
	store := memory.NewConfigStore()
	validator := &mockAIValidator{}
	service := NewSettingsService(store, validator)

	require.NoError(t, service.ValidateEmbeddingConfig())
	assert.Equal(t, 1, validator.embeddingCalls)

	validator.embeddingErr = errors.New("connection refused")
	assert.Error(t, service.ValidateEmbeddingConfig())
}

func TestSettingsService_ValidateLLMConfig_NilValidator(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	// No validator wired means validation is skipped.
	assert.NoError(t, service.ValidateLLMConfig())
}

func TestSettingsService_GetDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	defaults := service.GetDefaults()
	assert.Equal(t, domain.DefaultAppSettings(), defaults)
}
