package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/growthpilot-cli/internal/cache"
	"github.com/custodia-labs/growthpilot-cli/internal/core/domain"
	"github.com/custodia-labs/growthpilot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/growthpilot-cli/internal/metrics"
)

// mockLLM records prompts and serves a canned answer.
type mockLLM struct {
	answer      string
	generateErr error
	prompts     []string
}

func (m *mockLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.answer, nil
}

func (m *mockLLM) Chat(_ context.Context, _ []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	return m.answer, nil
}

func (m *mockLLM) ModelName() string              { return "mock" }
func (m *mockLLM) Ping(_ context.Context) error   { return nil }
func (m *mockLLM) Close() error                   { return nil }

func (m *mockLLM) lastPrompt(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, m.prompts)
	return m.prompts[len(m.prompts)-1]
}

func offerDoc(id, campaignID, workspaceID string) domain.Document {
	return domain.Document{
		Content: "Value Proposition / Offer: Pro Plan\nPrice Point: $49/mo\nMain Benefit: time savings",
		Metadata: map[string]any{
			domain.MetaID:          id,
			domain.MetaType:        "offer",
			domain.MetaEntityType:  "Offer",
			domain.MetaCampaignID:  campaignID,
			domain.MetaWorkspaceID: workspaceID,
		},
	}
}

func newAssistant(store *mockVectorStore, llm driven.LLMService) *AssistantService {
	return NewAssistantService(store, llm, cache.New(), metrics.NewRecorder())
}

func TestAsk_ConcreteOfferScenario(t *testing.T) {
	store := &mockVectorStore{searchResults: []domain.Document{offerDoc("off1", "camp1", "")}}
	llm := &mockLLM{answer: "The Pro Plan costs **$49/mo**."}
	svc := newAssistant(store, llm)

	answer, err := svc.Ask(context.Background(), "what is the price point for Pro Plan?", domain.AskContext{
		CampaignID: "camp1",
	})

	require.NoError(t, err)
	assert.Equal(t, "The Pro Plan costs **$49/mo**.", answer.Answer)
	assert.False(t, answer.Cached)
	require.Len(t, answer.Sources, 1)

	source := answer.Sources[0]
	assert.Equal(t, "off1", source.ID)
	assert.Equal(t, "off1", source.OriginalID)
	assert.Equal(t, "Offer", source.EntityType)
	assert.Equal(t, "/profile", source.URL)
	assert.Equal(t, "Pro Plan", source.Title)
	assert.True(t, strings.HasSuffix(source.Preview, "..."))
	assert.Equal(t, 5, store.lastK)
}

func TestAsk_CacheHitShortCircuits(t *testing.T) {
	store := &mockVectorStore{searchResults: []domain.Document{offerDoc("off1", "camp1", "ws1")}}
	llm := &mockLLM{answer: "cached answer"}
	svc := newAssistant(store, llm)
	ctx := context.Background()
	askCtx := domain.AskContext{WorkspaceID: "ws1"}

	first, err := svc.Ask(ctx, "what is our offer?", askCtx)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := svc.Ask(ctx, "what is our offer?", askCtx)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Answer, second.Answer)
	assert.Equal(t, first.Sources, second.Sources)

	assert.Len(t, llm.prompts, 1, "cache hit never reaches the model")

	report := svc.Metrics()
	assert.Equal(t, 2, report.TotalQueries)
	assert.Equal(t, 1, report.CacheHits)
}

func TestAsk_NoDataSentinelInPrompt(t *testing.T) {
	store := &mockVectorStore{} // nothing indexed
	llm := &mockLLM{answer: "I couldn't find any matching data in your workspace. Try generating this content first using the relevant tool."}
	svc := newAssistant(store, llm)

	answer, err := svc.Ask(context.Background(), "what campaigns exist?", domain.AskContext{})

	require.NoError(t, err)
	assert.Empty(t, answer.Sources)
	assert.Contains(t, llm.lastPrompt(t), NoDataContext)
	assert.NotContains(t, llm.lastPrompt(t), "--- Retrieved Context ---\n\n--- End Context ---",
		"context text is the sentinel, never an empty string")
}

func TestAsk_CampaignScopeExcludesOtherCampaigns(t *testing.T) {
	store := &mockVectorStore{searchResults: []domain.Document{
		offerDoc("offA", "campA", ""),
		offerDoc("offB", "campB", ""),
	}}
	llm := &mockLLM{answer: "ok"}
	svc := newAssistant(store, llm)

	answer, err := svc.Ask(context.Background(), "offers?", domain.AskContext{CampaignID: "campA"})

	require.NoError(t, err)
	require.Len(t, answer.Sources, 1)
	assert.Equal(t, "offA", answer.Sources[0].ID)
}

func TestAsk_SentinelDocumentNeverCited(t *testing.T) {
	sentinel := domain.SentinelDocument()
	store := &mockVectorStore{searchResults: []domain.Document{sentinel}}
	llm := &mockLLM{answer: "nothing here"}
	svc := newAssistant(store, llm)

	answer, err := svc.Ask(context.Background(), "anything?", domain.AskContext{})

	require.NoError(t, err)
	assert.Empty(t, answer.Sources)
	assert.Contains(t, llm.lastPrompt(t), NoDataContext)
}

func TestAsk_PageContextEnhancesQuery(t *testing.T) {
	store := &mockVectorStore{searchResults: []domain.Document{offerDoc("off1", "", "")}}
	llm := &mockLLM{answer: "ok"}
	svc := newAssistant(store, llm)

	_, err := svc.Ask(context.Background(), "what do we charge?", domain.AskContext{
		CurrentPath: "/pricing",
	})

	require.NoError(t, err)
	assert.Equal(t, "what do we charge? pricing model tier strategy package", store.lastQuery)
}

func TestAsk_UnknownPathLeavesQueryAlone(t *testing.T) {
	store := &mockVectorStore{searchResults: []domain.Document{offerDoc("off1", "", "")}}
	llm := &mockLLM{answer: "ok"}
	svc := newAssistant(store, llm)

	_, err := svc.Ask(context.Background(), "what do we charge?", domain.AskContext{
		CurrentPath: "/dashboard",
	})

	require.NoError(t, err)
	assert.Equal(t, "what do we charge?", store.lastQuery)
}

func TestAsk_PersonaAndPathInPrompt(t *testing.T) {
	store := &mockVectorStore{searchResults: []domain.Document{offerDoc("off1", "", "")}}
	llm := &mockLLM{answer: "ok"}
	svc := newAssistant(store, llm)

	_, err := svc.Ask(context.Background(), "hello?", domain.AskContext{
		Persona:     "Pricing Strategist",
		CurrentPath: "/pricing",
	})

	require.NoError(t, err)
	prompt := llm.lastPrompt(t)
	assert.Contains(t, prompt, "You are Pricing Strategist for AI Growth Pilot.")
	assert.Contains(t, prompt, "User Location: /pricing")
}

func TestAsk_DefaultPersona(t *testing.T) {
	store := &mockVectorStore{searchResults: []domain.Document{offerDoc("off1", "", "")}}
	llm := &mockLLM{answer: "ok"}
	svc := newAssistant(store, llm)

	_, err := svc.Ask(context.Background(), "hello?", domain.AskContext{})

	require.NoError(t, err)
	prompt := llm.lastPrompt(t)
	assert.Contains(t, prompt, "You are "+DefaultPersona+" for AI Growth Pilot.")
	assert.Contains(t, prompt, "User Location: /")
}

func TestAsk_ModelFailureLogsZeroDocSample(t *testing.T) {
	store := &mockVectorStore{searchResults: []domain.Document{offerDoc("off1", "", "")}}
	llm := &mockLLM{generateErr: errors.New("rate limited")}
	svc := newAssistant(store, llm)

	_, err := svc.Ask(context.Background(), "question?", domain.AskContext{})

	require.ErrorIs(t, err, domain.ErrModel)

	report := svc.Metrics()
	require.Equal(t, 1, report.TotalQueries)
	require.Len(t, report.Recent, 1)
	assert.Equal(t, 0, report.Recent[0].DocumentCount)
	assert.False(t, report.Recent[0].CacheHit)
}

func TestAsk_FailureNeverCached(t *testing.T) {
	store := &mockVectorStore{searchResults: []domain.Document{offerDoc("off1", "", "")}}
	llm := &mockLLM{generateErr: errors.New("down")}
	svc := newAssistant(store, llm)
	ctx := context.Background()

	_, err := svc.Ask(ctx, "question?", domain.AskContext{})
	require.Error(t, err)

	llm.generateErr = nil
	llm.answer = "recovered"
	answer, err := svc.Ask(ctx, "question?", domain.AskContext{})

	require.NoError(t, err)
	assert.False(t, answer.Cached, "the failed attempt must not have cached anything")
	assert.Equal(t, "recovered", answer.Answer)
}

func TestAsk_SearchFailureSurfaces(t *testing.T) {
	store := &mockVectorStore{searchErr: domain.ErrEmbedding}
	llm := &mockLLM{answer: "never"}
	svc := newAssistant(store, llm)

	_, err := svc.Ask(context.Background(), "question?", domain.AskContext{})

	require.ErrorIs(t, err, domain.ErrEmbedding)
	assert.Empty(t, llm.prompts)

	report := svc.Metrics()
	assert.Equal(t, 1, report.TotalQueries)
}

func TestAsk_EmptyQuestion(t *testing.T) {
	svc := newAssistant(&mockVectorStore{}, &mockLLM{})

	_, err := svc.Ask(context.Background(), "   ", domain.AskContext{})

	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAsk_NilLLM(t *testing.T) {
	svc := newAssistant(&mockVectorStore{}, nil)

	_, err := svc.Ask(context.Background(), "question?", domain.AskContext{})

	require.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

// stubPromptStore serves a fixed template.
type stubPromptStore struct{ template string }

func (s *stubPromptStore) Load(_ string) (string, error) { return s.template, nil }
func (s *stubPromptStore) Reload()                       {}

func TestAsk_CustomPromptTemplate(t *testing.T) {
	store := &mockVectorStore{searchResults: []domain.Document{offerDoc("off1", "", "")}}
	llm := &mockLLM{answer: "ok"}
	svc := newAssistant(store, llm)
	svc.SetPromptStore(&stubPromptStore{template: "P=%s L=%s C=%s Q=%s"})

	_, err := svc.Ask(context.Background(), "custom?", domain.AskContext{Persona: "X"})

	require.NoError(t, err)
	prompt := llm.lastPrompt(t)
	assert.True(t, strings.HasPrefix(prompt, "P=X L=/ C="))
	assert.True(t, strings.HasSuffix(prompt, "Q=custom?"))
}

func TestPreview_ShortContent(t *testing.T) {
	assert.Equal(t, "short...", preview("short"))
}

func TestPreview_LongContent(t *testing.T) {
	long := strings.Repeat("x", 150)
	got := preview(long)
	assert.Len(t, got, previewLength+3)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestPreview_MultibyteContent(t *testing.T) {
	long := strings.Repeat("é", 150)
	got := preview(long)

	assert.True(t, utf8.ValidString(got), "preview must not split a rune")
	assert.Equal(t, previewLength+3, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
}
