package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/growthpilot-cli/internal/cache"
	"github.com/custodia-labs/growthpilot-cli/internal/core/domain"
	"github.com/custodia-labs/growthpilot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/growthpilot-cli/internal/core/ports/driving"
	"github.com/custodia-labs/growthpilot-cli/internal/logger"
	"github.com/custodia-labs/growthpilot-cli/internal/metrics"
)

// Ensure AssistantService implements the interfaces.
var (
	_ driving.AssistantService = (*AssistantService)(nil)
	_ driven.PromptStoreAware  = (*AssistantService)(nil)
)

// Answering defaults.
const (
	// DefaultTopK is the retrieval depth per question.
	DefaultTopK = 5

	// DefaultPersona is used when the caller supplies none.
	DefaultPersona = "AI Marketing Copilot"

	// NoDataContext replaces an empty retrieval result in the prompt.
	// The grounding rules instruct the model to admit absence of data
	// when it sees this, instead of answering from general knowledge.
	NoDataContext = "NO RELEVANT DATA FOUND FOR THIS CAMPAIGN."

	answerMaxTokens = 500
	previewLength   = 100
)

// defaultAnswerPrompt is the fallback grounding prompt when no
// PromptStore is configured. Placeholders: persona, current path,
// retrieved context, question.
const defaultAnswerPrompt = `You are %s for AI Growth Pilot.

CRITICAL RULES:
1. You MUST ONLY answer based on the "Retrieved Context" below.
2. If the context is empty or does not contain relevant information, say: "I couldn't find any matching data in your workspace. Try generating this content first using the relevant tool."
3. DO NOT make up information. DO NOT use general knowledge. ONLY use the context.
4. Be concise and use markdown (**bold**, lists, headers).

User Location: %s

--- Retrieved Context ---
%s
--- End Context ---

Question: %s

Answer (ONLY from context above):`

// pageHint boosts short questions with the vocabulary of the page the
// user is viewing. Matching is ordered substring lookup on the path.
type pageHint struct {
	key   string
	hints string
}

var pageHints = []pageHint{
	{"value-proposition", "offer value proposition benefits differentiators pricing"},
	{"value_proposition", "offer value proposition benefits differentiators pricing"},
	{"offers", "offer value proposition pricing model"},
	{"pricing", "pricing model tier strategy package"},
	{"audience", "audience profile persona demographics pain points"},
	{"icp", "audience profile ideal customer persona"},
	{"brand", "brand kit identity mission vision values"},
	{"gtm", "go to market task readiness launch"},
	{"competitive", "competitor analysis strengths weaknesses"},
	{"keyword", "keyword research SEO opportunity"},
	{"content", "content asset blog post social video"},
	{"email", "email marketing sequence campaign"},
	{"copy", "copywriting sales copy persuasion"},
	{"reddit", "reddit market insight community"},
	{"quora", "quora questions insights trends"},
}

// AssistantService answers questions grounded strictly in indexed
// workspace content. Retrieval scope narrows by specificity (campaign >
// workspace > global); answers carry navigable source citations and are
// cached per (question, workspace).
type AssistantService struct {
	store       driven.VectorStore
	llm         driven.LLMService
	queryCache  *cache.QueryCache
	recorder    *metrics.Recorder
	promptStore driven.PromptStore
	topK        int
}

// NewAssistantService creates an assistant over the given vector store
// and LLM. The cache and recorder are required; the LLM may be nil, in
// which case Ask fails with ErrLLMUnavailable.
func NewAssistantService(
	store driven.VectorStore,
	llm driven.LLMService,
	queryCache *cache.QueryCache,
	recorder *metrics.Recorder,
) *AssistantService {
	return &AssistantService{
		store:      store,
		llm:        llm,
		queryCache: queryCache,
		recorder:   recorder,
		topK:       DefaultTopK,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the service uses the hardcoded default prompt.
func (s *AssistantService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// SetTopK overrides the retrieval depth. Values outside [1, 50] are
// ignored.
func (s *AssistantService) SetTopK(k int) {
	if k >= 1 && k <= 50 {
		s.topK = k
	}
}

// Ask answers a question within the caller's context.
//
// Failures after the cache check are recorded as zero-document samples
// and returned to the caller; they never pollute the cache.
func (s *AssistantService) Ask(ctx context.Context, question string, askCtx domain.AskContext) (*domain.Answer, error) {
	start := time.Now()

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	if entry := s.queryCache.Get(question, askCtx.WorkspaceID); entry != nil {
		logger.Debug("Assistant: cache hit for %q", question)
		s.recorder.LogQuery(question, time.Since(start), len(entry.Sources), true)
		return &domain.Answer{
			Answer:  entry.Answer,
			Sources: entry.Sources,
			Cached:  true,
		}, nil
	}

	enhanced := enhanceQuery(question, askCtx.CurrentPath)

	docs, err := s.retrieve(ctx, enhanced, askCtx)
	if err != nil {
		s.recorder.LogQuery(question, time.Since(start), 0, false)
		return nil, err
	}

	logger.Debug("Assistant: %q retrieved %d documents (enhanced: %q)", question, len(docs), enhanced)

	contextText := NoDataContext
	if len(docs) > 0 {
		contents := make([]string, len(docs))
		for i, doc := range docs {
			contents[i] = doc.Content
		}
		contextText = strings.Join(contents, "\n\n")
	}

	prompt := s.buildPrompt(question, contextText, askCtx)

	answer, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens: answerMaxTokens,
	})
	if err != nil {
		s.recorder.LogQuery(question, time.Since(start), 0, false)
		return nil, fmt.Errorf("%w: %w", domain.ErrModel, err)
	}

	sources := deriveSources(docs)

	s.queryCache.Set(question, answer, sources, askCtx.WorkspaceID)
	s.recorder.LogQuery(question, time.Since(start), len(docs), false)

	return &domain.Answer{
		Answer:  answer,
		Sources: sources,
		Cached:  false,
	}, nil
}

// retrieve runs the scoped search, narrowest applicable filter first.
// Sentinel documents never count as retrieved content.
func (s *AssistantService) retrieve(ctx context.Context, query string, askCtx domain.AskContext) ([]domain.Document, error) {
	var predicate func(domain.Document) bool

	switch {
	case askCtx.CampaignID != "":
		logger.Debug("Assistant: filtering by campaign %s", askCtx.CampaignID)
		predicate = func(doc domain.Document) bool {
			return !doc.IsSentinel() && doc.MetaString(domain.MetaCampaignID) == askCtx.CampaignID
		}
	case askCtx.WorkspaceID != "":
		logger.Debug("Assistant: filtering by workspace %s", askCtx.WorkspaceID)
		predicate = func(doc domain.Document) bool {
			return !doc.IsSentinel() && doc.MetaString(domain.MetaWorkspaceID) == askCtx.WorkspaceID
		}
	default:
		predicate = func(doc domain.Document) bool {
			return !doc.IsSentinel()
		}
	}

	return s.store.SearchFiltered(ctx, query, s.topK, predicate)
}

// buildPrompt assembles the strictly grounded prompt. Grounding is a
// prompt-level contract: the model is instructed, not forced.
func (s *AssistantService) buildPrompt(question, contextText string, askCtx domain.AskContext) string {
	persona := askCtx.Persona
	if persona == "" {
		persona = DefaultPersona
	}
	currentPath := askCtx.CurrentPath
	if currentPath == "" {
		currentPath = "/"
	}

	template := defaultAnswerPrompt
	if s.promptStore != nil {
		if loaded, err := s.promptStore.Load(driven.PromptAssistantAnswer); err == nil {
			template = loaded
		}
	}

	return fmt.Sprintf(template, persona, currentPath, contextText, question)
}

// enhanceQuery appends page-context vocabulary to the question when the
// user's current path matches a known page.
func enhanceQuery(question, currentPath string) string {
	if currentPath == "" {
		return question
	}

	pathLower := strings.ToLower(currentPath)
	for _, hint := range pageHints {
		if strings.Contains(pathLower, hint.key) {
			return question + " " + hint.hints
		}
	}
	return question
}

// deriveSources maps retrieved documents to navigable citations.
func deriveSources(docs []domain.Document) []domain.Source {
	sources := make([]domain.Source, 0, len(docs))
	for _, doc := range docs {
		id := doc.MetaString(domain.MetaID)
		originalID := doc.MetaString(domain.MetaOriginalID)
		if originalID == "" {
			originalID = id
		}

		sources = append(sources, domain.Source{
			Type:        doc.MetaString(domain.MetaType),
			EntityType:  doc.MetaString(domain.MetaEntityType),
			ID:          id,
			OriginalID:  originalID,
			CampaignID:  doc.MetaString(domain.MetaCampaignID),
			WorkspaceID: doc.MetaString(domain.MetaWorkspaceID),
			Preview:     preview(doc.Content),
			URL:         domain.RouteForEntity(doc.MetaString(domain.MetaEntityType), doc.MetaString(domain.MetaType)),
			Title:       domain.TitleFromContent(doc.Content),
		})
	}
	return sources
}

// preview returns the first 100 characters of content with an ellipsis.
// Truncation counts runes so multibyte content is never split mid-rune.
func preview(content string) string {
	if len(content) <= previewLength {
		return content + "..."
	}
	runes := []rune(content)
	if len(runes) <= previewLength {
		return content + "..."
	}
	return string(runes[:previewLength]) + "..."
}

// Metrics returns aggregate query statistics.
func (s *AssistantService) Metrics() metrics.Report {
	return s.recorder.Report()
}

// Health returns a simplified operational status summary.
func (s *AssistantService) Health() metrics.Health {
	return s.recorder.Health()
}
