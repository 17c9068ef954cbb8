package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/custodia-labs/growthpilot-cli/internal/core/domain"
	"github.com/custodia-labs/growthpilot-cli/internal/metrics"
)

// stubAssistant implements driving.AssistantService for command tests.
type stubAssistant struct {
	answer       *domain.Answer
	err          error
	report       metrics.Report
	health       metrics.Health
	lastQuestion string
	lastCtx      domain.AskContext
}

func (s *stubAssistant) Ask(_ context.Context, question string, askCtx domain.AskContext) (*domain.Answer, error) {
	s.lastQuestion = question
	s.lastCtx = askCtx
	if s.err != nil {
		return nil, s.err
	}
	return s.answer, nil
}

func (s *stubAssistant) Metrics() metrics.Report { return s.report }

func (s *stubAssistant) Health() metrics.Health { return s.health }

// stubIndexer implements driving.IndexerService, recording index and
// delete calls for the index/delete/status command tests.
type stubIndexer struct {
	counts    map[string]int
	countsErr error

	indexed      []string
	indexErr     error
	lastCampaign domain.Campaign
	lastOffer    domain.Offer

	deletedID       string
	deletedCampaign string
	deletedType     string
	deleteCount     int
	deleteErr       error
}

func (s *stubIndexer) record(name string) error {
	s.indexed = append(s.indexed, name)
	return s.indexErr
}

func (s *stubIndexer) IndexCampaign(_ context.Context, campaign domain.Campaign) error {
	s.lastCampaign = campaign
	return s.record("campaign")
}

func (s *stubIndexer) IndexTask(context.Context, domain.GTMTask) error {
	return s.record("task")
}

func (s *stubIndexer) IndexContentAsset(context.Context, domain.ContentAsset) error {
	return s.record("content")
}

func (s *stubIndexer) IndexBrandKit(context.Context, domain.BrandKit) error {
	return s.record("brand-kit")
}

func (s *stubIndexer) IndexAudience(context.Context, domain.AudienceProfile) error {
	return s.record("audience")
}

func (s *stubIndexer) IndexOffer(_ context.Context, offer domain.Offer) error {
	s.lastOffer = offer
	return s.record("offer")
}

func (s *stubIndexer) IndexCopyProject(context.Context, domain.CopyProject) error {
	return s.record("copy")
}

func (s *stubIndexer) IndexBrandProject(context.Context, domain.BrandProject) error {
	return s.record("brand-project")
}

func (s *stubIndexer) IndexEmailProject(context.Context, domain.EmailProject) error {
	return s.record("email-project")
}

func (s *stubIndexer) IndexMarketInsight(context.Context, domain.MarketInsight) error {
	return s.record("insight")
}

func (s *stubIndexer) DeleteDocument(_ context.Context, entityID string) (int, error) {
	s.deletedID = entityID
	return s.deleteCount, s.deleteErr
}

func (s *stubIndexer) DeleteCampaignDocuments(_ context.Context, campaignID string) (int, error) {
	s.deletedCampaign = campaignID
	return s.deleteCount, s.deleteErr
}

func (s *stubIndexer) DeleteByTypeAndCampaign(_ context.Context, entityType, campaignID string) (int, error) {
	s.deletedType = entityType
	s.deletedCampaign = campaignID
	return s.deleteCount, s.deleteErr
}

func (s *stubIndexer) DocumentCounts(context.Context) (map[string]int, error) {
	return s.counts, s.countsErr
}

// stubSettings implements driving.SettingsService with canned settings.
type stubSettings struct {
	settings domain.AppSettings
}

func (s *stubSettings) Get() (*domain.AppSettings, error) {
	cp := s.settings
	return &cp, nil
}

func (s *stubSettings) Save(*domain.AppSettings) error              { return nil }
func (s *stubSettings) SetPersona(string) error                     { return nil }
func (s *stubSettings) SetTopK(int) error                           { return nil }
func (s *stubSettings) SetDefaultWorkspace(string) error            { return nil }
func (s *stubSettings) SetEmbeddingProvider(domain.AIProvider, string, string) error {
	return nil
}
func (s *stubSettings) SetLLMProvider(domain.AIProvider, string, string) error { return nil }
func (s *stubSettings) Validate() error                                        { return nil }
func (s *stubSettings) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}
func (s *stubSettings) ValidateEmbeddingConfig() error { return nil }
func (s *stubSettings) ValidateLLMConfig() error       { return nil }

// stubVectorStore implements driven.VectorStore for the clear command.
type stubVectorStore struct {
	cleared  bool
	clearErr error
}

func (s *stubVectorStore) Initialize(context.Context) error { return nil }
func (s *stubVectorStore) Add(context.Context, []domain.Document) error {
	return nil
}
func (s *stubVectorStore) Search(context.Context, string, int) ([]domain.Document, error) {
	return nil, nil
}
func (s *stubVectorStore) SearchFiltered(context.Context, string, int, func(domain.Document) bool) ([]domain.Document, error) {
	return nil, nil
}
func (s *stubVectorStore) DeleteByID(context.Context, string) (int, error) { return 0, nil }
func (s *stubVectorStore) DeleteByFilter(context.Context, domain.DeleteFilter) (int, error) {
	return 0, nil
}
func (s *stubVectorStore) DocumentCounts(context.Context) (map[string]int, error) {
	return nil, nil
}

func (s *stubVectorStore) Clear(context.Context) error {
	s.cleared = true
	return s.clearErr
}

func (s *stubVectorStore) Close() error { return nil }

// executeCommand runs the root command with args and captures output.
// Services and flag state are restored afterwards.
func executeCommand(t *testing.T, services Services, args ...string) (string, error) {
	t.Helper()
	return executeCommandWithInput(t, services, "", args...)
}

// executeCommandWithInput additionally feeds input as the command's stdin.
func executeCommandWithInput(t *testing.T, services Services, input string, args ...string) (string, error) {
	t.Helper()

	SetServices(services)
	resetFlags()
	t.Cleanup(func() {
		SetServices(Services{})
		resetFlags()
	})

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags zeroes flag-bound package variables between runs. Cobra
// keeps flag values across Execute calls.
func resetFlags() {
	askCampaign = ""
	askWorkspace = ""
	askPath = ""
	askPersona = ""
	askJSON = false
	chatCampaign = ""
	chatWorkspace = ""
	clearYes = false
	deleteCampaign = ""
	deleteType = ""
	verbose = false
}
