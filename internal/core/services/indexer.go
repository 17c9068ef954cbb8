package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/growthpilot-cli/internal/chunker"
	"github.com/custodia-labs/growthpilot-cli/internal/core/domain"
	"github.com/custodia-labs/growthpilot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/growthpilot-cli/internal/core/ports/driving"
	"github.com/custodia-labs/growthpilot-cli/internal/logger"
	"github.com/custodia-labs/growthpilot-cli/internal/sanitise"
)

// Ensure IndexerService implements the interface.
var _ driving.IndexerService = (*IndexerService)(nil)

// IndexerService maps workspace entities to labelled text documents and
// writes them into the vector store. Each entity type has its own mapping
// so the rendered text is self-describing for semantic search.
//
// Missing optional fields render as "N/A" rather than failing; malformed
// JSON in structured content falls back to the raw text. Index
// completeness beats strict validation here.
type IndexerService struct {
	store    driven.VectorStore
	splitter *chunker.Splitter
}

// NewIndexerService creates a new indexer service.
func NewIndexerService(store driven.VectorStore) *IndexerService {
	return &IndexerService{
		store:    store,
		splitter: chunker.New(),
	}
}

// IndexCampaign indexes a campaign's descriptive fields.
func (s *IndexerService) IndexCampaign(ctx context.Context, campaign domain.Campaign) error {
	if campaign.ID == "" {
		return fmt.Errorf("%w: campaign id is required", domain.ErrInvalidInput)
	}

	logger.Debug("Indexing campaign: %s", campaign.Name)

	content := lines(
		"Campaign: "+campaign.Name,
		"Industry: "+campaign.Industry,
		"Location: "+campaign.Location,
		"Description: "+campaign.Description,
		"USP: "+campaign.USP,
		"Goal: "+campaign.Goal,
	)

	return s.add(ctx, domain.Document{
		Content: content,
		Metadata: map[string]any{
			domain.MetaID:          campaign.ID,
			domain.MetaType:        "campaign",
			domain.MetaEntityType:  "Campaign",
			domain.MetaWorkspaceID: campaign.WorkspaceID,
		},
	})
}

// IndexTask indexes a go-to-market task.
func (s *IndexerService) IndexTask(ctx context.Context, task domain.GTMTask) error {
	if task.ID == "" {
		return fmt.Errorf("%w: task id is required", domain.ErrInvalidInput)
	}

	logger.Debug("Indexing GTM task: %s", task.Title)

	content := lines(
		"GTM Task: "+task.Title,
		"Phase: "+task.PhaseID,
		"Category: "+task.Category,
		"Description: "+task.Description,
		"Platform: "+task.Platform,
		"Priority: "+task.Priority,
		"Outcome: "+task.ExpectedOutcome,
	)

	return s.add(ctx, domain.Document{
		Content: content,
		Metadata: map[string]any{
			domain.MetaID:         task.ID,
			domain.MetaCampaignID: task.CampaignID,
			domain.MetaType:       "task",
			domain.MetaEntityType: "GTMTask",
		},
	})
}

// IndexContentAsset indexes generated content. Strategy assets carrying a
// category in their metadata dispatch to the structured strategy renderers.
func (s *IndexerService) IndexContentAsset(ctx context.Context, asset domain.ContentAsset) error {
	if asset.ID == "" {
		return fmt.Errorf("%w: asset id is required", domain.ErrInvalidInput)
	}

	meta := parseJSONMap(asset.Metadata)

	if asset.Type == domain.AssetTypeStrategy {
		if category, ok := meta["category"].(string); ok && category != "" {
			return s.indexStrategyContent(ctx, asset, meta, category)
		}
	}

	logger.Debug("Indexing content asset: %s", asset.Title)

	content := lines(
		"Content Asset: "+asset.Title,
		"Type: "+asset.Type,
		"Platform: "+orNA(asset.Platform),
		"Content: "+sanitise.Text(asset.Content),
	)

	return s.add(ctx, domain.Document{
		Content: content,
		Metadata: map[string]any{
			domain.MetaID:         asset.ID,
			domain.MetaCampaignID: asset.CampaignID,
			domain.MetaType:       "content",
			domain.MetaEntityType: "ContentAsset",
			"contentType":         asset.Type,
		},
	})
}

// indexStrategyContent renders strategy assets (pricing models,
// competitive analyses, implementation guidance) with category-specific
// formatting so tier and competitor details survive embedding.
func (s *IndexerService) indexStrategyContent(ctx context.Context, asset domain.ContentAsset, meta map[string]any, category string) error {
	logger.Debug("Indexing strategy content: %s (category %s)", asset.Title, category)

	var content string
	switch category {
	case domain.StrategyCategoryPricing:
		content = formatPricingContent(asset)
	case domain.StrategyCategoryCompetitive:
		content = formatCompetitiveContent(asset)
	case domain.StrategyCategoryGuidance:
		parts := []string{
			"Implementation Guidance: " + asset.Title,
			"Related To: " + stringOr(meta["relatedTo"], "General"),
		}
		if tier, ok := meta["tierName"].(string); ok && tier != "" {
			parts = append(parts, "Tier: "+tier)
		}
		parts = append(parts, "Content: "+asset.Content)
		content = lines(parts...)
	default:
		content = lines(
			"Strategy Document: "+asset.Title,
			"Category: "+category,
			"Content: "+asset.Content,
		)
	}

	// Asset metadata entries carry through to the document so guidance
	// links (relatedTo, tierName) stay queryable. They take precedence
	// over the base keys, matching how the generation layer stamps them.
	docMeta := map[string]any{
		domain.MetaID:         asset.ID,
		domain.MetaCampaignID: asset.CampaignID,
		domain.MetaType:       "strategy",
		domain.MetaEntityType: "StrategyContent",
		"category":            category,
	}
	for k, v := range meta {
		docMeta[k] = v
	}

	return s.add(ctx, domain.Document{Content: content, Metadata: docMeta})
}

// IndexBrandKit indexes a campaign's brand identity.
func (s *IndexerService) IndexBrandKit(ctx context.Context, kit domain.BrandKit) error {
	if kit.ID == "" {
		return fmt.Errorf("%w: brand kit id is required", domain.ErrInvalidInput)
	}

	logger.Debug("Indexing brand kit for campaign: %s", kit.CampaignID)

	content := lines(
		"Brand Kit for Campaign: "+kit.CampaignID,
		"Purpose: "+kit.Purpose,
		"Vision: "+kit.Vision,
		"Mission: "+kit.Mission,
		"Values: "+strings.Join(kit.Values, ", "),
		"Personality: "+kit.Personality,
		"Voice: "+kit.Voice,
	)

	return s.add(ctx, domain.Document{
		Content: content,
		Metadata: map[string]any{
			domain.MetaID:         kit.ID,
			domain.MetaCampaignID: kit.CampaignID,
			domain.MetaType:       "brand_kit",
			domain.MetaEntityType: "BrandKit",
		},
	})
}

// IndexAudience indexes a target audience profile.
func (s *IndexerService) IndexAudience(ctx context.Context, audience domain.AudienceProfile) error {
	if audience.ID == "" {
		return fmt.Errorf("%w: audience id is required", domain.ErrInvalidInput)
	}

	logger.Debug("Indexing audience profile: %s", audience.Name)

	content := lines(
		"Audience Profile: "+audience.Name,
		"Description: "+audience.Description,
		"Demographics: "+audience.Demographics,
		"Pain Points: "+strings.Join(audience.PainPoints, ", "),
		"Behaviors: "+strings.Join(audience.Behaviors, ", "),
	)

	return s.add(ctx, domain.Document{
		Content: content,
		Metadata: map[string]any{
			domain.MetaID:         audience.ID,
			domain.MetaCampaignID: audience.CampaignID,
			domain.MetaType:       "audience",
			domain.MetaEntityType: "AudienceProfile",
		},
	})
}

// IndexOffer indexes a value proposition or packaged offer.
func (s *IndexerService) IndexOffer(ctx context.Context, offer domain.Offer) error {
	if offer.ID == "" {
		return fmt.Errorf("%w: offer id is required", domain.ErrInvalidInput)
	}

	logger.Debug("Indexing offer: %s", offer.Name)

	offerType := offer.Type
	if offerType == "" {
		offerType = "Core Offer"
	}

	content := lines(
		"Value Proposition / Offer: "+offer.Name,
		"Type: "+offerType,
		"Description: "+orNA(offer.Description),
		"Price Point: "+orNA(offer.PricePoint),
		"Pricing Model: "+orNA(offer.PricingModel),
		"Main Benefit: "+orNA(offer.MainBenefit),
		"Key Benefits: "+joinOrNA(offer.KeyBenefits),
		"Differentiators: "+joinOrNA(offer.Differentiators),
		"Proof Points: "+joinOrNA(offer.ProofPoints),
		"Guarantee: "+orNA(offer.Guarantee),
	)

	return s.add(ctx, domain.Document{
		Content: content,
		Metadata: map[string]any{
			domain.MetaID:         offer.ID,
			domain.MetaCampaignID: offer.CampaignID,
			domain.MetaType:       "offer",
			domain.MetaEntityType: "Offer",
			"relatedPages":        []string{"value-proposition", "offers"},
		},
	})
}

// IndexCopyProject indexes a copywriting project with its generated copy.
func (s *IndexerService) IndexCopyProject(ctx context.Context, project domain.CopyProject) error {
	if project.ID == "" {
		return fmt.Errorf("%w: copy project id is required", domain.ErrInvalidInput)
	}

	logger.Debug("Indexing copy project: %s", project.Name)

	content := lines(
		"Copy Project: "+project.Name,
		"Objective: "+orNA(project.Objective),
		"Platform: "+project.Platform,
		"Format: "+orNA(project.Format),
		"Generated Copy: "+orNA(sanitise.Text(project.Content)),
	)

	return s.add(ctx, domain.Document{
		Content: content,
		Metadata: map[string]any{
			domain.MetaID:         project.ID,
			domain.MetaCampaignID: project.CampaignID,
			domain.MetaType:       "copy",
			domain.MetaEntityType: "CopyProject",
		},
	})
}

// IndexBrandProject indexes a brand identity generation project.
func (s *IndexerService) IndexBrandProject(ctx context.Context, project domain.BrandProject) error {
	if project.ID == "" {
		return fmt.Errorf("%w: brand project id is required", domain.ErrInvalidInput)
	}

	logger.Debug("Indexing brand project: %s", project.Name)

	content := lines(
		"Brand Project: "+project.Name,
		"Description: "+orNA(project.Description),
		"Identity: "+renderStructured(project.IdentityData),
	)

	return s.add(ctx, domain.Document{
		Content: content,
		Metadata: map[string]any{
			domain.MetaID:         project.ID,
			domain.MetaCampaignID: project.CampaignID,
			domain.MetaType:       "brand_project",
			domain.MetaEntityType: "BrandProject",
		},
	})
}

// IndexEmailProject indexes an email marketing sequence project.
func (s *IndexerService) IndexEmailProject(ctx context.Context, project domain.EmailProject) error {
	if project.ID == "" {
		return fmt.Errorf("%w: email project id is required", domain.ErrInvalidInput)
	}

	logger.Debug("Indexing email project: %s", project.Name)

	content := lines(
		"Email Project: "+project.Name,
		"Subject Lines: "+orNA(project.SubjectLines),
		"Campaign Type: "+orNA(project.CampaignType),
		"Goal: "+orNA(project.Goal),
		"Sequence: "+renderStructured(project.Sequence),
	)

	return s.add(ctx, domain.Document{
		Content: content,
		Metadata: map[string]any{
			domain.MetaID:         project.ID,
			domain.MetaCampaignID: project.CampaignID,
			domain.MetaType:       "email_project",
			domain.MetaEntityType: "EmailMarketingProject",
		},
	})
}

// IndexMarketInsight indexes a community research finding.
func (s *IndexerService) IndexMarketInsight(ctx context.Context, insight domain.MarketInsight) error {
	if insight.ID == "" {
		return fmt.Errorf("%w: insight id is required", domain.ErrInvalidInput)
	}

	logger.Debug("Indexing market insight: %s", insight.Title)

	content := lines(
		"Market Insight: "+insight.Title,
		"Category: "+insight.Category,
		"Source: "+orNA(insight.Source),
		"Source URL: "+orNA(insight.SourceURL),
		"Insight: "+insight.Content,
		"Key Takeaway: "+orNA(insight.Takeaway),
	)

	return s.add(ctx, domain.Document{
		Content: content,
		Metadata: map[string]any{
			domain.MetaID:         insight.ID,
			domain.MetaCampaignID: insight.CampaignID,
			domain.MetaType:       "market_insight",
			domain.MetaEntityType: "MarketInsight",
		},
	})
}

// DeleteDocument removes the documents for a single entity.
func (s *IndexerService) DeleteDocument(ctx context.Context, entityID string) (int, error) {
	return s.store.DeleteByID(ctx, entityID)
}

// DeleteCampaignDocuments removes everything indexed under a campaign.
func (s *IndexerService) DeleteCampaignDocuments(ctx context.Context, campaignID string) (int, error) {
	return s.store.DeleteByFilter(ctx, domain.DeleteFilter{CampaignID: campaignID})
}

// DeleteByTypeAndCampaign removes one entity type within a campaign.
func (s *IndexerService) DeleteByTypeAndCampaign(ctx context.Context, entityType, campaignID string) (int, error) {
	return s.store.DeleteByFilter(ctx, domain.DeleteFilter{
		EntityType: entityType,
		CampaignID: campaignID,
	})
}

// DocumentCounts groups the stored documents by type for diagnostics.
func (s *IndexerService) DocumentCounts(ctx context.Context) (map[string]int, error) {
	return s.store.DocumentCounts(ctx)
}

// add writes a document through the vector store, splitting oversized
// content into chunk documents first.
func (s *IndexerService) add(ctx context.Context, doc domain.Document) error {
	docs := s.splitter.Split(doc)
	if len(docs) > 1 {
		logger.Debug("Chunked document %s into %d parts", doc.EntityID(), len(docs))
	}
	return s.store.Add(ctx, docs)
}

// pricingPayload is the JSON shape of a pricing model's content. Tiers
// may also arrive as a bare top-level array.
type pricingPayload struct {
	Tiers []pricingTier `json:"tiers"`
}

// pricingTier is one pricing tier. Two generations of the content
// pipeline used different key casings for the use-case field, so both
// are accepted.
type pricingTier struct {
	Name             string `json:"name"`
	Price            any    `json:"price"`
	TargetUseCase    string `json:"targetUseCase"`
	TargetUseCaseAlt string `json:"target_use_case"`
	Features         any    `json:"features"`
}

func (t pricingTier) useCase() string {
	if t.TargetUseCaseAlt != "" {
		return t.TargetUseCaseAlt
	}
	return t.TargetUseCase
}

// competitivePayload is the JSON shape of a competitive analysis.
type competitivePayload struct {
	Competitors []competitor `json:"competitors"`
}

// competitor is one analysed competitor. Strengths and weaknesses may be
// arrays or plain strings depending on the generation run.
type competitor struct {
	Name        string `json:"name"`
	Strengths   any    `json:"strengths"`
	Weaknesses  any    `json:"weaknesses"`
	Positioning string `json:"positioning"`
}

// formatPricingContent renders a pricing model's tiers as labelled text.
// Malformed JSON falls back to the raw content.
func formatPricingContent(asset domain.ContentAsset) string {
	raw := []byte(asset.Content)
	if !json.Valid(raw) {
		return "Pricing Model: " + asset.Title + "\nContent: " + asset.Content
	}

	var payload pricingPayload
	var tiers []pricingTier
	if err := json.Unmarshal(raw, &payload); err == nil {
		tiers = payload.Tiers
	} else {
		var bare []pricingTier
		if err := json.Unmarshal(raw, &bare); err != nil {
			return "Pricing Model: " + asset.Title + "\nContent: " + asset.Content
		}
		tiers = bare
	}

	if len(tiers) == 0 {
		return "Pricing Model: " + asset.Title + "\nNo pricing tiers defined yet."
	}

	parts := []string{
		"Pricing & Packaging Model: " + asset.Title,
		fmt.Sprintf("Total Pricing Tiers: %d", len(tiers)),
	}
	for i, tier := range tiers {
		name := tier.Name
		if name == "" {
			name = "Unnamed"
		}
		parts = append(parts,
			fmt.Sprintf("Tier %d: %s", i+1, name),
			"Price: "+orNA(stringify(tier.Price)),
			"Target Use Case: "+orNA(tier.useCase()),
			"Features: "+orNA(stringify(tier.Features)),
		)
	}
	return lines(parts...)
}

// formatCompetitiveContent renders a competitive analysis as labelled
// text. Malformed JSON falls back to the raw content.
func formatCompetitiveContent(asset domain.ContentAsset) string {
	raw := []byte(asset.Content)
	if !json.Valid(raw) {
		return "Competitive Analysis: " + asset.Title + "\nContent: " + asset.Content
	}

	var payload competitivePayload
	var competitors []competitor
	if err := json.Unmarshal(raw, &payload); err == nil {
		competitors = payload.Competitors
	} else {
		var bare []competitor
		if err := json.Unmarshal(raw, &bare); err != nil {
			return "Competitive Analysis: " + asset.Title + "\nContent: " + asset.Content
		}
		competitors = bare
	}

	if len(competitors) == 0 {
		return "Competitive Analysis: " + asset.Title + "\n" + asset.Content
	}

	parts := []string{
		"Competitive Analysis: " + asset.Title,
		fmt.Sprintf("Total Competitors Analyzed: %d", len(competitors)),
	}
	for _, comp := range competitors {
		name := comp.Name
		if name == "" {
			name = "Unknown"
		}
		parts = append(parts,
			"Competitor: "+name,
			"Strengths: "+orNA(stringify(comp.Strengths)),
			"Weaknesses: "+orNA(stringify(comp.Weaknesses)),
			"Positioning: "+orNA(comp.Positioning),
		)
	}
	return lines(parts...)
}

// lines joins labelled fields into a single text blob.
func lines(parts ...string) string {
	return strings.Join(parts, "\n")
}

// orNA substitutes the placeholder for missing optional fields.
func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// joinOrNA joins a string slice, substituting the placeholder when empty.
func joinOrNA(values []string) string {
	if len(values) == 0 {
		return "N/A"
	}
	return strings.Join(values, ", ")
}

// stringOr reads a string out of loosely-typed metadata with a fallback.
func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

// stringify renders a loosely-typed JSON value as display text. Arrays
// join with commas; scalars print as-is; nil renders empty.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := stringify(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case float64:
		// JSON numbers decode as float64; print integers without a
		// trailing .0.
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(data)
	}
}

// renderStructured renders an arbitrary structured field (brand identity
// data, email sequences) for indexing.
func renderStructured(v any) string {
	switch val := v.(type) {
	case nil:
		return "N/A"
	case string:
		return orNA(val)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return "N/A"
		}
		return string(data)
	}
}

// parseJSONMap parses a JSON object string, returning an empty map on
// malformed input.
func parseJSONMap(raw string) map[string]any {
	if raw == "" {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil || m == nil {
		return map[string]any{}
	}
	return m
}
