package domain

// Workspace entities accepted by the indexer. Records arrive from the CRUD
// layer with fields possibly empty; the indexer degrades missing optional
// fields to a placeholder rather than failing.

// Campaign is a marketing campaign within a workspace.
type Campaign struct {
	ID          string
	WorkspaceID string
	Name        string
	Industry    string
	Location    string
	Description string
	USP         string
	Goal        string
}

// GTMTask is a go-to-market task within a campaign.
type GTMTask struct {
	ID              string
	CampaignID      string
	Title           string
	PhaseID         string
	Category        string
	Description     string
	Platform        string
	Priority        string
	ExpectedOutcome string
}

// ContentAsset is generated content (blog post, social, video script,
// strategy document) attached to a campaign.
//
// Metadata and, for strategy assets, Content hold JSON produced by the
// generation layer. Either may be malformed; the indexer falls back to
// raw-text rendering instead of rejecting the asset.
type ContentAsset struct {
	ID         string
	CampaignID string
	Title      string
	Type       string
	Platform   string
	Content    string
	Metadata   string
}

// AssetTypeStrategy marks content assets carrying structured strategy
// content (pricing models, competitive analyses, guidance).
const AssetTypeStrategy = "STRATEGY"

// Strategy categories found in a strategy asset's metadata.
const (
	StrategyCategoryPricing     = "PRICING"
	StrategyCategoryCompetitive = "COMPETITIVE"
	StrategyCategoryGuidance    = "GUIDANCE"
)

// BrandKit captures a campaign's brand identity.
type BrandKit struct {
	ID          string
	CampaignID  string
	Purpose     string
	Vision      string
	Mission     string
	Values      []string
	Personality string
	Voice       string
}

// AudienceProfile describes a target audience segment.
type AudienceProfile struct {
	ID           string
	CampaignID   string
	Name         string
	Description  string
	Demographics string
	PainPoints   []string
	Behaviors    []string
}

// Offer is a value proposition or packaged offer.
type Offer struct {
	ID              string
	CampaignID      string
	Name            string
	Type            string
	Description     string
	PricePoint      string
	PricingModel    string
	MainBenefit     string
	KeyBenefits     []string
	Differentiators []string
	ProofPoints     []string
	Guarantee       string
}

// CopyProject is a copywriting project with its generated copy.
type CopyProject struct {
	ID         string
	CampaignID string
	Name       string
	Objective  string
	Platform   string
	Format     string
	Content    string
}

// BrandProject is a brand identity generation project.
// IdentityData holds arbitrary structured identity output.
type BrandProject struct {
	ID           string
	CampaignID   string
	Name         string
	Description  string
	IdentityData any
}

// EmailProject is an email marketing sequence project.
// Sequence holds arbitrary structured sequence output.
type EmailProject struct {
	ID           string
	CampaignID   string
	Name         string
	SubjectLines string
	CampaignType string
	Goal         string
	Sequence     any
}

// MarketInsight is a research finding harvested from community sources.
type MarketInsight struct {
	ID         string
	CampaignID string
	Title      string
	Category   string
	Source     string
	SourceURL  string
	Content    string
	Takeaway   string
}
