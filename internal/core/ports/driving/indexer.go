package driving

import (
	"context"

	"github.com/custodia-labs/growthpilot-cli/internal/core/domain"
)

// IndexerService maps workspace entities to indexed documents and removes
// them when entities are deleted. It is the sole write path into the
// vector store.
//
// Indexing appends; it never updates in place. Callers re-indexing an
// updated entity must call DeleteDocument first.
type IndexerService interface {
	IndexCampaign(ctx context.Context, campaign domain.Campaign) error
	IndexTask(ctx context.Context, task domain.GTMTask) error
	IndexContentAsset(ctx context.Context, asset domain.ContentAsset) error
	IndexBrandKit(ctx context.Context, kit domain.BrandKit) error
	IndexAudience(ctx context.Context, audience domain.AudienceProfile) error
	IndexOffer(ctx context.Context, offer domain.Offer) error
	IndexCopyProject(ctx context.Context, project domain.CopyProject) error
	IndexBrandProject(ctx context.Context, project domain.BrandProject) error
	IndexEmailProject(ctx context.Context, project domain.EmailProject) error
	IndexMarketInsight(ctx context.Context, insight domain.MarketInsight) error

	// DeleteDocument removes the documents for a single entity.
	// Returns the number of documents removed; zero is a valid outcome.
	DeleteDocument(ctx context.Context, entityID string) (int, error)

	// DeleteCampaignDocuments removes everything indexed under a campaign.
	DeleteCampaignDocuments(ctx context.Context, campaignID string) (int, error)

	// DeleteByTypeAndCampaign removes one entity type within a campaign.
	DeleteByTypeAndCampaign(ctx context.Context, entityType, campaignID string) (int, error)

	// DocumentCounts groups the stored documents by type for diagnostics.
	DocumentCounts(ctx context.Context) (map[string]int, error)
}
