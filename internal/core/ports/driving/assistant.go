package driving

import (
	"context"

	"github.com/custodia-labs/growthpilot-cli/internal/core/domain"
	"github.com/custodia-labs/growthpilot-cli/internal/metrics"
)

// AssistantService answers natural-language questions grounded only in
// indexed workspace content, with navigable source citations.
type AssistantService interface {
	// Ask answers a question within the caller's context. The answer is
	// served from the query cache when a fresh entry exists; otherwise
	// retrieval runs scoped to the narrowest applicable filter
	// (campaign > workspace > global).
	Ask(ctx context.Context, question string, askCtx domain.AskContext) (*domain.Answer, error)

	// Metrics returns aggregate query statistics.
	Metrics() metrics.Report

	// Health returns a simplified operational status summary.
	Health() metrics.Health
}
