package driven

import (
	"context"

	"github.com/custodia-labs/growthpilot-cli/internal/core/domain"
)

// VectorStore provides semantic similarity search over the persisted
// document set.
//
// The store is an immutable in-memory snapshot write-through to a
// DocumentStore. It has no native deletion: deletes filter the document
// set and rebuild the snapshot (rebuild-on-delete). Mutations are
// serialised; searches may run concurrently with each other.
type VectorStore interface {
	// Initialize loads the persisted set, seeding a fresh store with the
	// sentinel document when nothing is persisted yet. Idempotent -
	// subsequent calls are no-ops.
	Initialize(ctx context.Context) error

	// Add embeds each document's content, appends to the snapshot and
	// persists. Documents are appended, never upserted: re-indexing an
	// entity requires delete-then-add.
	Add(ctx context.Context, docs []domain.Document) error

	// Search returns the k nearest documents to the query, unfiltered.
	Search(ctx context.Context, query string, k int) ([]domain.Document, error)

	// SearchFiltered over-fetches nearest neighbours, keeps those
	// matching the predicate and truncates to k. Callers must tolerate
	// fewer than k results, including zero.
	SearchFiltered(ctx context.Context, query string, k int, predicate func(domain.Document) bool) ([]domain.Document, error)

	// DeleteByID removes documents whose entity ID or original ID equals
	// entityID, rebuilding the snapshot. Returns the number removed; a
	// zero count skips the rebuild entirely.
	DeleteByID(ctx context.Context, entityID string) (int, error)

	// DeleteByFilter removes documents matching every set filter field.
	DeleteByFilter(ctx context.Context, filter domain.DeleteFilter) (int, error)

	// DocumentCounts groups the stored documents by type key.
	DocumentCounts(ctx context.Context) (map[string]int, error)

	// Clear destroys the persisted set and re-seeds the sentinel.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close() error
}
