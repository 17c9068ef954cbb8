package driven

import (
	"context"

	"github.com/custodia-labs/growthpilot-cli/internal/core/domain"
)

// DocumentStore persists the vector store's document set, embeddings
// included. Backed by SQLite.
//
// The store holds a single flat collection. The vector store loads it
// fully into memory at initialisation and writes through on every
// mutation. ReplaceAll must be atomic: a failed replace leaves the
// previously persisted set intact.
type DocumentStore interface {
	// LoadAll returns every persisted document with its embedding.
	LoadAll(ctx context.Context) ([]domain.Document, error)

	// Append adds documents to the persisted set.
	Append(ctx context.Context, docs []domain.Document) error

	// ReplaceAll atomically swaps the entire persisted set for docs.
	// Used by the rebuild-on-delete path.
	ReplaceAll(ctx context.Context, docs []domain.Document) error

	// Count returns the number of persisted documents.
	Count(ctx context.Context) (int, error)

	// Clear removes all persisted documents.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close() error
}
