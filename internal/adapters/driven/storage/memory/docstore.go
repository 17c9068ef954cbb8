// Package memory provides in-memory implementations of driven ports.
// Used in tests and for ephemeral stores that need no persistence.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/growthpilot-cli/internal/core/domain"
	"github.com/custodia-labs/growthpilot-cli/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu   sync.RWMutex
	docs []domain.Document

	// FailNextWrite makes the next mutating call return ErrStorage.
	// Test hook for exercising storage failure paths.
	FailNextWrite bool
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{}
}

// LoadAll returns a copy of every stored document.
func (s *DocumentStore) LoadAll(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Document, len(s.docs))
	copy(out, s.docs)
	return out, nil
}

// Append adds documents to the stored set.
func (s *DocumentStore) Append(_ context.Context, docs []domain.Document) error {
	if len(docs) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkWrite(); err != nil {
		return err
	}
	for _, doc := range docs {
		if doc.ID == "" {
			doc.ID = uuid.NewString()
		}
		s.docs = append(s.docs, doc)
	}
	return nil
}

// ReplaceAll swaps the entire stored set for docs.
func (s *DocumentStore) ReplaceAll(_ context.Context, docs []domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkWrite(); err != nil {
		return err
	}
	replacement := make([]domain.Document, len(docs))
	copy(replacement, docs)
	for i := range replacement {
		if replacement[i].ID == "" {
			replacement[i].ID = uuid.NewString()
		}
	}
	s.docs = replacement
	return nil
}

// Count returns the number of stored documents.
func (s *DocumentStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs), nil
}

// Clear removes all stored documents.
func (s *DocumentStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkWrite(); err != nil {
		return err
	}
	s.docs = nil
	return nil
}

// Close releases resources.
func (s *DocumentStore) Close() error {
	return nil
}

// checkWrite consumes the failure hook (caller must hold the write lock).
func (s *DocumentStore) checkWrite() error {
	if s.FailNextWrite {
		s.FailNextWrite = false
		return domain.ErrStorage
	}
	return nil
}
