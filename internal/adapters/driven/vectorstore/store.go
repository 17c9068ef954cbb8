// Package vectorstore implements the VectorStore port as a brute-force
// cosine similarity index over an in-memory document snapshot, persisted
// write-through to a DocumentStore.
//
// The snapshot is treated as immutable: additions append and persist;
// deletions filter the document set, persist the survivors atomically and
// swap the snapshot. There is no in-place mutation and no native delete -
// every deletion costs O(total document count).
//
// Concurrency follows single-writer/multiple-reader discipline: searches
// take a read lock and may interleave freely; mutations hold the write
// lock across both the snapshot swap and the persistence call, so they
// are serialised relative to each other.
package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/growthpilot-cli/internal/core/domain"
	"github.com/custodia-labs/growthpilot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/growthpilot-cli/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// DefaultOverfetchFactor is the multiplier applied to k when a filtered
// search over-fetches nearest neighbours before applying its predicate.
const DefaultOverfetchFactor = 4

// Config holds configuration for the vector store.
type Config struct {
	// OverfetchFactor is the filtered-search over-fetch multiplier
	// (default 4). Filtering happens post-retrieval, so a plain top-k
	// fetch could return zero matches when filtered documents are
	// sparse; over-fetching compensates.
	OverfetchFactor int
}

// Store is the brute-force cosine vector store.
type Store struct {
	mu        sync.RWMutex
	embedder  driven.EmbeddingService
	persist   driven.DocumentStore
	docs      []domain.Document
	loaded    bool
	overfetch int
}

// scoredDoc pairs a snapshot index with its similarity score.
type scoredDoc struct {
	doc   domain.Document
	score float64
}

// NewStore creates a vector store over the given embedding service and
// persistence backend.
func NewStore(embedder driven.EmbeddingService, persist driven.DocumentStore, cfg Config) (*Store, error) {
	if embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if persist == nil {
		return nil, fmt.Errorf("vectorstore: document store is required")
	}

	overfetch := cfg.OverfetchFactor
	if overfetch <= 0 {
		overfetch = DefaultOverfetchFactor
	}

	return &Store{
		embedder:  embedder,
		persist:   persist,
		overfetch: overfetch,
	}, nil
}

// Initialize loads the persisted document set, seeding a fresh store with
// the sentinel document. Idempotent; callers may also rely on lazy
// initialisation by any other operation.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLoaded(ctx)
}

// ensureLoaded loads or seeds the snapshot (caller must hold the write lock).
func (s *Store) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	docs, err := s.persist.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("loading persisted documents: %w", err)
	}

	if len(docs) == 0 {
		seeded, err := s.seedSentinel(ctx)
		if err != nil {
			return err
		}
		docs = seeded
	}

	logger.Debug("Vector store loaded: %d documents", len(docs))
	s.docs = docs
	s.loaded = true
	return nil
}

// ensure loads the snapshot if it has not been loaded yet, taking the
// write lock only on the first call.
func (s *Store) ensure(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLoaded(ctx)
}

// seedSentinel embeds and persists the placeholder document. The store
// must never be empty.
func (s *Store) seedSentinel(ctx context.Context) ([]domain.Document, error) {
	sentinel := domain.SentinelDocument()
	sentinel.ID = uuid.NewString()

	embedding, err := s.embedder.Embed(ctx, sentinel.Content)
	if err != nil {
		return nil, fmt.Errorf("embedding sentinel: %w", wrapEmbedding(err))
	}
	sentinel.Embedding = embedding

	if err := s.persist.Append(ctx, []domain.Document{sentinel}); err != nil {
		return nil, fmt.Errorf("persisting sentinel: %w", err)
	}

	logger.Debug("Vector store seeded with sentinel document")
	return []domain.Document{sentinel}, nil
}

// Add embeds each document's content, appends to the snapshot and
// persists. When the persistence write fails, the in-memory snapshot is
// already ahead of disk; the increment is lost only if the process dies
// before a later persist succeeds.
func (s *Store) Add(ctx context.Context, docs []domain.Document) error {
	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for i := range docs {
		texts[i] = docs[i].Content
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding %d documents: %w", len(docs), wrapEmbedding(err))
	}
	if len(embeddings) != len(docs) {
		return fmt.Errorf("%w: got %d embeddings for %d documents",
			domain.ErrEmbedding, len(embeddings), len(docs))
	}

	prepared := make([]domain.Document, len(docs))
	for i := range docs {
		prepared[i] = docs[i]
		prepared[i].Embedding = embeddings[i]
		if prepared[i].ID == "" {
			prepared[i].ID = uuid.NewString()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	s.docs = append(s.docs, prepared...)

	if err := s.persist.Append(ctx, prepared); err != nil {
		return fmt.Errorf("persisting %d documents: %w", len(prepared), err)
	}

	logger.Debug("Vector store: added %d documents (total %d)", len(prepared), len(s.docs))
	return nil
}

// Search returns the k nearest documents to the query, unfiltered.
func (s *Store) Search(ctx context.Context, query string, k int) ([]domain.Document, error) {
	return s.SearchFiltered(ctx, query, k, nil)
}

// SearchFiltered over-fetches k*OverfetchFactor nearest neighbours,
// applies the predicate and truncates to k. The result may hold fewer
// than k documents, including zero.
func (s *Store) SearchFiltered(ctx context.Context, query string, k int, predicate func(domain.Document) bool) ([]domain.Document, error) {
	if k <= 0 {
		return nil, nil
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", wrapEmbedding(err))
	}

	fetch := k
	if predicate != nil {
		fetch = k * s.overfetch
	}

	if err := s.ensure(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	nearest := s.nearestLocked(queryVec, fetch)
	s.mu.RUnlock()

	if predicate == nil {
		return nearest, nil
	}

	filtered := make([]domain.Document, 0, k)
	for _, doc := range nearest {
		if predicate(doc) {
			filtered = append(filtered, doc)
			if len(filtered) == k {
				break
			}
		}
	}
	return filtered, nil
}

// nearestLocked returns the n most similar documents to queryVec
// (caller must hold a read lock).
func (s *Store) nearestLocked(queryVec []float32, n int) []domain.Document {
	scored := make([]scoredDoc, 0, len(s.docs))
	for _, doc := range s.docs {
		score, ok := cosineSimilarity(queryVec, doc.Embedding)
		if !ok {
			continue
		}
		scored = append(scored, scoredDoc{doc: doc, score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if n > len(scored) {
		n = len(scored)
	}
	out := make([]domain.Document, n)
	for i := 0; i < n; i++ {
		out[i] = scored[i].doc
	}
	return out
}

// DeleteByID removes documents whose entity ID or original ID equals
// entityID and rebuilds the snapshot from the survivors. A zero match
// count skips the rebuild entirely, avoiding both the O(n) persistence
// write and an accidental reset to the sentinel-only state.
func (s *Store) DeleteByID(ctx context.Context, entityID string) (int, error) {
	if entityID == "" {
		return 0, nil
	}
	return s.deleteMatching(ctx, func(doc domain.Document) bool {
		return doc.MetaString(domain.MetaID) == entityID ||
			doc.MetaString(domain.MetaOriginalID) == entityID
	})
}

// DeleteByFilter removes documents matching every set filter field.
func (s *Store) DeleteByFilter(ctx context.Context, filter domain.DeleteFilter) (int, error) {
	if filter.IsZero() {
		return 0, nil
	}
	return s.deleteMatching(ctx, filter.Matches)
}

// deleteMatching implements rebuild-on-delete: filter the snapshot,
// atomically replace the persisted set with the survivors, then swap the
// in-memory snapshot. On persistence failure the snapshot is left
// unchanged and the previously persisted set survives.
func (s *Store) deleteMatching(ctx context.Context, match func(domain.Document) bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return 0, err
	}

	survivors := make([]domain.Document, 0, len(s.docs))
	deleted := 0
	for _, doc := range s.docs {
		if match(doc) {
			deleted++
			continue
		}
		survivors = append(survivors, doc)
	}

	if deleted == 0 {
		logger.Debug("Vector store: delete matched nothing")
		return 0, nil
	}

	if len(survivors) == 0 {
		sentinel := domain.SentinelDocument()
		sentinel.ID = uuid.NewString()
		embedding, err := s.embedder.Embed(ctx, sentinel.Content)
		if err != nil {
			return 0, fmt.Errorf("embedding sentinel: %w", wrapEmbedding(err))
		}
		sentinel.Embedding = embedding
		survivors = append(survivors, sentinel)
	}

	if err := s.persist.ReplaceAll(ctx, survivors); err != nil {
		return 0, fmt.Errorf("persisting rebuilt store: %w", err)
	}

	s.docs = survivors
	logger.Debug("Vector store: deleted %d documents (remaining %d)", deleted, len(s.docs))
	return deleted, nil
}

// DocumentCounts groups the stored documents by type key.
func (s *Store) DocumentCounts(ctx context.Context) (map[string]int, error) {
	if err := s.ensure(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, doc := range s.docs {
		counts[doc.TypeKey()]++
	}
	return counts, nil
}

// Clear destroys the persisted set and re-seeds the sentinel.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist.Clear(ctx); err != nil {
		return fmt.Errorf("clearing persisted store: %w", err)
	}

	seeded, err := s.seedSentinel(ctx)
	if err != nil {
		return err
	}

	s.docs = seeded
	s.loaded = true
	return nil
}

// Close releases the persistence backend.
func (s *Store) Close() error {
	return s.persist.Close()
}

// cosineSimilarity computes the cosine similarity of two vectors.
// Returns false for mismatched dimensions or zero vectors.
func cosineSimilarity(a, b []float32) (float64, bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}

	var dot, normA, normB float64
	for i := range a {
		av, bv := float64(a[i]), float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}

	if normA == 0 || normB == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), true
}

// wrapEmbedding tags embedding provider failures with the domain error so
// callers can match with errors.Is.
func wrapEmbedding(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrEmbedding, err)
}
