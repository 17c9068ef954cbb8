// Package chunker splits oversized documents into overlapping chunks
// before they reach the vector store. Long generated content (strategy
// documents, email sequences) embeds poorly as a single blob; chunking
// keeps each embedded unit focused while the originalId metadata links
// every chunk back to its logical entity for deletion and citation.
package chunker

import (
	"fmt"

	"github.com/custodia-labs/growthpilot-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultOverlap is the default number of overlapping characters
// between consecutive chunks.
const DefaultOverlap = 200

// Splitter slices document content into fixed-size overlapping chunks.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Overlap must leave the window moving forward.
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// Split breaks the document into chunk documents when its content
// exceeds the chunk size. Short documents come back unchanged as a
// single-element slice.
//
// Each chunk document copies the source metadata, rewrites MetaID to a
// per-chunk identifier and sets MetaOriginalID to the entity ID so
// delete-by-entity still removes every chunk.
func (s *Splitter) Split(doc domain.Document) []domain.Document {
	if len(doc.Content) <= s.chunkSize {
		return []domain.Document{doc}
	}

	// Windows advance in runes so multibyte content never splits
	// mid-rune.
	content := []rune(doc.Content)
	if len(content) <= s.chunkSize {
		return []domain.Document{doc}
	}

	entityID := doc.EntityID()
	step := s.chunkSize - s.overlap

	chunks := make([]domain.Document, 0, len(content)/step+1)
	position := 0

	for start := 0; start < len(content); start += step {
		end := start + s.chunkSize
		if end > len(content) {
			end = len(content)
		}

		meta := make(map[string]any, len(doc.Metadata)+2)
		for k, v := range doc.Metadata {
			meta[k] = v
		}
		meta[domain.MetaID] = fmt.Sprintf("%s#%d", entityID, position)
		meta[domain.MetaOriginalID] = entityID
		meta["chunkIndex"] = position

		chunks = append(chunks, domain.Document{
			Content:  string(content[start:end]),
			Metadata: meta,
		})
		position++

		if end == len(content) {
			break
		}
	}

	return chunks
}
