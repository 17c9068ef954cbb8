// Package domain defines the core business entities for GrowthPilot.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An indexed document with metadata
//   - Source: A citation derived from a retrieved document
//   - Answer: A grounded assistant response with citations
//   - Campaign, Offer, BrandKit, ...: Marketing workspace entities
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
