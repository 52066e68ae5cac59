// Package domain defines the core entities of the textbook retrieval pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Section: A heading-bounded span of one source document
//   - Chunk: A token-bounded slice of a section, the unit of embedding
//   - IndexPoint: The persisted unit in the vector index
//   - RetrievedChunk: A query-time reconstruction of a chunk with its score
//   - Citation: A user-facing pointer derived from a retrieved chunk
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
