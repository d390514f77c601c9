// Package domain defines the core business entities for recall.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Message: A normalised transcript record with typed content
//   - Conversation: A parsed transcript file
//   - ProjectSummary: A project directory and its conversation count
//   - SearchResult: A conversation annotated with relevance
//
// Text extraction (Content.Text) and project name decoding
// (DecodeProjectName) live here because they are pure functions of
// domain values.
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
