package driven

import (
	"context"

	"github.com/custodia-labs/recall/internal/core/domain"
)

// TranscriptCache stores parsed messages keyed by transcript file.
// An entry only matches when path, modification time and size are all equal.
// A nil TranscriptCache is valid wherever one is accepted.
type TranscriptCache interface {
	// Get returns the cached messages for file.
	Get(ctx context.Context, file domain.TranscriptFile) ([]domain.Message, bool)

	// Put stores messages for file, replacing any older entry for the same path.
	Put(ctx context.Context, file domain.TranscriptFile, messages []domain.Message)

	// Invalidate removes the entry for path.
	Invalidate(ctx context.Context, path string)

	// Purge removes every entry.
	Purge(ctx context.Context)
}
