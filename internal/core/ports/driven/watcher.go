package driven

import (
	"context"

	"github.com/custodia-labs/recall/internal/core/domain"
)

// ChangeWatcher reports changes under the transcripts root.
type ChangeWatcher interface {
	// Watch starts watching and returns a channel of change events.
	// The channel is closed when ctx is cancelled or Close is called.
	Watch(ctx context.Context) (<-chan domain.ChangeEvent, error)

	// Close stops watching and releases resources.
	Close() error
}
