// Package memory holds in-process caches.
package memory

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
)

// Ensure TranscriptCache implements the interface.
var _ driven.TranscriptCache = (*TranscriptCache)(nil)

type cachedTranscript struct {
	modTime  time.Time
	size     int64
	messages []domain.Message
}

// TranscriptCache is an LRU of parsed transcripts keyed by file path.
// Entries are validated against modification time and size on every read.
type TranscriptCache struct {
	entries *lru.Cache[string, cachedTranscript]
}

// NewTranscriptCache creates a cache holding at most size transcripts.
func NewTranscriptCache(size int) (*TranscriptCache, error) {
	if size < 1 {
		return nil, fmt.Errorf("cache size must be positive, got %d: %w", size, domain.ErrInvalidInput)
	}
	entries, err := lru.New[string, cachedTranscript](size)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	return &TranscriptCache{entries: entries}, nil
}

// Get returns the cached messages when the entry still matches file.
// A stale entry is evicted.
func (c *TranscriptCache) Get(_ context.Context, file domain.TranscriptFile) ([]domain.Message, bool) {
	entry, ok := c.entries.Get(file.Path)
	if !ok {
		return nil, false
	}
	if !entry.modTime.Equal(file.ModTime) || entry.size != file.Size {
		c.entries.Remove(file.Path)
		return nil, false
	}
	return entry.messages, true
}

// Put stores messages for file.
func (c *TranscriptCache) Put(_ context.Context, file domain.TranscriptFile, messages []domain.Message) {
	c.entries.Add(file.Path, cachedTranscript{
		modTime:  file.ModTime,
		size:     file.Size,
		messages: messages,
	})
}

// Invalidate removes the entry for path.
func (c *TranscriptCache) Invalidate(_ context.Context, path string) {
	c.entries.Remove(path)
}

// Purge removes every entry.
func (c *TranscriptCache) Purge(_ context.Context) {
	c.entries.Purge()
}

// Len returns the number of cached transcripts.
func (c *TranscriptCache) Len() int {
	return c.entries.Len()
}
