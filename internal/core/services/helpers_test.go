package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall/internal/connectors/filesystem"
	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/normalisers/transcript"
)

// testNow is the fixed clock used across service tests.
var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return testNow }

// userLine returns a nested-shape user record.
func userLine(text string, ts time.Time) string {
	return fmt.Sprintf(`{"type":"user","message":{"role":"user","content":%q},"timestamp":%q}`,
		text, ts.Format(time.RFC3339Nano))
}

// assistantLine returns a nested-shape assistant record.
func assistantLine(text string, ts time.Time) string {
	return fmt.Sprintf(`{"type":"assistant","message":{"role":"assistant","content":[{"type":"text","text":%q}]},"timestamp":%q}`,
		text, ts.Format(time.RFC3339Nano))
}

// writeTranscript writes lines to root/key/id.jsonl and sets its mtime.
func writeTranscript(t *testing.T, root, key, id string, mtime time.Time, lines ...string) string {
	t.Helper()
	dir := filepath.Join(root, key)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, id+".jsonl")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

// testEnv wires real adapters over a temporary transcripts root.
type testEnv struct {
	root      string
	store     *filesystem.Store
	diag      *recordingDiagnostics
	loader    *ConversationLoader
	service   *ConversationService
	scorer    *Scorer
	searchSvc *SearchService
}

func newTestEnv(t *testing.T, opts ...LoaderOption) *testEnv {
	t.Helper()
	root := t.TempDir()
	store := filesystem.New(root, "")
	diag := &recordingDiagnostics{}
	parser := transcript.New(transcript.WithClock(clock))

	loader := NewConversationLoader(store, parser, append([]LoaderOption{WithDiagnostics(diag)}, opts...)...)
	service := NewConversationService(store, loader, diag, 4)
	scorer := NewScorer(clock)

	return &testEnv{
		root:      root,
		store:     store,
		diag:      diag,
		loader:    loader,
		service:   service,
		scorer:    scorer,
		searchSvc: NewSearchService(service, scorer),
	}
}

// recordingDiagnostics records every reported event.
type recordingDiagnostics struct {
	mu     sync.Mutex
	events []domain.DiagnosticEvent
}

func (r *recordingDiagnostics) Report(e domain.DiagnosticEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingDiagnostics) kinds() []domain.DiagnosticKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.DiagnosticKind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

// mapCache is a TranscriptCache that counts hits.
type mapCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	hits    int
	puts    int
}

type cacheEntry struct {
	file     domain.TranscriptFile
	messages []domain.Message
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]cacheEntry)}
}

func (c *mapCache) Get(_ context.Context, file domain.TranscriptFile) ([]domain.Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[file.Path]
	if !ok || !e.file.ModTime.Equal(file.ModTime) || e.file.Size != file.Size {
		return nil, false
	}
	c.hits++
	return e.messages, true
}

func (c *mapCache) Put(_ context.Context, file domain.TranscriptFile, messages []domain.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.puts++
	c.entries[file.Path] = cacheEntry{file: file, messages: messages}
}

func (c *mapCache) Invalidate(_ context.Context, path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}

func (c *mapCache) Purge(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

func (c *mapCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
