package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall/internal/core/domain"
)

const testDebounce = 20 * time.Millisecond

func waitEvent(t *testing.T, ch <-chan domain.ChangeEvent) domain.ChangeEvent {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "channel closed")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for change event")
	}
	return domain.ChangeEvent{}
}

func startWatcher(t *testing.T, root string) (*Watcher, <-chan domain.ChangeEvent) {
	t.Helper()
	w := NewWatcher(New(root, ""), testDebounce)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		_ = w.Close()
	})

	ch, err := w.Watch(ctx)
	require.NoError(t, err)
	return w, ch
}

func TestWatcher_TranscriptCreated(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "proj"), 0o755))
	_, ch := startWatcher(t, root)

	path := filepath.Join(root, "proj", "new.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

	ev := waitEvent(t, ch)
	assert.Equal(t, path, ev.Path)
	assert.Equal(t, domain.ChangeCreated, ev.Op)
	assert.False(t, ev.Directory)
}

func TestWatcher_TranscriptRemoved(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "proj", "old.jsonl")
	writeFile(t, path, "{}\n")
	_, ch := startWatcher(t, root)

	require.NoError(t, os.Remove(path))

	ev := waitEvent(t, ch)
	assert.Equal(t, path, ev.Path)
	assert.Equal(t, domain.ChangeRemoved, ev.Op)
}

func TestWatcher_BurstIsCoalesced(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "proj", "busy.jsonl")
	writeFile(t, path, "")
	_, ch := startWatcher(t, root)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err := f.WriteString("{}\n")
		require.NoError(t, err)
	}
	require.NoError(t, f.Close())

	ev := waitEvent(t, ch)
	assert.Equal(t, path, ev.Path)
	assert.Equal(t, domain.ChangeModified, ev.Op)

	select {
	case extra := <-ch:
		t.Fatalf("unexpected extra event %+v", extra)
	case <-time.After(10 * testDebounce):
	}
}

func TestWatcher_NewProjectIsWatched(t *testing.T) {
	root := t.TempDir()
	_, ch := startWatcher(t, root)

	project := filepath.Join(root, "fresh")
	require.NoError(t, os.Mkdir(project, 0o755))

	ev := waitEvent(t, ch)
	assert.Equal(t, project, ev.Path)
	assert.True(t, ev.Directory)
	assert.Equal(t, domain.ChangeCreated, ev.Op)

	path := filepath.Join(project, "a.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

	ev = waitEvent(t, ch)
	assert.Equal(t, path, ev.Path)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "proj"), 0o755))
	_, ch := startWatcher(t, root)

	require.NoError(t, os.WriteFile(filepath.Join(root, "proj", "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "proj", ".swap.jsonl"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "top.jsonl"), []byte("x"), 0o644))

	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %+v", ev)
	case <-time.After(10 * testDebounce):
	}
}

func TestWatcher_Errors(t *testing.T) {
	t.Run("non-existent root", func(t *testing.T) {
		w := NewWatcher(New("/non/existent/path", ""), 0)

		ch, err := w.Watch(context.Background())

		assert.Error(t, err)
		assert.Nil(t, ch)
		assert.Contains(t, err.Error(), "root path error")
	})

	t.Run("closed watcher", func(t *testing.T) {
		w := NewWatcher(New(t.TempDir(), ""), 0)
		require.NoError(t, w.Close())

		ch, err := w.Watch(context.Background())

		assert.ErrorIs(t, err, ErrWatcherClosed)
		assert.Nil(t, ch)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		w := NewWatcher(New(t.TempDir(), ""), 0)

		assert.NoError(t, w.Close())
		assert.NoError(t, w.Close())
	})
}

func TestWatcher_ChannelClosesOnCancel(t *testing.T) {
	w := NewWatcher(New(t.TempDir(), ""), testDebounce)
	ctx, cancel := context.WithCancel(context.Background())
	defer w.Close()

	ch, err := w.Watch(ctx)
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel did not close after context cancellation")
	}
}

func TestMerge(t *testing.T) {
	created := domain.ChangeEvent{Path: "p", Op: domain.ChangeCreated}
	modified := domain.ChangeEvent{Path: "p", Op: domain.ChangeModified}
	removed := domain.ChangeEvent{Path: "p", Op: domain.ChangeRemoved}

	assert.Equal(t, created, merge(domain.ChangeEvent{}, created))
	assert.Equal(t, created, merge(created, modified))
	assert.Equal(t, removed, merge(created, removed))
	assert.Equal(t, removed, merge(modified, removed))
	assert.Equal(t, modified, merge(removed, created))
	assert.Equal(t, modified, merge(modified, modified))
}
