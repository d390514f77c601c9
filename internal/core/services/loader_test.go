package services

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall/internal/core/domain"
)

func loadOne(t *testing.T, env *testEnv, key, id string) *domain.Conversation {
	t.Helper()
	file, err := env.store.StatTranscript(context.Background(), key, id)
	require.NoError(t, err)
	return env.loader.Load(context.Background(), *file)
}

func TestConversationLoader_BuildsConversation(t *testing.T) {
	env := newTestEnv(t)
	ts := testNow.Add(-time.Hour)
	mtime := testNow.Add(-2 * time.Hour)
	path := writeTranscript(t, env.root, "home--me--myapp", "abc", mtime,
		assistantLine("welcome", ts.Add(-time.Minute)),
		userLine("How do I configure the router?", ts),
		assistantLine("Like this.", ts.Add(time.Minute)),
	)

	conv := loadOne(t, env, "home--me--myapp", "abc")

	require.NotNil(t, conv)
	assert.Equal(t, "abc", conv.ID)
	assert.Equal(t, "home--me--myapp", conv.ProjectKey)
	assert.Equal(t, "myapp", conv.ProjectName)
	assert.Equal(t, path, conv.Path)
	assert.Equal(t, 3, conv.MessageCount)
	assert.Len(t, conv.Messages, 3)
	assert.Equal(t, "How do I configure the router?", conv.Preview)
	assert.True(t, conv.LastUpdated.Equal(ts.Add(time.Minute)), "last message is newer than mtime")
}

func TestConversationLoader_LastUpdatedUsesModTime(t *testing.T) {
	env := newTestEnv(t)
	old := testNow.Add(-72 * time.Hour)
	mtime := testNow.Add(-time.Hour)
	writeTranscript(t, env.root, "p", "a", mtime, userLine("hi", old))

	conv := loadOne(t, env, "p", "a")

	require.NotNil(t, conv)
	assert.True(t, conv.LastUpdated.Equal(mtime))
}

func TestConversationLoader_PreviewIsTruncated(t *testing.T) {
	env := newTestEnv(t)
	long := strings.Repeat("é", 200)
	writeTranscript(t, env.root, "p", "a", testNow, userLine(long, testNow))

	conv := loadOne(t, env, "p", "a")

	require.NotNil(t, conv)
	assert.Equal(t, 150, len([]rune(conv.Preview)))
	assert.Equal(t, strings.Repeat("é", 150), conv.Preview)
}

func TestConversationLoader_NoUserMessage(t *testing.T) {
	env := newTestEnv(t)
	writeTranscript(t, env.root, "p", "a", testNow, assistantLine("only me", testNow))

	conv := loadOne(t, env, "p", "a")

	require.NotNil(t, conv)
	assert.Equal(t, "Empty conversation", conv.Preview)
}

func TestConversationLoader_EmptyTranscripts(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{name: "no lines", lines: nil},
		{name: "only garbage", lines: []string{"not json", `{"type":"summary"}`}},
		{name: "empty string content", lines: []string{`{"type":"user","message":{"role":"user","content":""}}`}},
		{name: "empty segment list", lines: []string{`{"type":"user","message":{"role":"user","content":[]}}`}},
		{name: "whitespace content", lines: []string{`{"role":"user","content":"   "}`}},
		{name: "only unknown segments", lines: []string{`{"role":"assistant","content":[{"type":"image"},{"type":"thinking"}]}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			writeTranscript(t, env.root, "p", "a", testNow, tt.lines...)

			assert.Nil(t, loadOne(t, env, "p", "a"))
		})
	}
}

func TestConversationLoader_MessageCountMatchesParsedLines(t *testing.T) {
	env := newTestEnv(t)
	writeTranscript(t, env.root, "p", "a", testNow,
		userLine("one", testNow),
		"garbage",
		`{"type":"user","message":{"role":"user","content":""}}`,
		assistantLine("two", testNow),
	)

	conv := loadOne(t, env, "p", "a")

	require.NotNil(t, conv)
	assert.Equal(t, 3, conv.MessageCount, "blank messages count, unparseable lines do not")
	assert.Equal(t, []domain.DiagnosticKind{domain.DiagLineSkipped}, env.diag.kinds())
	assert.Equal(t, 2, env.diag.events[0].Line)
}

func TestConversationLoader_UnreadableFile(t *testing.T) {
	env := newTestEnv(t)
	path := writeTranscript(t, env.root, "p", "a", testNow, userLine("x", testNow))
	file, err := env.store.StatTranscript(context.Background(), "p", "a")
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	conv := env.loader.Load(context.Background(), *file)

	assert.Nil(t, conv)
	assert.Equal(t, []domain.DiagnosticKind{domain.DiagFileUnreadable}, env.diag.kinds())
}

func TestConversationLoader_UsesCache(t *testing.T) {
	cache := newMapCache()
	env := newTestEnv(t, WithCache(cache))
	writeTranscript(t, env.root, "p", "a", testNow, userLine("cached", testNow))

	first := loadOne(t, env, "p", "a")
	second := loadOne(t, env, "p", "a")

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first.Preview, second.Preview)
	assert.Equal(t, 1, cache.puts)
	assert.Equal(t, 1, cache.hits)
}

func TestConversationLoader_CacheMissAfterChange(t *testing.T) {
	cache := newMapCache()
	env := newTestEnv(t, WithCache(cache))
	writeTranscript(t, env.root, "p", "a", testNow.Add(-time.Hour), userLine("before", testNow))
	require.NotNil(t, loadOne(t, env, "p", "a"))

	writeTranscript(t, env.root, "p", "a", testNow, userLine("after change", testNow))
	conv := loadOne(t, env, "p", "a")

	require.NotNil(t, conv)
	assert.Equal(t, "after change", conv.Preview)
	assert.Equal(t, 0, cache.hits)
	assert.Equal(t, 2, cache.puts)
}

func TestConversationLoader_SkipsCacheForDefaultedTimestamps(t *testing.T) {
	cache := newMapCache()
	env := newTestEnv(t, WithCache(cache))
	writeTranscript(t, env.root, "p", "a", testNow,
		userLine("dated", testNow),
		`{"role":"assistant","content":"undated"}`)

	first := loadOne(t, env, "p", "a")
	second := loadOne(t, env, "p", "a")

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, 2, second.MessageCount)
	assert.Equal(t, 0, cache.puts)
	assert.Equal(t, 0, cache.hits)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", truncateRunes("abc", 5))
	assert.Equal(t, "ab", truncateRunes("abc", 2))
	assert.Equal(t, "日本", truncateRunes("日本語", 2))
	assert.Equal(t, "日本語", truncateRunes("日本語", 3))
}

func TestNewConversationLoader_NilDiagnostics(t *testing.T) {
	env := newTestEnv(t)
	loader := NewConversationLoader(env.store, nil, WithDiagnostics(nil))

	_, ok := loader.diag.(nopDiagnostics)
	assert.True(t, ok)
}
