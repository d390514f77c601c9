package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall/internal/core/domain"
)

var fixedTime = time.Date(2026, 7, 2, 8, 0, 0, 0, time.UTC)

func sampleConversation(id string) domain.Conversation {
	return domain.Conversation{
		ID:          id,
		ProjectKey:  "home--me--app",
		ProjectName: "app",
		Messages: []domain.Message{
			{Role: domain.RoleUser, Content: domain.StringContent("fix the login bug"), Timestamp: fixedTime},
			{Role: domain.RoleAssistant, Content: domain.StringContent("the token expired"), Timestamp: fixedTime},
		},
		Preview:      "fix the login bug",
		LastUpdated:  fixedTime,
		MessageCount: 2,
		Path:         "/t/home--me--app/" + id + ".jsonl",
	}
}

// mockSearchService records the last query and options.
type mockSearchService struct {
	query   string
	opts    domain.SearchOptions
	results []domain.SearchResult
}

func (m *mockSearchService) Search(_ context.Context, query string, opts domain.SearchOptions) []domain.SearchResult {
	m.query = query
	m.opts = opts
	return m.results
}

// mockConversationService serves a fixed set of conversations.
type mockConversationService struct {
	conversations []domain.Conversation
}

func (m *mockConversationService) ListProjects(_ context.Context) []domain.ProjectSummary {
	if len(m.conversations) == 0 {
		return []domain.ProjectSummary{}
	}
	c := m.conversations[0]
	return []domain.ProjectSummary{{Key: c.ProjectKey, Name: c.ProjectName, ConversationCount: len(m.conversations)}}
}

func (m *mockConversationService) ListConversations(_ context.Context, projectKey string) []domain.Conversation {
	var out []domain.Conversation
	for _, c := range m.conversations {
		if projectKey == "" || c.ProjectKey == projectKey {
			out = append(out, c)
		}
	}
	return out
}

func (m *mockConversationService) GetConversation(_ context.Context, projectKey, id string) (*domain.Conversation, error) {
	for i := range m.conversations {
		if m.conversations[i].ProjectKey == projectKey && m.conversations[i].ID == id {
			return &m.conversations[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// mockSettingsService keeps settings in memory.
type mockSettingsService struct {
	settings domain.AppSettings
	setErr   error
	setCalls map[string]string
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings(), setCalls: map[string]string{}}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(s *domain.AppSettings) error {
	m.settings = *s
	return nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.setCalls[key] = value
	return nil
}

func (m *mockSettingsService) Value(key string) (string, error) {
	if key == "cache.mode" {
		return string(m.settings.Cache.Mode), nil
	}
	return "", fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidSetting)
}

func (m *mockSettingsService) Keys() []string {
	return []string{"cache.mode", "scan.workers"}
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// testServices are the mocks injected by setupTestServices.
type testServices struct {
	search        *mockSearchService
	conversations *mockConversationService
	settings      *mockSettingsService
}

// setupTestServices injects mocks so setup skips building a runtime.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()
	conv := sampleConversation("c1")
	ts := &testServices{
		search: &mockSearchService{results: []domain.SearchResult{
			{Conversation: conv, Score: 112, Snippet: "fix the login bug", MatchType: domain.MatchTitle},
		}},
		conversations: &mockConversationService{conversations: []domain.Conversation{conv}},
		settings:      newMockSettingsService(),
	}

	oldSearch, oldConv, oldSettings := searchService, conversationService, settingsService
	searchService = ts.search
	conversationService = ts.conversations
	settingsService = ts.settings
	t.Cleanup(func() {
		searchService, conversationService, settingsService = oldSearch, oldConv, oldSettings
	})
	return ts
}

// execute runs the root command with args and returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootDir, configDir = "", ""
		searchJSON, searchProject, searchLimit = false, "", 10
		conversationsJSON, conversationsLimit = false, 20
		projectsJSON, showJSON = false, false
		for _, c := range rootCmd.Commands() {
			c.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
		}
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// writeTranscript writes lines to root/key/id.jsonl.
func writeTranscript(t *testing.T, root, key, id string, lines ...string) {
	t.Helper()
	dir := filepath.Join(root, key)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, id+".jsonl")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
}

func userLine(text string) string {
	return fmt.Sprintf(`{"type":"user","message":{"role":"user","content":%q},"timestamp":%q}`,
		text, fixedTime.Format(time.RFC3339Nano))
}
