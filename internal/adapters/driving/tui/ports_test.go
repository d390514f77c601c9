package tui

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driving"
)

// MockSearchService implements driving.SearchService for testing.
type MockSearchService struct {
	SearchFunc func(ctx context.Context, query string, opts domain.SearchOptions) []domain.SearchResult
}

func (m *MockSearchService) Search(ctx context.Context, query string, opts domain.SearchOptions) []domain.SearchResult {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, opts)
	}
	return []domain.SearchResult{}
}

// MockConversationService implements driving.ConversationService for testing.
type MockConversationService struct {
	GetFunc func(ctx context.Context, projectKey, id string) (*domain.Conversation, error)
}

func (m *MockConversationService) ListProjects(_ context.Context) []domain.ProjectSummary {
	return []domain.ProjectSummary{}
}

func (m *MockConversationService) ListConversations(_ context.Context, _ string) []domain.Conversation {
	return []domain.Conversation{}
}

func (m *MockConversationService) GetConversation(ctx context.Context, projectKey, id string) (*domain.Conversation, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, projectKey, id)
	}
	return nil, domain.ErrNotFound
}

// MockChangeFeed implements driving.ChangeFeed with a test-controlled channel.
type MockChangeFeed struct {
	mu           sync.Mutex
	events       chan domain.ChangeEvent
	subscribed   int
	unsubscribed int
}

func newMockChangeFeed() *MockChangeFeed {
	return &MockChangeFeed{events: make(chan domain.ChangeEvent, 4)}
}

func (m *MockChangeFeed) Subscribe() (<-chan domain.ChangeEvent, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribed++
	return m.events, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.unsubscribed++
	}
}

// StubSettingsService implements driving.SettingsService over a map.
type StubSettingsService struct {
	values map[string]string
	keys   []string
}

func newStubSettings() *StubSettingsService {
	return &StubSettingsService{
		values: map[string]string{"cache.mode": "memory", "scan.workers": "8"},
		keys:   []string{"cache.mode", "scan.workers"},
	}
}

func (s *StubSettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()
	return &defaults, nil
}

func (s *StubSettingsService) Save(_ *domain.AppSettings) error { return nil }

func (s *StubSettingsService) Set(key, value string) error {
	if _, ok := s.values[key]; !ok {
		return domain.ErrInvalidSetting
	}
	s.values[key] = value
	return nil
}

func (s *StubSettingsService) Value(key string) (string, error) {
	v, ok := s.values[key]
	if !ok {
		return "", domain.ErrInvalidSetting
	}
	return v, nil
}

func (s *StubSettingsService) Keys() []string { return s.keys }

func (s *StubSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// MockActionService counts copy requests.
type MockActionService struct {
	copied int
}

func (m *MockActionService) CopyConversation(_ context.Context, _ *domain.Conversation) error {
	m.copied++
	return nil
}

func (m *MockActionService) OpenConversation(_ context.Context, _ *domain.Conversation) error {
	return nil
}

func (m *MockActionService) OpenURL(_ context.Context, _ string) error { return nil }

func TestNewPorts(t *testing.T) {
	search := &MockSearchService{}
	conversations := &MockConversationService{}
	feed := newMockChangeFeed()

	ports := NewPorts(search, conversations, feed)

	require.NotNil(t, ports)
	assert.Equal(t, search, ports.Search)
	assert.Equal(t, conversations, ports.Conversations)
	assert.Equal(t, feed, ports.Changes)
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ports   *Ports
		wantErr error
	}{
		{"nil ports", nil, ErrInvalidPorts},
		{"missing search", &Ports{Conversations: &MockConversationService{}}, ErrMissingSearchService},
		{"missing conversations", &Ports{Search: &MockSearchService{}}, ErrMissingConversationService},
		{"without change feed", &Ports{Search: &MockSearchService{}, Conversations: &MockConversationService{}}, nil},
		{"complete", NewPorts(&MockSearchService{}, &MockConversationService{}, newMockChangeFeed()), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// Compile-time interface checks for the mocks.
var (
	_ driving.SearchService       = (*MockSearchService)(nil)
	_ driving.ConversationService = (*MockConversationService)(nil)
	_ driving.ChangeFeed          = (*MockChangeFeed)(nil)
	_ driving.SettingsService     = (*StubSettingsService)(nil)
	_ driving.ActionService       = (*MockActionService)(nil)
)
