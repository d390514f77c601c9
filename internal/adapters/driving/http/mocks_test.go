package http

import (
	"context"
	"sync"

	"github.com/custodia-labs/recall/internal/core/domain"
)

type mockConversationService struct {
	projects      []domain.ProjectSummary
	conversations []domain.Conversation
	conversation  *domain.Conversation
	getErr        error

	lastProject string
	lastID      string
}

func (m *mockConversationService) ListProjects(_ context.Context) []domain.ProjectSummary {
	return m.projects
}

func (m *mockConversationService) ListConversations(_ context.Context, projectKey string) []domain.Conversation {
	m.lastProject = projectKey
	return m.conversations
}

func (m *mockConversationService) GetConversation(_ context.Context, projectKey, id string) (*domain.Conversation, error) {
	m.lastProject = projectKey
	m.lastID = id
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.conversation, nil
}

type mockSearchService struct {
	results   []domain.SearchResult
	lastQuery string
	lastOpts  domain.SearchOptions
}

func (m *mockSearchService) Search(_ context.Context, query string, opts domain.SearchOptions) []domain.SearchResult {
	m.lastQuery = query
	m.lastOpts = opts
	return m.results
}

// mockChangeFeed hands every subscriber the same test-controlled channel.
type mockChangeFeed struct {
	mu     sync.Mutex
	events chan domain.ChangeEvent
	subs   int
}

func newMockChangeFeed() *mockChangeFeed {
	return &mockChangeFeed{events: make(chan domain.ChangeEvent, 4)}
}

func (m *mockChangeFeed) Subscribe() (<-chan domain.ChangeEvent, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs++
	return m.events, func() {}
}

func (m *mockChangeFeed) subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.subs
}
