package mcp

import (
	"context"
	"time"

	"github.com/custodia-labs/recall/internal/core/domain"
)

var fixedTime = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results   []domain.SearchResult
	lastQuery string
	lastOpts  domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context,
	query string,
	opts domain.SearchOptions,
) []domain.SearchResult {
	m.lastQuery = query
	m.lastOpts = opts
	return m.results
}

// mockConversationService is a mock implementation of driving.ConversationService.
type mockConversationService struct {
	projects      []domain.ProjectSummary
	conversations []domain.Conversation
	conversation  *domain.Conversation
	err           error

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

func (m *mockConversationService) GetConversation(
	_ context.Context,
	projectKey, id string,
) (*domain.Conversation, error) {
	m.lastProject = projectKey
	m.lastID = id
	return m.conversation, m.err
}

func newTestServer(search *mockSearchService, conversations *mockConversationService) *Server {
	server, err := NewServer(&Ports{Search: search, Conversations: conversations})
	if err != nil {
		panic(err)
	}
	return server
}

func sampleConversation(id string) domain.Conversation {
	return domain.Conversation{
		ID:          id,
		ProjectKey:  "-Users-me-myapp",
		ProjectName: "myapp",
		Messages: []domain.Message{
			{Role: domain.RoleUser, Content: domain.StringContent("fix the login bug"), Timestamp: fixedTime},
			{Role: domain.RoleAssistant, Content: domain.SegmentContent(
				domain.Segment{Type: domain.SegmentText, Text: "on it"},
				domain.Segment{Type: domain.SegmentToolUse, Name: "grep"},
			), Timestamp: fixedTime},
		},
		Preview:      "fix the login bug",
		LastUpdated:  fixedTime,
		MessageCount: 2,
	}
}
