package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall/internal/core/domain"
)

func TestExtractConversationRef(t *testing.T) {
	tests := []struct {
		name        string
		uri         string
		wantProject string
		wantID      string
	}{
		{"valid", "recall://conversations/-Users-me-app/abc", "-Users-me-app", "abc"},
		{"invalid prefix", "file://conversations/p/abc", "", ""},
		{"missing id", "recall://conversations/p", "", ""},
		{"empty id", "recall://conversations/p/", "", ""},
		{"extra segment", "recall://conversations/p/a/b", "", ""},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			project, id := extractConversationRef(tt.uri)
			assert.Equal(t, tt.wantProject, project)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleProjectsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("empty list", func(t *testing.T) {
		server := newTestServer(&mockSearchService{}, &mockConversationService{})

		result, err := server.handleProjectsResource(ctx, makeReadResourceRequest("recall://projects"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns projects", func(t *testing.T) {
		conversations := &mockConversationService{
			projects: []domain.ProjectSummary{{Key: "-a--b", Name: "b", ConversationCount: 1}},
		}
		server := newTestServer(&mockSearchService{}, conversations)

		result, err := server.handleProjectsResource(ctx, makeReadResourceRequest("recall://projects"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var projects []ProjectOutput
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &projects))
		assert.Equal(t, []ProjectOutput{{Key: "-a--b", Name: "b", ConversationCount: 1}}, projects)
	})
}

func TestServer_handleConversationResource(t *testing.T) {
	ctx := context.Background()
	uri := "recall://conversations/-Users-me-myapp/abc"

	t.Run("renders transcript", func(t *testing.T) {
		conv := sampleConversation("abc")
		conversations := &mockConversationService{conversation: &conv}
		server := newTestServer(&mockSearchService{}, conversations)

		result, err := server.handleConversationResource(ctx, makeReadResourceRequest(uri))

		require.NoError(t, err)
		assert.Equal(t, "-Users-me-myapp", conversations.lastProject)
		assert.Equal(t, "abc", conversations.lastID)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "text/plain", result.Contents[0].MIMEType)
		assert.Equal(t,
			"# myapp / abc\n\n"+
				"[user] 2025-06-15T12:00:00Z\nfix the login bug\n\n"+
				"[assistant] 2025-06-15T12:00:00Z\non it [Tool: grep]\n\n",
			result.Contents[0].Text)
	})

	t.Run("not found", func(t *testing.T) {
		server := newTestServer(&mockSearchService{}, &mockConversationService{err: domain.ErrNotFound})

		_, err := server.handleConversationResource(ctx, makeReadResourceRequest(uri))

		require.Error(t, err)
	})

	t.Run("malformed uri", func(t *testing.T) {
		conversations := &mockConversationService{}
		server := newTestServer(&mockSearchService{}, conversations)

		_, err := server.handleConversationResource(ctx, makeReadResourceRequest("recall://conversations/only"))

		require.Error(t, err)
		assert.Empty(t, conversations.lastProject)
	})

	t.Run("other errors are wrapped", func(t *testing.T) {
		server := newTestServer(&mockSearchService{}, &mockConversationService{err: errors.New("boom")})

		_, err := server.handleConversationResource(ctx, makeReadResourceRequest(uri))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	})
}

func TestConversationURI(t *testing.T) {
	assert.Equal(t, "recall://conversations/p/id", conversationURI("p", "id"))
}
