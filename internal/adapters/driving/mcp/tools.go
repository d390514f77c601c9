package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/recall/internal/core/domain"
)

// defaultLimit applies when a tool call omits limit.
const defaultLimit = 10

// SearchInput is the input schema for the search_conversations tool.
type SearchInput struct {
	Query   string `json:"query" jsonschema:"words to look for in titles, project names and messages"`
	Project string `json:"project,omitempty" jsonschema:"restrict the search to one project directory name"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchOutput is the output schema for the search_conversations tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	ConversationOutput
	Score     int    `json:"score"`
	MatchType string `json:"match_type"`
	Snippet   string `json:"snippet,omitempty"`
}

// ListProjectsInput is the input schema for the list_projects tool.
type ListProjectsInput struct{}

// ListProjectsOutput is the output schema for the list_projects tool.
type ListProjectsOutput struct {
	Projects []ProjectOutput `json:"projects"`
}

// ProjectOutput describes a project directory.
type ProjectOutput struct {
	Key               string `json:"key"`
	Name              string `json:"name"`
	ConversationCount int    `json:"conversation_count"`
}

// ListConversationsInput is the input schema for the list_conversations tool.
type ListConversationsInput struct {
	Project string `json:"project,omitempty" jsonschema:"project directory name; empty lists every project"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum number of conversations to return (default 10)"`
}

// ListConversationsOutput is the output schema for the list_conversations tool.
type ListConversationsOutput struct {
	Conversations []ConversationOutput `json:"conversations"`
	Count         int                  `json:"count"`
}

// ConversationOutput summarises a conversation.
type ConversationOutput struct {
	Project      string `json:"project"`
	ProjectName  string `json:"project_name"`
	ID           string `json:"id"`
	Preview      string `json:"preview"`
	MessageCount int    `json:"message_count"`
	LastUpdated  string `json:"last_updated"`
	URI          string `json:"uri"`
}

// GetConversationInput is the input schema for the get_conversation tool.
type GetConversationInput struct {
	Project string `json:"project" jsonschema:"project directory name"`
	ID      string `json:"id" jsonschema:"conversation id (file name without extension)"`
}

// GetConversationOutput is the output schema for the get_conversation tool.
type GetConversationOutput struct {
	Conversation ConversationOutput `json:"conversation"`
	Messages     []MessageOutput    `json:"messages"`
}

// MessageOutput is one transcript message as plain text.
type MessageOutput struct {
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_conversations",
		Description: "Search past conversation transcripts by relevance",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_projects",
		Description: "List projects that have conversation transcripts",
	}, s.handleListProjects)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_conversations",
		Description: "List conversations, most recently updated first",
	}, s.handleListConversations)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_conversation",
		Description: "Read every message of one conversation",
	}, s.handleGetConversation)
}

// handleSearch handles the search_conversations tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts := domain.SearchOptions{
		ProjectKey: input.Project,
		Limit:      limitOrDefault(input.Limit),
	}
	results := s.ports.Search.Search(ctx, input.Query, opts)

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = SearchResultOutput{
			ConversationOutput: toConversationOutput(&results[i].Conversation),
			Score:              results[i].Score,
			MatchType:          results[i].MatchType.String(),
			Snippet:            results[i].Snippet,
		}
	}

	return nil, output, nil
}

func (s *Server) handleListProjects(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListProjectsInput,
) (*mcp.CallToolResult, ListProjectsOutput, error) {
	projects := s.ports.Conversations.ListProjects(ctx)

	output := ListProjectsOutput{Projects: make([]ProjectOutput, len(projects))}
	for i, p := range projects {
		output.Projects[i] = ProjectOutput{
			Key:               p.Key,
			Name:              p.Name,
			ConversationCount: p.ConversationCount,
		}
	}
	return nil, output, nil
}

func (s *Server) handleListConversations(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListConversationsInput,
) (*mcp.CallToolResult, ListConversationsOutput, error) {
	conversations := s.ports.Conversations.ListConversations(ctx, input.Project)
	if limit := limitOrDefault(input.Limit); len(conversations) > limit {
		conversations = conversations[:limit]
	}

	output := ListConversationsOutput{
		Conversations: make([]ConversationOutput, len(conversations)),
		Count:         len(conversations),
	}
	for i := range conversations {
		output.Conversations[i] = toConversationOutput(&conversations[i])
	}
	return nil, output, nil
}

func (s *Server) handleGetConversation(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetConversationInput,
) (*mcp.CallToolResult, GetConversationOutput, error) {
	conv, err := s.ports.Conversations.GetConversation(ctx, input.Project, input.ID)
	if err != nil {
		return nil, GetConversationOutput{}, fmt.Errorf("getting conversation %s/%s: %w", input.Project, input.ID, err)
	}

	output := GetConversationOutput{
		Conversation: toConversationOutput(conv),
		Messages:     make([]MessageOutput, len(conv.Messages)),
	}
	for i, m := range conv.Messages {
		output.Messages[i] = MessageOutput{
			Role:      m.Role.String(),
			Text:      m.Text(),
			Timestamp: m.Timestamp.UTC().Format(time.RFC3339),
		}
	}
	return nil, output, nil
}

func toConversationOutput(c *domain.Conversation) ConversationOutput {
	return ConversationOutput{
		Project:      c.ProjectKey,
		ProjectName:  c.ProjectName,
		ID:           c.ID,
		Preview:      c.Preview,
		MessageCount: c.MessageCount,
		LastUpdated:  c.LastUpdated.UTC().Format(time.RFC3339),
		URI:          conversationURI(c.ProjectKey, c.ID),
	}
}

func limitOrDefault(n int) int {
	if n <= 0 {
		return defaultLimit
	}
	return n
}
