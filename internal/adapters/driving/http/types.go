package http

import (
	"github.com/custodia-labs/recall/internal/core/domain"
)

// HealthResponse is the response body for GET /api/health.
type HealthResponse struct {
	Status     string `json:"status"`
	ClaudePath string `json:"claudePath"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ProjectResponse is one element of GET /api/projects.
type ProjectResponse struct {
	Path              string `json:"path"`
	Name              string `json:"name"`
	ConversationCount int    `json:"conversationCount"`
}

// MessageResponse is a transcript message. Content is a string or a list of
// SegmentResponse, matching the shape it had on disk; invalid content is null.
type MessageResponse struct {
	Role      string `json:"role"`
	Content   any    `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

// SegmentResponse is one element of structured message content.
type SegmentResponse struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	Name string `json:"name,omitempty"`
}

// ConversationResponse is a full conversation. LastTimestamp is in epoch milliseconds.
type ConversationResponse struct {
	ID            string            `json:"id"`
	ProjectPath   string            `json:"projectPath"`
	ProjectName   string            `json:"projectName"`
	Messages      []MessageResponse `json:"messages"`
	FirstMessage  string            `json:"firstMessage"`
	LastTimestamp int64             `json:"lastTimestamp"`
	MessageCount  int               `json:"messageCount"`
	FilePath      string            `json:"filePath"`
}

// SearchResultResponse is a conversation annotated with its relevance.
type SearchResultResponse struct {
	ConversationResponse
	SearchSnippet  string `json:"searchSnippet,omitempty"`
	RelevanceScore int    `json:"relevanceScore"`
	MatchType      string `json:"matchType"`
}

// UpdateMessage is pushed to websocket clients.
type UpdateMessage struct {
	Type string `json:"type"`
}

// MessageConversationsUpdated tells clients to refetch.
const MessageConversationsUpdated = "conversations_updated"

// NewProjectResponses converts project summaries.
func NewProjectResponses(projects []domain.ProjectSummary) []ProjectResponse {
	out := make([]ProjectResponse, len(projects))
	for i, p := range projects {
		out[i] = ProjectResponse{
			Path:              p.Key,
			Name:              p.Name,
			ConversationCount: p.ConversationCount,
		}
	}
	return out
}

// NewConversationResponse converts a conversation.
func NewConversationResponse(c *domain.Conversation) ConversationResponse {
	messages := make([]MessageResponse, len(c.Messages))
	for i, m := range c.Messages {
		messages[i] = MessageResponse{
			Role:      m.Role.String(),
			Content:   contentValue(m.Content),
			Timestamp: m.Timestamp.UnixMilli(),
		}
	}
	return ConversationResponse{
		ID:            c.ID,
		ProjectPath:   c.ProjectKey,
		ProjectName:   c.ProjectName,
		Messages:      messages,
		FirstMessage:  c.Preview,
		LastTimestamp: c.LastUpdated.UnixMilli(),
		MessageCount:  c.MessageCount,
		FilePath:      c.Path,
	}
}

// NewConversationResponses converts a conversation listing.
func NewConversationResponses(conversations []domain.Conversation) []ConversationResponse {
	out := make([]ConversationResponse, len(conversations))
	for i := range conversations {
		out[i] = NewConversationResponse(&conversations[i])
	}
	return out
}

// NewSearchResultResponses converts search results.
func NewSearchResultResponses(results []domain.SearchResult) []SearchResultResponse {
	out := make([]SearchResultResponse, len(results))
	for i := range results {
		out[i] = SearchResultResponse{
			ConversationResponse: NewConversationResponse(&results[i].Conversation),
			SearchSnippet:        results[i].Snippet,
			RelevanceScore:       results[i].Score,
			MatchType:            results[i].MatchType.String(),
		}
	}
	return out
}

// NewListingResponses converts the unscored results of a blank query into
// plain conversations.
func NewListingResponses(results []domain.SearchResult) []ConversationResponse {
	out := make([]ConversationResponse, len(results))
	for i := range results {
		out[i] = NewConversationResponse(&results[i].Conversation)
	}
	return out
}

func contentValue(c domain.Content) any {
	switch c.Kind {
	case domain.ContentString:
		return c.String
	case domain.ContentSegments:
		segments := make([]SegmentResponse, len(c.Segments))
		for i, s := range c.Segments {
			typ := string(s.Type)
			if s.Type == domain.SegmentUnknown && s.RawType != "" {
				typ = s.RawType
			}
			segments[i] = SegmentResponse{Type: typ, Text: s.Text, Name: s.Name}
		}
		return segments
	default:
		return nil
	}
}
