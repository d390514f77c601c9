package driving

import (
	"context"

	"github.com/custodia-labs/recall/internal/core/domain"
)

// ConversationService lists and loads conversations.
// Listing never fails: missing or unreadable directories yield empty results.
type ConversationService interface {
	// ListProjects returns projects with at least one non-empty conversation,
	// sorted by decoded name.
	ListProjects(ctx context.Context) []domain.ProjectSummary

	// ListConversations returns non-empty conversations, newest first.
	// An empty projectKey lists every project.
	ListConversations(ctx context.Context, projectKey string) []domain.Conversation

	// GetConversation loads one conversation.
	// Returns domain.ErrNotFound if it does not exist or is empty.
	GetConversation(ctx context.Context, projectKey, id string) (*domain.Conversation, error)
}
