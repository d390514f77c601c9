package driving

import (
	"context"

	"github.com/custodia-labs/recall/internal/core/domain"
)

// ActionService hands conversations to the desktop.
// Used by the TUI reader and the serve command.
type ActionService interface {
	// CopyConversation copies the plain-text transcript to the system clipboard.
	CopyConversation(ctx context.Context, conv *domain.Conversation) error

	// OpenConversation opens the transcript file in the default application.
	OpenConversation(ctx context.Context, conv *domain.Conversation) error

	// OpenURL opens url in the default browser.
	OpenURL(ctx context.Context, url string) error
}
