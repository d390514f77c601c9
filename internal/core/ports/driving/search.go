package driving

import (
	"context"

	"github.com/custodia-labs/recall/internal/core/domain"
)

// SearchService provides search capabilities to external actors.
type SearchService interface {
	// Search ranks conversations against query.
	// A blank query returns the unscored listing, newest first.
	Search(ctx context.Context, query string, opts domain.SearchOptions) []domain.SearchResult
}
