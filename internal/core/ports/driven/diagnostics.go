package driven

import "github.com/custodia-labs/recall/internal/core/domain"

// Diagnostics receives recoverable problems found while reading transcripts.
// Implementations must be safe for concurrent use.
type Diagnostics interface {
	Report(event domain.DiagnosticEvent)
}
