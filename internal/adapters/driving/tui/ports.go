// Package tui provides an interactive terminal user interface for recall.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/recall/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search ranks conversations against a query.
	Search driving.SearchService

	// Conversations loads transcripts for the reader view.
	Conversations driving.ConversationService

	// Changes refreshes the open views when transcripts change.
	// Optional: without it the TUI shows a static snapshot.
	Changes driving.ChangeFeed

	// Settings backs the settings editor. Optional.
	Settings driving.SettingsService

	// Actions copies and opens transcripts from the reader. Optional.
	Actions driving.ActionService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	search driving.SearchService,
	conversations driving.ConversationService,
	changes driving.ChangeFeed,
) *Ports {
	return &Ports{
		Search:        search,
		Conversations: conversations,
		Changes:       changes,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Conversations == nil {
		return ErrMissingConversationService
	}
	return nil
}
