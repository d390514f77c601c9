package http

import (
	"errors"

	"github.com/custodia-labs/recall/internal/core/ports/driving"
)

// Errors returned by NewServer.
var (
	ErrMissingConversationService = errors.New("http: conversation service is required")
	ErrMissingSearchService       = errors.New("http: search service is required")
	ErrMissingLogger              = errors.New("http: logger is required")
)

// Ports aggregates the driving ports the HTTP server depends on.
type Ports struct {
	// Conversations lists and loads transcripts.
	Conversations driving.ConversationService

	// Search ranks conversations.
	Search driving.SearchService

	// Changes feeds the websocket hub. Optional.
	Changes driving.ChangeFeed
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Conversations == nil {
		return ErrMissingConversationService
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
