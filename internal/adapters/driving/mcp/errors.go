// Package mcp provides an MCP (Model Context Protocol) server adapter for recall.
// It lets AI assistants search and read local conversation transcripts.
package mcp

import "errors"

// Errors returned by Ports.Validate.
var (
	ErrMissingSearchService       = errors.New("mcp: search service is required")
	ErrMissingConversationService = errors.New("mcp: conversation service is required")
)
