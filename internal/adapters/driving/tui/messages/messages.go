// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/recall/internal/core/domain"
)

// SearchRequested is a command to run a query. A blank query lists
// every conversation newest first.
type SearchRequested struct {
	Query   string
	Options domain.SearchOptions
}

// SearchCompleted carries search results back to the model.
// Refresh is set when the results re-run a query after a transcript change.
type SearchCompleted struct {
	Query   string
	Results []domain.SearchResult
	Refresh bool
}

// ConversationSelected is sent when a result is opened.
type ConversationSelected struct {
	ProjectKey string
	ID         string
}

// ConversationLoaded carries a loaded transcript.
type ConversationLoaded struct {
	Conversation *domain.Conversation
	Err          error
}

// TranscriptsChanged is sent when the change feed reports an update.
type TranscriptsChanged struct {
	Event domain.ChangeEvent
}

// FeedClosed is sent when the change feed ends.
type FeedClosed struct{}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewSearch is the search input and results view.
	ViewSearch ViewType = iota
	// ViewTranscript shows one conversation.
	ViewTranscript
	// ViewHelp is the help/keybindings view.
	ViewHelp
	// ViewSettings edits stored settings.
	ViewSettings
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewSearch:
		return "search"
	case ViewTranscript:
		return "transcript"
	case ViewHelp:
		return "help"
	case ViewSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// Setting is one stored setting and its effective value.
type Setting struct {
	Key   string
	Value string
}

// SettingsLoaded carries the current settings.
type SettingsLoaded struct {
	Settings []Setting
	Err      error
}

// SettingSaved signals a setting was written.
type SettingSaved struct {
	Key string
	Err error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// ActionCompleted reports the result of copying or opening a conversation.
type ActionCompleted struct {
	Notice string
	Err    error
}

// Quit signals the application should exit.
type Quit struct{}
