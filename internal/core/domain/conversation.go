package domain

import (
	"fmt"
	"strings"
	"time"
)

// PreviewLength is the maximum number of characters in a conversation preview.
const PreviewLength = 150

// EmptyPreview is the preview used when a conversation has no user message.
const EmptyPreview = "Empty conversation"

// Conversation is a parsed transcript file.
// It is rebuilt on every query and never mutated after construction.
type Conversation struct {
	// ID is the transcript file name without its extension.
	ID string

	// ProjectKey is the encoded project directory name.
	ProjectKey string

	// ProjectName is the decoded, human-readable project label.
	ProjectName string

	// Messages are in file order.
	Messages []Message

	// Preview is the start of the first user message.
	Preview string

	// LastUpdated is the later of the last message timestamp and the
	// file modification time.
	LastUpdated time.Time

	// MessageCount always equals len(Messages).
	MessageCount int

	// Path is the transcript location on disk.
	Path string
}

// FirstUserMessage returns the first message authored by the user.
func (c *Conversation) FirstUserMessage() (Message, bool) {
	for _, m := range c.Messages {
		if m.Role == RoleUser {
			return m, true
		}
	}
	return Message{}, false
}

// PlainText formats the conversation as "[role] timestamp" headers
// followed by message text, under a "# project / id" title.
func (c *Conversation) PlainText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s / %s\n\n", c.ProjectName, c.ID)
	for _, m := range c.Messages {
		fmt.Fprintf(&b, "[%s] %s\n%s\n\n", m.Role, m.Timestamp.UTC().Format(time.RFC3339), m.Text())
	}
	return b.String()
}

// IsEmptyTranscript reports whether no message has displayable text.
// A nil or zero-length slice is empty.
func IsEmptyTranscript(messages []Message) bool {
	for _, m := range messages {
		if !m.IsBlank() {
			return false
		}
	}
	return true
}

// ProjectSummary describes a project directory with at least one
// non-empty conversation.
type ProjectSummary struct {
	// Key is the encoded directory name.
	Key string

	// Name is the decoded project label.
	Name string

	// ConversationCount counts non-empty conversations only.
	ConversationCount int
}

// TranscriptFile is a transcript discovered on disk.
type TranscriptFile struct {
	// ProjectKey is the encoded project directory name.
	ProjectKey string

	// ID is the file name without extension.
	ID string

	// Path is the absolute file path.
	Path string

	// ModTime is the file modification time.
	ModTime time.Time

	// Size is the file size in bytes.
	Size int64
}
