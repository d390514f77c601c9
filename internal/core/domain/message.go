package domain

import "time"

// Role identifies the author of a message.
type Role string

// Supported roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid returns true for user and assistant.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// Message is one normalised transcript record.
type Message struct {
	// Role is the message author.
	Role Role

	// Content is the payload as it appeared in the transcript.
	Content Content

	// Timestamp is when the message was written. Records without a
	// timestamp carry the time they were parsed.
	Timestamp time.Time

	// TimestampDefaulted is set when Timestamp came from the parse clock.
	TimestampDefaulted bool
}

// Text returns the extracted display text of the message.
func (m Message) Text() string {
	return m.Content.Text()
}

// IsBlank reports whether the message has no displayable text.
func (m Message) IsBlank() bool {
	return m.Content.IsBlank()
}

// SkippedLine records a transcript line the parser could not use.
type SkippedLine struct {
	// Line is the 1-based line number in the file.
	Line int

	// Reason describes why the line was skipped.
	Reason string
}
