package driven

import (
	"context"

	"github.com/custodia-labs/recall/internal/core/domain"
)

// TranscriptStore provides read access to the transcripts tree.
// The tree is laid out as root/<project key>/<conversation id><extension>.
type TranscriptStore interface {
	// Root returns the resolved transcripts root directory.
	Root() string

	// Extension returns the transcript file extension, including the dot.
	Extension() string

	// ListProjects returns the project keys directly under the root.
	// A missing root returns nil, nil.
	ListProjects(ctx context.Context) ([]string, error)

	// ListTranscripts returns the transcript files in one project.
	// Subdirectories and files with other extensions are ignored.
	// A missing project directory returns nil, nil.
	ListTranscripts(ctx context.Context, projectKey string) ([]domain.TranscriptFile, error)

	// StatTranscript describes a single transcript.
	// Returns domain.ErrNotFound if it does not exist and
	// domain.ErrInvalidKey if the key or id would escape the root.
	StatTranscript(ctx context.Context, projectKey, id string) (*domain.TranscriptFile, error)

	// ReadTranscript returns the raw contents of a transcript file.
	ReadTranscript(ctx context.Context, path string) ([]byte, error)
}

// TranscriptParser decodes raw transcript bytes into messages.
// Unusable lines are returned as skipped lines, never as errors.
type TranscriptParser interface {
	Parse(data []byte) ([]domain.Message, []domain.SkippedLine)
}
