package domain

// DiagnosticKind classifies a recoverable problem found while scanning.
type DiagnosticKind string

// Diagnostic kinds.
const (
	// DiagLineSkipped is a transcript line that matched no record shape.
	DiagLineSkipped DiagnosticKind = "line_skipped"

	// DiagFileUnreadable is a transcript that could not be read.
	DiagFileUnreadable DiagnosticKind = "file_unreadable"

	// DiagDirectoryUnreadable is a root or project directory that could not be listed.
	DiagDirectoryUnreadable DiagnosticKind = "directory_unreadable"

	// DiagCacheFailure is a cache read or write that failed and was bypassed.
	DiagCacheFailure DiagnosticKind = "cache_failure"
)

// DiagnosticEvent describes a recoverable problem. Events never change the
// outcome of a query; they exist so the problem is visible somewhere.
type DiagnosticEvent struct {
	// Kind classifies the event.
	Kind DiagnosticKind

	// Path is the file or directory involved.
	Path string

	// Line is the 1-based line number for DiagLineSkipped.
	Line int

	// Reason is a short human-readable description.
	Reason string

	// Err is the underlying error, if any.
	Err error
}
