package services

import (
	"context"

	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
)

// LoaderOption configures a ConversationLoader.
type LoaderOption func(*ConversationLoader)

// WithCache sets the parsed transcript cache.
func WithCache(cache driven.TranscriptCache) LoaderOption {
	return func(l *ConversationLoader) {
		l.cache = cache
	}
}

// WithDiagnostics sets the sink for skipped lines and unreadable files.
func WithDiagnostics(diag driven.Diagnostics) LoaderOption {
	return func(l *ConversationLoader) {
		if diag != nil {
			l.diag = diag
		}
	}
}

// ConversationLoader turns one transcript file into a Conversation.
type ConversationLoader struct {
	store  driven.TranscriptStore
	parser driven.TranscriptParser
	cache  driven.TranscriptCache
	diag   driven.Diagnostics
}

// NewConversationLoader creates a loader.
func NewConversationLoader(
	store driven.TranscriptStore,
	parser driven.TranscriptParser,
	opts ...LoaderOption,
) *ConversationLoader {
	l := &ConversationLoader{
		store:  store,
		parser: parser,
		diag:   nopDiagnostics{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load parses file into a conversation. It returns nil when the file is
// unreadable or holds no displayable message.
func (l *ConversationLoader) Load(ctx context.Context, file domain.TranscriptFile) *domain.Conversation {
	messages := l.messages(ctx, file)
	if domain.IsEmptyTranscript(messages) {
		return nil
	}
	return buildConversation(file, messages)
}

func (l *ConversationLoader) messages(ctx context.Context, file domain.TranscriptFile) []domain.Message {
	if l.cache != nil {
		if cached, ok := l.cache.Get(ctx, file); ok {
			return cached
		}
	}

	data, err := l.store.ReadTranscript(ctx, file.Path)
	if err != nil {
		l.diag.Report(domain.DiagnosticEvent{
			Kind: domain.DiagFileUnreadable,
			Path: file.Path,
			Err:  err,
		})
		return nil
	}

	messages, skipped := l.parser.Parse(data)
	for _, s := range skipped {
		l.diag.Report(domain.DiagnosticEvent{
			Kind:   domain.DiagLineSkipped,
			Path:   file.Path,
			Line:   s.Line,
			Reason: s.Reason,
		})
	}

	if l.cache != nil && !anyDefaulted(messages) {
		l.cache.Put(ctx, file, messages)
	}
	return messages
}

// anyDefaulted reports whether a message timestamp came from the parse
// clock. Such transcripts are reparsed rather than cached, so the cache
// never pins a stale "now".
func anyDefaulted(messages []domain.Message) bool {
	for i := range messages {
		if messages[i].TimestampDefaulted {
			return true
		}
	}
	return false
}

func buildConversation(file domain.TranscriptFile, messages []domain.Message) *domain.Conversation {
	conv := &domain.Conversation{
		ID:           file.ID,
		ProjectKey:   file.ProjectKey,
		ProjectName:  domain.DecodeProjectName(file.ProjectKey),
		Messages:     messages,
		MessageCount: len(messages),
		Path:         file.Path,
		Preview:      domain.EmptyPreview,
		LastUpdated:  file.ModTime,
	}

	if first, ok := conv.FirstUserMessage(); ok {
		conv.Preview = truncateRunes(first.Text(), domain.PreviewLength)
	}
	if last := messages[len(messages)-1].Timestamp; last.After(conv.LastUpdated) {
		conv.LastUpdated = last
	}
	return conv
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

type nopDiagnostics struct{}

func (nopDiagnostics) Report(domain.DiagnosticEvent) {}
