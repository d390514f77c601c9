package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
	"github.com/custodia-labs/recall/internal/core/ports/driving"
	"github.com/custodia-labs/recall/internal/logger"
)

// Ensure ConversationService implements the interface.
var _ driving.ConversationService = (*ConversationService)(nil)

// ConversationService enumerates projects and loads their transcripts.
// Every call rescans the tree; nothing is retained between calls except
// what the loader's cache holds.
type ConversationService struct {
	store   driven.TranscriptStore
	loader  *ConversationLoader
	diag    driven.Diagnostics
	workers int
}

// NewConversationService creates a conversation service.
// workers bounds parallel loading; values below one mean one.
func NewConversationService(
	store driven.TranscriptStore,
	loader *ConversationLoader,
	diag driven.Diagnostics,
	workers int,
) *ConversationService {
	if diag == nil {
		diag = nopDiagnostics{}
	}
	if workers < 1 {
		workers = 1
	}
	return &ConversationService{
		store:   store,
		loader:  loader,
		diag:    diag,
		workers: workers,
	}
}

// ListProjects returns projects with at least one non-empty conversation,
// sorted by decoded name.
func (s *ConversationService) ListProjects(ctx context.Context) []domain.ProjectSummary {
	keys := s.projectKeys(ctx)
	conversations := s.load(ctx, s.transcripts(ctx, keys))

	counts := make(map[string]int, len(keys))
	for _, c := range conversations {
		counts[c.ProjectKey]++
	}

	projects := make([]domain.ProjectSummary, 0, len(counts))
	for _, key := range keys {
		if counts[key] == 0 {
			continue
		}
		projects = append(projects, domain.ProjectSummary{
			Key:               key,
			Name:              domain.DecodeProjectName(key),
			ConversationCount: counts[key],
		})
	}

	sort.SliceStable(projects, func(i, j int) bool {
		if projects[i].Name != projects[j].Name {
			return projects[i].Name < projects[j].Name
		}
		return projects[i].Key < projects[j].Key
	})

	logger.Debug("Found %d projects under %s", len(projects), s.store.Root())
	return projects
}

// ListConversations returns non-empty conversations, newest first.
// An empty projectKey lists all projects.
func (s *ConversationService) ListConversations(ctx context.Context, projectKey string) []domain.Conversation {
	var keys []string
	if projectKey == "" {
		keys = s.projectKeys(ctx)
	} else {
		keys = []string{projectKey}
	}

	conversations := s.load(ctx, s.transcripts(ctx, keys))
	sortByRecency(conversations)

	logger.Debug("Loaded %d conversations", len(conversations))
	return conversations
}

// GetConversation loads a single conversation.
func (s *ConversationService) GetConversation(
	ctx context.Context, projectKey, id string,
) (*domain.Conversation, error) {
	file, err := s.store.StatTranscript(ctx, projectKey, id)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidKey) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	conv := s.loader.Load(ctx, *file)
	if conv == nil {
		return nil, domain.ErrNotFound
	}
	return conv, nil
}

func (s *ConversationService) projectKeys(ctx context.Context) []string {
	keys, err := s.store.ListProjects(ctx)
	if err != nil {
		s.diag.Report(domain.DiagnosticEvent{
			Kind: domain.DiagDirectoryUnreadable,
			Path: s.store.Root(),
			Err:  err,
		})
		return nil
	}
	return keys
}

func (s *ConversationService) transcripts(ctx context.Context, keys []string) []domain.TranscriptFile {
	var files []domain.TranscriptFile
	for _, key := range keys {
		found, err := s.store.ListTranscripts(ctx, key)
		if err != nil {
			if !errors.Is(err, domain.ErrInvalidKey) {
				s.diag.Report(domain.DiagnosticEvent{
					Kind: domain.DiagDirectoryUnreadable,
					Path: key,
					Err:  err,
				})
			}
			continue
		}
		files = append(files, found...)
	}
	return files
}

// load parses files with at most s.workers in flight. The result keeps the
// input order with empty and unreadable transcripts removed.
func (s *ConversationService) load(ctx context.Context, files []domain.TranscriptFile) []domain.Conversation {
	defer logger.Since(fmt.Sprintf("load %d transcripts", len(files)), time.Now())

	loaded := make([]*domain.Conversation, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, file := range files {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			loaded[i] = s.loader.Load(gctx, file)
			return nil
		})
	}
	_ = g.Wait()

	conversations := make([]domain.Conversation, 0, len(files))
	for _, c := range loaded {
		if c != nil {
			conversations = append(conversations, *c)
		}
	}
	return conversations
}

// sortByRecency orders conversations newest first. Ties are broken by
// project key then id so the order does not depend on directory listing.
func sortByRecency(conversations []domain.Conversation) {
	sort.SliceStable(conversations, func(i, j int) bool {
		a, b := conversations[i], conversations[j]
		if !a.LastUpdated.Equal(b.LastUpdated) {
			return a.LastUpdated.After(b.LastUpdated)
		}
		if a.ProjectKey != b.ProjectKey {
			return a.ProjectKey < b.ProjectKey
		}
		return a.ID < b.ID
	})
}
