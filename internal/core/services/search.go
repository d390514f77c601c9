package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driving"
	"github.com/custodia-labs/recall/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// topScoresLogged is how many leading results are logged in verbose mode.
const topScoresLogged = 3

// SearchService ranks conversations against a free-text query.
type SearchService struct {
	conversations driving.ConversationService
	scorer        *Scorer
}

// NewSearchService creates a new search service.
func NewSearchService(conversations driving.ConversationService, scorer *Scorer) *SearchService {
	if scorer == nil {
		scorer = NewScorer(nil)
	}
	return &SearchService{
		conversations: conversations,
		scorer:        scorer,
	}
}

// Search scores every candidate conversation and returns those that matched,
// highest score first. Equal scores keep the listing order.
// A blank query returns the listing itself with zero scores.
func (s *SearchService) Search(ctx context.Context, query string, opts domain.SearchOptions) []domain.SearchResult {
	logger.Section("Search")
	logger.Debug("Query: %q project: %q", query, opts.ProjectKey)
	started := time.Now()

	candidates := s.conversations.ListConversations(ctx, opts.ProjectKey)
	logger.Debug("Candidates: %d", len(candidates))

	if strings.TrimSpace(query) == "" {
		results := make([]domain.SearchResult, 0, len(candidates))
		for _, c := range candidates {
			results = append(results, domain.SearchResult{Conversation: c, MatchType: domain.MatchNone})
		}
		return limit(results, opts.Limit)
	}

	results := make([]domain.SearchResult, 0, len(candidates))
	for i := range candidates {
		score := s.scorer.Score(&candidates[i], query)
		if !score.Matched() {
			continue
		}
		results = append(results, domain.SearchResult{
			Conversation: candidates[i],
			Score:        score.Value,
			Snippet:      score.Snippet,
			MatchType:    score.MatchType,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	logger.Info("Found %d results for query %q", len(results), strings.ToLower(query))
	logger.Since("search", started)
	for i := 0; i < len(results) && i < topScoresLogged; i++ {
		r := results[i]
		logger.Debug("  #%d score=%d match=%s %s/%s", i+1, r.Score, r.MatchType, r.Conversation.ProjectName, r.Conversation.ID)
	}

	return limit(results, opts.Limit)
}

func limit(results []domain.SearchResult, n int) []domain.SearchResult {
	if n > 0 && len(results) > n {
		return results[:n]
	}
	return results
}
