package services

import (
	"strings"
	"time"

	"github.com/custodia-labs/recall/internal/core/domain"
)

// Scoring weights. All matching is case-insensitive.
const (
	depthPerMessage = 5
	depthCap        = 3000

	titleMatch      = 50
	titleAtStart    = 30
	titleNearStart  = 15
	titleNearOffset = 50

	projectMatch = 30

	densityPerHit = 3
	densityCap    = 30

	mentionFirst  = 10
	mentionEarly  = 5
	earlyMessages = 3

	recentDay  = 10
	recentWeek = 5

	snippetBefore = 30
	snippetAfter  = 100
	ellipsis      = "..."

	projectSnippetPrefix = "Matched in project: "
)

// Scorer computes relevance of a conversation for a query.
type Scorer struct {
	now func() time.Time
}

// NewScorer creates a scorer. A nil clock uses time.Now.
func NewScorer(now func() time.Time) *Scorer {
	if now == nil {
		now = time.Now
	}
	return &Scorer{now: now}
}

// Score rates conv against query. The snippet comes from the first factor
// that matched, in order: title, project name, message body.
func (s *Scorer) Score(conv *domain.Conversation, query string) domain.Score {
	q := strings.ToLower(query)
	if strings.TrimSpace(q) == "" {
		return domain.Score{MatchType: domain.MatchNone}
	}

	result := domain.Score{
		Value:     min(conv.MessageCount*depthPerMessage, depthCap),
		MatchType: domain.MatchNone,
	}

	if first, ok := conv.FirstUserMessage(); ok {
		text := first.Text()
		if idx := runeIndex(strings.ToLower(text), q); idx >= 0 {
			result.Value += titleMatch
			switch {
			case idx == 0:
				result.Value += titleAtStart
			case idx < titleNearOffset:
				result.Value += titleNearStart
			}
			result.Snippet = Snippet(text, query)
			result.MatchType = domain.MatchTitle
		}
	}

	if strings.Contains(strings.ToLower(conv.ProjectName), q) {
		result.Value += projectMatch
		if result.Snippet == "" {
			result.Snippet = projectSnippetPrefix + conv.ProjectName
			result.MatchType = domain.MatchProject
		}
	}

	total := 0
	firstHit := -1
	for i, m := range conv.Messages {
		text := m.Text()
		n := strings.Count(strings.ToLower(text), q)
		if n == 0 {
			continue
		}
		total += n
		if firstHit < 0 {
			firstHit = i
			if result.Snippet == "" {
				result.Snippet = Snippet(text, query)
				result.MatchType = domain.MatchMessage
			}
		}
	}
	result.Value += min(total*densityPerHit, densityCap)

	switch {
	case firstHit == 0:
		result.Value += mentionFirst
	case firstHit > 0 && firstHit < earlyMessages:
		result.Value += mentionEarly
	}

	age := s.now().Sub(conv.LastUpdated)
	switch {
	case age < 24*time.Hour:
		result.Value += recentDay
	case age < 7*24*time.Hour:
		result.Value += recentWeek
	}

	return result
}

// Snippet returns the text around the first case-insensitive occurrence of
// query: up to 30 characters before and len(query)+100 after, with "..."
// marking either side that was cut. It returns "" when query does not occur.
func Snippet(text, query string) string {
	runes := []rune(text)
	idx := runeIndex(strings.ToLower(text), strings.ToLower(query))
	if idx < 0 {
		return ""
	}

	start := max(0, idx-snippetBefore)
	end := min(len(runes), idx+len([]rune(query))+snippetAfter)

	var b strings.Builder
	if start > 0 {
		b.WriteString(ellipsis)
	}
	b.WriteString(string(runes[start:end]))
	if end < len(runes) {
		b.WriteString(ellipsis)
	}
	return b.String()
}

// runeIndex is strings.Index measured in runes.
func runeIndex(s, substr string) int {
	i := strings.Index(s, substr)
	if i < 0 {
		return -1
	}
	return len([]rune(s[:i]))
}
