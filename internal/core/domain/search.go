package domain

// MatchType classifies which scoring factor produced a result's snippet.
type MatchType string

// Match types. MatchNone only exists while scoring and for unscored listings.
const (
	MatchNone    MatchType = "none"
	MatchTitle   MatchType = "title"
	MatchProject MatchType = "project"
	MatchMessage MatchType = "message"
)

// String returns the string representation.
func (m MatchType) String() string {
	return string(m)
}

// SearchOptions configures a search query.
type SearchOptions struct {
	// ProjectKey restricts the search to one project directory.
	// Empty means all projects.
	ProjectKey string

	// Limit is the maximum number of results. Zero or less means no limit.
	Limit int
}

// Score is the output of relevance scoring for one conversation.
type Score struct {
	// Value is the additive relevance score.
	Value int

	// Snippet is the context shown for the match.
	Snippet string

	// MatchType is the factor that produced the snippet.
	MatchType MatchType
}

// Matched reports whether the score should surface in results.
func (s Score) Matched() bool {
	return s.Value > 0 && s.Snippet != ""
}

// SearchResult is a conversation annotated with its relevance.
// Results of an empty query carry a zero Score with MatchNone.
type SearchResult struct {
	// Conversation is the matched conversation.
	Conversation Conversation

	// Score is the relevance score.
	Score int

	// Snippet contains the matched context with ellipsis markers.
	Snippet string

	// MatchType is the factor that produced the snippet.
	MatchType MatchType
}
