// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/recall/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/recall/internal/core/domain"
)

// linesPerResult is the height of one rendered result.
const linesPerResult = 3

// ResultList displays conversations in a navigable list.
type ResultList struct {
	results  []domain.SearchResult
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		results:  nil,
		selected: 0,
		styles:   s,
		width:    80,
		height:   10,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.results) == 0 {
		return r.styles.Muted.Render("No conversations")
	}

	lines := make([]string, 0, len(r.results)*linesPerResult+2)

	header := r.styles.Subtitle.Render(fmt.Sprintf("Conversations (%d)", len(r.results)))
	lines = append(lines, header, "")

	visibleCount := (r.height - 4) / linesPerResult
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(r.results) {
		end = len(r.results)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderResult(i, &r.results[i]))
	}

	return strings.Join(lines, "\n")
}

// renderResult formats one conversation: preview and badge, then project
// metadata, then the snippet when the result came from a query.
func (r *ResultList) renderResult(index int, result *domain.SearchResult) string {
	conv := &result.Conversation

	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	badge := ""
	if result.MatchType != domain.MatchNone && result.MatchType != "" {
		badge = fmt.Sprintf("%d %s", result.Score, result.MatchType)
	}

	maxTitleLen := r.width - len(badge) - 6
	if maxTitleLen < 10 {
		maxTitleLen = 10
	}
	title := Truncate(conv.Preview, maxTitleLen)

	var titleLine string
	if index == r.selected {
		titleLine = r.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxTitleLen, title, badge))
	} else {
		titleLine = r.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxTitleLen, title)) +
			r.styles.Badge.Render(badge)
	}

	meta := fmt.Sprintf("    %s · %d messages · %s",
		conv.ProjectName, conv.MessageCount, conv.LastUpdated.Local().Format("2006-01-02 15:04"))
	metaLine := r.styles.Muted.Render(meta)

	if result.Snippet == "" {
		return titleLine + "\n" + metaLine
	}

	maxSnippetLen := r.width - 6
	if maxSnippetLen < 20 {
		maxSnippetLen = 20
	}
	snippet := strings.Join(strings.Fields(result.Snippet), " ")
	snippetLine := r.styles.Snippet.Render("    " + Truncate(snippet, maxSnippetLen))

	return titleLine + "\n" + metaLine + "\n" + snippetLine
}

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// SetResults updates the result list, keeping the selection in range.
func (r *ResultList) SetResults(results []domain.SearchResult) {
	r.results = results
	r.selected = 0
}

// ReplaceResults swaps in refreshed results and keeps the selected
// conversation selected when it is still present.
func (r *ResultList) ReplaceResults(results []domain.SearchResult) {
	current := r.SelectedResult()
	r.results = results
	r.selected = 0
	if current == nil {
		return
	}
	for i := range results {
		c := &results[i].Conversation
		if c.ProjectKey == current.Conversation.ProjectKey && c.ID == current.Conversation.ID {
			r.selected = i
			return
		}
	}
}

// Results returns the current results.
func (r *ResultList) Results() []domain.SearchResult {
	return r.results
}

// Selected returns the index of the selected result.
func (r *ResultList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *ResultList) SetSelected(index int) {
	if index >= 0 && index < len(r.results) {
		r.selected = index
	}
}

// SelectedResult returns the currently selected result, or nil if none.
func (r *ResultList) SelectedResult() *domain.SearchResult {
	if len(r.results) == 0 || r.selected < 0 || r.selected >= len(r.results) {
		return nil
	}
	return &r.results[r.selected]
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.results)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Width returns the current width.
func (r *ResultList) Width() int {
	return r.width
}

// Height returns the current height.
func (r *ResultList) Height() int {
	return r.height
}

// Count returns the number of results.
func (r *ResultList) Count() int {
	return len(r.results)
}

// IsEmpty returns whether the list is empty.
func (r *ResultList) IsEmpty() bool {
	return len(r.results) == 0
}
