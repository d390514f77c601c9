// Package transcript provides the conversation reader view for the TUI.
package transcript

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/recall/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/recall/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/recall/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driving"
)

var (
	// ErrNoConversationService indicates that no conversation service was provided.
	ErrNoConversationService = errors.New("conversation service is required")

	// ErrNoActionService indicates that copy and open are unavailable.
	ErrNoActionService = errors.New("copy and open are not available")
)

// reservedLines covers the title, metadata, separator and help footer.
const reservedLines = 6

// View shows one conversation in a scrollable viewport.
type View struct {
	styles        *styles.Styles
	keymap        *keymap.KeyMap
	conversations driving.ConversationService
	actions       driving.ActionService
	ctx           context.Context
	viewport      viewport.Model

	projectKey   string
	id           string
	conversation *domain.Conversation

	width   int
	height  int
	ready   bool
	loading bool
	err     error

	// notice reports the last copy or open action.
	notice    string
	noticeErr bool
}

// NewView creates a new transcript view.
func NewView(s *styles.Styles, km *keymap.KeyMap, conversations driving.ConversationService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:        s,
		keymap:        km,
		conversations: conversations,
		ctx:           context.Background(),
		viewport:      viewport.New(80, 24-reservedLines),
		width:         80,
		height:        24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// WithActions enables copying and opening the transcript.
func (v *View) WithActions(actions driving.ActionService) *View {
	v.actions = actions
	return v
}

// Open starts loading a conversation.
func (v *View) Open(projectKey, id string) tea.Cmd {
	v.projectKey = projectKey
	v.id = id
	v.conversation = nil
	v.err = nil
	v.notice = ""
	v.loading = true
	v.viewport.SetContent("")
	v.viewport.GotoTop()
	return v.load(projectKey, id)
}

// Reload re-reads the open conversation. It returns nil when nothing is open.
func (v *View) Reload() tea.Cmd {
	if v.id == "" {
		return nil
	}
	return v.load(v.projectKey, v.id)
}

// Affected reports whether a change event touches the open conversation.
func (v *View) Affected(event domain.ChangeEvent) bool {
	if v.id == "" {
		return false
	}
	if event.Directory {
		return true
	}
	return v.conversation != nil && event.Path == v.conversation.Path
}

func (v *View) load(projectKey, id string) tea.Cmd {
	return func() tea.Msg {
		if v.conversations == nil {
			return messages.ConversationLoaded{Err: ErrNoConversationService}
		}
		conv, err := v.conversations.GetConversation(v.ctx, projectKey, id)
		return messages.ConversationLoaded{Conversation: conv, Err: err}
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the transcript view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ConversationLoaded:
		v.handleLoaded(msg)
		return v, nil

	case messages.ActionCompleted:
		v.notice = msg.Notice
		v.noticeErr = msg.Err != nil
		if msg.Err != nil {
			v.notice = "Error: " + msg.Err.Error()
		}
		return v, nil

	case messages.ErrorOccurred:
		v.loading = false
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case keymap.Matches(msg.String(), v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSearch}
		}
	case keymap.Matches(msg.String(), v.keymap.Top):
		v.viewport.GotoTop()
		return v, nil
	case keymap.Matches(msg.String(), v.keymap.Bottom):
		v.viewport.GotoBottom()
		return v, nil
	case keymap.Matches(msg.String(), v.keymap.Copy):
		return v, v.runAction("Copied transcript to clipboard", v.copyConversation)
	case keymap.Matches(msg.String(), v.keymap.OpenFile):
		return v, v.runAction("Opened "+v.path(), v.openConversation)
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// runAction returns a command that reports the outcome of fn.
// It does nothing until a conversation has loaded.
func (v *View) runAction(notice string, fn func(*domain.Conversation) error) tea.Cmd {
	conv := v.conversation
	if conv == nil {
		return nil
	}
	return func() tea.Msg {
		if v.actions == nil {
			return messages.ActionCompleted{Err: ErrNoActionService}
		}
		if err := fn(conv); err != nil {
			return messages.ActionCompleted{Err: err}
		}
		return messages.ActionCompleted{Notice: notice}
	}
}

func (v *View) copyConversation(conv *domain.Conversation) error {
	return v.actions.CopyConversation(v.ctx, conv)
}

func (v *View) openConversation(conv *domain.Conversation) error {
	return v.actions.OpenConversation(v.ctx, conv)
}

func (v *View) path() string {
	if v.conversation == nil {
		return ""
	}
	return v.conversation.Path
}

// handleLoaded applies a loaded conversation. A reload that arrives while
// the reader sits at the bottom keeps following the tail.
func (v *View) handleLoaded(msg messages.ConversationLoaded) {
	v.loading = false
	if msg.Err != nil {
		v.err = msg.Err
		return
	}
	if msg.Conversation == nil ||
		msg.Conversation.ProjectKey != v.projectKey || msg.Conversation.ID != v.id {
		return
	}

	follow := v.conversation != nil && v.viewport.AtBottom()
	v.err = nil
	v.conversation = msg.Conversation
	v.viewport.SetContent(v.render())
	if follow {
		v.viewport.GotoBottom()
	}
}

// render formats every message with a role label and wrapped text.
func (v *View) render() string {
	if v.conversation == nil {
		return ""
	}

	wrap := v.width - 4
	if wrap < 20 {
		wrap = 20
	}
	body := v.styles.Normal.Width(wrap)

	var b strings.Builder
	for i, m := range v.conversation.Messages {
		if m.IsBlank() {
			continue
		}
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(v.styles.Role(m.Role).Render(m.Role.String()))
		b.WriteString("  ")
		b.WriteString(v.styles.Muted.Render(m.Timestamp.Local().Format("2006-01-02 15:04:05")))
		b.WriteString("\n")
		b.WriteString(body.Render(strings.TrimSpace(m.Text())))
		b.WriteString("\n")
	}
	return b.String()
}

// View renders the transcript view.
func (v *View) View() string {
	var b strings.Builder

	title := v.id
	if v.conversation != nil {
		title = v.conversation.ProjectName + " / " + v.conversation.ID
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")

	if v.conversation != nil {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("%d messages · updated %s",
			v.conversation.MessageCount, v.conversation.LastUpdated.Local().Format("2006-01-02 15:04"))))
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", minInt(v.width-4, 60)))
	b.WriteString("\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading conversation..."))
	case errors.Is(v.err, domain.ErrNotFound):
		b.WriteString(v.styles.Error.Render("Conversation not found. It may have been deleted."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case v.conversation == nil:
		b.WriteString(v.styles.Muted.Render("(No conversation)"))
	default:
		b.WriteString(v.viewport.View())
	}

	b.WriteString("\n")
	if v.notice != "" {
		if v.noticeErr {
			b.WriteString(v.styles.Error.Render(v.notice))
		} else {
			b.WriteString(v.styles.Success.Render(v.notice))
		}
		b.WriteString("  ")
	}
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderHelp renders the help footer with the scroll position.
func (v *View) renderHelp() string {
	hints := make([]string, 0, len(v.keymap.TranscriptHelp())+1)
	for _, binding := range v.keymap.TranscriptHelp() {
		h := binding.Help()
		hints = append(hints, fmt.Sprintf("[%s] %s", h.Key, h.Desc))
	}
	if v.conversation != nil && v.viewport.TotalLineCount() > v.viewport.Height {
		hints = append(hints, fmt.Sprintf("%3.0f%%", v.viewport.ScrollPercent()*100))
	}
	return v.styles.Help.Render(strings.Join(hints, "  "))
}

// SetDimensions sets the view dimensions and re-wraps the content.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.viewport.Width = width
	v.viewport.Height = maxInt(height-reservedLines, 1)
	if v.conversation != nil {
		v.viewport.SetContent(v.render())
	}
}

// Conversation returns the loaded conversation.
func (v *View) Conversation() *domain.Conversation {
	return v.conversation
}

// ID returns the id of the open conversation.
func (v *View) ID() string {
	return v.id
}

// Loading reports whether a load is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// YOffset returns the viewport scroll offset.
func (v *View) YOffset() int {
	return v.viewport.YOffset
}

// Notice returns the last action notice.
func (v *View) Notice() string {
	return v.notice
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
