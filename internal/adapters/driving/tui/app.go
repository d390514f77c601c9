package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/recall/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/recall/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/recall/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/recall/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/recall/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/recall/internal/adapters/driving/tui/views/transcript"
	"github.com/custodia-labs/recall/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	// searchView lists and ranks conversations.
	searchView *search.View

	// transcriptView reads one conversation.
	transcriptView *transcript.View

	// settingsView edits stored settings.
	settingsView *settings.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// helpReturn is the view to restore when help closes.
	helpReturn messages.ViewType

	// changes delivers transcript changes while subscribed.
	changes     <-chan domain.ChangeEvent
	unsubscribe func()

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:          ports,
		ctx:            context.Background(),
		styles:         s,
		keymap:         km,
		searchView:     search.NewView(s, km, ports.Search),
		transcriptView: transcript.NewView(s, km, ports.Conversations).WithActions(ports.Actions),
		settingsView:   settings.NewView(s, ports.Settings),
		currentView:    messages.ViewSearch,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	a.transcriptView.WithContext(ctx)
	return a
}

// WithOptions restricts every query, for example to one project.
func (a *App) WithOptions(opts domain.SearchOptions) *App {
	a.searchView.WithOptions(opts)
	return a
}

// Init implements tea.Model.
// It subscribes to transcript changes and loads the full listing.
func (a *App) Init() tea.Cmd {
	a.subscribe()
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("recall"),
		a.searchView.Init(),
		a.waitForChange(),
	)
}

// subscribe attaches to the change feed once.
func (a *App) subscribe() {
	if a.ports.Changes == nil || a.changes != nil {
		return
	}
	a.changes, a.unsubscribe = a.ports.Changes.Subscribe()
	a.searchView.SetLive(true)
}

// waitForChange blocks on the next change event.
func (a *App) waitForChange() tea.Cmd {
	ch := a.changes
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return messages.FeedClosed{}
		}
		return messages.TranscriptsChanged{Event: event}
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.SearchCompleted:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = nil
		return a, cmd

	case messages.ConversationSelected:
		a.currentView = messages.ViewTranscript
		return a, a.transcriptView.Open(msg.ProjectKey, msg.ID)

	case messages.ConversationLoaded, messages.ActionCompleted:
		a.transcriptView, cmd = a.transcriptView.Update(msg)
		return a, cmd

	case messages.TranscriptsChanged:
		cmds := []tea.Cmd{a.searchView.Refresh(), a.waitForChange()}
		if a.transcriptView.Affected(msg.Event) {
			cmds = append(cmds, a.transcriptView.Reload())
		}
		return a, tea.Batch(cmds...)

	case messages.FeedClosed:
		a.changes = nil
		a.searchView.SetLive(false)
		return a, nil

	case messages.SettingsLoaded, messages.SettingSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ViewChanged:
		if msg.View == messages.ViewHelp && a.currentView != messages.ViewHelp {
			a.helpReturn = a.currentView
		}
		a.currentView = msg.View
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		switch a.currentView {
		case messages.ViewTranscript:
			a.transcriptView, cmd = a.transcriptView.Update(msg)
		default:
			a.searchView, cmd = a.searchView.Update(msg)
		}
		return a, cmd

	case messages.Quit:
		a.Close()
		return a, tea.Quit
	}

	// Forward everything else (cursor blink and the like) to the active view.
	switch a.currentView {
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewTranscript:
		a.transcriptView, cmd = a.transcriptView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
	}

	return a, cmd
}

// handleKeyMsg routes keys to the active view.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg.String() == "ctrl+c" {
		a.Close()
		return a, tea.Quit
	}

	if a.currentView != messages.ViewSettings && keymap.Matches(msg.String(), a.keymap.Settings) {
		a.currentView = messages.ViewSettings
		a.settingsView.Reset()
		return a, a.settingsView.Init()
	}

	switch a.currentView {
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = a.searchView.Err()
	case messages.ViewTranscript:
		a.transcriptView, cmd = a.transcriptView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		switch msg.String() {
		case "esc", "?", "q":
			a.currentView = a.helpReturn
		}
	}

	return a, cmd
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewTranscript:
		return a.transcriptView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	case messages.ViewSettings:
		return a.settingsView.View()
	default:
		return a.searchView.View()
	}
}

// viewHelp renders the help view from the keymap.
func (a *App) viewHelp() string {
	sections := []string{"Navigation", "Search", "Reading", "General"}

	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for i, group := range a.keymap.FullHelp() {
		if i < len(sections) {
			b.WriteString(a.styles.Subtitle.Render(sections[i]))
			b.WriteString("\n")
		}
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-12s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString("A blank query lists every conversation, newest first.\n\n")
	b.WriteString(a.styles.Help.Render("[esc] back"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	defer a.Close()
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Close releases the change feed subscription.
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
}

// Query returns the current search query.
func (a *App) Query() string {
	return a.searchView.Query()
}

// Results returns the current search results.
func (a *App) Results() []domain.SearchResult {
	return a.searchView.Results()
}

// SelectedIndex returns the currently selected result index.
func (a *App) SelectedIndex() int {
	return a.searchView.SelectedIndex()
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Transcript returns the conversation open in the reader, if any.
func (a *App) Transcript() *domain.Conversation {
	return a.transcriptView.Conversation()
}

// Live reports whether the app is subscribed to transcript changes.
func (a *App) Live() bool {
	return a.changes != nil
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.searchView.SetDimensions(width, height)
	a.transcriptView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
