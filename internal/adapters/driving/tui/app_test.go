package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/recall/internal/core/domain"
)

var updatedAt = time.Date(2026, 7, 2, 8, 0, 0, 0, time.UTC)

func testConversation(id string) domain.Conversation {
	return domain.Conversation{
		ID:          id,
		ProjectKey:  "proj--app",
		ProjectName: "app",
		Messages: []domain.Message{
			{Role: domain.RoleUser, Content: domain.StringContent("how do I fix login " + id), Timestamp: updatedAt},
			{Role: domain.RoleAssistant, Content: domain.StringContent("check the token"), Timestamp: updatedAt},
		},
		Preview:      "how do I fix login " + id,
		LastUpdated:  updatedAt,
		MessageCount: 2,
		Path:         "/t/proj--app/" + id + ".jsonl",
	}
}

func testResults() []domain.SearchResult {
	return []domain.SearchResult{
		{Conversation: testConversation("c1"), Score: 101, Snippet: "how do I fix login c1", MatchType: domain.MatchTitle},
		{Conversation: testConversation("c2"), Score: 23, Snippet: "...token...", MatchType: domain.MatchMessage},
	}
}

func newTestPorts() *Ports {
	return &Ports{
		Search: &MockSearchService{
			SearchFunc: func(_ context.Context, _ string, _ domain.SearchOptions) []domain.SearchResult {
				return testResults()
			},
		},
		Conversations: &MockConversationService{
			GetFunc: func(_ context.Context, _, id string) (*domain.Conversation, error) {
				conv := testConversation(id)
				return &conv, nil
			},
		},
	}
}

func newReadyApp(t *testing.T, ports *Ports) *App {
	t.Helper()
	app, err := NewApp(ports)
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	return app
}

// run applies a command's message to the app and returns the follow-up command.
func run(app *App, cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	_, next := app.Update(cmd())
	return next
}

// drain runs a possibly batched command and applies every message.
func drain(app *App, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			drain(app, c)
		}
		return
	}
	app.Update(msg)
}

// openFirst shows results, moves to the list and opens the selected conversation.
func openFirst(t *testing.T, app *App) {
	t.Helper()
	app.Update(messages.SearchCompleted{Results: testResults()})
	app.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	loadCmd := run(app, cmd)
	require.NotNil(t, loadCmd)
	run(app, loadCmd)
}

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(newTestPorts())

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
	assert.False(t, app.Ready())
	assert.False(t, app.Live())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{Search: &MockSearchService{}})

	assert.ErrorIs(t, err, ErrMissingConversationService)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Equal(t, app, app.WithContext(ctx))
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_WithOptions(t *testing.T) {
	var got domain.SearchOptions
	ports := newTestPorts()
	ports.Search = &MockSearchService{
		SearchFunc: func(_ context.Context, _ string, opts domain.SearchOptions) []domain.SearchResult {
			got = opts
			return nil
		},
	}
	app := newReadyApp(t, ports).WithOptions(domain.SearchOptions{ProjectKey: "proj--app"})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	run(app, cmd)

	assert.Equal(t, "proj--app", got.ProjectKey)
}

func TestApp_Init(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	assert.NotNil(t, app.Init())
	assert.False(t, app.Live(), "no change feed configured")
}

func TestApp_Init_SubscribesOnce(t *testing.T) {
	feed := newMockChangeFeed()
	ports := newTestPorts()
	ports.Changes = feed
	app, _ := NewApp(ports)

	app.Init()
	app.Init()

	assert.True(t, app.Live())
	assert.Equal(t, 1, feed.subscribed)

	app.Close()
	app.Close()
	assert.Equal(t, 1, feed.unsubscribed)
}

func TestApp_Update_WindowSize(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
}

func TestApp_TypingQuery(t *testing.T) {
	app := newReadyApp(t, newTestPorts())

	for _, r := range "login" {
		app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	assert.Equal(t, "login", app.Query())
}

func TestApp_SearchFlow(t *testing.T) {
	app := newReadyApp(t, newTestPorts())
	for _, r := range "login" {
		app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	run(app, cmd)

	require.Len(t, app.Results(), 2)
	assert.Contains(t, app.View(), "101 title")

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 1, app.SelectedIndex())
}

func TestApp_OpenConversation(t *testing.T) {
	app := newReadyApp(t, newTestPorts())

	openFirst(t, app)

	assert.Equal(t, messages.ViewTranscript, app.CurrentView())
	require.NotNil(t, app.Transcript())
	assert.Equal(t, "c1", app.Transcript().ID)
	view := app.View()
	assert.Contains(t, view, "app / c1")
	assert.Contains(t, view, "check the token")
}

func TestApp_TranscriptEscReturnsToSearch(t *testing.T) {
	app := newReadyApp(t, newTestPorts())
	openFirst(t, app)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	run(app, cmd)

	assert.Equal(t, messages.ViewSearch, app.CurrentView())
	assert.Equal(t, 0, app.SelectedIndex(), "selection survives the round trip")
}

func TestApp_OpenMissingConversation(t *testing.T) {
	ports := newTestPorts()
	ports.Conversations = &MockConversationService{}
	app := newReadyApp(t, ports)

	openFirst(t, app)

	assert.Nil(t, app.Transcript())
	assert.Contains(t, app.View(), "Conversation not found")
}

func TestApp_TranscriptsChanged_RefreshesSearch(t *testing.T) {
	calls := 0
	ports := newTestPorts()
	ports.Search = &MockSearchService{
		SearchFunc: func(_ context.Context, _ string, _ domain.SearchOptions) []domain.SearchResult {
			calls++
			return testResults()[1:]
		},
	}
	app := newReadyApp(t, ports)
	app.Update(messages.SearchCompleted{Results: testResults()})

	_, cmd := app.Update(messages.TranscriptsChanged{Event: domain.ChangeEvent{Path: "/t/proj--app/c9.jsonl"}})
	require.NotNil(t, cmd)

	drain(app, cmd)

	assert.Equal(t, 1, calls)
	require.Len(t, app.Results(), 1)
	assert.Equal(t, "c2", app.Results()[0].Conversation.ID)
}

func TestApp_TranscriptsChanged_ReloadsOpenConversation(t *testing.T) {
	loads := 0
	ports := newTestPorts()
	ports.Conversations = &MockConversationService{
		GetFunc: func(_ context.Context, _, id string) (*domain.Conversation, error) {
			loads++
			conv := testConversation(id)
			return &conv, nil
		},
	}
	app := newReadyApp(t, ports)
	openFirst(t, app)
	require.Equal(t, 1, loads)

	_, cmd := app.Update(messages.TranscriptsChanged{Event: domain.ChangeEvent{Path: "/t/proj--app/c1.jsonl"}})
	drain(app, cmd)

	assert.Equal(t, 2, loads)
	assert.Equal(t, messages.ViewTranscript, app.CurrentView())
}

func TestApp_ChangeFeedDelivery(t *testing.T) {
	feed := newMockChangeFeed()
	ports := newTestPorts()
	ports.Changes = feed
	app := newReadyApp(t, ports)
	app.Init()

	feed.events <- domain.ChangeEvent{Path: "/t/proj--app/c1.jsonl", Op: domain.ChangeModified}
	msg := app.waitForChange()()

	changed, ok := msg.(messages.TranscriptsChanged)
	require.True(t, ok)
	assert.Equal(t, "/t/proj--app/c1.jsonl", changed.Event.Path)

	close(feed.events)
	msg = app.waitForChange()()
	assert.Equal(t, messages.FeedClosed{}, msg)

	app.Update(msg)
	assert.False(t, app.Live())
	assert.Nil(t, app.waitForChange())
}

func TestApp_Help(t *testing.T) {
	app := newReadyApp(t, newTestPorts())
	app.Update(messages.SearchCompleted{Results: testResults()})
	app.Update(tea.KeyMsg{Type: tea.KeyDown})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	run(app, cmd)

	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	view := app.View()
	assert.Contains(t, view, "Help")
	assert.Contains(t, view, "new search")
	assert.Contains(t, view, "page down")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
}

func TestApp_ErrorOccurred(t *testing.T) {
	app := newReadyApp(t, newTestPorts())

	app.Update(messages.ErrorOccurred{Err: errors.New("boom")})

	assert.EqualError(t, app.Err(), "boom")
	assert.Contains(t, app.View(), "boom")
}

func TestApp_Quit(t *testing.T) {
	feed := newMockChangeFeed()
	ports := newTestPorts()
	ports.Changes = feed
	app := newReadyApp(t, ports)
	app.Init()

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, 1, feed.unsubscribed)
}

func TestApp_QuitMessage(t *testing.T) {
	app := newReadyApp(t, newTestPorts())

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_View_NotReady(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	assert.Equal(t, "Initialising...", app.View())
}

func TestApp_View_Search(t *testing.T) {
	app := newReadyApp(t, newTestPorts())

	view := app.View()

	assert.Contains(t, view, "recall")
	assert.Contains(t, view, "Search")
}

func TestApp_SettingsFlow(t *testing.T) {
	stub := newStubSettings()
	ports := newTestPorts()
	ports.Settings = stub
	app := newReadyApp(t, ports)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewSettings, app.CurrentView())
	run(app, cmd)
	assert.Contains(t, app.View(), "cache.mode")

	app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	_, save := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, save)
	reload := run(app, save)
	require.NotNil(t, reload)
	run(app, reload)

	assert.Equal(t, "memor", stub.values["cache.mode"])
	assert.Contains(t, app.View(), "Saved cache.mode")

	_, back := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	run(app, back)
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
}

func TestApp_SettingsWithoutService(t *testing.T) {
	app := newReadyApp(t, newTestPorts())

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	run(app, cmd)

	assert.Contains(t, app.View(), "settings service not available")
}

func TestApp_CopyFromTranscript(t *testing.T) {
	actions := &MockActionService{}
	ports := newTestPorts()
	ports.Actions = actions
	app := newReadyApp(t, ports)
	openFirst(t, app)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	run(app, cmd)

	assert.Equal(t, 1, actions.copied)
	assert.Contains(t, app.View(), "Copied transcript to clipboard")
}
