// Package settings provides the settings editor view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/recall/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/recall/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/recall/internal/core/ports/driving"
)

// ErrNoSettingsService indicates that no settings service was provided.
var ErrNoSettingsService = errors.New("settings service not available")

// Key constants for key handling.
const (
	keyDown  = "down"
	keyEnter = "enter"
	keyEsc   = "esc"
)

// hints describes the accepted values of each setting.
var hints = map[string]string{
	"transcripts.root":      "transcripts directory (empty = ~/.claude/projects)",
	"transcripts.extension": "transcript file extension",
	"scan.workers":          "transcripts parsed in parallel",
	"cache.mode":            "none, memory or sqlite",
	"cache.size":            "memory cache capacity in transcripts",
	"server.host":           "HTTP listen host",
	"server.port":           "HTTP listen port (1-65535)",
	"server.rate_limit":     "API requests per second (0 = unlimited)",
	"log.format":            "text or json",
}

// View is the settings editor view.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	settings []messages.Setting
	err      error
	notice   string

	selected int
	editing  bool
	input    textinput.Model

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	input := textinput.New()
	input.CharLimit = 512

	return &View{
		styles:          s,
		settingsService: settingsService,
		input:           input,
	}
}

// Init loads the current settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

// loadSettings returns a command that reads every setting.
func (v *View) loadSettings() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsLoaded{Err: ErrNoSettingsService}
		}
		keys := v.settingsService.Keys()
		out := make([]messages.Setting, 0, len(keys))
		for _, key := range keys {
			value, err := v.settingsService.Value(key)
			if err != nil {
				return messages.SettingsLoaded{Err: err}
			}
			out = append(out, messages.Setting{Key: key, Value: value})
		}
		return messages.SettingsLoaded{Settings: out}
	}
}

// saveSetting returns a command that writes one setting.
func (v *View) saveSetting(key, value string) tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingSaved{Key: key, Err: ErrNoSettingsService}
		}
		return messages.SettingSaved{Key: key, Err: v.settingsService.Set(key, value)}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.settings = msg.Settings
		if v.selected >= len(v.settings) {
			v.selected = 0
		}
		return v, nil

	case messages.SettingSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.notice = fmt.Sprintf("Saved %s. Restart recall to apply.", msg.Key)
		return v, v.loadSettings()

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	if v.editing {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

// handleKeyMsg handles navigation and editing keys.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.editing {
		switch msg.String() {
		case keyEsc:
			v.stopEditing()
			return v, nil
		case keyEnter:
			key := v.settings[v.selected].Key
			value := v.input.Value()
			v.stopEditing()
			return v, v.saveSetting(key, value)
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	switch msg.String() {
	case keyEsc, "q":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSearch}
		}
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < len(v.settings)-1 {
			v.selected++
		}
	case keyEnter:
		if len(v.settings) == 0 {
			return v, nil
		}
		v.editing = true
		v.err = nil
		v.notice = ""
		v.input.SetValue(v.settings[v.selected].Value)
		v.input.CursorEnd()
		return v, v.input.Focus()
	}
	return v, nil
}

func (v *View) stopEditing() {
	v.editing = false
	v.input.Blur()
	v.input.SetValue("")
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if len(v.settings) == 0 && v.err == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		b.WriteString("\n")
	}

	width := 0
	for _, s := range v.settings {
		if len(s.Key) > width {
			width = len(s.Key)
		}
	}

	for i, s := range v.settings {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}

		value := s.Value
		if value == "" {
			value = "(default)"
		}
		if v.editing && i == v.selected {
			value = v.input.View()
		}

		line := fmt.Sprintf("%s%-*s  %s", indicator, width, s.Key, value)
		if i == v.selected && !v.editing {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	if len(v.settings) > 0 {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(hints[v.settings[v.selected].Key]))
		b.WriteString("\n")
	}

	if v.err != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	}
	if v.notice != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.editing {
		b.WriteString(v.styles.Help.Render("[enter] save  [esc] cancel"))
	} else {
		b.WriteString(v.styles.Help.Render("[↑/↓] select  [enter] edit  [esc] back"))
	}

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.input.Width = width - 30
}

// Settings returns the loaded settings.
func (v *View) Settings() []messages.Setting {
	return v.settings
}

// Editing reports whether a value is being edited.
func (v *View) Editing() bool {
	return v.editing
}

// Selected returns the selected row.
func (v *View) Selected() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Reset resets the view to initial state.
func (v *View) Reset() {
	v.selected = 0
	v.err = nil
	v.notice = ""
	v.stopEditing()
}
