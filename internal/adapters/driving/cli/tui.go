package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall/internal/adapters/driving/tui"
	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/logger"
)

var (
	tuiProject string
	tuiNoWatch bool
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for recall.

The TUI opens on every conversation, newest first. Type to search, open a
result to read the transcript, and the list refreshes on its own when
transcripts change on disk.

Controls:
  Enter        - Search / Open
  ↑/k, ↓/j     - Navigate results or scroll
  n, /         - New search
  ↑, Ctrl+P/N  - Earlier queries while typing
  g, G         - Top / bottom of a transcript
  c, o         - Copy transcript / open its file
  Ctrl+S       - Settings
  Esc          - Back
  ?            - Toggle help
  q            - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringVarP(&tuiProject, "project", "p", "", "restrict the TUI to one project directory")
	tuiCmd.Flags().BoolVar(&tuiNoWatch, "no-watch", false, "disable live refresh")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if searchService == nil || conversationService == nil {
		return errors.New("tui requires configured search and conversation services")
	}

	ports := tui.NewPorts(searchService, conversationService, nil)
	ports.Settings = settingsService
	ports.Actions = actionService

	// Live refresh needs the real transcript store.
	if rt != nil && !tuiNoWatch {
		feed, err := rt.startChangeFeed(cmd.Context())
		if err != nil {
			logger.Warn("live refresh disabled: %v", err)
		} else {
			ports.Changes = feed
		}
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	app.WithContext(cmd.Context())
	if tuiProject != "" {
		app.WithOptions(domain.SearchOptions{ProjectKey: tuiProject})
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
