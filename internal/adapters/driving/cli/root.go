// Package cli provides the recall command-line interface.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall/internal/core/ports/driving"
	"github.com/custodia-labs/recall/internal/logger"
)

// version is set by SetVersion from the build.
var version = "dev"

// Global flags.
var (
	rootDir   string
	configDir string
	verbose   bool
)

// Services used by commands. setup wires them from settings unless a test
// has already injected them.
var (
	conversationService driving.ConversationService
	searchService       driving.SearchService
	settingsService     driving.SettingsService
	actionService       driving.ActionService

	// rt is non-nil only when setup built the services itself.
	rt *runtime
)

var rootCmd = &cobra.Command{
	Use:   "recall",
	Short: "Search and browse local AI conversation transcripts",
	Long: `recall reads conversation transcripts from ~/.claude/projects (one
directory per project, one JSON-lines file per conversation) and lets you
list, read and search them from the terminal, a local web API, an MCP
server or an interactive TUI.

Nothing is indexed ahead of time: every query rescans the transcripts
directory, so results always reflect what is on disk.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "transcripts directory (default ~/.claude/projects)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.recall)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print scan and ranking details to stderr")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	closeRuntime()
	return err
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.SetOutput(cmd.ErrOrStderr())

	if conversationService != nil {
		return nil
	}

	r, err := newRuntime(runtimeOptions{
		Root:      rootDir,
		ConfigDir: configDir,
		Verbose:   verbose,
	})
	if err != nil {
		return err
	}

	rt = r
	conversationService = r.conversations
	searchService = r.search
	settingsService = r.settingsService
	actionService = r.actions
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	return closeRuntime()
}

// closeRuntime releases what setup built and clears the services it set.
func closeRuntime() error {
	if rt == nil {
		return nil
	}
	err := rt.Close()
	rt = nil
	conversationService = nil
	searchService = nil
	settingsService = nil
	actionService = nil
	return err
}
