package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/recall/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change settings stored in ~/.recall/config.toml.

Use 'recall settings set <key> <value>' to change a setting.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Change a setting",
	Long: `Change a setting and save it to the config file.

Keys:
  transcripts.root       transcripts directory
  transcripts.extension  transcript file extension
  scan.workers           transcripts parsed in parallel
  cache.mode             none, memory or sqlite
  cache.size             memory cache capacity in transcripts
  server.host            HTTP listen host
  server.port            HTTP listen port
  server.rate_limit      API requests per second (0 = unlimited)
  log.format             text or json

When value is omitted and stdin is a terminal, you are prompted for it.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Transcripts]")
	root := settings.Transcripts.Root
	if root == "" {
		root = "(default: ~/.claude/projects)"
	}
	cmd.Printf("  Root: %s\n", root)
	cmd.Printf("  Extension: %s\n", settings.Transcripts.Extension)
	cmd.Println()

	cmd.Println("[Scan]")
	cmd.Printf("  Workers: %d\n", settings.Scan.Workers)
	cmd.Println()

	cmd.Println("[Cache]")
	cmd.Printf("  Mode: %s\n", settings.Cache.Mode.Description())
	if settings.Cache.Mode == domain.CacheModeMemory {
		cmd.Printf("  Size: %d\n", settings.Cache.Size)
	}
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s:%d\n", settings.Server.Host, settings.Server.Port)
	if settings.Server.RateLimit > 0 {
		cmd.Printf("  Rate limit: %d/s\n", settings.Server.RateLimit)
	} else {
		cmd.Println("  Rate limit: off")
	}
	cmd.Println()

	cmd.Println("[Log]")
	cmd.Printf("  Format: %s\n", settings.Log.Format)

	if rt != nil {
		cmd.Println()
		cmd.Printf("Config file: %s\n", rt.configStore.Path())
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key := args[0]
	var value string
	if len(args) == 2 {
		value = args[1]
	} else {
		v, err := promptValue(cmd, key)
		if err != nil {
			return err
		}
		value = v
	}

	if err := settingsService.Set(key, value); err != nil {
		if errors.Is(err, domain.ErrInvalidSetting) {
			return fmt.Errorf("%w (valid keys: %s)", err, strings.Join(settingsService.Keys(), ", "))
		}
		return err
	}

	cmd.Printf("Set %s = %s\n", key, strings.TrimSpace(value))
	return nil
}

// promptValue reads a value from an interactive stdin.
func promptValue(cmd *cobra.Command, key string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("missing value for %s", key)
	}

	cmd.Printf("%s: ", key)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading value: %w", err)
	}
	return strings.TrimSpace(line), nil
}
