package cli

import (
	"errors"
	"sort"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall/internal/adapters/driven/diagnostics"
	"github.com/custodia-labs/recall/internal/core/domain"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check transcripts for unreadable files and skipped lines",
	Long: `Parses every transcript without the cache and reports the lines that
matched no known record shape and the files or directories that could not
be read. Problems never stop a query; this command makes them visible.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	if rt == nil {
		return errors.New("doctor requires a configured transcripts directory")
	}

	collector := diagnostics.NewCollector()
	svc := rt.uncachedService(collector)

	// One pass so each problem is reported once.
	conversations := svc.ListConversations(cmd.Context(), "")
	projects := make(map[string]struct{})
	for i := range conversations {
		projects[conversations[i].ProjectKey] = struct{}{}
	}

	cmd.Printf("Transcripts: %s\n", rt.store.Root())
	cmd.Printf("Config:      %s\n", rt.configStore.Path())
	cmd.Printf("Cache:       %s\n", rt.settings.Cache.Mode.Description())
	cmd.Println()
	cmd.Printf("Projects:      %d\n", len(projects))
	cmd.Printf("Conversations: %d\n", len(conversations))
	cmd.Printf("Skipped lines: %d\n", collector.Count(domain.DiagLineSkipped))
	cmd.Printf("Unreadable:    %d\n", collector.Count(domain.DiagFileUnreadable)+collector.Count(domain.DiagDirectoryUnreadable))

	byPath := collector.ByPath()
	if len(byPath) == 0 {
		cmd.Println()
		cmd.Println("No problems found.")
		return nil
	}

	paths := make([]string, 0, len(byPath))
	for p := range byPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	cmd.Println()
	for _, p := range paths {
		cmd.Println(p)
		for _, e := range byPath[p] {
			switch {
			case e.Kind == domain.DiagLineSkipped:
				cmd.Printf("  line %d: %s\n", e.Line, e.Reason)
			case e.Err != nil:
				cmd.Printf("  %s: %v\n", e.Kind, e.Err)
			default:
				cmd.Printf("  %s: %s\n", e.Kind, e.Reason)
			}
		}
	}
	return nil
}
