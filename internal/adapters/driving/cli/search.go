package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	httpapi "github.com/custodia-labs/recall/internal/adapters/driving/http"
	"github.com/custodia-labs/recall/internal/core/domain"
)

var (
	searchLimit   int
	searchProject string
	searchJSON    bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search conversations",
	Long: `Ranks conversations against a case-insensitive substring query.

Matches in the first user message, the project name and message bodies all
count; longer and more recent conversations rank higher. An empty query
lists every conversation, newest first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().StringVarP(&searchProject, "project", "p", "", "restrict the search to one project directory")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := ""
	if len(args) == 1 {
		query = args[0]
	}

	if searchService == nil {
		return errors.New("search service not configured")
	}

	// A blank query is a listing; -n only caps it when given explicitly.
	listing := strings.TrimSpace(query) == ""
	opts := domain.SearchOptions{
		ProjectKey: searchProject,
		Limit:      searchLimit,
	}
	if listing && !cmd.Flags().Changed("limit") {
		opts.Limit = 0
	}

	results := searchService.Search(cmd.Context(), query, opts)

	if searchJSON {
		if listing {
			return printJSON(cmd, httpapi.NewListingResponses(results))
		}
		return printJSON(cmd, httpapi.NewSearchResultResponses(results))
	}

	return outputSearchTable(cmd, results, listing)
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult, listing bool) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		// Format: [N] Project / ID (Score, match); listings carry no score
		r := &results[i]
		if listing {
			cmd.Printf("  [%d] %s / %s\n", i+1, r.Conversation.ProjectName, r.Conversation.ID)
		} else {
			cmd.Printf("  [%d] %s / %s (%d, %s)\n", i+1, r.Conversation.ProjectName, r.Conversation.ID, r.Score, r.MatchType)
		}
		cmd.Printf("      %s · %s\n", formatTime(r.Conversation.LastUpdated), plural(r.Conversation.MessageCount, "message"))

		snippet := r.Snippet
		if snippet == "" {
			snippet = r.Conversation.Preview
		}
		cmd.Printf("      %s\n", snippet)
		cmd.Println()
	}

	return nil
}
