package cli

import (
	"errors"

	"github.com/spf13/cobra"

	httpapi "github.com/custodia-labs/recall/internal/adapters/driving/http"
	"github.com/custodia-labs/recall/internal/core/domain"
)

var (
	conversationsLimit int
	conversationsJSON  bool
)

var conversationsCmd = &cobra.Command{
	Use:     "conversations [project]",
	Aliases: []string{"ls"},
	Short:   "List conversations, newest first",
	Long: `Lists non-empty conversations across every project, or only those in
the given project directory, most recently updated first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConversations,
}

func init() {
	conversationsCmd.Flags().IntVarP(&conversationsLimit, "limit", "n", 20, "maximum number of conversations (0 = all)")
	conversationsCmd.Flags().BoolVar(&conversationsJSON, "json", false, "output conversations as JSON")
	rootCmd.AddCommand(conversationsCmd)
}

func runConversations(cmd *cobra.Command, args []string) error {
	if conversationService == nil {
		return errors.New("conversation service not configured")
	}

	project := ""
	if len(args) == 1 {
		project = args[0]
	}

	conversations := conversationService.ListConversations(cmd.Context(), project)
	if conversationsLimit > 0 && len(conversations) > conversationsLimit {
		conversations = conversations[:conversationsLimit]
	}

	if conversationsJSON {
		return printJSON(cmd, httpapi.NewConversationResponses(conversations))
	}

	return outputConversationTable(cmd, conversations)
}

func outputConversationTable(cmd *cobra.Command, conversations []domain.Conversation) error {
	if len(conversations) == 0 {
		cmd.Println("No conversations found.")
		return nil
	}

	for i := range conversations {
		c := &conversations[i]
		cmd.Printf("  [%d] %s / %s\n", i+1, c.ProjectName, c.ID)
		cmd.Printf("      %s · %s\n", formatTime(c.LastUpdated), plural(c.MessageCount, "message"))
		cmd.Printf("      %s\n", c.Preview)
		cmd.Println()
	}
	return nil
}
