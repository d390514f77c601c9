package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	httpapi "github.com/custodia-labs/recall/internal/adapters/driving/http"
	"github.com/custodia-labs/recall/internal/core/domain"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show <project> <id>",
	Short: "Print a conversation",
	Long: `Prints every message of one conversation. The project is the encoded
directory name shown by 'recall projects' and the id is the transcript file
name without its extension.`,
	Args: cobra.ExactArgs(2),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "output the conversation as JSON")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	if conversationService == nil {
		return errors.New("conversation service not configured")
	}

	conv, err := conversationService.GetConversation(cmd.Context(), args[0], args[1])
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("conversation %s/%s not found", args[0], args[1])
	}
	if err != nil {
		return fmt.Errorf("failed to load conversation: %w", err)
	}

	if showJSON {
		return printJSON(cmd, httpapi.NewConversationResponse(conv))
	}

	width := terminalWidth()
	cmd.Printf("%s / %s\n", conv.ProjectName, conv.ID)
	cmd.Printf("%s · %s\n", formatTime(conv.LastUpdated), plural(conv.MessageCount, "message"))
	cmd.Println(conv.Path)

	for _, m := range conv.Messages {
		cmd.Println()
		cmd.Println(rule(fmt.Sprintf(" %s · %s ", m.Role, formatTime(m.Timestamp)), width))
		cmd.Println(m.Text())
	}
	return nil
}

// rule centres label in a line of box-drawing characters.
func rule(label string, width int) string {
	n := width - len([]rune(label))
	if n < 4 {
		return label
	}
	left := n / 2
	return strings.Repeat("─", left) + label + strings.Repeat("─", n-left)
}
