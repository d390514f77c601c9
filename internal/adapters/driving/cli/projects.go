package cli

import (
	"errors"

	"github.com/spf13/cobra"

	httpapi "github.com/custodia-labs/recall/internal/adapters/driving/http"
)

var projectsJSON bool

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects with conversations",
	Long: `Lists every project directory that holds at least one non-empty
conversation, sorted by name.`,
	Args: cobra.NoArgs,
	RunE: runProjects,
}

func init() {
	projectsCmd.Flags().BoolVar(&projectsJSON, "json", false, "output projects as JSON")
	rootCmd.AddCommand(projectsCmd)
}

func runProjects(cmd *cobra.Command, _ []string) error {
	if conversationService == nil {
		return errors.New("conversation service not configured")
	}

	projects := conversationService.ListProjects(cmd.Context())

	if projectsJSON {
		return printJSON(cmd, httpapi.NewProjectResponses(projects))
	}

	if len(projects) == 0 {
		cmd.Println("No projects found.")
		return nil
	}

	for _, p := range projects {
		cmd.Printf("  %s (%s)\n", p.Name, plural(p.ConversationCount, "conversation"))
		cmd.Printf("      %s\n", p.Key)
	}
	return nil
}
