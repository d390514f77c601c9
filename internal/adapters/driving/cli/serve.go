package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpapi "github.com/custodia-labs/recall/internal/adapters/driving/http"
	"github.com/custodia-labs/recall/internal/logger"
)

var (
	serveHost    string
	servePort    int
	serveNoWatch bool
	serveOpen    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local HTTP API",
	Long: `Serves projects, conversations and search results as JSON and pushes
{"type":"conversations_updated"} over /ws whenever a transcript changes.

Routes:
  GET /api/health
  GET /api/projects
  GET /api/conversations[/:projectPath[/:id]]
  GET /api/search?query=&projectPath=
  GET /ws`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (default from settings)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (default from settings)")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "disable live change notifications")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false, "open the API in the default browser once listening")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if rt == nil {
		return errors.New("serve requires a configured transcripts directory")
	}

	cfg := &httpapi.Config{
		Host:      rt.settings.Server.Host,
		Port:      rt.settings.Server.Port,
		RateLimit: rt.settings.Server.RateLimit,
		Root:      rt.store.Root(),
	}
	if serveHost != "" {
		cfg.Host = serveHost
	}
	if servePort > 0 {
		cfg.Port = servePort
	}

	ports := &httpapi.Ports{
		Conversations: conversationService,
		Search:        searchService,
	}

	if !serveNoWatch {
		feed, err := rt.startChangeFeed(cmd.Context())
		if err != nil {
			logger.Error("live updates disabled: %v", err)
		} else {
			ports.Changes = feed
		}
	}

	server, err := httpapi.NewServer(ports, rt.zap, cfg)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		return server.Run(ctx)
	})
	g.Go(func() error {
		announce(ctx, cmd, server, cfg.Root)
		return nil
	})
	return g.Wait()
}

// announce prints the bound address once the server listens and opens it
// when --open is set.
func announce(ctx context.Context, cmd *cobra.Command, server *httpapi.Server, root string) {
	addr, err := server.WaitReady(ctx)
	if err != nil {
		return
	}

	url := "http://" + addr
	cmd.Printf("recall: %s\n", url)
	cmd.Printf("Reading from: %s\n", root)

	if serveOpen && actionService != nil {
		if err := actionService.OpenURL(ctx, url+"/api/health"); err != nil {
			logger.Warn("could not open browser: %v", err)
		}
	}
}
