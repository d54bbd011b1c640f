// ABOUTME: Serve command runs the HTTP chat API
// ABOUTME: One session per process, with optional feed watching and graceful shutdown
package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/harper/scholarchat/internal/api"
	"github.com/harper/scholarchat/internal/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveAddr string

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat API over HTTP",
		Long: `Serve the chat API over HTTP.

The server holds a single conversation. Clients start it with
POST /api/session/start and then post messages to /api/session/messages.

Examples:
  scholarchat serve
  scholarchat serve --addr 127.0.0.1:9000
  WATCH_FEED=true scholarchat serve`,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (defaults to LISTEN_ADDR)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}
	addr := cfg.ListenAddr
	if serveAddr != "" {
		addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events := api.NewEventRecorder()
	a, err := newApp(ctx, cfg, multiNotifier{events, logNotifier()})
	if err != nil {
		return err
	}
	a.watchFeed(ctx)

	if _, err := a.session.Start(ctx); err != nil {
		logger.Warn("session start failed; POST /api/session/start to retry", zap.String("reason", models.UserMessage(err)))
	}
	// the start notices belong to no request
	events.Drain()

	server := api.NewServer(a.session, a.resolver, events, logger)
	logger.Info("serving chat API", zap.String("addr", addr), zap.Int("papers", len(a.library.Documents())))
	if err := server.ListenAndServe(ctx, addr); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	logger.Info("shutdown complete")
	return nil
}
