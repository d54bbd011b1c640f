// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Exposes the chat session and paper routing to LLM agents via stdio
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/harper/scholarchat/internal/mcp"
	"github.com/harper/scholarchat/internal/models"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs the assistant as an MCP (Model Context Protocol) server so agents
can ask questions, route messages to papers, and switch contexts over
stdio. Logs go to stderr; stdout carries only protocol messages.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an MCP client)
  scholarchat mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "scholarchat": {
  #       "command": "scholarchat",
  #       "args": ["mcp"],
  #       "env": {"CONTENT_ROOT": "/path/to/site"}
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logNotifier())
	if err != nil {
		return err
	}
	a.watchFeed(ctx)

	if _, err := a.session.Start(ctx); err != nil {
		logger.Warn("session start failed; start_session will retry", zap.String("reason", models.UserMessage(err)))
	}

	server := mcpserver.NewMCPServer("scholarchat", versionInfo.Version)
	mcp.RegisterTools(server, a.session, a.resolver, logger)

	logger.Info("MCP server starting on stdio", zap.Int("papers", len(a.library.Documents())))

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
