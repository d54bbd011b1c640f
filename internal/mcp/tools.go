// ABOUTME: MCP tool definitions and registration for the scholarchat server
// ABOUTME: Exposes one session's start, ask, routing, selection, and history as MCP tools
package mcp

import (
	"github.com/harper/scholarchat/internal/core"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, session *core.Session, resolver *core.Resolver, logger *zap.Logger) *Handlers {
	handlers := NewHandlers(session, resolver, logger)

	// 1. start_session - Begin a new conversation
	server.AddTool(mcp.Tool{
		Name:        "start_session",
		Description: "Start a new conversation. Clears the history, returns to the personal context, and returns the welcome message.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.StartSession)

	// 2. ask - Send a message through routing and the completion service
	server.AddTool(mcp.Tool{
		Name:        "ask",
		Description: "Ask a question. From the personal context the question may switch to a matching paper automatically; several matches return a list of candidate titles instead of an answer.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"message": map[string]interface{}{
					"type":        "string",
					"description": "The user's question",
				},
			},
			Required: []string{"message"},
		},
	}, handlers.Ask)

	// 3. route_message - Show where a message would be routed without sending it
	server.AddTool(mcp.Tool{
		Name:        "route_message",
		Description: "Classify a message against the paper titles and aliases without changing the session.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"message": map[string]interface{}{
					"type":        "string",
					"description": "Message to route",
				},
			},
			Required: []string{"message"},
		},
	}, handlers.RouteMessage)

	// 4. select_context - Pick the personal context or a paper explicitly
	server.AddTool(mcp.Tool{
		Name:        "select_context",
		Description: "Make a context active: \"personal\" or a paper id from list_papers. Selecting a paper disables automatic routing until personal is selected again.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"context_id": map[string]interface{}{
					"type":        "string",
					"description": "Context id to activate",
				},
			},
			Required: []string{"context_id"},
		},
	}, handlers.SelectContext)

	// 5. list_papers - List selectable papers
	server.AddTool(mcp.Tool{
		Name:        "list_papers",
		Description: "List the papers in feed order with their aliases and whether their text is cached.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListPapers)

	// 6. get_history - Conversation so far
	server.AddTool(mcp.Tool{
		Name:        "get_history",
		Description: "Get the session's recorded turns, the active context, and the session state.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.GetHistory)

	// 7. update_settings - Generation parameters
	server.AddTool(mcp.Tool{
		Name:        "update_settings",
		Description: "Change the temperature and/or max_tokens used for later questions. Omitted fields keep their value.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"temperature": map[string]interface{}{
					"type":        "number",
					"description": "Sampling temperature, 0 to 2",
				},
				"max_tokens": map[string]interface{}{
					"type":        "number",
					"description": "Maximum reply length in tokens",
				},
			},
		},
	}, handlers.UpdateSettings)

	return handlers
}
