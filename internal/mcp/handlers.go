// ABOUTME: MCP tool handler implementations for the scholarchat server
// ABOUTME: Each handler drives the shared session and replies with a JSON text result
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/harper/scholarchat/internal/core"
	"github.com/harper/scholarchat/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	session  *core.Session
	resolver *core.Resolver
	logger   *zap.Logger
}

// NewHandlers creates handlers over one session
func NewHandlers(session *core.Session, resolver *core.Resolver, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{session: session, resolver: resolver, logger: logger}
}

// StartSession handles the start_session tool
func (h *Handlers) StartSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	welcome, err := h.session.Start(ctx)
	if err != nil {
		return mcp.NewToolResultError(models.UserMessage(err)), nil
	}

	return jsonResult(map[string]interface{}{
		"session_id": h.session.ID(),
		"welcome":    welcome,
		"context_id": h.session.ActiveContext(),
	})
}

// Ask handles the ask tool
func (h *Handlers) Ask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("message argument is required and must be a string"), nil
	}

	if h.session.ID() == "" {
		if _, err := h.session.Start(ctx); err != nil {
			h.logger.Warn("implicit session start failed", zap.Error(err))
		}
	}

	outcome, err := h.session.Send(ctx, message)
	if err != nil {
		return mcp.NewToolResultError(models.UserMessage(err)), nil
	}

	response := map[string]interface{}{
		"kind":          string(outcome.Kind),
		"reply":         outcome.Reply,
		"context_id":    outcome.ContextID,
		"context_label": h.session.ActiveLabel(),
		"switched":      outcome.Switched,
	}
	if outcome.Kind == core.OutcomeDisambiguation {
		response["candidates"] = outcome.Route.Candidates
	}
	if outcome.Kind == core.OutcomeIgnored {
		response["reply"] = "Message ignored: it was empty or another request is still running."
	}

	return jsonResult(response)
}

// RouteMessage handles the route_message tool
func (h *Handlers) RouteMessage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("message argument is required and must be a string"), nil
	}

	return jsonResult(h.session.Library().Route(message))
}

// SelectContext handles the select_context tool
func (h *Handlers) SelectContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	contextID, err := request.RequireString("context_id")
	if err != nil {
		return mcp.NewToolResultError("context_id argument is required and must be a string"), nil
	}

	if err := h.session.SelectContext(contextID); err != nil {
		if errors.Is(err, core.ErrBusy) {
			return mcp.NewToolResultError("A request is still running; try again when it finishes."), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("%s (%s)", models.UserMessage(err), contextID)), nil
	}

	return jsonResult(map[string]interface{}{
		"context_id":    h.session.ActiveContext(),
		"context_label": h.session.ActiveLabel(),
	})
}

// ListPapers handles the list_papers tool
func (h *Handlers) ListPapers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs := h.session.Library().Documents()

	papers := make([]map[string]interface{}, 0, len(docs))
	for _, doc := range docs {
		entry := map[string]interface{}{
			"id":    doc.ID,
			"title": doc.Title,
		}
		if len(doc.Aliases) > 0 {
			entry["aliases"] = doc.Aliases
		}
		if h.resolver != nil {
			entry["cached"] = h.resolver.IsCached(doc.ID)
		}
		papers = append(papers, entry)
	}

	return jsonResult(map[string]interface{}{
		"papers": papers,
	})
}

// GetHistory handles the get_history tool
func (h *Handlers) GetHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	history := h.session.History()

	turns := make([]map[string]interface{}, 0, len(history))
	for _, turn := range history {
		turns = append(turns, map[string]interface{}{
			"turn_id":    turn.TurnID,
			"role":       string(turn.Role),
			"content":    turn.Content,
			"context_id": turn.ContextID,
			"timestamp":  turn.Timestamp.Format(time.RFC3339),
		})
	}

	return jsonResult(map[string]interface{}{
		"session_id":    h.session.ID(),
		"state":         string(h.session.State()),
		"context_id":    h.session.ActiveContext(),
		"context_label": h.session.ActiveLabel(),
		"turns":         turns,
	})
}

// UpdateSettings handles the update_settings tool
func (h *Handlers) UpdateSettings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	settings := h.session.Settings()

	temperature := request.GetFloat("temperature", float64(settings.Temperature))
	if temperature < 0 || temperature > 2 {
		return mcp.NewToolResultError("temperature must be between 0 and 2"), nil
	}
	maxTokens := request.GetInt("max_tokens", settings.MaxTokens)
	if maxTokens <= 0 {
		return mcp.NewToolResultError("max_tokens must be positive"), nil
	}

	settings = core.Settings{Temperature: float32(temperature), MaxTokens: maxTokens}
	h.session.SetSettings(settings)

	return jsonResult(settings)
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
