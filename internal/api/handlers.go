// ABOUTME: Handlers for the session HTTP API
// ABOUTME: Maps domain errors onto HTTP statuses and user-facing messages
package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/harper/scholarchat/internal/core"
	"github.com/harper/scholarchat/internal/models"
)

type messageRequest struct {
	Message string `json:"message"`
}

type contextRequest struct {
	ContextID string `json:"context_id"`
}

type settingsRequest struct {
	Temperature *float32 `json:"temperature"`
	MaxTokens   *int     `json:"max_tokens"`
}

type paperView struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Aliases []string `json:"aliases,omitempty"`
	Cached  bool     `json:"cached"`
}

func (s *Server) handlePapers(w http.ResponseWriter, r *http.Request) {
	docs := s.session.Library().Documents()
	papers := make([]paperView, 0, len(docs))
	for _, doc := range docs {
		view := paperView{ID: doc.ID, Title: doc.Title, Aliases: doc.Aliases}
		if s.resolver != nil {
			view.Cached = s.resolver.IsCached(doc.ID)
		}
		papers = append(papers, view)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"papers": papers})
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, s.session.Library().Route(req.Message))
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	welcome, err := s.session.Start(r.Context())
	if errors.Is(err, core.ErrBusy) {
		// the running request owns the buffered events
		s.writeError(w, http.StatusConflict, "A request is still running.", nil)
		return
	}
	notices := s.events.Drain()

	body := map[string]interface{}{
		"session_id":    s.session.ID(),
		"context_id":    s.session.ActiveContext(),
		"context_label": s.session.ActiveLabel(),
		"welcome":       welcome,
		"notices":       notices,
	}
	if err != nil {
		// the session stays usable for papers
		body["warning"] = models.UserMessage(err)
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, http.StatusBadRequest, "message must not be empty", nil)
		return
	}

	outcome, err := s.session.Send(r.Context(), req.Message)
	if err == nil && outcome.Kind == core.OutcomeIgnored {
		s.writeError(w, http.StatusConflict, "A request is still running.", nil)
		return
	}
	notices := s.events.Drain()
	if err != nil {
		s.writeError(w, statusFor(err), models.UserMessage(err), notices)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"outcome":       outcome,
		"context_label": s.session.ActiveLabel(),
		"notices":       notices,
	})
}

func (s *Server) handleSelectContext(w http.ResponseWriter, r *http.Request) {
	var req contextRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}

	err := s.session.SelectContext(req.ContextID)
	if errors.Is(err, core.ErrBusy) {
		s.writeError(w, http.StatusConflict, "A request is still running.", nil)
		return
	}
	notices := s.events.Drain()
	if err != nil {
		s.writeError(w, statusFor(err), models.UserMessage(err), notices)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"context_id":    s.session.ActiveContext(),
		"context_label": s.session.ActiveLabel(),
		"notices":       notices,
	})
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}

	settings := s.session.Settings()
	if req.Temperature != nil {
		if *req.Temperature < 0 || *req.Temperature > 2 {
			s.writeError(w, http.StatusBadRequest, "temperature must be between 0 and 2", nil)
			return
		}
		settings.Temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		if *req.MaxTokens <= 0 {
			s.writeError(w, http.StatusBadRequest, "max_tokens must be positive", nil)
			return
		}
		settings.MaxTokens = *req.MaxTokens
	}

	s.session.SetSettings(settings)
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	turns := s.session.History()
	if turns == nil {
		turns = []models.Turn{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id":    s.session.ID(),
		"state":         s.session.State(),
		"context_id":    s.session.ActiveContext(),
		"context_label": s.session.ActiveLabel(),
		"settings":      s.session.Settings(),
		"turns":         turns,
	})
}

func statusFor(err error) int {
	var (
		paperErr *models.PaperNotFoundError
		compErr  *models.CompletionServiceError
	)
	switch {
	case errors.Is(err, core.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, models.ErrUnknownContext):
		return http.StatusNotFound
	case errors.Is(err, models.ErrPersonalNotLoaded):
		return http.StatusServiceUnavailable
	case errors.As(err, &paperErr):
		return http.StatusBadGateway
	case errors.As(err, &compErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
