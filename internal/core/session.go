// ABOUTME: Session orchestrates one conversation: routing, context resolution, and completion calls
// ABOUTME: Holds the active context and append-only turn log; at most one request is in flight
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/harper/scholarchat/internal/models"
	"go.uber.org/zap"
)

// ErrBusy is returned by Start and SelectContext while a request is in flight
var ErrBusy = errors.New("a request is already in flight")

// SessionState is the session's position in its lifecycle
type SessionState string

const (
	StateIdle                   SessionState = "idle"
	StateInitializing           SessionState = "initializing"
	StateReady                  SessionState = "ready"
	StateAwaitingDisambiguation SessionState = "awaiting_disambiguation"
	StateError                  SessionState = "error"
)

// OutcomeKind says what Send did with a message
type OutcomeKind string

const (
	// OutcomeAnswered - the completion service replied and both turns were recorded
	OutcomeAnswered OutcomeKind = "answered"
	// OutcomeDisambiguation - several papers matched; Reply lists them and nothing was recorded
	OutcomeDisambiguation OutcomeKind = "disambiguation"
	// OutcomeIgnored - the message was blank or another request was in flight
	OutcomeIgnored OutcomeKind = "ignored"
)

// Completer sends a completion request and returns the reply text
type Completer interface {
	Complete(ctx context.Context, req models.CompletionRequest) (string, error)
}

// Settings are the per-session generation parameters
type Settings struct {
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// SessionOptions configures a Session
type SessionOptions struct {
	Settings  Settings
	AutoRoute bool
	OwnerName string
	Notifier  models.Notifier
	Logger    *zap.Logger
}

// Outcome is the structured result of Send
type Outcome struct {
	Kind      OutcomeKind        `json:"kind"`
	Reply     string             `json:"reply,omitempty"`
	ContextID string             `json:"context_id,omitempty"`
	Route     models.RouteResult `json:"route"`
	Switched  bool               `json:"switched"`
}

// Session is a single live conversation
type Session struct {
	library   *Library
	resolver  *Resolver
	completer Completer
	notifier  models.Notifier
	logger    *zap.Logger
	autoRoute bool
	owner     string

	mu       sync.Mutex
	id       string
	state    SessionState
	active   string
	turns    []models.Turn
	settings Settings
	inFlight bool
}

// NewSession creates an idle session; call Start before Send
func NewSession(library *Library, resolver *Resolver, completer Completer, opts SessionOptions) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = models.NotifierFunc(func(models.Event) {})
	}
	if library == nil {
		library = NewLibrary(nil, logger)
	}
	return &Session{
		library:   library,
		resolver:  resolver,
		completer: completer,
		notifier:  notifier,
		logger:    logger,
		autoRoute: opts.AutoRoute,
		owner:     opts.OwnerName,
		state:     StateIdle,
		active:    models.PersonalContextID,
		settings:  opts.Settings,
	}
}

// Start begins a new conversation: the turn log is cleared, the active
// context returns to personal, and the personal context is loaded if it has
// not been yet. A load failure is reported but leaves the session Ready.
func (s *Session) Start(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return "", ErrBusy
	}
	s.id = uuid.New().String()
	s.turns = nil
	s.active = models.PersonalContextID
	s.state = StateInitializing
	s.inFlight = true
	sessionID := s.id
	s.mu.Unlock()

	_, err := s.resolver.ResolvePersonal(ctx)

	s.mu.Lock()
	s.state = StateReady
	s.inFlight = false
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("critical: personal context failed to load", zap.String("session", sessionID), zap.Error(err))
		s.notifier.Notify(models.Event{
			Kind:      models.EventContextLoadFailed,
			ContextID: models.PersonalContextID,
			Message:   models.UserMessage(err),
			Err:       err,
		})
		return "", err
	}

	s.logger.Info("session started", zap.String("session", sessionID))
	return WelcomeMessage(s.owner), nil
}

// Send handles one user message. Blank messages and messages sent while a
// request is in flight are ignored. From the personal context the message is
// routed first: an ambiguous match returns the candidate list without calling
// the completion service, a confident match switches the active context.
// A failed exchange records no turns.
func (s *Session) Send(ctx context.Context, message string) (Outcome, error) {
	message = strings.TrimSpace(message)

	s.mu.Lock()
	if message == "" || s.inFlight {
		s.mu.Unlock()
		return Outcome{Kind: OutcomeIgnored}, nil
	}
	s.inFlight = true
	s.state = StateReady
	contextID := s.active
	settings := s.settings
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	outcome := Outcome{ContextID: contextID, Route: models.NoMatch()}

	if contextID == models.PersonalContextID && s.autoRoute {
		route := s.library.Route(message)
		outcome.Route = route

		switch route.Kind {
		case models.RouteAmbiguous:
			s.setState(StateAwaitingDisambiguation)
			outcome.Kind = OutcomeDisambiguation
			outcome.Reply = DisambiguationMessage(route.Candidates)
			s.notifier.Notify(models.Event{
				Kind:       models.EventDisambiguationNeeded,
				Candidates: route.Candidates,
				Message:    outcome.Reply,
			})
			return outcome, nil

		case models.RouteConfident:
			contextID = route.ID
			s.mu.Lock()
			s.active = contextID
			s.mu.Unlock()
			outcome.ContextID = contextID
			outcome.Switched = true
			s.logger.Info("auto-switched context", zap.String("id", route.ID), zap.String("title", route.Title))
			s.notifier.Notify(models.Event{
				Kind:      models.EventContextSwitched,
				ContextID: contextID,
				Label:     ContextLabel(contextID, route.Title),
				Message:   "Switched to paper: " + route.Title,
			})
		}
	}

	systemPrompt, err := s.systemPrompt(ctx, contextID)
	if err != nil {
		return outcome, s.fail(err)
	}

	reply, err := s.completer.Complete(ctx, models.CompletionRequest{
		Messages: []models.ChatMessage{
			{Role: models.ChatRoleSystem, Content: systemPrompt},
			{Role: models.ChatRoleUser, Content: message},
		},
		Temperature: settings.Temperature,
		MaxTokens:   settings.MaxTokens,
	})
	if err != nil {
		return outcome, s.fail(err)
	}

	userTurn, err := models.NewTurn(models.RoleUser, message, contextID)
	if err != nil {
		return outcome, s.fail(err)
	}
	assistantTurn, err := models.NewTurn(models.RoleAssistant, reply, contextID)
	if err != nil {
		return outcome, s.fail(err)
	}

	s.mu.Lock()
	s.turns = append(s.turns, *userTurn, *assistantTurn)
	s.state = StateReady
	s.mu.Unlock()

	outcome.Kind = OutcomeAnswered
	outcome.Reply = reply
	return outcome, nil
}

// SelectContext makes id the active context. Selecting a paper disables
// routing until the personal context is selected again.
func (s *Session) SelectContext(id string) error {
	id = strings.TrimSpace(id)

	title := ""
	if id != models.PersonalContextID {
		doc, ok := s.library.Document(id)
		if !ok {
			return fmt.Errorf("select %q: %w", id, models.ErrUnknownContext)
		}
		title = doc.Title
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return ErrBusy
	}
	s.active = id
	if s.state == StateAwaitingDisambiguation || s.state == StateError {
		s.state = StateReady
	}
	s.mu.Unlock()

	label := ContextLabel(id, title)
	s.logger.Info("context selected", zap.String("id", id))
	s.notifier.Notify(models.Event{
		Kind:      models.EventContextSwitched,
		ContextID: id,
		Label:     label,
		Message:   "Switched to " + label,
	})
	return nil
}

// SetSettings replaces the generation settings used by later requests
func (s *Session) SetSettings(settings Settings) {
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
}

// Settings returns the current generation settings
func (s *Session) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// History returns a copy of the turn log
func (s *Session) History() []models.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Turn(nil), s.turns...)
}

// State returns the lifecycle state
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ActiveContext returns the active context id
func (s *Session) ActiveContext() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// ActiveLabel returns the human-readable label of the active context
func (s *Session) ActiveLabel() string {
	id := s.ActiveContext()
	doc, _ := s.library.Document(id)
	return ContextLabel(id, doc.Title)
}

// ID returns the id assigned by the last Start, or "" before the first
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Library returns the library the session routes against
func (s *Session) Library() *Library {
	return s.library
}

func (s *Session) systemPrompt(ctx context.Context, contextID string) (string, error) {
	if contextID == models.PersonalContextID {
		return s.resolver.PersonalPrompt()
	}
	return s.resolver.ResolvePaper(ctx, contextID)
}

func (s *Session) setState(state SessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Session) fail(err error) error {
	s.setState(StateError)
	s.logger.Error("request failed", zap.Error(err))
	s.notifier.Notify(models.Event{
		Kind:    models.EventRequestFailed,
		Message: models.UserMessage(err),
		Err:     err,
	})
	return err
}
