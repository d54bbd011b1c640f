// ABOUTME: HTTP JSON API over one session, for a browser chat UI
// ABOUTME: Routes with chi; every session response carries the notices the session emitted
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/harper/scholarchat/internal/core"
	"go.uber.org/zap"
)

// Server is the HTTP API
type Server struct {
	router   chi.Router
	session  *core.Session
	resolver *core.Resolver
	events   *EventRecorder
	logger   *zap.Logger
}

// NewServer builds the API. events should be the session's notifier (or
// part of it) so responses can include notices; it may be nil.
func NewServer(session *core.Session, resolver *core.Resolver, events *EventRecorder, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if events == nil {
		events = NewEventRecorder()
	}
	srv := &Server{
		router:   chi.NewRouter(),
		session:  session,
		resolver: resolver,
		events:   events,
		logger:   logger,
	}
	srv.routes()
	return srv
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			s.logger.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("dur", time.Since(start)),
				zap.String("remote", r.RemoteAddr))
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/papers", s.handlePapers)
		r.Post("/route", s.handleRoute)
		r.Post("/session/start", s.handleStart)
		r.Post("/session/messages", s.handleMessage)
		r.Put("/session/context", s.handleSelectContext)
		r.Put("/session/settings", s.handleSettings)
		r.Get("/session", s.handleSession)
	})
}

// ListenAndServe serves until ctx is done, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http api listening", zap.String("addr", addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("http api shutting down")
		return httpServer.Shutdown(shutdownCtx)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string, notices []Notice) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Int("status", status), zap.String("error", message))
	} else {
		s.logger.Warn("request failed", zap.Int("status", status), zap.String("error", message))
	}
	body := map[string]interface{}{"error": message}
	if len(notices) > 0 {
		body["notices"] = notices
	}
	writeJSON(w, status, body)
}
