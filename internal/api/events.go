// ABOUTME: EventRecorder buffers session events so each HTTP response can carry its notices
// ABOUTME: The session allows one request in flight, so a drain after each call returns that call's events
package api

import (
	"sync"

	"github.com/harper/scholarchat/internal/models"
)

// Notice is the JSON form of a session event
type Notice struct {
	Kind       models.EventKind        `json:"kind"`
	Message    string                  `json:"message"`
	ContextID  string                  `json:"context_id,omitempty"`
	Label      string                  `json:"label,omitempty"`
	Candidates []models.RouteCandidate `json:"candidates,omitempty"`
}

// EventRecorder implements models.Notifier
type EventRecorder struct {
	mu     sync.Mutex
	events []models.Event
}

// NewEventRecorder creates an empty recorder
func NewEventRecorder() *EventRecorder {
	return &EventRecorder{}
}

// Notify records e
func (r *EventRecorder) Notify(e models.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Drain returns the recorded events as notices and clears the buffer
func (r *EventRecorder) Drain() []Notice {
	r.mu.Lock()
	events := r.events
	r.events = nil
	r.mu.Unlock()

	notices := make([]Notice, 0, len(events))
	for _, e := range events {
		notices = append(notices, Notice{
			Kind:       e.Kind,
			Message:    e.Message,
			ContextID:  e.ContextID,
			Label:      e.Label,
			Candidates: e.Candidates,
		})
	}
	return notices
}
