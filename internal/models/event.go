// ABOUTME: Events the session emits for the UI collaborator to render
// ABOUTME: Covers context switches, disambiguation, and load/request failures
package models

// EventKind identifies a collaborator-facing notification
type EventKind string

const (
	EventContextSwitched      EventKind = "context_switched"
	EventDisambiguationNeeded EventKind = "disambiguation_needed"
	EventContextLoadFailed    EventKind = "context_load_failed"
	EventRequestFailed        EventKind = "request_failed"
)

// Event is a notification for the presentation layer.
// Label is set for context switches, Candidates for disambiguation, Err for failures.
type Event struct {
	Kind       EventKind
	ContextID  string
	Label      string
	Candidates []RouteCandidate
	Message    string
	Err        error
}

// Notifier receives session events
type Notifier interface {
	Notify(Event)
}

// NotifierFunc adapts a function to the Notifier interface
type NotifierFunc func(Event)

// Notify calls f(e)
func (f NotifierFunc) Notify(e Event) {
	f(e)
}
