// ABOUTME: Error taxonomy for context loading, paper lookup, and completion calls
// ABOUTME: UserMessage turns any of them into the sentence shown to the user
package models

import (
	"errors"
	"fmt"
)

var (
	// ErrPersonalNotLoaded is returned when a personal question arrives before the personal context loaded
	ErrPersonalNotLoaded = errors.New("personal context is not loaded")

	// ErrUnknownContext is returned when selecting a context id that is not indexed
	ErrUnknownContext = errors.New("unknown context")

	// ErrEmptyCompletion is returned when the completion service replies without content
	ErrEmptyCompletion = errors.New("empty or invalid response")

	ErrMissingID    = errors.New("document id is required")
	ErrMissingTitle = errors.New("document title is required")
	ErrReservedID   = errors.New("document id is reserved for the personal context")
)

// ContextLoadError means the personal context could not be loaded or was blank
type ContextLoadError struct {
	Locator string
	Err     error
}

func (e *ContextLoadError) Error() string {
	return fmt.Sprintf("failed to load personal context from %s: %v", e.Locator, e.Err)
}

func (e *ContextLoadError) Unwrap() error { return e.Err }

// PaperListLoadError means the document feed could not be fetched or parsed
type PaperListLoadError struct {
	Locator string
	Err     error
}

func (e *PaperListLoadError) Error() string {
	return fmt.Sprintf("failed to load paper list from %s: %v", e.Locator, e.Err)
}

func (e *PaperListLoadError) Unwrap() error { return e.Err }

// PaperNotFoundError means one document's content could not be fetched
type PaperNotFoundError struct {
	ID      string
	Locator string
	Err     error
}

func (e *PaperNotFoundError) Error() string {
	return fmt.Sprintf("context not found for paper %s (%s): %v", e.ID, e.Locator, e.Err)
}

func (e *PaperNotFoundError) Unwrap() error { return e.Err }

// CompletionServiceError means the completion endpoint failed or returned no usable reply.
// StatusCode is zero when no HTTP response was received.
type CompletionServiceError struct {
	StatusCode int
	Status     string
	Err        error
}

func (e *CompletionServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("completion request failed with status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("completion request failed: %v", e.Err)
}

func (e *CompletionServiceError) Unwrap() error { return e.Err }

// UserMessage returns the user-visible description of err
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var (
		loadErr  *ContextLoadError
		listErr  *PaperListLoadError
		paperErr *PaperNotFoundError
		compErr  *CompletionServiceError
	)

	switch {
	case errors.Is(err, ErrPersonalNotLoaded):
		return "Personal context is not loaded. Cannot answer the question."
	case errors.Is(err, ErrEmptyCompletion):
		return "Received an empty or invalid response from the API."
	case errors.As(err, &loadErr):
		return "Could not load initial context. " + loadErr.Err.Error()
	case errors.As(err, &listErr):
		return "Could not load the list of research papers. " + listErr.Err.Error()
	case errors.As(err, &paperErr):
		return "Could not load the context for the selected paper."
	case errors.As(err, &compErr):
		if compErr.StatusCode != 0 {
			return fmt.Sprintf("API request failed: %s (%d)", compErr.Status, compErr.StatusCode)
		}
		return "API request failed: " + compErr.Err.Error()
	case errors.Is(err, ErrUnknownContext):
		return "That context is not available."
	}
	return err.Error()
}
