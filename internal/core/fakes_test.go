// ABOUTME: Test doubles shared by resolver and session tests
// ABOUTME: A counting fetcher and a scripted completer
package core

import (
	"context"
	"errors"
	"sync"

	"github.com/harper/scholarchat/internal/models"
)

var errNotFound = errors.New("status 404")

// fakeFetcher serves fixed texts and counts fetches per locator
type fakeFetcher struct {
	mu    sync.Mutex
	texts map[string]string
	fails map[string]error
	calls map[string]int
}

func newFakeFetcher(texts map[string]string) *fakeFetcher {
	return &fakeFetcher{texts: texts, fails: map[string]error{}, calls: map[string]int{}}
}

func (f *fakeFetcher) Fetch(ctx context.Context, locator string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[locator]++
	if err, ok := f.fails[locator]; ok {
		return "", err
	}
	text, ok := f.texts[locator]
	if !ok {
		return "", errNotFound
	}
	return text, nil
}

func (f *fakeFetcher) set(locator, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts[locator] = text
	delete(f.fails, locator)
}

func (f *fakeFetcher) fail(locator string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fails[locator] = err
}

func (f *fakeFetcher) count(locator string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[locator]
}

// fakeCompleter records requests and returns a scripted reply
type fakeCompleter struct {
	mu       sync.Mutex
	reply    string
	err      error
	requests []models.CompletionRequest

	// when set, Complete signals started and waits for release
	started chan struct{}
	release chan struct{}
}

func (c *fakeCompleter) Complete(ctx context.Context, req models.CompletionRequest) (string, error) {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	started, release := c.started, c.release
	reply, err := c.reply, c.err
	c.mu.Unlock()

	if started != nil {
		close(started)
		<-release
	}
	return reply, err
}

func (c *fakeCompleter) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.requests)
}

func (c *fakeCompleter) last() models.CompletionRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requests[len(c.requests)-1]
}

// eventLog collects session events
type eventLog struct {
	mu     sync.Mutex
	events []models.Event
}

func (l *eventLog) Notify(e models.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) kinds() []models.EventKind {
	l.mu.Lock()
	defer l.mu.Unlock()
	kinds := make([]models.EventKind, len(l.events))
	for i, e := range l.events {
		kinds[i] = e.Kind
	}
	return kinds
}

func (l *eventLog) last() models.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.events[len(l.events)-1]
}
