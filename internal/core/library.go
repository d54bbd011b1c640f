// ABOUTME: Library owns the loaded document list and its index
// ABOUTME: Reloads replace both wholesale so readers always see a consistent snapshot
package core

import (
	"context"
	"errors"
	"sync"

	"github.com/harper/scholarchat/internal/models"
	"go.uber.org/zap"
)

// DocumentSource supplies the document feed
type DocumentSource interface {
	LoadDocuments(ctx context.Context) ([]models.Document, error)
	Locator() string
}

// Library is the set of papers a session can route to
type Library struct {
	source DocumentSource
	logger *zap.Logger

	mu    sync.RWMutex
	docs  []models.Document
	byID  map[string]models.Document
	index []models.IndexedDocument
}

// NewLibrary creates an empty library backed by source. source may be nil
// when documents are supplied with Replace.
func NewLibrary(source DocumentSource, logger *zap.Logger) *Library {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Library{
		source: source,
		logger: logger,
		byID:   map[string]models.Document{},
	}
}

// Load fetches the feed and rebuilds the index. On failure the previous
// index stays in place and a *models.PaperListLoadError is returned.
func (l *Library) Load(ctx context.Context) error {
	if l.source == nil {
		return &models.PaperListLoadError{Err: errors.New("no document source configured")}
	}

	docs, err := l.source.LoadDocuments(ctx)
	if err != nil {
		var listErr *models.PaperListLoadError
		if errors.As(err, &listErr) {
			return err
		}
		return &models.PaperListLoadError{Locator: l.source.Locator(), Err: err}
	}

	l.Replace(docs)
	return nil
}

// Replace rebuilds the index from docs and returns how many were indexed
func (l *Library) Replace(docs []models.Document) int {
	index := BuildIndex(docs, l.logger)

	accepted := make(map[string]struct{}, len(index))
	for _, d := range index {
		accepted[d.ID] = struct{}{}
	}

	kept := make([]models.Document, 0, len(index))
	byID := make(map[string]models.Document, len(index))
	for _, d := range docs {
		if _, ok := accepted[d.ID]; !ok {
			continue
		}
		if _, dup := byID[d.ID]; dup {
			continue
		}
		kept = append(kept, d)
		byID[d.ID] = d
	}

	l.mu.Lock()
	l.docs = kept
	l.byID = byID
	l.index = index
	l.mu.Unlock()

	l.logger.Info("document index rebuilt",
		zap.Int("indexed", len(index)),
		zap.Int("skipped", len(docs)-len(index)))
	return len(index)
}

// Index returns the current index. The slice is never modified after it is
// published, so callers may read it without holding the lock.
func (l *Library) Index() []models.IndexedDocument {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.index
}

// Documents returns the indexed documents in feed order
func (l *Library) Documents() []models.Document {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]models.Document(nil), l.docs...)
}

// Document looks up an indexed document by id
func (l *Library) Document(id string) (models.Document, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	d, ok := l.byID[id]
	return d, ok
}

// Route routes message against the current index
func (l *Library) Route(message string) models.RouteResult {
	result := Route(message, l.Index())
	l.logger.Debug("routed message",
		zap.String("kind", string(result.Kind)),
		zap.String("id", result.ID),
		zap.Int("candidates", len(result.Candidates)))
	return result
}
