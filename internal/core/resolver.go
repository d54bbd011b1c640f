// ABOUTME: Resolver maps a context id to its system prompt, fetching content on first use
// ABOUTME: Paper prompts are cached for the process lifetime; the personal context is memoized once
package core

import (
	"context"
	"errors"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/harper/scholarchat/internal/models"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrBlankContext is wrapped in a ContextLoadError when the personal context is empty
var ErrBlankContext = errors.New("context is empty; the assistant cannot answer personal questions")

// Fetcher reads the text behind a locator (a path or URL)
type Fetcher interface {
	Fetch(ctx context.Context, locator string) (string, error)
}

// DocumentLookup finds a document's metadata by id
type DocumentLookup interface {
	Document(id string) (models.Document, bool)
}

// ResolverConfig holds where context content lives
type ResolverConfig struct {
	PersonalLocator string
	PaperTextDir    string
	PaperTextExt    string
	OwnerName       string
}

// Resolver loads and caches context prompts
type Resolver struct {
	fetcher Fetcher
	docs    DocumentLookup
	cfg     ResolverConfig
	logger  *zap.Logger

	mu       sync.Mutex
	personal string
	loaded   bool

	// paper id -> wrapped prompt; entries never expire and there is no janitor
	cache *gocache.Cache
	group singleflight.Group
}

// NewResolver creates a resolver. docs may be nil, in which case every paper
// uses the fallback locator.
func NewResolver(fetcher Fetcher, docs DocumentLookup, cfg ResolverConfig, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PaperTextDir == "" {
		cfg.PaperTextDir = "paper_text"
	}
	if cfg.PaperTextExt == "" {
		cfg.PaperTextExt = ".txt"
	}
	if !strings.HasPrefix(cfg.PaperTextExt, ".") {
		cfg.PaperTextExt = "." + cfg.PaperTextExt
	}
	return &Resolver{
		fetcher: fetcher,
		docs:    docs,
		cfg:     cfg,
		logger:  logger,
		cache:   gocache.New(gocache.NoExpiration, 0),
	}
}

// ResolvePersonal returns the personal context text, fetching it on first
// successful call. Failures are not memoized, so a later call retries.
func (r *Resolver) ResolvePersonal(ctx context.Context) (string, error) {
	r.mu.Lock()
	if r.loaded {
		text := r.personal
		r.mu.Unlock()
		return text, nil
	}
	r.mu.Unlock()

	v, err, _ := r.group.Do("\x00personal", func() (interface{}, error) {
		text, err := r.fetcher.Fetch(ctx, r.cfg.PersonalLocator)
		if err != nil {
			return nil, &models.ContextLoadError{Locator: r.cfg.PersonalLocator, Err: err}
		}
		if strings.TrimSpace(text) == "" {
			return nil, &models.ContextLoadError{Locator: r.cfg.PersonalLocator, Err: ErrBlankContext}
		}

		r.mu.Lock()
		if !r.loaded {
			r.personal = text
			r.loaded = true
		}
		text = r.personal
		r.mu.Unlock()

		r.logger.Info("personal context loaded", zap.String("locator", r.cfg.PersonalLocator), zap.Int("bytes", len(text)))
		return text, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// PersonalLoaded reports whether the personal context is available
func (r *Resolver) PersonalLoaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loaded
}

// PersonalPrompt wraps the already-loaded personal context in its template.
// It never fetches; ErrPersonalNotLoaded means start has not succeeded yet.
func (r *Resolver) PersonalPrompt() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.loaded {
		return "", models.ErrPersonalNotLoaded
	}
	return PersonalPrompt(r.cfg.OwnerName, r.personal), nil
}

// ResolvePaper returns the wrapped prompt for a paper. A cached prompt is
// returned without I/O; concurrent misses for one id share a single fetch.
func (r *Resolver) ResolvePaper(ctx context.Context, id string) (string, error) {
	if prompt, ok := r.cache.Get(id); ok {
		r.logger.Debug("paper prompt cache hit", zap.String("id", id))
		return prompt.(string), nil
	}

	v, err, _ := r.group.Do(id, func() (interface{}, error) {
		if prompt, ok := r.cache.Get(id); ok {
			return prompt, nil
		}

		locator := r.Locator(id)
		text, err := r.fetcher.Fetch(ctx, locator)
		if err != nil {
			r.logger.Warn("paper fetch failed", zap.String("id", id), zap.String("locator", locator), zap.Error(err))
			return nil, &models.PaperNotFoundError{ID: id, Locator: locator, Err: err}
		}

		prompt := PaperPrompt(text)
		r.cache.Set(id, prompt, gocache.NoExpiration)
		r.logger.Info("paper prompt cached", zap.String("id", id), zap.String("locator", locator))
		return prompt, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Locator returns where a paper's text is fetched from: the feed's text
// field when present, else <PaperTextDir>/<id><PaperTextExt>.
func (r *Resolver) Locator(id string) string {
	if r.docs != nil {
		if doc, ok := r.docs.Document(id); ok && strings.TrimSpace(doc.Text) != "" {
			return doc.Text
		}
	}
	return path.Join(r.cfg.PaperTextDir, id+r.cfg.PaperTextExt)
}

// IsCached reports whether a paper prompt is cached
func (r *Resolver) IsCached(id string) bool {
	_, ok := r.cache.Get(id)
	return ok
}

// CachedIDs lists cached paper ids in sorted order
func (r *Resolver) CachedIDs() []string {
	items := r.cache.Items()
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
