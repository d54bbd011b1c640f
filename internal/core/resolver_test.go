// ABOUTME: Tests for context resolution and the paper prompt cache
// ABOUTME: Verifies memoization, fallback locators, and that failures are not cached
package core

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/harper/scholarchat/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(fetcher Fetcher, docs DocumentLookup) *Resolver {
	return NewResolver(fetcher, docs, ResolverConfig{
		PersonalLocator: "context.txt",
		PaperTextDir:    "paper_text",
		PaperTextExt:    "txt",
		OwnerName:       "Ada Lovelace",
	}, nil)
}

func TestResolvePaper_CachesAfterFirstFetch(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{"paper_text/p1.txt": "Abstract: we study X."})
	r := newTestResolver(fetcher, nil)
	ctx := context.Background()

	first, err := r.ResolvePaper(ctx, "p1")
	require.NoError(t, err)
	second, err := r.ResolvePaper(ctx, "p1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, fetcher.count("paper_text/p1.txt"))
	assert.True(t, r.IsCached("p1"))
	assert.Equal(t, []string{"p1"}, r.CachedIDs())
}

func TestResolvePaper_ConcurrentMissesFetchOnce(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{"paper_text/p1.txt": "body"})
	r := newTestResolver(fetcher, nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.ResolvePaper(context.Background(), "p1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, fetcher.count("paper_text/p1.txt"))
}

func TestResolvePaper_WrapsTextInTemplate(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{"paper_text/p1.txt": "Accuracy was 91.2% on SQuAD."})
	r := newTestResolver(fetcher, nil)

	prompt, err := r.ResolvePaper(context.Background(), "p1")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(prompt, "You are a rigorous research assistant for a single paper."))
	assert.Contains(t, prompt, "--- PAPER CONTEXT ---\nAccuracy was 91.2% on SQuAD.")
	assert.Contains(t, prompt, "Answer only using the PAPER CONTEXT above.")
}

func TestResolvePaper_UsesFeedLocator(t *testing.T) {
	lib := NewLibrary(nil, nil)
	lib.Replace([]models.Document{
		{ID: "p1", Title: "Deep Learning for X", Text: "https://example.org/texts/dlx.txt"},
		{ID: "p2", Title: "Graph Attention Networks"},
	})
	fetcher := newFakeFetcher(map[string]string{
		"https://example.org/texts/dlx.txt": "remote",
		"paper_text/p2.txt":                 "local",
	})
	r := newTestResolver(fetcher, lib)

	assert.Equal(t, "https://example.org/texts/dlx.txt", r.Locator("p1"))
	assert.Equal(t, "paper_text/p2.txt", r.Locator("p2"))
	assert.Equal(t, "paper_text/unknown.txt", r.Locator("unknown"))

	p1, err := r.ResolvePaper(context.Background(), "p1")
	require.NoError(t, err)
	assert.Contains(t, p1, "remote")

	p2, err := r.ResolvePaper(context.Background(), "p2")
	require.NoError(t, err)
	assert.Contains(t, p2, "local")
}

func TestResolvePaper_FailureIsNotCached(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{})
	r := newTestResolver(fetcher, nil)
	ctx := context.Background()

	_, err := r.ResolvePaper(ctx, "p1")
	var notFound *models.PaperNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "p1", notFound.ID)
	assert.Equal(t, "paper_text/p1.txt", notFound.Locator)
	assert.ErrorIs(t, err, errNotFound)
	assert.False(t, r.IsCached("p1"))

	fetcher.set("paper_text/p1.txt", "now it exists")
	prompt, err := r.ResolvePaper(ctx, "p1")
	require.NoError(t, err)
	assert.Contains(t, prompt, "now it exists")
	assert.Equal(t, 2, fetcher.count("paper_text/p1.txt"))
}

func TestResolvePaper_CacheNeverInvalidated(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{"paper_text/p1.txt": "version one"})
	r := newTestResolver(fetcher, nil)
	ctx := context.Background()

	_, err := r.ResolvePaper(ctx, "p1")
	require.NoError(t, err)

	fetcher.set("paper_text/p1.txt", "version two")
	prompt, err := r.ResolvePaper(ctx, "p1")
	require.NoError(t, err)
	assert.Contains(t, prompt, "version one")
}

func TestResolvePersonal_Memoized(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{"context.txt": "Ada wrote the first program."})
	r := newTestResolver(fetcher, nil)

	assert.False(t, r.PersonalLoaded())
	for i := 0; i < 3; i++ {
		text, err := r.ResolvePersonal(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Ada wrote the first program.", text)
	}
	assert.Equal(t, 1, fetcher.count("context.txt"))
	assert.True(t, r.PersonalLoaded())
}

func TestResolvePersonal_BlankIsContextLoadError(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{"context.txt": "  \n\t "})
	r := newTestResolver(fetcher, nil)

	_, err := r.ResolvePersonal(context.Background())

	var loadErr *models.ContextLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "context.txt", loadErr.Locator)
	assert.ErrorIs(t, err, ErrBlankContext)
	assert.False(t, r.PersonalLoaded())
}

func TestResolvePersonal_FailureRetriesLater(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{})
	fetcher.fail("context.txt", errors.New("connection refused"))
	r := newTestResolver(fetcher, nil)
	ctx := context.Background()

	_, err := r.ResolvePersonal(ctx)
	require.Error(t, err)

	fetcher.set("context.txt", "profile")
	text, err := r.ResolvePersonal(ctx)
	require.NoError(t, err)
	assert.Equal(t, "profile", text)
	assert.Equal(t, 2, fetcher.count("context.txt"))
}

func TestPersonalPrompt(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{"context.txt": "Ada wrote the first program."})
	r := newTestResolver(fetcher, nil)

	_, err := r.PersonalPrompt()
	assert.ErrorIs(t, err, models.ErrPersonalNotLoaded)

	_, err = r.ResolvePersonal(context.Background())
	require.NoError(t, err)

	prompt, err := r.PersonalPrompt()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(prompt, "You are the Personal Info Assistant for Ada Lovelace."))
	assert.Contains(t, prompt, "<<<\nAda wrote the first program.\n>>>")
}
