// ABOUTME: Fetcher reads context text from local files or http(s) URLs
// ABOUTME: Relative locators resolve against a content root that is either a directory or a base URL
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// MaxBodyBytes caps how much of one document is read
const MaxBodyBytes = 32 << 20

// StatusError is returned when an http locator answers with a non-2xx status
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
}

// Options configures a Fetcher
type Options struct {
	// Root is a directory or an http(s) base URL; empty means the working directory
	Root       string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Fetcher resolves locators and returns their text
type Fetcher struct {
	root    string
	baseURL *url.URL
	client  *http.Client
	logger  *zap.Logger
}

// New creates a Fetcher
func New(opts Options) (*Fetcher, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	f := &Fetcher{root: opts.Root, client: client, logger: logger}
	if isHTTP(opts.Root) {
		base, err := url.Parse(opts.Root)
		if err != nil {
			return nil, fmt.Errorf("parse content root %q: %w", opts.Root, err)
		}
		if !strings.HasSuffix(base.Path, "/") {
			base.Path += "/"
		}
		f.baseURL = base
	}
	return f, nil
}

// Resolve turns a locator into an absolute URL or file path
func (f *Fetcher) Resolve(locator string) (string, error) {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return "", fmt.Errorf("empty locator")
	}
	if isHTTP(locator) {
		return locator, nil
	}
	if f.baseURL != nil {
		ref, err := url.Parse(strings.TrimPrefix(filepath.ToSlash(locator), "/"))
		if err != nil {
			return "", fmt.Errorf("parse locator %q: %w", locator, err)
		}
		return f.baseURL.ResolveReference(ref).String(), nil
	}
	if filepath.IsAbs(locator) || f.root == "" {
		return filepath.Clean(locator), nil
	}
	return filepath.Join(f.root, filepath.FromSlash(locator)), nil
}

// Fetch returns the text behind locator
func (f *Fetcher) Fetch(ctx context.Context, locator string) (string, error) {
	target, err := f.Resolve(locator)
	if err != nil {
		return "", err
	}

	if isHTTP(target) {
		return f.fetchURL(ctx, target)
	}
	return f.fetchFile(target)
}

func (f *Fetcher) fetchURL(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", target, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("GET %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{URL: target, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", target, err)
	}

	f.logger.Debug("fetched url", zap.String("url", target), zap.Int("bytes", len(body)))
	return string(body), nil
}

func (f *Fetcher) fetchFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	body, err := io.ReadAll(io.LimitReader(file, MaxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	f.logger.Debug("fetched file", zap.String("path", path), zap.Int("bytes", len(body)))
	return string(body), nil
}

// IsLocalFile reports whether locator resolves to a file on disk
func (f *Fetcher) IsLocalFile(locator string) bool {
	target, err := f.Resolve(locator)
	return err == nil && !isHTTP(target)
}

func isHTTP(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
