// ABOUTME: Loader reads the document feed (JSON or YAML array of papers) through a fetcher
// ABOUTME: Format is chosen by the locator's extension; anything but .yaml/.yml parses as JSON
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/harper/scholarchat/internal/models"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Format is a feed encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// TextFetcher reads the raw feed
type TextFetcher interface {
	Fetch(ctx context.Context, locator string) (string, error)
}

// Loader loads documents from a feed locator
type Loader struct {
	fetcher TextFetcher
	locator string
	logger  *zap.Logger
}

// NewLoader creates a loader for the feed at locator
func NewLoader(fetcher TextFetcher, locator string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{fetcher: fetcher, locator: locator, logger: logger}
}

// Locator returns the feed locator
func (l *Loader) Locator() string {
	return l.locator
}

// LoadDocuments fetches and parses the feed. Entries that do not decode are
// logged and skipped; id and title checks are left to the index builder.
func (l *Loader) LoadDocuments(ctx context.Context) ([]models.Document, error) {
	raw, err := l.fetcher.Fetch(ctx, l.locator)
	if err != nil {
		return nil, err
	}

	docs, err := parse([]byte(raw), FormatFor(l.locator), l.logger)
	if err != nil {
		return nil, err
	}

	l.logger.Debug("feed parsed", zap.String("locator", l.locator), zap.Int("entries", len(docs)))
	return docs, nil
}

// FormatFor picks the feed format from a path or URL
func FormatFor(locator string) Format {
	p := locator
	if u, err := url.Parse(locator); err == nil && u.Scheme != "" {
		p = u.Path
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse decodes a feed. The top level must be a list; entries that do not
// decode as a document are skipped, and an aliases field that is not a list
// is treated as empty.
func Parse(data []byte, format Format) ([]models.Document, error) {
	return parse(data, format, zap.NewNop())
}

func parse(data []byte, format Format, logger *zap.Logger) ([]models.Document, error) {
	var (
		docs []models.Document
		err  error
	)
	switch format {
	case FormatYAML:
		docs, err = parseYAML(data, logger)
	default:
		docs, err = parseJSON(data, logger)
	}
	if err != nil {
		return nil, err
	}

	if docs == nil {
		docs = []models.Document{}
	}
	return docs, nil
}

type jsonEntry struct {
	ID      string          `json:"id"`
	Title   string          `json:"title"`
	Aliases json.RawMessage `json:"aliases"`
	Text    string          `json:"text"`
}

func parseJSON(data []byte, logger *zap.Logger) ([]models.Document, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode json feed: %w", err)
	}

	docs := make([]models.Document, 0, len(items))
	for i, item := range items {
		var e jsonEntry
		if err := json.Unmarshal(item, &e); err != nil {
			logger.Warn("skipping undecodable feed entry", zap.Int("position", i), zap.Error(err))
			continue
		}
		docs = append(docs, models.Document{
			ID:      e.ID,
			Title:   e.Title,
			Aliases: jsonAliases(e.Aliases),
			Text:    e.Text,
		})
	}
	return docs, nil
}

// jsonAliases keeps the string elements of a JSON list
func jsonAliases(raw json.RawMessage) []string {
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return nil
	}

	var aliases []string
	for _, item := range items {
		var alias string
		if json.Unmarshal(item, &alias) == nil && alias != "" {
			aliases = append(aliases, alias)
		}
	}
	return aliases
}

type yamlEntry struct {
	ID      string    `yaml:"id"`
	Title   string    `yaml:"title"`
	Aliases yaml.Node `yaml:"aliases"`
	Text    string    `yaml:"text"`
}

func parseYAML(data []byte, logger *zap.Logger) ([]models.Document, error) {
	var items []yaml.Node
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode yaml feed: %w", err)
	}

	docs := make([]models.Document, 0, len(items))
	for i := range items {
		var e yamlEntry
		if err := items[i].Decode(&e); err != nil {
			logger.Warn("skipping undecodable feed entry", zap.Int("position", i), zap.Error(err))
			continue
		}
		docs = append(docs, models.Document{
			ID:      e.ID,
			Title:   e.Title,
			Aliases: yamlAliases(&e.Aliases),
			Text:    e.Text,
		})
	}
	return docs, nil
}

// yamlAliases keeps the non-null scalar elements of a YAML sequence
func yamlAliases(n *yaml.Node) []string {
	if n.Kind != yaml.SequenceNode {
		return nil
	}

	var aliases []string
	for _, item := range n.Content {
		if item.Kind == yaml.ScalarNode && item.Tag != "!!null" && item.Value != "" {
			aliases = append(aliases, item.Value)
		}
	}
	return aliases
}
