// ABOUTME: Index builder precomputes normalized titles, title tokens, and aliases per document
// ABOUTME: Malformed feed entries are skipped with a warning instead of failing the whole index
package core

import (
	"github.com/harper/scholarchat/internal/models"
	"github.com/harper/scholarchat/internal/textnorm"
	"go.uber.org/zap"
)

// BuildIndex derives the searchable form of each document, preserving feed
// order. Entries without an id or title, duplicate ids, and titles that
// normalize to nothing are skipped.
func BuildIndex(docs []models.Document, logger *zap.Logger) []models.IndexedDocument {
	if logger == nil {
		logger = zap.NewNop()
	}

	index := make([]models.IndexedDocument, 0, len(docs))
	seen := make(map[string]struct{}, len(docs))

	for i, doc := range docs {
		if err := doc.Validate(); err != nil {
			logger.Warn("skipping malformed document", zap.Int("position", i), zap.String("id", doc.ID), zap.Error(err))
			continue
		}
		if _, dup := seen[doc.ID]; dup {
			logger.Warn("skipping duplicate document id", zap.Int("position", i), zap.String("id", doc.ID))
			continue
		}

		// An empty normalized title would be a substring of every message.
		normTitle := textnorm.Normalize(doc.Title)
		if normTitle == "" {
			logger.Warn("skipping document with empty normalized title", zap.Int("position", i), zap.String("id", doc.ID))
			continue
		}
		seen[doc.ID] = struct{}{}

		aliases := make([]string, 0, len(doc.Aliases))
		for _, alias := range doc.Aliases {
			if norm := textnorm.Normalize(alias); norm != "" {
				aliases = append(aliases, norm)
			}
		}

		index = append(index, models.IndexedDocument{
			ID:                doc.ID,
			Title:             doc.Title,
			NormalizedTitle:   normTitle,
			TitleTokens:       textnorm.TokenSet(doc.Title),
			NormalizedAliases: aliases,
		})
	}

	return index
}
