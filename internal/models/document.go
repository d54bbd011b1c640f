// ABOUTME: Document is a context document (research paper) listed in the feed
// ABOUTME: IndexedDocument holds the derived, normalized form the router scores against
package models

import "strings"

// PersonalContextID is the id of the always-available personal context
const PersonalContextID = "personal"

// Document is one record of the document feed. Text is the content locator.
type Document struct {
	ID      string   `json:"id" yaml:"id"`
	Title   string   `json:"title" yaml:"title"`
	Aliases []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Text    string   `json:"text,omitempty" yaml:"text,omitempty"`
}

// Validate reports why a document cannot be indexed, or nil
func (d Document) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(d.Title) == "" {
		return ErrMissingTitle
	}
	if d.ID == PersonalContextID {
		return ErrReservedID
	}
	return nil
}

// IndexedDocument is derived from a Document and never mutated after the
// index is built; a new feed produces a new index.
type IndexedDocument struct {
	ID                string
	Title             string
	NormalizedTitle   string
	TitleTokens       map[string]struct{}
	NormalizedAliases []string
}
