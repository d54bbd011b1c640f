// ABOUTME: Context router scores every indexed document against a free-text message
// ABOUTME: Decides between a confident match, an ambiguous candidate set, or no match
package core

import (
	"sort"
	"strings"

	"github.com/harper/scholarchat/internal/models"
	"github.com/harper/scholarchat/internal/textnorm"
)

// Scoring constants. Fixtures and users depend on these exact values.
const (
	ExactTitleScore = 1.0
	AliasScore      = 0.95

	// InclusionFloor is the minimum score for a document to be a candidate
	InclusionFloor = 0.5
	// ConfidenceGap is the lead over the runner-up that makes the top candidate confident
	ConfidenceGap = 0.2
	// HighConfidence is the score at which the top candidate wins regardless of the gap
	HighConfidence = 0.9

	MaxAmbiguousCandidates = 3
)

// Route picks the document a message is about. It has no side effects.
func Route(message string, index []models.IndexedDocument) models.RouteResult {
	normMsg := textnorm.Normalize(message)
	msgTokens := textnorm.TokenSet(message)

	var candidates []models.RouteCandidate
	for _, doc := range index {
		score := Score(normMsg, msgTokens, doc)
		if score >= InclusionFloor {
			candidates = append(candidates, models.RouteCandidate{ID: doc.ID, Title: doc.Title, Score: score})
		}
	}

	return decide(candidates)
}

// Score rates how strongly a normalized message refers to doc, in [0,1].
// A full title phrase wins outright, then any alias phrase, and only when
// neither appears does the share of the title's own tokens present in the
// message count.
func Score(normMsg string, msgTokens map[string]struct{}, doc models.IndexedDocument) float64 {
	if doc.NormalizedTitle != "" && strings.Contains(normMsg, doc.NormalizedTitle) {
		return ExactTitleScore
	}

	score := 0.0
	for _, alias := range doc.NormalizedAliases {
		if alias != "" && strings.Contains(normMsg, alias) {
			score = AliasScore
		}
	}
	if score > 0 {
		return score
	}

	overlap := 0
	for tok := range doc.TitleTokens {
		if _, ok := msgTokens[tok]; ok {
			overlap++
		}
	}
	return float64(overlap) / float64(max(1, len(doc.TitleTokens)))
}

// decide ranks candidates and applies the confidence rule
func decide(candidates []models.RouteCandidate) models.RouteResult {
	if len(candidates) == 0 {
		return models.NoMatch()
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	top := candidates[0]
	confident := len(candidates) == 1 ||
		top.Score-candidates[1].Score >= ConfidenceGap ||
		top.Score >= HighConfidence
	if confident {
		return models.Confident(top.ID, top.Title)
	}

	n := min(MaxAmbiguousCandidates, len(candidates))
	return models.Ambiguous(append([]models.RouteCandidate(nil), candidates[:n]...))
}
