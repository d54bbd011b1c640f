// ABOUTME: Routing result types produced by the context router
// ABOUTME: A RouteResult is NoMatch, Confident (one document) or Ambiguous (up to 3 candidates)
package models

// RouteKind tags which variant a RouteResult holds
type RouteKind string

const (
	// RouteNoMatch - no document scored at or above the inclusion floor
	RouteNoMatch RouteKind = "no_match"

	// RouteConfident - a single document is clearly ahead
	RouteConfident RouteKind = "confident"

	// RouteAmbiguous - several documents are too close to call
	RouteAmbiguous RouteKind = "ambiguous"
)

// IsValid reports whether k is one of the known route kinds
func (k RouteKind) IsValid() bool {
	switch k {
	case RouteNoMatch, RouteConfident, RouteAmbiguous:
		return true
	}
	return false
}

// RouteCandidate is a scored document considered during one routing call
type RouteCandidate struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// RouteResult is the outcome of routing one message.
// ID and Title are set only for RouteConfident; Candidates only for RouteAmbiguous.
type RouteResult struct {
	Kind       RouteKind        `json:"kind"`
	ID         string           `json:"id,omitempty"`
	Title      string           `json:"title,omitempty"`
	Candidates []RouteCandidate `json:"candidates,omitempty"`
}

// NoMatch returns the empty routing result
func NoMatch() RouteResult {
	return RouteResult{Kind: RouteNoMatch}
}

// Confident returns a result selecting a single document
func Confident(id, title string) RouteResult {
	return RouteResult{Kind: RouteConfident, ID: id, Title: title}
}

// Ambiguous returns a result asking the user to pick between candidates
func Ambiguous(candidates []RouteCandidate) RouteResult {
	return RouteResult{Kind: RouteAmbiguous, Candidates: candidates}
}

// CandidateTitles returns the titles of an ambiguous result in rank order
func (r RouteResult) CandidateTitles() []string {
	titles := make([]string, len(r.Candidates))
	for i, c := range r.Candidates {
		titles[i] = c.Title
	}
	return titles
}
