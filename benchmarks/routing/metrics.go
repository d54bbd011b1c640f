// ABOUTME: Scoring for routing benchmark cases
// ABOUTME: Compares a routing result to its label and aggregates accuracy per outcome kind

package routing

import (
	"fmt"
	"strings"

	"github.com/harper/scholarchat/internal/models"
)

// Evaluate reports whether result matches the labeled case, with a reason
// when it does not.
func Evaluate(c Case, result models.RouteResult) (bool, string) {
	if result.Kind != c.Want {
		return false, fmt.Sprintf("got %s, want %s", describe(result), c.Want)
	}

	switch c.Want {
	case models.RouteConfident:
		if result.ID != c.ID {
			return false, fmt.Sprintf("routed to %s, want %s", result.ID, c.ID)
		}
	case models.RouteAmbiguous:
		if len(c.IDs) == 0 {
			return true, ""
		}
		got := make([]string, len(result.Candidates))
		for i, cand := range result.Candidates {
			got[i] = cand.ID
		}
		if strings.Join(got, ",") != strings.Join(c.IDs, ",") {
			return false, fmt.Sprintf("candidates [%s], want [%s]", strings.Join(got, ", "), strings.Join(c.IDs, ", "))
		}
	}
	return true, ""
}

func describe(result models.RouteResult) string {
	switch result.Kind {
	case models.RouteConfident:
		return fmt.Sprintf("confident (%s)", result.ID)
	case models.RouteAmbiguous:
		return fmt.Sprintf("ambiguous (%d candidates)", len(result.Candidates))
	}
	return string(result.Kind)
}

// KindStats counts cases labeled with one outcome kind
type KindStats struct {
	Total   int     `json:"total"`
	Correct int     `json:"correct"`
	Recall  float64 `json:"recall"`
}

// Accuracy is correct over total, or 1 when there are no cases
func Accuracy(correct, total int) float64 {
	if total == 0 {
		return 1.0
	}
	return float64(correct) / float64(total)
}

// Tally aggregates case results per labeled kind
func Tally(cases []CaseResult) map[models.RouteKind]*KindStats {
	stats := map[models.RouteKind]*KindStats{}
	for _, c := range cases {
		s, ok := stats[c.Want]
		if !ok {
			s = &KindStats{}
			stats[c.Want] = s
		}
		s.Total++
		if c.Passed {
			s.Correct++
		}
	}
	for _, s := range stats {
		s.Recall = Accuracy(s.Correct, s.Total)
	}
	return stats
}
