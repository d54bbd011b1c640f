// ABOUTME: Runner for routing benchmarks: indexes each scenario's papers and routes its messages
// ABOUTME: Collects per-case results, accuracy, and pass/fail status; exports JSON

package routing

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/harper/scholarchat/internal/core"
	"github.com/harper/scholarchat/internal/models"
	"go.uber.org/zap"
)

// CaseResult is the outcome of routing one labeled message
type CaseResult struct {
	Message string             `json:"message"`
	Want    models.RouteKind   `json:"want"`
	Got     models.RouteResult `json:"got"`
	Passed  bool               `json:"passed"`
	Reason  string             `json:"reason,omitempty"`
}

// ScenarioResult summarizes one scenario
type ScenarioResult struct {
	Name     string                          `json:"name"`
	Indexed  int                             `json:"indexed"`
	Total    int                             `json:"total"`
	Correct  int                             `json:"correct"`
	Accuracy float64                         `json:"accuracy"`
	ByKind   map[models.RouteKind]*KindStats `json:"by_kind"`
	Cases    []CaseResult                    `json:"cases"`
	Status   string                          `json:"status"`
	Duration time.Duration                   `json:"duration_ns"`
}

// Runner executes routing scenarios
type Runner struct {
	logger *zap.Logger
}

// NewRunner creates a runner. logger may be nil.
func NewRunner(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger}
}

// Run routes every case of s against a fresh index of its papers
func (r *Runner) Run(s Scenario) ScenarioResult {
	start := time.Now()

	library := core.NewLibrary(nil, r.logger)
	result := ScenarioResult{
		Name:    s.Name,
		Indexed: library.Replace(s.Papers),
		Total:   len(s.Cases),
	}

	for _, c := range s.Cases {
		got := library.Route(c.Message)
		passed, reason := Evaluate(c, got)
		if passed {
			result.Correct++
		} else {
			r.logger.Debug("routing case failed",
				zap.String("scenario", s.Name),
				zap.String("message", c.Message),
				zap.String("reason", reason))
		}
		result.Cases = append(result.Cases, CaseResult{
			Message: c.Message,
			Want:    c.Want,
			Got:     got,
			Passed:  passed,
			Reason:  reason,
		})
	}

	result.Accuracy = Accuracy(result.Correct, result.Total)
	result.ByKind = Tally(result.Cases)
	result.Status = "PASS"
	if result.Accuracy < s.Threshold() {
		result.Status = "FAIL"
	}
	result.Duration = time.Since(start)

	r.logger.Info("scenario complete",
		zap.String("scenario", s.Name),
		zap.Float64("accuracy", result.Accuracy),
		zap.String("status", result.Status))
	return result
}

// RunAll runs scenarios in order
func (r *Runner) RunAll(scenarios []Scenario) []ScenarioResult {
	results := make([]ScenarioResult, 0, len(scenarios))
	for _, s := range scenarios {
		results = append(results, r.Run(s))
	}
	return results
}

// ExportResults writes results as indented JSON to outputPath
func ExportResults(results []ScenarioResult, outputPath string) error {
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(map[string]interface{}{
		"generated_at": time.Now().UTC().Format(time.RFC3339),
		"results":      results,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}
