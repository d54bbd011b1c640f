// ABOUTME: Labeled routing scenarios for the accuracy benchmark
// ABOUTME: Scenarios are YAML; a default set is embedded in the binary

package routing

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/harper/scholarchat/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed scenarios.yaml
var defaultScenarios []byte

// Scenario is a paper set plus messages with their expected routing
type Scenario struct {
	Name        string            `yaml:"name" json:"name"`
	Description string            `yaml:"description" json:"description"`
	Papers      []models.Document `yaml:"papers" json:"papers"`
	Cases       []Case            `yaml:"cases" json:"cases"`
	MinAccuracy *float64          `yaml:"min_accuracy,omitempty" json:"min_accuracy,omitempty"`
}

// Case is one labeled message
type Case struct {
	Message string           `yaml:"message" json:"message"`
	Want    models.RouteKind `yaml:"want" json:"want"`
	ID      string           `yaml:"id,omitempty" json:"id,omitempty"`
	IDs     []string         `yaml:"ids,omitempty" json:"ids,omitempty"`
}

// Threshold returns the accuracy a scenario needs to pass
func (s Scenario) Threshold() float64 {
	if s.MinAccuracy != nil {
		return *s.MinAccuracy
	}
	return 1.0
}

// DefaultScenarios returns the embedded scenario set
func DefaultScenarios() ([]Scenario, error) {
	return ParseScenarios(bytes.NewReader(defaultScenarios))
}

// LoadScenarios reads scenarios from a YAML file
func LoadScenarios(path string) ([]Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scenarios: %w", err)
	}
	defer f.Close()
	return ParseScenarios(f)
}

// ParseScenarios decodes and validates a YAML scenario list
func ParseScenarios(r io.Reader) ([]Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var scenarios []Scenario
	if err := dec.Decode(&scenarios); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse scenarios: %w", err)
	}

	for _, s := range scenarios {
		if err := s.validate(); err != nil {
			return nil, err
		}
	}
	return scenarios, nil
}

func (s Scenario) validate() error {
	if s.Name == "" {
		return errors.New("scenario name is required")
	}
	if len(s.Cases) == 0 {
		return fmt.Errorf("scenario %s has no cases", s.Name)
	}
	for i, c := range s.Cases {
		if !c.Want.IsValid() {
			return fmt.Errorf("scenario %s case %d: unknown outcome %q", s.Name, i+1, c.Want)
		}
		if c.Want == models.RouteConfident && c.ID == "" {
			return fmt.Errorf("scenario %s case %d: confident case needs an id", s.Name, i+1)
		}
	}
	return nil
}

// Find returns the scenario with the given name
func Find(scenarios []Scenario, name string) (Scenario, bool) {
	for _, s := range scenarios {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}
