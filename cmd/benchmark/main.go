// ABOUTME: Command-line runner for the routing accuracy benchmark
// ABOUTME: Routes labeled messages per scenario and outputs JSON results

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/harper/scholarchat/benchmarks/routing"
	"github.com/harper/scholarchat/internal/logging"
	"github.com/harper/scholarchat/internal/models"
)

func main() {
	scenarioName := flag.String("scenario", "", "Run one scenario by name. If empty, runs all scenarios.")
	scenariosPath := flag.String("scenarios", "", "YAML scenario file (defaults to the built-in set)")
	outputPath := flag.String("output", "benchmark_results.json", "Output path for JSON results")
	verbose := flag.Bool("verbose", false, "Enable verbose output")
	flag.Parse()

	level := "warn"
	if *verbose {
		level = "debug"
	}
	logger, err := logging.New(logging.Options{Level: level})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	var scenarios []routing.Scenario
	if *scenariosPath == "" {
		scenarios, err = routing.DefaultScenarios()
	} else {
		scenarios, err = routing.LoadScenarios(*scenariosPath)
	}
	if err != nil {
		log.Fatalf("Failed to load scenarios: %v", err)
	}

	if *scenarioName != "" {
		s, ok := routing.Find(scenarios, *scenarioName)
		if !ok {
			log.Fatalf("Unknown scenario: %s", *scenarioName)
		}
		scenarios = []routing.Scenario{s}
	}

	fmt.Println("========================================")
	fmt.Println("Routing Accuracy Benchmark")
	fmt.Println("========================================")

	results := routing.NewRunner(logger).RunAll(scenarios)

	passed := 0
	failed := 0

	for _, result := range results {
		fmt.Printf("\n%s (%d papers)\n", result.Name, result.Indexed)
		fmt.Printf("  Accuracy: %.2f (%d/%d)\n", result.Accuracy, result.Correct, result.Total)

		kinds := make([]string, 0, len(result.ByKind))
		for kind := range result.ByKind {
			kinds = append(kinds, string(kind))
		}
		sort.Strings(kinds)
		for _, kind := range kinds {
			s := result.ByKind[models.RouteKind(kind)]
			fmt.Printf("  %-10s %d/%d\n", kind+":", s.Correct, s.Total)
		}

		for _, c := range result.Cases {
			if !c.Passed {
				fmt.Printf("  MISS %q: %s\n", c.Message, c.Reason)
			}
		}
		fmt.Printf("  Status: %s\n", result.Status)

		if result.Status == "PASS" {
			passed++
		} else {
			failed++
		}
	}

	fmt.Println("\n========================================")
	fmt.Printf("Total Scenarios: %d\n", len(results))
	fmt.Printf("Passed: %d\n", passed)
	fmt.Printf("Failed: %d\n", failed)
	fmt.Println("========================================")

	if err := routing.ExportResults(results, *outputPath); err != nil {
		log.Fatalf("Failed to export results: %v", err)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
