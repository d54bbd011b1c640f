// ABOUTME: CLI command to show how a message would be routed
// ABOUTME: Loads the paper feed and prints the routing decision without calling the completion service
package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/harper/scholarchat/internal/models"
	"github.com/spf13/cobra"
)

// NewRouteCmd creates the route command
func NewRouteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "route <message>",
		Short: "Show which paper a message would be routed to",
		Long: `Classify a message against the paper titles and aliases.

Prints one of three outcomes: no match (the personal context answers),
a confident match (the session would switch to that paper), or an
ambiguous match with up to three candidates.

Examples:
  scholarchat route "what dataset does the bangla NMT paper use?"
  scholarchat route --format json "graph neural networks"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRoute,
	}

	return cmd
}

func runRoute(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	library, _, err := newLibrary(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	result := library.Route(strings.Join(args, " "))
	if outputFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	formatRoute(cmd.OutOrStdout(), result)
	return nil
}

// formatRoute prints a routing result for humans
func formatRoute(out io.Writer, result models.RouteResult) {
	switch result.Kind {
	case models.RouteConfident:
		fmt.Fprintf(out, "confident: %s (%s)\n", result.Title, result.ID)
	case models.RouteAmbiguous:
		fmt.Fprintf(out, "ambiguous: %d candidates\n", len(result.Candidates))
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "SCORE\tID\tTITLE\n")
		for _, c := range result.Candidates {
			fmt.Fprintf(w, "%.2f\t%s\t%s\n", c.Score, c.ID, truncate(c.Title, 60))
		}
		w.Flush()
	default:
		fmt.Fprintln(out, "no match: the personal context would answer")
	}
}
