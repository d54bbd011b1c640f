// ABOUTME: CLI command to list the papers in the feed
// ABOUTME: Optionally checks that each paper's text can be loaded
package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/harper/scholarchat/internal/core"
	"github.com/spf13/cobra"
)

var (
	papersCheck bool
)

type paperRow struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Aliases []string `json:"aliases,omitempty"`
	Locator string   `json:"locator"`
	Status  string   `json:"status,omitempty"`
}

// NewPapersCmd creates the papers command
func NewPapersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "papers",
		Short: "List papers available for questions",
		Long: `List the papers in the feed, in feed order, with their aliases and
the locator their text is loaded from.

With --check every paper's text is fetched once and reported as
ok or missing.

Examples:
  scholarchat papers
  scholarchat papers --check
  scholarchat papers --format json`,
		RunE: runPapers,
	}

	cmd.Flags().BoolVar(&papersCheck, "check", false, "Fetch each paper's text and report whether it loads")

	return cmd
}

func runPapers(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	library, fetcher, err := newLibrary(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	resolver := core.NewResolver(fetcher, library, core.ResolverConfig{
		PersonalLocator: cfg.PersonalContext,
		PaperTextDir:    cfg.PaperTextDir,
		PaperTextExt:    cfg.PaperTextExt,
		OwnerName:       cfg.OwnerName,
	}, logger)

	docs := library.Documents()
	rows := make([]paperRow, 0, len(docs))
	for _, doc := range docs {
		row := paperRow{ID: doc.ID, Title: doc.Title, Aliases: doc.Aliases, Locator: resolver.Locator(doc.ID)}
		if papersCheck {
			row.Status = "ok"
			if _, err := resolver.ResolvePaper(cmd.Context(), doc.ID); err != nil {
				row.Status = "missing"
			}
		}
		rows = append(rows, row)
	}

	if outputFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), rows)
	}

	if len(rows) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No papers found\n")
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	if papersCheck {
		fmt.Fprintf(w, "ID\tTITLE\tALIASES\tTEXT\n")
		fmt.Fprintf(w, "--\t-----\t-------\t----\n")
	} else {
		fmt.Fprintf(w, "ID\tTITLE\tALIASES\n")
		fmt.Fprintf(w, "--\t-----\t-------\n")
	}
	for _, row := range rows {
		aliases := strings.Join(row.Aliases, ", ")
		if papersCheck {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", row.ID, truncate(row.Title, 50), truncate(aliases, 30), row.Status)
		} else {
			fmt.Fprintf(w, "%s\t%s\t%s\n", row.ID, truncate(row.Title, 50), truncate(aliases, 30))
		}
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d paper(s)\n", len(rows))
	}
	return nil
}
