// ABOUTME: Terminal output helpers: markdown rendering, colored notices, and JSON
// ABOUTME: Markdown goes through glamour only when writing to a terminal in auto format
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/harper/scholarchat/internal/models"
	"github.com/mattn/go-isatty"
)

var (
	noticeColor  = color.New(color.FgCyan)
	warningColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
)

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// renderMarkdown prints md, styled when the output is a terminal
func renderMarkdown(w io.Writer, md string) {
	if outputFormat == "auto" && isTerminal(w) {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err == nil {
			if out, err := renderer.Render(md); err == nil {
				fmt.Fprint(w, out)
				return
			}
		}
	}
	fmt.Fprintln(w, strings.TrimRight(md, "\n"))
}

// printNotice writes a session event as a one-line colored notice
func printNotice(w io.Writer, e models.Event) {
	switch e.Kind {
	case models.EventContextSwitched:
		noticeColor.Fprintf(w, "» %s\n", e.Message)
	case models.EventDisambiguationNeeded:
		warningColor.Fprintf(w, "» %d papers match; pick one with /use <id>\n", len(e.Candidates))
	case models.EventContextLoadFailed:
		errorColor.Fprintf(w, "Error: %s\n", e.Message)
	case models.EventRequestFailed:
		errorColor.Fprintf(w, "Error: %s\n", e.Message)
	}
}

// noticePrinter returns a notifier that prints to w unless quiet
func noticePrinter(w io.Writer) models.Notifier {
	return models.NotifierFunc(func(e models.Event) {
		if quiet && e.Kind == models.EventContextSwitched {
			return
		}
		printNotice(w, e)
	})
}

// writeJSON prints v as indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Fprintf(w, "%s\n", data)
	return nil
}
