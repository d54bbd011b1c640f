// ABOUTME: CLI command for a one-shot question
// ABOUTME: Starts a session, optionally selects a context, sends one message, and prints the reply
package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/harper/scholarchat/internal/core"
	"github.com/harper/scholarchat/internal/models"
	"github.com/spf13/cobra"
)

var (
	askContext     string
	askTemperature float64
	askMaxTokens   int
)

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask one question and print the answer",
		Long: `Ask a single question.

Without --context the question starts in the personal context and may
switch to a paper it names. With --context the given paper (or
"personal") answers and no routing happens.

Examples:
  scholarchat ask "which universities have you worked at?"
  scholarchat ask "what BLEU score does the bangla NMT paper report?"
  scholarchat ask --context p3 "summarize the method"
  scholarchat ask --format json "what are your research interests?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAsk,
	}

	cmd.Flags().StringVar(&askContext, "context", "", "Context id to answer from (personal or a paper id)")
	cmd.Flags().Float64Var(&askTemperature, "temperature", -1, "Sampling temperature (0-2); defaults to COMPLETION_TEMPERATURE")
	cmd.Flags().IntVar(&askMaxTokens, "max-tokens", 0, "Maximum reply tokens; defaults to COMPLETION_MAX_TOKENS")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("temperature") {
		if err := validateTemperature(askTemperature); err != nil {
			return err
		}
		cfg.Temperature = askTemperature
	}
	if cmd.Flags().Changed("max-tokens") {
		if err := validatePositiveInt(askMaxTokens, "max-tokens"); err != nil {
			return err
		}
		cfg.MaxTokens = askMaxTokens
	}

	// failures are returned, so only switches and disambiguation are printed here
	switches := models.NotifierFunc(func(e models.Event) {
		if e.Kind == models.EventContextSwitched && outputFormat != "json" && !quiet {
			printNotice(cmd.ErrOrStderr(), e)
		}
	})

	a, err := newApp(cmd.Context(), cfg, multiNotifier{switches, logNotifier()})
	if err != nil {
		return err
	}

	if _, err := a.session.Start(cmd.Context()); err != nil {
		warningColor.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", models.UserMessage(err))
	}

	if askContext != "" {
		if err := a.session.SelectContext(askContext); err != nil {
			return errors.New(models.UserMessage(err))
		}
	}

	outcome, err := a.session.Send(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return errors.New(models.UserMessage(err))
	}

	if outputFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), outcome)
	}

	switch outcome.Kind {
	case core.OutcomeIgnored:
		return errors.New("question is empty")
	case core.OutcomeDisambiguation:
		fmt.Fprintln(cmd.OutOrStdout(), outcome.Reply)
		for _, c := range outcome.Route.Candidates {
			fmt.Fprintf(cmd.OutOrStdout(), "  --context %s\t%s\n", c.ID, c.Title)
		}
	default:
		renderMarkdown(cmd.OutOrStdout(), outcome.Reply)
	}
	return nil
}
