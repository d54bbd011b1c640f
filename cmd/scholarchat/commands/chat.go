// ABOUTME: Interactive chat REPL over one session
// ABOUTME: Slash commands switch contexts, list papers, show history, and restart the conversation
package commands

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/harper/scholarchat/internal/core"
	"github.com/harper/scholarchat/internal/models"
	"github.com/spf13/cobra"
)

const chatHelp = `Commands:
  /use <id>         answer from a paper until /personal
  /personal         return to the personal context
  /papers           list papers
  /history          show this conversation
  /settings [t] [n] show or set temperature and max tokens
  /new              start a new conversation
  /help             show this help
  /quit             exit`

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat",
		Long: `Start an interactive chat session.

Questions start in the personal context. Mentioning a paper by title or
alias switches to it; if several papers match you are asked to pick one
with /use. Type /help for the list of commands.

Examples:
  scholarchat chat
  WATCH_FEED=true scholarchat chat`,
		RunE: runChat,
	}

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	a, err := newApp(cmd.Context(), cfg, multiNotifier{noticePrinter(out), logNotifier()})
	if err != nil {
		return err
	}
	a.watchFeed(cmd.Context())

	repl := &chatREPL{session: a.session, out: out}
	repl.start(cmd)
	return repl.run(cmd, cmd.InOrStdin())
}

type chatREPL struct {
	session *core.Session
	out     io.Writer
}

func (r *chatREPL) start(cmd *cobra.Command) {
	// a failure was already printed by the notifier
	if welcome, err := r.session.Start(cmd.Context()); err == nil && !quiet {
		renderMarkdown(r.out, welcome)
	}
}

func (r *chatREPL) prompt() {
	fmt.Fprintf(r.out, "[%s] > ", r.session.ActiveLabel())
}

func (r *chatREPL) run(cmd *cobra.Command, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	r.prompt()
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "/") {
			if done := r.command(cmd, line); done {
				return nil
			}
		} else if line != "" {
			r.ask(cmd, line)
		}
		r.prompt()
	}
	fmt.Fprintln(r.out)
	return scanner.Err()
}

func (r *chatREPL) ask(cmd *cobra.Command, line string) {
	outcome, err := r.session.Send(cmd.Context(), line)
	if err != nil {
		// reported by the notifier
		return
	}
	switch outcome.Kind {
	case core.OutcomeDisambiguation:
		fmt.Fprintln(r.out, outcome.Reply)
		for _, c := range outcome.Route.Candidates {
			fmt.Fprintf(r.out, "  /use %s\n", c.ID)
		}
	case core.OutcomeAnswered:
		renderMarkdown(r.out, outcome.Reply)
	}
}

// command runs a slash command and reports whether the REPL should exit
func (r *chatREPL) command(cmd *cobra.Command, line string) bool {
	fields := strings.Fields(line)
	name, rest := fields[0], fields[1:]

	switch name {
	case "/quit", "/exit":
		return true

	case "/help":
		fmt.Fprintln(r.out, chatHelp)

	case "/use":
		if len(rest) != 1 {
			fmt.Fprintln(r.out, "usage: /use <paper id>")
			return false
		}
		r.selectContext(rest[0])

	case "/personal":
		r.selectContext(models.PersonalContextID)

	case "/papers":
		docs := r.session.Library().Documents()
		if len(docs) == 0 {
			fmt.Fprintln(r.out, "No papers loaded")
		}
		for _, doc := range docs {
			fmt.Fprintf(r.out, "  %s  %s\n", doc.ID, doc.Title)
		}

	case "/history":
		turns := r.session.History()
		if len(turns) == 0 {
			fmt.Fprintln(r.out, "No messages yet")
		}
		for _, turn := range turns {
			fmt.Fprintf(r.out, "%s [%s] %s: %s\n", formatTime(turn.Timestamp), turn.ContextID, turn.Role, truncate(turn.Content, 80))
		}

	case "/settings":
		r.settings(rest)

	case "/new":
		r.start(cmd)

	default:
		fmt.Fprintf(r.out, "unknown command %s (try /help)\n", name)
	}
	return false
}

func (r *chatREPL) selectContext(id string) {
	if err := r.session.SelectContext(id); err != nil {
		errorColor.Fprintf(r.out, "Error: %s\n", models.UserMessage(err))
	}
}

func (r *chatREPL) settings(args []string) {
	settings := r.session.Settings()
	if len(args) >= 1 {
		t, err := strconv.ParseFloat(args[0], 32)
		if err == nil {
			err = validateTemperature(t)
		}
		if err != nil {
			errorColor.Fprintf(r.out, "Error: invalid temperature %q\n", args[0])
			return
		}
		settings.Temperature = float32(t)
	}
	if len(args) >= 2 {
		n, err := strconv.Atoi(args[1])
		if err == nil {
			err = validatePositiveInt(n, "max tokens")
		}
		if err != nil {
			errorColor.Fprintf(r.out, "Error: invalid max tokens %q\n", args[1])
			return
		}
		settings.MaxTokens = n
	}
	r.session.SetSettings(settings)
	fmt.Fprintf(r.out, "temperature %.2f, max tokens %d\n", settings.Temperature, settings.MaxTokens)
}
