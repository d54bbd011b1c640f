// ABOUTME: Root command, global flags, and logger setup for the scholarchat CLI
// ABOUTME: Loads .env before any subcommand runs and syncs the logger afterwards
package commands

import (
	"fmt"

	"github.com/harper/scholarchat/internal/config"
	"github.com/harper/scholarchat/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string

	logger = zap.NewNop()

	// loaded once per invocation; commands that need it call requireConfig
	cfg    *config.Config
	cfgErr error
)

const banner = `
 ███████╗ ██████╗██╗  ██╗ ██████╗ ██╗      █████╗ ██████╗
 ██╔════╝██╔════╝██║  ██║██╔═══██╗██║     ██╔══██╗██╔══██╗
 ███████╗██║     ███████║██║   ██║██║     ███████║██████╔╝
 ╚════██║██║     ██╔══██║██║   ██║██║     ██╔══██║██╔══██╗
 ███████║╚██████╗██║  ██║╚██████╔╝███████╗██║  ██║██║  ██║
 ╚══════╝ ╚═════╝╚═╝  ╚═╝ ╚═════╝ ╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝
                                                 chat
`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scholarchat",
		Short: "Personal and research-paper assistant",
		Long: banner + `
Answer questions about one person's profile and their research papers.

Questions start in the personal context. A question that names a paper
(by title or alias) switches to that paper automatically; a question that
could mean several papers asks you to pick one. Answers come from an
OpenAI-compatible completion service grounded only in the active context.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env if present; production deployments set the environment directly
			_ = godotenv.Load()

			switch outputFormat {
			case "auto", "text", "json":
			default:
				return fmt.Errorf("invalid --format %q (want auto, text, or json)", outputFormat)
			}

			cfg, cfgErr = config.Load()

			l, err := logging.New(logging.Options{
				Level:   logging.LevelFor(cfg.LogLevel, verbose, quiet),
				Format:  cfg.LogFormat,
				File:    cfg.LogFile,
				Console: cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (debug logging)")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only print warnings and errors")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, text, or json")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(
		NewChatCmd(),
		NewAskCmd(),
		NewRouteCmd(),
		NewPapersCmd(),
		NewServeCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// requireConfig returns the loaded configuration or why it is invalid
func requireConfig() (*config.Config, error) {
	if cfgErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", cfgErr)
	}
	if cfg == nil {
		return config.Load()
	}
	return cfg, nil
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
