package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mrlokans/abbrbot/internal/config"
	"github.com/mrlokans/abbrbot/internal/entrypoint"
	"github.com/mrlokans/abbrbot/internal/logging"
)

// app holds state shared by all subcommands once the root pre-run is done.
type app struct {
	version string
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCommand builds the abbrbot command tree. Running it without a
// subcommand starts the HTTP server.
func NewRootCommand(version string) *cobra.Command {
	a := &app{version: version}

	root := &cobra.Command{
		Use:   "abbrbot",
		Short: "Chat bot plugin that explains pinyin-initial abbreviations",
		Long: `abbrbot answers "/abbr yyds"-style chat commands by asking an
nbnhhsh-compatible guess API what the abbreviation stands for.

Configuration is read from the environment:
  API_URL          guess endpoint (required)
  IGNORE_PREFIX    also answer "abbr yyds" without the command prefix
  COMMAND_PREFIX   explicit command prefix (default "/")
  REQUEST_TIMEOUT  upstream timeout (default 5s)
  HOST, PORT       HTTP listen address (default 0.0.0.0:8190)
  LOG_LEVEL        debug, info, warn, error`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.cfg = config.NewConfig()
			logger, err := logging.New(a.cfg.Log, a.verbose)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(cmd.Context(), a.cfg, a.logger, a.version)
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newServeCommand(a),
		newQueryCommand(a),
		newMetadataCommand(a),
		newVersionCommand(a),
	)
	return root
}

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default if no command given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(cmd.Context(), a.cfg, a.logger, a.version)
		},
	}
}

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), a.version)
		},
	}
}
