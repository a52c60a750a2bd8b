package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/VoxDroid/cqe/internal/config"
	cqeerrors "github.com/VoxDroid/cqe/internal/errors"
	"github.com/VoxDroid/cqe/internal/logging"
)

var (
	settings = config.DefaultSettings()
	logger   = zap.NewNop()
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:           "cqe",
	Short:         "cqe is a terminal client for the CQE test management dashboard",
	Long:          "cqe lets you pick a project and release, create Zephyr releases and import\nJira requirements from the command line or an interactive dashboard.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		v := config.NewViper()
		_ = v.BindPFlag("api_url", cmd.Root().PersistentFlags().Lookup("api-url"))
		_ = v.BindPFlag("timeout", cmd.Root().PersistentFlags().Lookup("timeout"))
		s, err := config.LoadSettings(v)
		if err != nil {
			return err
		}
		settings = s

		// logs go to a file so they never interleave with command output
		// or the dashboard; --verbose sends debug output to stderr instead
		opts := logging.Options{Level: s.LogLevel, File: s.LogFile}
		if verbose {
			opts = logging.Options{Verbose: true}
		}
		l, err := logging.New(opts)
		if err != nil {
			return err
		}
		logger = l
		logger.Debug("settings loaded", zap.String("api_url", s.APIURL), zap.Duration("timeout", s.Timeout))
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = logger.Sync()
	},
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "cqe: run 'cqe --help' to see available commands")
	},
}

func init() {
	rootCmd.PersistentFlags().String("api-url", "", "Backend base URL (default http://localhost:8001)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Per-request timeout (default 30s)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "cqe: %s\n", errorText(err))
		os.Exit(1)
	}
}

// errorText is the message printed for a failed command.
func errorText(err error) string {
	if cqeerrors.IsUserFacing(err) {
		return cqeerrors.UserMessage(err)
	}
	var ise *cqeerrors.InvalidStateError
	if cqeerrors.As(err, &ise) {
		switch {
		case cqeerrors.Is(err, cqeerrors.ErrNoProject):
			return "select a project first: cqe select project <id|name>"
		case cqeerrors.Is(err, cqeerrors.ErrNoRelease):
			return "select a release first: cqe select release <id|name>"
		}
	}
	return err.Error()
}
