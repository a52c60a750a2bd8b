package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/VoxDroid/cqe/cmd/tui/ui"
	cqeerrors "github.com/VoxDroid/cqe/internal/errors"
	"github.com/VoxDroid/cqe/internal/nav"
)

var tuiTab string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the interactive dashboard",
	Long: `Start the interactive dashboard.

Without a stored session the dashboard opens on the sign-in screen. A
project and release selected here are remembered for the other commands.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if tuiTab != "" {
			tab, err := nav.ParseTab(strings.ToLower(tuiTab))
			if err != nil {
				return err
			}
			a.model.Machine().SetTab(tab)
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		// the dashboard refetches releases itself, so the ticket is not needed
		if _, _, err := a.model.Mount(ctx); err != nil && !cqeerrors.Is(err, cqeerrors.ErrNotLoggedIn) {
			return err
		}
		logger.Debug("starting dashboard", zap.Bool("logged_in", a.model.LoggedIn()))

		_, err = ui.NewProgram(a.model).Run()
		return err
	},
}

func init() {
	tuiCmd.Flags().StringVar(&tuiTab, "tab", "", "initial tab (zephyr or jira)")
	rootCmd.AddCommand(tuiCmd)
}
