package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	cqeerrors "github.com/VoxDroid/cqe/internal/errors"
)

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Select the working project or release",
}

var selectProjectCmd = &cobra.Command{
	Use:   "project <id|name>",
	Short: "Select a project; the release selection is cleared",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := context.Background()
		if err := a.mount(ctx); err != nil {
			return err
		}
		p, err := a.findProject(args[0])
		if err != nil {
			return err
		}
		t := a.model.SelectProject(p)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "project: %s (%s)\n", p.Name, p.ID)
		if err := a.loadReleases(ctx, t); err != nil {
			return err
		}
		n := len(a.model.Machine().Releases())
		fmt.Fprintf(out, "%d release(s); pick one with: cqe select release <id|name>\n", n)
		return nil
	},
}

var selectReleaseCmd = &cobra.Command{
	Use:   "release <id|name>",
	Short: "Select a release of the selected project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.mount(context.Background()); err != nil {
			return err
		}
		if !a.model.Machine().Selection().HasProject() {
			return noProject("select release")
		}
		if err := a.releasesErr(); err != nil {
			return err
		}
		r, err := a.findRelease(args[0])
		if err != nil {
			return err
		}
		if err := a.model.SelectRelease(r); err != nil {
			return err
		}
		if err := a.model.PersistErr(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "release: %s (%s)\n", r.Name, r.ID)
		return nil
	},
}

var selectClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the selected project and release",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		if _, _, err := a.model.Mount(context.Background()); err != nil {
			return err
		}
		a.model.ClearSelection()
		if err := a.model.PersistErr(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "selection cleared")
		return nil
	},
}

func noProject(op string) error {
	return cqeerrors.NewInvalidStateError(op, cqeerrors.ErrNoProject)
}

func noRelease(op string) error {
	return cqeerrors.NewInvalidStateError(op, cqeerrors.ErrNoRelease)
}

func init() {
	selectCmd.AddCommand(selectProjectCmd)
	selectCmd.AddCommand(selectReleaseCmd)
	selectCmd.AddCommand(selectClearCmd)
	rootCmd.AddCommand(selectCmd)
}
