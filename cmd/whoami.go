package cmd

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	cqeerrors "github.com/VoxDroid/cqe/internal/errors"
	"github.com/VoxDroid/cqe/internal/security"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user and the stored selection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		st, err := a.store.Load(context.Background())
		if err != nil {
			return err
		}
		if !st.LoggedIn() {
			return cqeerrors.ErrNotLoggedIn
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "user:    %s\n", st.User.Display())
		if st.User.Role != "" {
			fmt.Fprintf(out, "role:    %s\n", st.User.Role)
		}
		if !st.Since.IsZero() {
			fmt.Fprintf(out, "since:   %s\n", humanize.Time(st.Since))
		}
		fmt.Fprintf(out, "token:   %s\n", security.MaskToken(st.Token))
		fmt.Fprintf(out, "api:     %s\n", settings.APIURL)
		if st.Project != nil {
			fmt.Fprintf(out, "project: %s (%s)\n", st.Project.Name, st.Project.ID)
		}
		if st.Release != nil {
			fmt.Fprintf(out, "release: %s (%s)\n", st.Release.Name, st.Release.ID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
