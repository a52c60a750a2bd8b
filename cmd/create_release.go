package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/cqe/internal/forms"
	"github.com/VoxDroid/cqe/internal/nav"
)

var createReleaseCmd = &cobra.Command{
	Use:   "create-release",
	Short: "Create a Zephyr release in the selected project",
	Long: `Create a release in the selected project. Dates default to today.
Example:
  cqe create-release --name "Release v2.6.0" --build BUILD-2025-060 \
    --start 2025-01-01 --end 2025-03-31 --load-test 2`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := context.Background()
		if err := a.mount(ctx); err != nil {
			return err
		}
		if !a.model.Invoke(nav.ActionCreateRelease) {
			return noProject("create release")
		}

		f := forms.NewCreateRelease(time.Now())
		flags := cmd.Flags()
		f.Name, _ = flags.GetString("name")
		f.BuildRelease, _ = flags.GetString("build")
		if v, _ := flags.GetString("start"); v != "" {
			f.StartDate = v
		}
		if v, _ := flags.GetString("end"); v != "" {
			f.EndDate = v
		}
		prev, _ := flags.GetString("previous")
		f.SetUsePreviousStructure(prev != "")
		f.PreviousBuildRelease = prev
		f.LoadTestPhases, _ = flags.GetString("load-test")
		f.EnduranceTestPhases, _ = flags.GetString("endurance-test")
		f.SanityTestPhases, _ = flags.GetString("sanity-test")
		f.StandaloneTestPhases, _ = flags.GetString("standalone-test")

		id, err := a.model.SubmitCreateRelease(ctx, f)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, a.model.Notice())
		if sel, _ := flags.GetBool("select"); sel {
			t, ok := a.model.Reload()
			if !ok {
				return nil
			}
			if err := a.loadReleases(ctx, t); err != nil {
				return err
			}
			r, err := a.findRelease(id.String())
			if err != nil {
				return err
			}
			if err := a.model.SelectRelease(r); err != nil {
				return err
			}
			fmt.Fprintf(out, "release: %s (%s)\n", r.Name, r.ID)
		}
		return nil
	},
}

func init() {
	f := createReleaseCmd.Flags()
	f.String("name", "", "Release name (required)")
	f.String("build", "", "Build/Jira release (required)")
	f.String("start", "", "Start date YYYY-MM-DD (default today)")
	f.String("end", "", "End date YYYY-MM-DD (default today)")
	f.String("previous", "", "Reuse the structure of this previous build release")
	f.String("load-test", "", "Number of load test phases")
	f.String("endurance-test", "", "Number of endurance test phases")
	f.String("sanity-test", "", "Number of sanity test phases")
	f.String("standalone-test", "", "Number of standalone test phases")
	f.Bool("select", false, "Select the new release afterwards")
	rootCmd.AddCommand(createReleaseCmd)
}
