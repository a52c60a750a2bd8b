package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the dashboard counters of the selected release",
	Args:  cobra.NoArgs,
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
		pid, rid, ok := a.model.StatsRequest()
		if !ok {
			if !a.model.Machine().Selection().HasProject() {
				return noProject("status")
			}
			return noRelease("status")
		}
		st, err := a.model.Stats(ctx, pid, rid)
		if err != nil {
			return err
		}

		p, _ := a.model.Machine().Project()
		r, _ := a.model.Machine().Release()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s • %s\n\n", p.Name, r.Name)
		fmt.Fprintln(out, "Zephyr:")
		z := st.Zephyr
		fmt.Fprintf(out, "  total test cases  %d\n", z.TotalTestCases)
		fmt.Fprintf(out, "  execution rate    %d%%\n", z.ExecutionRate)
		fmt.Fprintf(out, "  pass rate         %d%%\n", z.PassRate)
		fmt.Fprintf(out, "  open defects      %d\n", z.OpenDefects)
		fmt.Fprintf(out, "  active cycles     %d\n", z.ActiveCycles)
		fmt.Fprintf(out, "  requirements      %d\n", z.Requirements)
		fmt.Fprintln(out, "Jira:")
		j := st.Jira
		fmt.Fprintf(out, "  open issues       %d\n", j.OpenIssues)
		fmt.Fprintf(out, "  in progress       %d\n", j.InProgress)
		fmt.Fprintf(out, "  resolved          %d\n", j.Resolved)
		fmt.Fprintf(out, "  backlog items     %d\n", j.BacklogItems)
		fmt.Fprintf(out, "  sprint progress   %d%%\n", j.SprintProgress)
		fmt.Fprintf(out, "  team velocity     %d\n", j.TeamVelocity)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
