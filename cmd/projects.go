package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/VoxDroid/cqe/internal/forms"
	"github.com/VoxDroid/cqe/internal/models"
	"github.com/VoxDroid/cqe/internal/nav"
	"github.com/VoxDroid/cqe/internal/tui/sanitize"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List your projects",
	Long:  "List the projects visible to you. The selected project is marked with *.\nExample:\n  cqe projects --filter perf",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.mount(context.Background()); err != nil {
			return err
		}

		filter, _ := cmd.Flags().GetString("filter")
		sel, _ := a.model.Machine().Project()
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, p := range a.model.FilterProjects(filter) {
			mark := " "
			if p.ID == sel.ID {
				mark = "*"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", mark, p.ID, sanitize.Text(p.Name))
		}
		return tw.Flush()
	},
}

var releasesCmd = &cobra.Command{
	Use:   "releases",
	Short: "List the releases of the selected project",
	Long:  "List releases, newest first. --project lists another project without\nchanging the selection.",
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

		m := a.model.Machine()
		releases := m.Releases()
		if key, _ := cmd.Flags().GetString("project"); key != "" {
			p, err := a.findProject(key)
			if err != nil {
				return err
			}
			if releases, err = a.model.FetchReleases(ctx, nav.Ticket{ProjectID: p.ID}); err != nil {
				return err
			}
		} else if !m.Selection().HasProject() {
			return noProject("list releases")
		} else if err := a.releasesErr(); err != nil {
			return err
		}
		printReleases(cmd, releases, m, time.Now())
		return nil
	},
}

func printReleases(cmd *cobra.Command, releases []models.Release, m *nav.Machine, now time.Time) {
	out := cmd.OutOrStdout()
	if len(releases) == 0 {
		fmt.Fprintln(out, "no releases")
		return
	}
	sel, _ := m.Release()
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, r := range releases {
		mark := " "
		if r.ID == sel.ID {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", mark, r.ID, sanitize.Text(r.Name), releaseWindow(r, now))
	}
	_ = tw.Flush()
}

// releaseWindow renders the date range with a relative hint for the end.
func releaseWindow(r models.Release, now time.Time) string {
	if r.StartDate == "" && r.EndDate == "" {
		return ""
	}
	s := r.StartDate + " → " + r.EndDate
	if end, err := time.Parse(forms.DateLayout, r.EndDate); err == nil {
		end = end.Add(24*time.Hour - time.Second)
		if end.Before(now) {
			s += " (ended " + humanize.RelTime(end, now, "ago", "from now") + ")"
		} else {
			s += " (ends " + humanize.RelTime(end, now, "ago", "from now") + ")"
		}
	}
	return s
}

func init() {
	projectsCmd.Flags().String("filter", "", "Fuzzy filter on project names")
	releasesCmd.Flags().String("project", "", "List releases of this project (id or name)")
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(releasesCmd)
}
