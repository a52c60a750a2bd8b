package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/cqe/internal/api"
	"github.com/VoxDroid/cqe/internal/forms"
	"github.com/VoxDroid/cqe/internal/utils"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with your SOEID and 4-digit passcode",
	Long:  "Sign in and store the session locally. Missing values are prompted for;\nthe passcode is not echoed.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		soeid, _ := cmd.Flags().GetString("soeid")
		passcode, _ := cmd.Flags().GetString("passcode")
		p := utils.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
		if soeid == "" {
			soeid = p.Prompt("SOEID")
		}
		if passcode == "" {
			var err error
			if passcode, err = p.Secret("Passcode"); err != nil {
				return err
			}
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.model.Login(context.Background(), forms.Login{SOEID: soeid, Passcode: passcode}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", a.model.User().Display())
		fmt.Fprintf(cmd.OutOrStdout(), "%d project(s) available; pick one with: cqe select project <id|name>\n", len(a.model.Projects()))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session and selection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.model.Logout(context.Background()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "logged out")
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a CQE account",
	Long:  "Create an account. The Zephyr token is checked with the backend before\nthe account is submitted unless --skip-token-check is given.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p := utils.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
		get := func(flag, label string, secret bool) (string, error) {
			v, _ := cmd.Flags().GetString(flag)
			if v != "" {
				return v, nil
			}
			if secret {
				return p.Secret(label)
			}
			return p.Prompt(label), nil
		}
		var f forms.Register
		for _, fld := range []struct {
			flag, label string
			secret      bool
			dst         *string
		}{
			{"soeid", "SOEID", false, &f.SOEID},
			{"name", "Full name", false, &f.FullName},
			{"passcode", "Passcode (4 digits)", true, &f.Passcode},
			{"zephyr-token", "Zephyr token", true, &f.ZephyrToken},
			{"jira-token", "Jira token", true, &f.JiraToken},
			{"project-id", "Project id", false, &f.ProjectID},
			{"project-name", "Project name", false, &f.ProjectName},
			{"manager", "Manager SOEID", false, &f.ManagerSOEID},
		} {
			v, err := get(fld.flag, fld.label, fld.secret)
			if err != nil {
				return err
			}
			*fld.dst = v
		}
		req, err := f.Request()
		if err != nil {
			return err
		}

		client := api.NewClient(settings.APIURL, api.WithTimeout(settings.Timeout), api.WithLogger(logger))
		ctx := context.Background()
		if skip, _ := cmd.Flags().GetBool("skip-token-check"); !skip {
			if err := client.ValidateZephyrToken(ctx, req.ZephyrToken); err != nil {
				return err
			}
		}
		msg, err := client.Register(ctx, req)
		if err != nil {
			return err
		}
		if msg == "" {
			msg = "Registration successful"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s; sign in with: cqe login --soeid %s\n", msg, req.SOEID)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringP("soeid", "u", "", "SOEID (prompted when empty)")
	loginCmd.Flags().String("passcode", "", "4-digit passcode (prompted when empty)")

	registerCmd.Flags().String("soeid", "", "SOEID, 2 letters + 5 digits")
	registerCmd.Flags().String("name", "", "Full name")
	registerCmd.Flags().String("passcode", "", "4-digit passcode")
	registerCmd.Flags().String("zephyr-token", "", "Zephyr API token")
	registerCmd.Flags().String("jira-token", "", "Jira API token")
	registerCmd.Flags().String("project-id", "", "Home project id")
	registerCmd.Flags().String("project-name", "", "Home project name")
	registerCmd.Flags().String("manager", "", "Manager SOEID")
	registerCmd.Flags().Bool("skip-token-check", false, "Do not validate the Zephyr token first")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(registerCmd)
}
