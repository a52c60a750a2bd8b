package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	cqeerrors "github.com/VoxDroid/cqe/internal/errors"
	"github.com/VoxDroid/cqe/internal/forms"
	"github.com/VoxDroid/cqe/internal/models"
	"github.com/VoxDroid/cqe/internal/nav"
	"github.com/VoxDroid/cqe/internal/utils"
)

const requirementsTemplate = `# One entry per Zephyr folder. Rows missing a folder name or JQL are skipped.
requirements:
  - folder_name: ""
    jql: ""
`

var importRequirementsCmd = &cobra.Command{
	Use:   "import-requirements",
	Short: "Import Jira requirements into the selected release",
	Long: `Import requirement folders into the selected release. Each row maps a
Zephyr folder to a JQL query.
Examples:
  cqe import-requirements --row "Login=project = CQE AND labels = login"
  cqe import-requirements --file requirements.yaml
  cqe import-requirements --edit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rows, err := requirementRows(cmd)
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := context.Background()
		if err := a.mount(ctx); err != nil {
			return err
		}
		if err := a.releasesErr(); err != nil {
			return err
		}
		if !a.model.Invoke(nav.ActionImportRequirements) {
			if !a.model.Machine().Selection().HasProject() {
				return noProject("import requirements")
			}
			return noRelease("import requirements")
		}

		n, err := a.model.SubmitImportRequirements(ctx, forms.ImportRequirements{Rows: rows})
		if err != nil {
			return err
		}
		r, _ := a.model.Machine().Release()
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d requirement folder(s) into %s\n", n, r.Name)
		return nil
	},
}

// requirementRows collects rows from --file, --edit and --row, in that
// order.
func requirementRows(cmd *cobra.Command) ([]models.RequirementRow, error) {
	var rows []models.RequirementRow
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		rs, err := forms.LoadRequirementsFile(path)
		if err != nil {
			return nil, err
		}
		rows = append(rows, rs...)
	}
	if edit, _ := cmd.Flags().GetBool("edit"); edit {
		b, err := utils.EditTemp("requirements.yaml", requirementsTemplate)
		if err != nil {
			return nil, err
		}
		rs, err := forms.ParseRequirements(b)
		if err != nil {
			return nil, err
		}
		rows = append(rows, rs...)
	}
	flagRows, _ := cmd.Flags().GetStringArray("row")
	for _, s := range flagRows {
		folder, jql, ok := strings.Cut(s, "=")
		if !ok {
			return nil, cqeerrors.NewValidationError("row", fmt.Sprintf("row %q must look like FOLDER=JQL", s))
		}
		rows = append(rows, models.RequirementRow{FolderName: folder, JQL: jql})
	}
	return rows, nil
}

func init() {
	importRequirementsCmd.Flags().StringP("file", "f", "", "YAML file with requirement rows")
	importRequirementsCmd.Flags().Bool("edit", false, "Write the rows in $EDITOR")
	importRequirementsCmd.Flags().StringArray("row", nil, "Requirement row as FOLDER=JQL (repeatable)")
	rootCmd.AddCommand(importRequirementsCmd)
}
