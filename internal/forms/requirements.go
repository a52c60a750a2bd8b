package forms

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	cqeerrors "github.com/VoxDroid/cqe/internal/errors"
	"github.com/VoxDroid/cqe/internal/models"
	"github.com/VoxDroid/cqe/internal/nameutil"
)

// ImportRequirements is the requirement import form: a list of
// folder/JQL rows. It starts with one empty row.
type ImportRequirements struct {
	Rows []models.RequirementRow
}

// NewImportRequirements returns a form with a single empty row.
func NewImportRequirements() ImportRequirements {
	return ImportRequirements{Rows: []models.RequirementRow{{}}}
}

// AddRow appends an empty row.
func (f *ImportRequirements) AddRow() {
	f.Rows = append(f.Rows, models.RequirementRow{})
}

// RemoveRow deletes row i. The last remaining row is never removed.
func (f *ImportRequirements) RemoveRow(i int) {
	if len(f.Rows) <= 1 || i < 0 || i >= len(f.Rows) {
		return
	}
	f.Rows = append(f.Rows[:i], f.Rows[i+1:]...)
}

// CompleteRows returns the rows with both a folder name and a JQL query,
// trimmed and sanitized.
func (f ImportRequirements) CompleteRows() []models.RequirementRow {
	var out []models.RequirementRow
	for _, r := range f.Rows {
		folder, _ := nameutil.SanitizeName(r.FolderName)
		jql := strings.TrimSpace(r.JQL)
		if folder == "" || jql == "" {
			continue
		}
		out = append(out, models.RequirementRow{FolderName: folder, JQL: jql})
	}
	return out
}

// Request validates the form and builds the import request. Partially
// filled rows are dropped.
func (f ImportRequirements) Request(projectID, releaseID models.ID) (models.ImportRequirementsRequest, error) {
	rows := f.CompleteRows()
	if len(rows) == 0 {
		return models.ImportRequirementsRequest{}, cqeerrors.NewValidationError("requirements", "Please fill at least one row with both Folder Name and JQL")
	}
	for i, r := range rows {
		name, err := cleanName("requirements", "Folder name", r.FolderName)
		if err != nil {
			return models.ImportRequirementsRequest{}, err
		}
		rows[i].FolderName = name
	}
	return models.ImportRequirementsRequest{
		ReleaseID:    releaseID,
		ProjectID:    projectID,
		Requirements: rows,
	}, nil
}

// LoadRequirementsFile reads requirement rows from a YAML file. The file is
// either a list of rows or a mapping with a "requirements" list:
//
//	requirements:
//	  - folder_name: Login
//	    jql: project = CQE AND labels = login
func LoadRequirementsFile(path string) ([]models.RequirementRow, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRequirements(b)
}

// ParseRequirements decodes YAML requirement rows.
func ParseRequirements(b []byte) ([]models.RequirementRow, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, nil
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse requirements: %w", err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	var rows []models.RequirementRow
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&rows); err != nil {
			return nil, fmt.Errorf("parse requirements: %w", err)
		}
	case yaml.MappingNode:
		var wrapped struct {
			Requirements []models.RequirementRow `yaml:"requirements"`
		}
		if err := root.Decode(&wrapped); err != nil {
			return nil, fmt.Errorf("parse requirements: %w", err)
		}
		rows = wrapped.Requirements
	default:
		return nil, fmt.Errorf("parse requirements: expected a list of rows")
	}
	return rows, nil
}
