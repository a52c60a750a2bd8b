package forms

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/VoxDroid/cqe/internal/models"
)

func TestImportRequirementsRows(t *testing.T) {
	f := NewImportRequirements()
	if len(f.Rows) != 1 {
		t.Fatalf("expected one starting row, got %d", len(f.Rows))
	}
	f.RemoveRow(0)
	if len(f.Rows) != 1 {
		t.Fatalf("last row must not be removed")
	}
	f.AddRow()
	f.AddRow()
	f.Rows[0] = models.RequirementRow{FolderName: "Login", JQL: "project = CQE"}
	f.Rows[1] = models.RequirementRow{FolderName: "Partial"}
	f.Rows[2] = models.RequirementRow{FolderName: " Search ", JQL: " labels = search "}
	f.RemoveRow(5)
	if len(f.Rows) != 3 {
		t.Fatalf("out of range remove changed rows")
	}

	req, err := f.Request("1", "2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := models.ImportRequirementsRequest{
		ReleaseID: "2",
		ProjectID: "1",
		Requirements: []models.RequirementRow{
			{FolderName: "Login", JQL: "project = CQE"},
			{FolderName: "Search", JQL: "labels = search"},
		},
	}
	if diff := cmp.Diff(want, req); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}
	if len(f.Rows) != 3 {
		t.Fatalf("form rows must be preserved, got %d", len(f.Rows))
	}
}

func TestImportRequirementsNeedsCompleteRow(t *testing.T) {
	f := ImportRequirements{Rows: []models.RequirementRow{{FolderName: "A"}, {JQL: "x"}}}
	_, err := f.Request("1", "2")
	if fieldOf(t, err) != "requirements" {
		t.Fatalf("expected requirements error, got %v", err)
	}
}

func TestImportRequirementsRejectsInvalidFolderName(t *testing.T) {
	f := ImportRequirements{Rows: []models.RequirementRow{
		{FolderName: "Login", JQL: "project = CQE"},
		{FolderName: "\xff\xff", JQL: "labels = broken"},
	}}
	_, err := f.Request("1", "2")
	if fieldOf(t, err) != "requirements" {
		t.Fatalf("expected requirements error, got %v", err)
	}
	if err.Error() != "Folder name contains invalid encoding" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestParseRequirements(t *testing.T) {
	want := []models.RequirementRow{{FolderName: "Login", JQL: "labels = login"}, {FolderName: "Pay", JQL: "labels = pay"}}

	list := []byte("- folder_name: Login\n  jql: labels = login\n- folder_name: Pay\n  jql: labels = pay\n")
	got, err := ParseRequirements(list)
	if err != nil {
		t.Fatalf("parse list: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("list mismatch:\n%s", diff)
	}

	wrapped := []byte("requirements:\n  - folder_name: Login\n    jql: labels = login\n  - folder_name: Pay\n    jql: labels = pay\n")
	got, err = ParseRequirements(wrapped)
	if err != nil {
		t.Fatalf("parse mapping: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mapping mismatch:\n%s", diff)
	}

	if _, err := ParseRequirements([]byte("just text")); err == nil {
		t.Fatalf("expected error for scalar document")
	}
	if rows, err := ParseRequirements([]byte("  \n")); err != nil || rows != nil {
		t.Fatalf("expected empty result, got %v %v", rows, err)
	}
}

func TestLoadRequirementsFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "reqs.yaml")
	if err := os.WriteFile(p, []byte("- folder_name: A\n  jql: B\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	rows, err := LoadRequirementsFile(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rows) != 1 || rows[0].FolderName != "A" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
	if _, err := LoadRequirementsFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
