package forms

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	cqeerrors "github.com/VoxDroid/cqe/internal/errors"
	"github.com/VoxDroid/cqe/internal/models"
)

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	var ve *cqeerrors.ValidationError
	if !cqeerrors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	return ve.Field
}

func TestLoginValidate(t *testing.T) {
	soeid, err := Login{SOEID: " ab12345 ", Passcode: "1234"}.Validate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if soeid != "AB12345" {
		t.Fatalf("expected normalized SOEID, got %q", soeid)
	}
	if _, err := (Login{Passcode: "1234"}).Validate(); fieldOf(t, err) != "soeid" {
		t.Fatalf("expected soeid error, got %v", err)
	}
	for _, pc := range []string{"", "123", "12345", "12a4"} {
		if _, err := (Login{SOEID: "AB12345", Passcode: pc}).Validate(); fieldOf(t, err) != "passcode" {
			t.Fatalf("passcode %q: expected passcode error, got %v", pc, err)
		}
	}
}

func validRegister() Register {
	return Register{
		SOEID: "ab12345", FullName: "Ada Lovelace", Passcode: "1234",
		ZephyrToken: "zt", JiraToken: "jt", ProjectID: "1",
		ProjectName: "CQE Platform", ManagerSOEID: "MG54321",
	}
}

func TestRegisterRequest(t *testing.T) {
	req, err := validRegister().Request()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.SOEID != "AB12345" || req.ManagerSOEID != "MG54321" {
		t.Fatalf("unexpected request: %+v", req)
	}

	cases := map[string]func(*Register){
		"soeid":         func(r *Register) { r.SOEID = "A123" },
		"passcode":      func(r *Register) { r.Passcode = "12" },
		"manager_soeid": func(r *Register) { r.ManagerSOEID = "" },
		"":              func(r *Register) { r.JiraToken = "  " },
	}
	for want, mutate := range cases {
		f := validRegister()
		mutate(&f)
		_, err := f.Request()
		if got := fieldOf(t, err); got != want {
			t.Fatalf("expected field %q, got %q (%v)", want, got, err)
		}
	}
}

func TestNewCreateReleaseDefaultsToToday(t *testing.T) {
	f := NewCreateRelease(time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC))
	if f.StartDate != "2025-03-09" || f.EndDate != "2025-03-09" {
		t.Fatalf("unexpected defaults: %+v", f)
	}
}

func TestCreateReleaseRequest(t *testing.T) {
	f := CreateRelease{
		Name:             " Release\u200b 3.0 ",
		BuildRelease:     "BUILD-3",
		StartDate:        "2025-01-01",
		EndDate:          "2025-01-01",
		LoadTestPhases:   "2",
		SanityTestPhases: " 1 ",
	}
	got, err := f.Request("7", "AB12345")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := models.CreateReleaseRequest{
		ProjectID:    "7",
		ReleaseName:  "Release 3.0",
		BuildRelease: "BUILD-3",
		StartDate:    "2025-01-01",
		EndDate:      "2025-01-01",
		Phases:       models.Phases{LoadTest: 2, SanityTest: 1},
		UserSOEID:    "AB12345",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateReleaseValidation(t *testing.T) {
	base := CreateRelease{Name: "R", BuildRelease: "B", StartDate: "2025-01-02", EndDate: "2025-02-01"}
	cases := []struct {
		name   string
		mutate func(*CreateRelease)
		field  string
	}{
		{"missing name", func(f *CreateRelease) { f.Name = "\u200b " }, "release_name"},
		{"missing build", func(f *CreateRelease) { f.BuildRelease = "" }, "build_release"},
		{"invalid name encoding", func(f *CreateRelease) { f.Name = "\xff\xff" }, "release_name"},
		{"invalid build encoding", func(f *CreateRelease) { f.BuildRelease = "B-\xfe" }, "build_release"},
		{"missing end", func(f *CreateRelease) { f.EndDate = "" }, "start_date"},
		{"bad start", func(f *CreateRelease) { f.StartDate = "01/02/2025" }, "start_date"},
		{"bad end", func(f *CreateRelease) { f.EndDate = "2025-13-01" }, "end_date"},
		{"start after end", func(f *CreateRelease) { f.StartDate = "2025-03-01" }, "start_date"},
		{"previous required", func(f *CreateRelease) { f.UsePreviousStructure = true }, "previous_build_release"},
		{"invalid previous encoding", func(f *CreateRelease) {
			f.UsePreviousStructure = true
			f.PreviousBuildRelease = "\xffB"
		}, "previous_build_release"},
		{"negative phase", func(f *CreateRelease) { f.EnduranceTestPhases = "-1" }, "endurance_test"},
		{"non-numeric phase", func(f *CreateRelease) { f.StandaloneTestPhases = "two" }, "standalone_test"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := base
			tc.mutate(&f)
			before := f
			_, err := f.Request("1", "AB12345")
			if got := fieldOf(t, err); got != tc.field {
				t.Fatalf("expected field %q, got %q (%v)", tc.field, got, err)
			}
			if f != before {
				t.Fatalf("form mutated by validation")
			}
		})
	}
}

func TestUsePreviousStructureToggle(t *testing.T) {
	f := CreateRelease{Name: "R", BuildRelease: "B", StartDate: "2025-01-01", EndDate: "2025-01-01"}
	f.SetUsePreviousStructure(true)
	f.PreviousBuildRelease = "BUILD-2"
	req, err := f.Request("1", "AB12345")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !req.UsePreviousStructure || req.PreviousBuildRelease != "BUILD-2" {
		t.Fatalf("unexpected request: %+v", req)
	}
	f.SetUsePreviousStructure(false)
	if f.PreviousBuildRelease != "" {
		t.Fatalf("expected previous build release cleared")
	}
}

func TestCreateReleaseRejectsInvalidEncoding(t *testing.T) {
	f := CreateRelease{Name: "\xff\xff", BuildRelease: "B", StartDate: "2025-01-01", EndDate: "2025-01-01"}
	_, err := f.Request("1", "AB12345")
	if err == nil || err.Error() != "Release name contains invalid encoding" {
		t.Fatalf("unexpected error: %v", err)
	}
}
