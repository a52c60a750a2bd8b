// Package forms holds the input forms of the dashboard and turns them into
// API requests. Validation failures are *errors.ValidationError values; a
// form is never modified by a failed validation, so callers can show the
// error and let the user correct the input.
package forms

import (
	"strconv"
	"strings"
	"time"

	cqeerrors "github.com/VoxDroid/cqe/internal/errors"
	"github.com/VoxDroid/cqe/internal/models"
	"github.com/VoxDroid/cqe/internal/nameutil"
	"github.com/VoxDroid/cqe/internal/user"
)

// DateLayout is the calendar date format the backend expects.
const DateLayout = time.DateOnly

// Login is the sign-in form.
type Login struct {
	SOEID    string
	Passcode string
}

// Validate checks the login form and returns the normalized SOEID.
func (f Login) Validate() (string, error) {
	soeid := user.NormalizeSOEID(f.SOEID)
	if soeid == "" {
		return "", cqeerrors.NewValidationError("soeid", "Please enter your SOEID")
	}
	if !user.ValidPasscode(f.Passcode) {
		return "", cqeerrors.NewValidationError("passcode", "Passcode must be exactly 4 digits")
	}
	return soeid, nil
}

// Register is the account registration form.
type Register struct {
	SOEID        string
	FullName     string
	Passcode     string
	ZephyrToken  string
	JiraToken    string
	ProjectID    string
	ProjectName  string
	ManagerSOEID string
}

// Request validates the form and builds the registration request.
func (f Register) Request() (models.RegisterRequest, error) {
	if !user.ValidSOEID(f.SOEID) {
		return models.RegisterRequest{}, cqeerrors.NewValidationError("soeid", "SOEID must be in format: 2 letters + 5 digits (e.g., AB12345)")
	}
	if !user.ValidPasscode(f.Passcode) {
		return models.RegisterRequest{}, cqeerrors.NewValidationError("passcode", "Passcode must be exactly 4 digits")
	}
	if !user.ValidSOEID(f.ManagerSOEID) {
		return models.RegisterRequest{}, cqeerrors.NewValidationError("manager_soeid", "Manager SOEID must be in format: 2 letters + 5 digits (e.g., AB12345)")
	}
	req := models.RegisterRequest{
		SOEID:        user.NormalizeSOEID(f.SOEID),
		FullName:     strings.TrimSpace(f.FullName),
		Passcode:     f.Passcode,
		ZephyrToken:  strings.TrimSpace(f.ZephyrToken),
		JiraToken:    strings.TrimSpace(f.JiraToken),
		ProjectID:    strings.TrimSpace(f.ProjectID),
		ProjectName:  strings.TrimSpace(f.ProjectName),
		ManagerSOEID: user.NormalizeSOEID(f.ManagerSOEID),
	}
	for _, v := range []string{req.FullName, req.ZephyrToken, req.JiraToken, req.ProjectID, req.ProjectName} {
		if v == "" {
			return models.RegisterRequest{}, cqeerrors.NewValidationError("", "All fields are required")
		}
	}
	return req, nil
}

// CreateRelease is the Zephyr release creation form. Phase counts are kept
// as typed text; an empty count means zero.
type CreateRelease struct {
	Name                 string
	BuildRelease         string
	StartDate            string
	EndDate              string
	UsePreviousStructure bool
	PreviousBuildRelease string

	LoadTestPhases       string
	EnduranceTestPhases  string
	SanityTestPhases     string
	StandaloneTestPhases string
}

// NewCreateRelease returns an empty form whose dates default to today.
func NewCreateRelease(now time.Time) CreateRelease {
	today := now.Format(DateLayout)
	return CreateRelease{StartDate: today, EndDate: today}
}

// SetUsePreviousStructure toggles reuse of a previous release structure.
// Turning it off clears the previous build release.
func (f *CreateRelease) SetUsePreviousStructure(on bool) {
	f.UsePreviousStructure = on
	if !on {
		f.PreviousBuildRelease = ""
	}
}

// Request validates the form and builds the request for projectID on
// behalf of soeid.
func (f CreateRelease) Request(projectID models.ID, soeid string) (models.CreateReleaseRequest, error) {
	name, err := cleanName("release_name", "Release name", f.Name)
	if err != nil {
		return models.CreateReleaseRequest{}, err
	}
	build, err := cleanName("build_release", "Build/Jira Release", f.BuildRelease)
	if err != nil {
		return models.CreateReleaseRequest{}, err
	}
	startRaw, endRaw := strings.TrimSpace(f.StartDate), strings.TrimSpace(f.EndDate)
	if startRaw == "" || endRaw == "" {
		return models.CreateReleaseRequest{}, cqeerrors.NewValidationError("start_date", "Start date and End date are required")
	}
	start, err := time.Parse(DateLayout, startRaw)
	if err != nil {
		return models.CreateReleaseRequest{}, cqeerrors.NewValidationError("start_date", "Start date must be in YYYY-MM-DD format")
	}
	end, err := time.Parse(DateLayout, endRaw)
	if err != nil {
		return models.CreateReleaseRequest{}, cqeerrors.NewValidationError("end_date", "End date must be in YYYY-MM-DD format")
	}
	if start.After(end) {
		return models.CreateReleaseRequest{}, cqeerrors.NewValidationError("start_date", "Start date cannot be after End date")
	}
	prev := ""
	if f.UsePreviousStructure {
		if strings.TrimSpace(f.PreviousBuildRelease) == "" {
			return models.CreateReleaseRequest{}, cqeerrors.NewValidationError("previous_build_release", "Previous Build Release is required when using previous structure")
		}
		if prev, err = cleanName("previous_build_release", "Previous Build Release", f.PreviousBuildRelease); err != nil {
			return models.CreateReleaseRequest{}, err
		}
	}

	var phases models.Phases
	for _, p := range []struct {
		field string
		raw   string
		dst   *int
	}{
		{"load_test", f.LoadTestPhases, &phases.LoadTest},
		{"endurance_test", f.EnduranceTestPhases, &phases.EnduranceTest},
		{"sanity_test", f.SanityTestPhases, &phases.SanityTest},
		{"standalone_test", f.StandaloneTestPhases, &phases.StandaloneTest},
	} {
		n, ok := phaseCount(p.raw)
		if !ok {
			return models.CreateReleaseRequest{}, cqeerrors.NewValidationError(p.field, "Phase counts must be non-negative whole numbers")
		}
		*p.dst = n
	}

	return models.CreateReleaseRequest{
		ProjectID:            projectID,
		ReleaseName:          name,
		BuildRelease:         build,
		StartDate:            startRaw,
		EndDate:              endRaw,
		UsePreviousStructure: f.UsePreviousStructure,
		PreviousBuildRelease: prev,
		Phases:               phases,
		UserSOEID:            soeid,
	}, nil
}

// phaseCount parses a typed phase count. Empty input is zero.
func phaseCount(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// cleanName strips invisible characters from a typed name and rejects what
// cannot be sent, such as an empty result or invalid UTF-8.
func cleanName(field, label, raw string) (string, error) {
	name, _ := nameutil.SanitizeName(raw)
	if err := nameutil.ValidateName(label, name); err != nil {
		return "", cqeerrors.NewValidationError(field, err.Error())
	}
	return name, nil
}
