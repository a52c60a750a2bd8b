// Package models holds the wire and domain types shared across cqe.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ID is an opaque identifier issued by the backend. The backend types ids as
// integers but the client never does arithmetic on them.
type ID string

// UnmarshalJSON accepts both JSON numbers and strings.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON emits all-digit ids as numbers and anything else as a string.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) numeric() bool {
	if id == "" || len(id) > 18 {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (id ID) String() string { return string(id) }

// Project is a test-management project visible to the user.
type Project struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// UnmarshalJSON accepts {id,name}, the dropdown shape {value,label} and
// {project_id,project_name}.
func (p *Project) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID          ID     `json:"id"`
		Name        string `json:"name"`
		Value       ID     `json:"value"`
		Label       string `json:"label"`
		ProjectID   ID     `json:"project_id"`
		ProjectName string `json:"project_name"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	p.ID = firstID(raw.ID, raw.Value, raw.ProjectID)
	p.Name = firstString(raw.Name, raw.Label, raw.ProjectName)
	return nil
}

// Release belongs to exactly one project.
type Release struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	ProjectID ID     `json:"project_id,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// UnmarshalJSON accepts {id,name}, {value,label} and
// {release_id,release_name}.
func (r *Release) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID          ID     `json:"id"`
		Name        string `json:"name"`
		Value       ID     `json:"value"`
		Label       string `json:"label"`
		ReleaseID   ID     `json:"release_id"`
		ReleaseName string `json:"release_name"`
		ProjectID   ID     `json:"project_id"`
		StartDate   string `json:"start_date"`
		EndDate     string `json:"end_date"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	r.ID = firstID(raw.ID, raw.Value, raw.ReleaseID)
	r.Name = firstString(raw.Name, raw.Label, raw.ReleaseName)
	r.ProjectID = raw.ProjectID
	r.StartDate = raw.StartDate
	r.EndDate = raw.EndDate
	return nil
}

// User is the profile returned by a successful login.
type User struct {
	ID          ID     `json:"user_id,omitempty"`
	SOEID       string `json:"soeid"`
	Name        string `json:"name,omitempty"`
	Role        string `json:"role,omitempty"`
	TeamID      string `json:"team_id,omitempty"`
	ProjectList string `json:"project_list,omitempty"`
}

// Key returns the identifier used to look up the user's projects.
func (u User) Key() string {
	if u.ID != "" {
		return u.ID.String()
	}
	return u.SOEID
}

// Display returns a short label for navbars and whoami output.
func (u User) Display() string {
	if u.Name != "" && !strings.EqualFold(u.Name, u.SOEID) {
		return fmt.Sprintf("%s (%s)", u.Name, u.SOEID)
	}
	return u.SOEID
}

// Phases holds the number of test phases to create per phase type.
type Phases struct {
	LoadTest       int `json:"load_test"`
	EnduranceTest  int `json:"endurance_test"`
	SanityTest     int `json:"sanity_test"`
	StandaloneTest int `json:"standalone_test"`
}

// CreateReleaseRequest is the body of POST /api/zephyr/create-release.
type CreateReleaseRequest struct {
	ProjectID            ID     `json:"project_id"`
	ReleaseName          string `json:"release_name"`
	BuildRelease         string `json:"build_release"`
	StartDate            string `json:"start_date"`
	EndDate              string `json:"end_date"`
	UsePreviousStructure bool   `json:"use_previous_structure"`
	PreviousBuildRelease string `json:"previous_build_release"`
	Phases               Phases `json:"phases"`
	UserSOEID            string `json:"user_soeid"`
}

// RequirementRow maps a Jira query to a Zephyr requirement folder.
type RequirementRow struct {
	FolderName string `json:"folder_name" yaml:"folder_name"`
	JQL        string `json:"jql" yaml:"jql"`
}

// ImportRequirementsRequest is the body of POST /api/zephyr/import-requirements.
type ImportRequirementsRequest struct {
	ReleaseID    ID               `json:"release_id"`
	ProjectID    ID               `json:"project_id"`
	Requirements []RequirementRow `json:"requirements"`
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	SOEID        string `json:"soeid"`
	FullName     string `json:"full_name"`
	Passcode     string `json:"passcode"`
	ZephyrToken  string `json:"zephyr_token"`
	JiraToken    string `json:"jira_token"`
	ProjectID    string `json:"project_id"`
	ProjectName  string `json:"project_name"`
	ManagerSOEID string `json:"manager_soeid"`
}

// ZephyrStats are the counters on the Zephyr dashboard.
type ZephyrStats struct {
	TotalTestCases int `json:"total_test_cases"`
	ExecutionRate  int `json:"execution_rate"`
	PassRate       int `json:"pass_rate"`
	OpenDefects    int `json:"open_defects"`
	ActiveCycles   int `json:"active_cycles"`
	Requirements   int `json:"requirements"`
}

// JiraStats are the counters on the Jira dashboard.
type JiraStats struct {
	OpenIssues     int `json:"open_issues"`
	InProgress     int `json:"in_progress"`
	Resolved       int `json:"resolved"`
	BacklogItems   int `json:"backlog_items"`
	SprintProgress int `json:"sprint_progress"`
	TeamVelocity   int `json:"team_velocity"`
}

func firstID(ids ...ID) ID {
	for _, id := range ids {
		if id != "" {
			return id
		}
	}
	return ""
}

func firstString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}
