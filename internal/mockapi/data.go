package mockapi

import (
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Demo credentials seeded into every server.
const (
	DemoSOEID    = "AB12345"
	DemoPasscode = "1234"
)

type account struct {
	ID       int
	SOEID    string
	Name     string
	Passcode string
	Role     string
	TeamID   string
}

type project struct {
	ID   int
	Name string
}

type release struct {
	ID                   int
	ProjectID            int
	Name                 string
	BuildRelease         string
	StartDate            string
	EndDate              string
	UsePreviousStructure bool
	PreviousBuildRelease string
	Phases               map[string]int
	CreatedBy            string
	CreatedAt            time.Time
}

type importJob struct {
	ReleaseID int
	ProjectID int
	Rows      int
	At        time.Time
}

// data is the in-memory backing store of the mock backend.
type data struct {
	mu       sync.Mutex
	accounts map[string]*account // by SOEID
	tokens   map[string]string   // token -> SOEID
	projects []project
	releases []*release
	imports  []importJob
}

func seed() *data {
	d := &data{
		accounts: map[string]*account{},
		tokens:   map[string]string{},
		projects: []project{
			{1, "CQE Platform"},
			{2, "Test Automation Suite"},
			{3, "Performance Testing"},
			{4, "API Testing Framework"},
			{5, "Mobile App Testing"},
		},
	}
	d.accounts[DemoSOEID] = &account{ID: 1, SOEID: DemoSOEID, Name: "Demo User", Passcode: DemoPasscode, Role: "Developer", TeamID: "TEAM-A"}
	created := time.Date(2024, 10, 1, 10, 0, 0, 0, time.UTC)
	for _, r := range []release{
		{ID: 1, ProjectID: 1, Name: "Release v2.5.0", BuildRelease: "BUILD-2024-050", StartDate: "2024-10-01", EndDate: "2024-12-31"},
		{ID: 2, ProjectID: 1, Name: "Release v2.4.1", BuildRelease: "BUILD-2024-041", StartDate: "2024-07-01", EndDate: "2024-09-30"},
		{ID: 3, ProjectID: 1, Name: "Release v2.4.0", BuildRelease: "BUILD-2024-040", StartDate: "2024-04-01", EndDate: "2024-06-30"},
		{ID: 4, ProjectID: 2, Name: "Automation v3.0", StartDate: "2024-09-01", EndDate: "2024-11-30"},
		{ID: 5, ProjectID: 2, Name: "Automation v2.8", StartDate: "2024-06-01", EndDate: "2024-08-31"},
		{ID: 6, ProjectID: 3, Name: "Perf Test Q4", StartDate: "2024-10-01", EndDate: "2024-12-31"},
		{ID: 7, ProjectID: 4, Name: "API Test v1.5", StartDate: "2024-08-01", EndDate: "2024-10-31"},
		{ID: 8, ProjectID: 5, Name: "Mobile v2.0", StartDate: "2024-09-15", EndDate: "2024-12-15"},
	} {
		r := r
		r.CreatedBy = "SYSTEM"
		r.CreatedAt = created
		d.releases = append(d.releases, &r)
	}
	return d
}

func (d *data) login(soeid, passcode string) (*account, string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	a, ok := d.accounts[soeid]
	if !ok || a.Passcode != passcode {
		return nil, "", false
	}
	tok := uuid.NewString()
	d.tokens[tok] = a.SOEID
	return a, tok, true
}

func (d *data) authorized(tok string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.tokens[tok]
	return ok
}

func (d *data) register(a account) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.accounts[a.SOEID]; ok {
		return fmt.Errorf("User with this SOEID already exists")
	}
	a.ID = len(d.accounts) + 1
	d.accounts[a.SOEID] = &a
	return nil
}

func (d *data) projectExists(id int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range d.projects {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (d *data) listProjects() []project {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]project(nil), d.projects...)
}

// releasesFor returns the releases of a project, newest first.
func (d *data) releasesFor(projectID int) []release {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []release
	for _, r := range d.releases {
		if r.ProjectID == projectID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (d *data) addRelease(r release) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	next := 1
	for _, existing := range d.releases {
		if existing.ID >= next {
			next = existing.ID + 1
		}
	}
	r.ID = next
	r.CreatedAt = time.Now().UTC()
	d.releases = append(d.releases, &r)
	return next
}

func (d *data) releaseInProject(releaseID, projectID int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, r := range d.releases {
		if r.ID == releaseID {
			return r.ProjectID == projectID
		}
	}
	return false
}

func (d *data) recordImport(j importJob) {
	d.mu.Lock()
	defer d.mu.Unlock()
	j.At = time.Now().UTC()
	d.imports = append(d.imports, j)
}

func (d *data) importCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.imports)
}

func atoiID(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return n, nil
}
