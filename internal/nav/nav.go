// Package nav implements the project/release selection and view routing
// of the dashboard as an explicit state machine.
//
// A Machine is owned by a single goroutine (the TUI update loop or a CLI
// command) and is not safe for concurrent use. Release lists are fetched
// elsewhere; each fetch carries the Ticket issued when it was requested,
// and results whose ticket no longer matches the selection are discarded.
package nav

import (
	"fmt"

	cqeerrors "github.com/VoxDroid/cqe/internal/errors"
	"github.com/VoxDroid/cqe/internal/models"
)

// View is the panel shown in the main area of the dashboard.
type View int

const (
	Dashboard View = iota
	CreateRelease
	ImportRequirements
)

func (v View) String() string {
	switch v {
	case CreateRelease:
		return "create-release"
	case ImportRequirements:
		return "import-requirements"
	default:
		return "dashboard"
	}
}

// Tab is the top-level dashboard tab.
type Tab int

const (
	Zephyr Tab = iota
	Jira
)

func (t Tab) String() string {
	if t == Jira {
		return "jira"
	}
	return "zephyr"
}

// ParseTab parses "zephyr" or "jira".
func ParseTab(s string) (Tab, error) {
	switch s {
	case "zephyr", "":
		return Zephyr, nil
	case "jira":
		return Jira, nil
	}
	return Zephyr, fmt.Errorf("unknown tab %q (want zephyr or jira)", s)
}

// Selection is a snapshot of the machine state.
type Selection struct {
	Project *models.Project
	Release *models.Release
	View    View
	Tab     Tab
}

// HasProject reports whether a project is selected.
func (s Selection) HasProject() bool { return s.Project != nil }

// HasRelease reports whether a release is selected.
func (s Selection) HasRelease() bool { return s.Release != nil }

// Ticket identifies one release-list fetch. Only the ticket of the latest
// fetch for the current project is accepted.
type Ticket struct {
	ProjectID models.ID
	gen       uint64
}

// Machine is the selection and navigation state machine.
type Machine struct {
	project *models.Project
	release *models.Release
	view    View
	tab     Tab

	releases []models.Release
	loading  bool
	fetchErr error
	stale    bool
	gen      uint64

	expanded string

	subs    []subscriber
	nextSub int
}

// New returns an empty machine showing tab.
func New(tab Tab) *Machine {
	return &Machine{tab: tab}
}

// Selection returns a snapshot of the current state.
func (m *Machine) Selection() Selection {
	s := Selection{View: m.view, Tab: m.tab}
	if m.project != nil {
		p := *m.project
		s.Project = &p
	}
	if m.release != nil {
		r := *m.release
		s.Release = &r
	}
	return s
}

// Project returns the selected project.
func (m *Machine) Project() (models.Project, bool) {
	if m.project == nil {
		return models.Project{}, false
	}
	return *m.project, true
}

// Release returns the selected release.
func (m *Machine) Release() (models.Release, bool) {
	if m.release == nil {
		return models.Release{}, false
	}
	return *m.release, true
}

// View returns the active view.
func (m *Machine) View() View { return m.view }

// Tab returns the active tab.
func (m *Machine) Tab() Tab { return m.tab }

// Releases returns the latched release list of the current project.
func (m *Machine) Releases() []models.Release {
	return append([]models.Release(nil), m.releases...)
}

// Loading reports whether a release fetch is outstanding.
func (m *Machine) Loading() bool { return m.loading }

// FetchErr returns the error of the last failed release fetch for the
// current project, if any.
func (m *Machine) FetchErr() error { return m.fetchErr }

// Stale reports whether data was invalidated by a completed action and has
// not been reloaded since.
func (m *Machine) Stale() bool { return m.stale }

// SelectProject selects p, clears the release and the release list, and
// returns to the dashboard view. The returned ticket must accompany the
// release fetch for p.
func (m *Machine) SelectProject(p models.Project) Ticket {
	m.project = &p
	m.release = nil
	m.view = Dashboard
	m.expanded = ""
	t := m.issue()
	m.emit(Event{Kind: ProjectChanged})
	return t
}

// SelectRelease selects r within the current project and returns to the
// dashboard view. Without a selected project it fails with an
// *errors.InvalidStateError and changes nothing.
func (m *Machine) SelectRelease(r models.Release) error {
	if m.project == nil {
		return cqeerrors.NewInvalidStateError("select release", cqeerrors.ErrNoProject)
	}
	if r.ProjectID != "" && r.ProjectID != m.project.ID {
		return cqeerrors.NewInvalidStateError("select release",
			fmt.Errorf("release %s belongs to project %s, not %s", r.ID, r.ProjectID, m.project.ID))
	}
	if r.ProjectID == "" {
		r.ProjectID = m.project.ID
	}
	m.release = &r
	m.view = Dashboard
	m.emit(Event{Kind: ReleaseChanged})
	return nil
}

// Invoke routes a menu action. It returns false and changes nothing when
// the action's prerequisite is not met.
func (m *Machine) Invoke(id ActionID) bool {
	if !m.Enabled(id) {
		return false
	}
	switch id {
	case ActionCreateRelease:
		m.view = CreateRelease
	case ActionImportRequirements:
		m.view = ImportRequirements
	default:
		m.view = Dashboard
	}
	m.emit(Event{Kind: ViewChanged})
	return true
}

// Enabled reports whether the action's prerequisite is met.
func (m *Machine) Enabled(id ActionID) bool {
	switch Requires(id) {
	case NeedsProject:
		return m.project != nil
	case NeedsRelease:
		return m.project != nil && m.release != nil
	default:
		return true
	}
}

// CompleteAction returns to the dashboard after a form finished
// successfully and marks the fetched data stale. The selection is kept.
// Nothing is refetched; callers decide when to Reload.
func (m *Machine) CompleteAction() {
	m.view = Dashboard
	m.stale = true
	m.emit(Event{Kind: Invalidated})
}

// Cancel leaves an open form without submitting it. The selection and the
// fetched data are kept.
func (m *Machine) Cancel() {
	if m.view == Dashboard {
		return
	}
	m.view = Dashboard
	m.emit(Event{Kind: ViewChanged})
}

// SetTab switches the dashboard tab and returns to the dashboard view.
func (m *Machine) SetTab(t Tab) {
	m.tab = t
	m.view = Dashboard
	m.expanded = ""
	m.emit(Event{Kind: TabChanged})
}

// Reload issues a new ticket for the current project without changing the
// selection. Any outstanding fetch is superseded. It returns false when no
// project is selected.
func (m *Machine) Reload() (Ticket, bool) {
	if m.project == nil {
		return Ticket{}, false
	}
	m.stale = false
	return m.issue(), true
}

// Hydrate restores a persisted selection. A release without a project is
// dropped. When a project is restored the returned ticket must accompany
// the release fetch for it.
func (m *Machine) Hydrate(p *models.Project, r *models.Release) (Ticket, bool) {
	if p == nil {
		return Ticket{}, false
	}
	pc := *p
	m.project = &pc
	m.release = nil
	if r != nil && (r.ProjectID == "" || r.ProjectID == p.ID) {
		rc := *r
		rc.ProjectID = p.ID
		m.release = &rc
	}
	m.view = Dashboard
	t := m.issue()
	m.emit(Event{Kind: ProjectChanged})
	return t, true
}

// Reset empties the selection, as on logout. The tab is kept.
func (m *Machine) Reset() {
	m.project = nil
	m.release = nil
	m.view = Dashboard
	m.releases = nil
	m.loading = false
	m.fetchErr = nil
	m.stale = false
	m.expanded = ""
	m.gen++
	m.emit(Event{Kind: Reset})
}

// ApplyReleases latches a fetched release list if t is current. A selected
// release that is missing from the list is cleared.
func (m *Machine) ApplyReleases(t Ticket, releases []models.Release) bool {
	if !m.current(t) {
		return false
	}
	m.loading = false
	m.fetchErr = nil
	m.releases = make([]models.Release, len(releases))
	for i, r := range releases {
		if r.ProjectID == "" {
			r.ProjectID = t.ProjectID
		}
		m.releases[i] = r
	}
	if m.release != nil && !containsRelease(m.releases, m.release.ID) {
		m.release = nil
		m.view = Dashboard
		m.emit(Event{Kind: ReleaseChanged})
	}
	m.emit(Event{Kind: ReleasesLoaded})
	return true
}

// FailReleases records a failed fetch if t is current. The release list is
// left empty.
func (m *Machine) FailReleases(t Ticket, err error) bool {
	if !m.current(t) {
		return false
	}
	m.loading = false
	m.releases = nil
	m.fetchErr = err
	m.emit(Event{Kind: ReleasesFailed, Err: err})
	return true
}

// FindRelease looks up a release of the latched list by id or name.
func (m *Machine) FindRelease(key string) (models.Release, bool) {
	for _, r := range m.releases {
		if r.ID.String() == key {
			return r, true
		}
	}
	for _, r := range m.releases {
		if r.Name == key {
			return r, true
		}
	}
	return models.Release{}, false
}

func (m *Machine) issue() Ticket {
	m.gen++
	m.releases = nil
	m.fetchErr = nil
	m.loading = true
	return Ticket{ProjectID: m.project.ID, gen: m.gen}
}

func (m *Machine) current(t Ticket) bool {
	return m.project != nil && m.loading && t.gen == m.gen && t.ProjectID == m.project.ID
}

func containsRelease(rs []models.Release, id models.ID) bool {
	for _, r := range rs {
		if r.ID == id {
			return true
		}
	}
	return false
}
