// Package model provides a framework-agnostic UI model built on top of
// adapter interfaces so the TUI code can remain presentation-focused.
//
// A UIModel is owned by one goroutine. FetchReleases and Stats only talk
// to the backend and may run elsewhere; their results are handed back
// through ApplyReleases on the owning goroutine.
package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"

	cqeerrors "github.com/VoxDroid/cqe/internal/errors"
	"github.com/VoxDroid/cqe/internal/forms"
	"github.com/VoxDroid/cqe/internal/models"
	"github.com/VoxDroid/cqe/internal/nav"
	"github.com/VoxDroid/cqe/internal/tui/adapters"
)

// UIModel is the dashboard model. It depends only on adapter interfaces.
type UIModel struct {
	backend adapters.Backend
	store   adapters.SessionStore
	machine *nav.Machine
	logger  *zap.Logger

	user     models.User
	token    string
	projects []models.Project

	notice string
	err    error
	// persistErr is the last failure to save the selection.
	persistErr error
}

// Option customizes a UIModel.
type Option func(*UIModel)

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *UIModel) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithTab sets the tab shown after mount.
func WithTab(t nav.Tab) Option {
	return func(m *UIModel) { m.machine = nav.New(t) }
}

// New constructs a UIModel backed by the provided adapters.
func New(b adapters.Backend, s adapters.SessionStore, opts ...Option) *UIModel {
	m := &UIModel{backend: b, store: s, machine: nav.New(nav.Zephyr), logger: zap.NewNop()}
	for _, o := range opts {
		o(m)
	}
	m.machine.Subscribe(m.persist)
	return m
}

// Machine exposes the selection state machine for rendering.
func (m *UIModel) Machine() *nav.Machine { return m.machine }

// User returns the logged-in user.
func (m *UIModel) User() models.User { return m.user }

// LoggedIn reports whether a session is active.
func (m *UIModel) LoggedIn() bool { return m.token != "" }

// Projects returns the cached project list.
func (m *UIModel) Projects() []models.Project { return m.projects }

// Notice returns the last informational message.
func (m *UIModel) Notice() string { return m.notice }

// Err returns the last user-facing error.
func (m *UIModel) Err() error { return m.err }

// DismissError clears the error line.
func (m *UIModel) DismissError() { m.err = nil }

// ClearNotice clears the informational message.
func (m *UIModel) ClearNotice() { m.notice = "" }

// PersistErr returns the last failure to save the selection, if any.
func (m *UIModel) PersistErr() error { return m.persistErr }

// Mount restores the persisted session: it sets the token, loads the
// project list and hydrates the selection. When a project is restored the
// returned ticket must be used to fetch its releases. Without a stored
// session it returns errors.ErrNotLoggedIn.
func (m *UIModel) Mount(ctx context.Context) (nav.Ticket, bool, error) {
	sess, err := m.store.Load(ctx)
	if err != nil {
		return nav.Ticket{}, false, fmt.Errorf("load session: %w", err)
	}
	if !sess.LoggedIn() {
		return nav.Ticket{}, false, cqeerrors.ErrNotLoggedIn
	}
	m.user, m.token = sess.User, sess.Token
	m.backend.SetToken(sess.Token)

	if err := m.RefreshProjects(ctx); err != nil {
		m.err = err
	}
	project := sess.Project
	if project != nil {
		if p, ok := m.findProject(project.ID); ok {
			project = &p
		} else if len(m.projects) > 0 {
			// project no longer visible to the user
			project = nil
			if err := m.store.SaveSelection(ctx, nil, nil); err != nil {
				m.persistErr = err
			}
		}
	}
	t, ok := m.machine.Hydrate(project, sess.Release)
	m.logger.Debug("mounted", zap.String("user", m.user.SOEID), zap.Bool("project", ok))
	return t, ok, nil
}

// Login authenticates, persists the session and loads the project list.
func (m *UIModel) Login(ctx context.Context, f forms.Login) error {
	soeid, err := f.Validate()
	if err != nil {
		m.err = err
		return err
	}
	u, tok, err := m.backend.Login(ctx, soeid, f.Passcode)
	if err != nil {
		m.err = err
		return err
	}
	if err := m.store.SaveLogin(ctx, u, tok); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	m.user, m.token = u, tok
	m.backend.SetToken(tok)
	m.machine.Reset()
	m.err = nil
	m.notice = "Welcome, " + u.Display()
	m.logger.Info("logged in", zap.String("soeid", u.SOEID))
	if err := m.RefreshProjects(ctx); err != nil {
		m.err = err
	}
	return nil
}

// Logout clears the stored session and the selection.
func (m *UIModel) Logout(ctx context.Context) error {
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	m.user, m.token = models.User{}, ""
	m.projects = nil
	m.backend.SetToken("")
	m.machine.Reset()
	m.err, m.notice = nil, ""
	return nil
}

// RefreshProjects reloads the project list of the user.
func (m *UIModel) RefreshProjects(ctx context.Context) error {
	ps, err := m.backend.Projects(ctx, m.user)
	if err != nil {
		return err
	}
	m.projects = ps
	return nil
}

// FilterProjects returns the projects whose name fuzzily matches query,
// best match first. An empty query returns every project.
func (m *UIModel) FilterProjects(query string) []models.Project {
	return FilterProjects(m.projects, query)
}

// SelectProject selects p and returns the ticket for its release fetch.
func (m *UIModel) SelectProject(p models.Project) nav.Ticket {
	m.err = nil
	return m.machine.SelectProject(p)
}

// FetchReleases asks the backend for the releases of the ticket's project.
// It does not touch the model and may run on any goroutine.
func (m *UIModel) FetchReleases(ctx context.Context, t nav.Ticket) ([]models.Release, error) {
	return m.backend.Releases(ctx, t.ProjectID)
}

// ApplyReleases hands a fetch result to the machine. Stale results are
// dropped; failures become the visible error.
func (m *UIModel) ApplyReleases(t nav.Ticket, releases []models.Release, err error) bool {
	if err != nil {
		if !m.machine.FailReleases(t, err) {
			return false
		}
		m.err = err
		m.logger.Warn("release fetch failed", zap.String("project", t.ProjectID.String()), zap.Error(err))
		return true
	}
	return m.machine.ApplyReleases(t, releases)
}

// SelectRelease selects r in the current project.
func (m *UIModel) SelectRelease(r models.Release) error {
	return m.machine.SelectRelease(r)
}

// Invoke routes a sidebar action. Entries that only announce a future
// feature leave a notice.
func (m *UIModel) Invoke(id nav.ActionID) bool {
	if !m.machine.Invoke(id) {
		return false
	}
	m.notice = ""
	if a, ok := nav.LookupAction(id); ok && !a.Implemented {
		m.notice = a.Label + " will be available in a future release"
	}
	return true
}

// SubmitCreateRelease validates f and creates the release in the selected
// project. On success the dashboard is shown again and the release list is
// marked stale; on failure the form stays open.
func (m *UIModel) SubmitCreateRelease(ctx context.Context, f forms.CreateRelease) (models.ID, error) {
	p, ok := m.machine.Project()
	if !ok {
		return "", cqeerrors.NewInvalidStateError("create release", cqeerrors.ErrNoProject)
	}
	req, err := f.Request(p.ID, m.user.SOEID)
	if err != nil {
		m.err = err
		return "", err
	}
	id, err := m.backend.CreateRelease(ctx, req)
	if err != nil {
		m.err = err
		return "", err
	}
	m.err = nil
	m.notice = fmt.Sprintf("Release %q created successfully! Release ID: %s", req.ReleaseName, id)
	m.machine.CompleteAction()
	return id, nil
}

// SubmitImportRequirements validates f and imports the rows into the
// selected release. It returns the number of rows submitted.
func (m *UIModel) SubmitImportRequirements(ctx context.Context, f forms.ImportRequirements) (int, error) {
	p, okP := m.machine.Project()
	r, okR := m.machine.Release()
	if !okP || !okR {
		return 0, cqeerrors.NewInvalidStateError("import requirements", cqeerrors.ErrNoRelease)
	}
	req, err := f.Request(p.ID, r.ID)
	if err != nil {
		m.err = err
		return 0, err
	}
	if err := m.backend.ImportRequirements(ctx, req); err != nil {
		m.err = err
		return 0, err
	}
	n := len(req.Requirements)
	m.err = nil
	m.notice = fmt.Sprintf("Successfully imported %d requirement(s)", n)
	m.machine.CompleteAction()
	return n, nil
}

// CancelAction closes the open form. Errors raised by it are dropped.
func (m *UIModel) CancelAction() {
	m.err = nil
	m.machine.Cancel()
}

// ClearSelection forgets the selected project and release.
func (m *UIModel) ClearSelection() { m.machine.Reset() }

// Reload refetches the release list of the selected project.
func (m *UIModel) Reload() (nav.Ticket, bool) { return m.machine.Reload() }

// StatsRequest returns the ids needed to fetch dashboard statistics.
func (m *UIModel) StatsRequest() (models.ID, models.ID, bool) {
	p, okP := m.machine.Project()
	r, okR := m.machine.Release()
	if !okP || !okR {
		return "", "", false
	}
	return p.ID, r.ID, true
}

// Stats fetches the dashboard counters of the selected release. It may run
// on any goroutine.
func (m *UIModel) Stats(ctx context.Context, projectID, releaseID models.ID) (adapters.Stats, error) {
	return m.backend.Stats(ctx, projectID, releaseID)
}

func (m *UIModel) findProject(id models.ID) (models.Project, bool) {
	for _, p := range m.projects {
		if p.ID == id {
			return p, true
		}
	}
	return models.Project{}, false
}

// persist saves the selection after every change to it.
func (m *UIModel) persist(e nav.Event) {
	switch e.Kind {
	case nav.ProjectChanged, nav.ReleaseChanged, nav.Reset:
	default:
		return
	}
	if !m.LoggedIn() {
		return
	}
	if err := m.store.SaveSelection(context.Background(), e.Selection.Project, e.Selection.Release); err != nil {
		m.persistErr = err
		m.logger.Warn("save selection", zap.Error(err))
		return
	}
	m.persistErr = nil
}

type projectSource []models.Project

func (s projectSource) String(i int) string { return s[i].Name }
func (s projectSource) Len() int            { return len(s) }

// FilterProjects fuzzily matches query against project names.
func FilterProjects(ps []models.Project, query string) []models.Project {
	query = strings.TrimSpace(query)
	if query == "" {
		return append([]models.Project(nil), ps...)
	}
	matches := fuzzy.FindFrom(query, projectSource(ps))
	out := make([]models.Project, 0, len(matches))
	for _, mt := range matches {
		out = append(out, ps[mt.Index])
	}
	return out
}

type releaseSource []models.Release

func (s releaseSource) String(i int) string { return s[i].Name }
func (s releaseSource) Len() int            { return len(s) }

// FilterReleases fuzzily matches query against release names.
func FilterReleases(rs []models.Release, query string) []models.Release {
	query = strings.TrimSpace(query)
	if query == "" {
		return append([]models.Release(nil), rs...)
	}
	matches := fuzzy.FindFrom(query, releaseSource(rs))
	out := make([]models.Release, 0, len(matches))
	for _, mt := range matches {
		out = append(out, rs[mt.Index])
	}
	return out
}
