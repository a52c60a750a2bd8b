package ui

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	cqeerrors "github.com/VoxDroid/cqe/internal/errors"
	"github.com/VoxDroid/cqe/internal/models"
	"github.com/VoxDroid/cqe/internal/tui/adapters"
	modelpkg "github.com/VoxDroid/cqe/internal/tui/model"
)

type fakeBackend struct {
	mu       sync.Mutex
	projects []models.Project
	releases map[models.ID][]models.Release
	created  []models.CreateReleaseRequest
	imported []models.ImportRequirementsRequest
	statsErr error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		projects: []models.Project{{ID: "1", Name: "CQE Platform"}, {ID: "2", Name: "Performance Testing"}},
		releases: map[models.ID][]models.Release{
			"1": {{ID: "10", Name: "Release v2.5.0", StartDate: "2024-01-01", EndDate: "2024-03-31"}},
			"2": {{ID: "20", Name: "Load Q1"}, {ID: "21", Name: "Load Q2"}},
		},
	}
}

func (f *fakeBackend) Login(_ context.Context, soeid, passcode string) (models.User, string, error) {
	if passcode != "1234" {
		return models.User{}, "", cqeerrors.NewNetworkError("login", 401, "Invalid SOEID or passcode", nil)
	}
	return models.User{ID: "1", SOEID: soeid, Name: "Demo User"}, "tok", nil
}

func (f *fakeBackend) SetToken(string) {}

func (f *fakeBackend) Projects(context.Context, models.User) ([]models.Project, error) {
	return f.projects, nil
}

func (f *fakeBackend) Releases(_ context.Context, id models.ID) ([]models.Release, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.releases[id], nil
}

func (f *fakeBackend) CreateRelease(_ context.Context, req models.CreateReleaseRequest) (models.ID, error) {
	f.created = append(f.created, req)
	return "99", nil
}

func (f *fakeBackend) ImportRequirements(_ context.Context, req models.ImportRequirementsRequest) error {
	f.imported = append(f.imported, req)
	return nil
}

func (f *fakeBackend) Stats(context.Context, models.ID, models.ID) (adapters.Stats, error) {
	if f.statsErr != nil {
		return adapters.Stats{}, f.statsErr
	}
	return adapters.Stats{
		Zephyr: models.ZephyrStats{TotalTestCases: 1245, ExecutionRate: 87, PassRate: 92, OpenDefects: 17, ActiveCycles: 3, Requirements: 156},
		Jira:   models.JiraStats{OpenIssues: 42, InProgress: 28, Resolved: 134, BacklogItems: 89, SprintProgress: 67, TeamVelocity: 45},
	}, nil
}

type fakeStore struct{ sess adapters.Session }

func (s *fakeStore) Load(context.Context) (adapters.Session, error) { return s.sess, nil }

func (s *fakeStore) SaveLogin(_ context.Context, u models.User, tok string) error {
	s.sess = adapters.Session{User: u, Token: tok}
	return nil
}

func (s *fakeStore) SaveSelection(_ context.Context, p *models.Project, r *models.Release) error {
	s.sess.Project, s.sess.Release = p, r
	return nil
}

func (s *fakeStore) Clear(context.Context) error {
	s.sess = adapters.Session{}
	return nil
}

// newLoggedIn returns a dashboard model backed by a mounted session.
func newLoggedIn(t *testing.T) (*TuiModel, *fakeBackend, *fakeStore) {
	t.Helper()
	b := newFakeBackend()
	s := &fakeStore{sess: adapters.Session{User: models.User{ID: "1", SOEID: "AB12345", Name: "Demo User"}, Token: "tok"}}
	ui := modelpkg.New(b, s)
	if _, _, err := ui.Mount(context.Background()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	m := NewModel(ui)
	return run(t, m, m.Init()), b, s
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends keys one after another and runs the fetches they start.
func press(t *testing.T, m *TuiModel, keys ...string) *TuiModel {
	t.Helper()
	for _, k := range keys {
		m1, cmd := m.Update(keyMsg(k))
		m = run(t, m1.(*TuiModel), cmd)
	}
	return m
}

// run executes cmd and feeds release and stats results back into m.
func run(t *testing.T, m *TuiModel, cmd tea.Cmd) *TuiModel {
	t.Helper()
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case releasesMsg, statsMsg:
		m1, next := m.Update(msg)
		return run(t, m1.(*TuiModel), next)
	case tea.BatchMsg:
		for _, c := range msg {
			m = run(t, m, c)
		}
	}
	return m
}
