package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/VoxDroid/cqe/internal/models"
	"github.com/VoxDroid/cqe/internal/nav"
	modelpkg "github.com/VoxDroid/cqe/internal/tui/model"
)

var fixedNow = time.Date(2024, 5, 6, 9, 30, 0, 0, time.UTC)

func TestStartsOnLoginWithoutSession(t *testing.T) {
	m := NewModel(modelpkg.New(newFakeBackend(), &fakeStore{}))
	if m.login == nil {
		t.Fatalf("expected login screen")
	}
	m = run(t, m, m.Init())
	if m.ui.Machine().Loading() {
		t.Fatalf("expected no startup fetch before login")
	}
	if !strings.Contains(m.View(), "Sign in") {
		t.Fatalf("login view missing title:\n%s", m.View())
	}
}

func TestLogin(t *testing.T) {
	m := NewModel(modelpkg.New(newFakeBackend(), &fakeStore{}))
	m = press(t, m, "AB12345", "enter", "1234", "enter")
	if m.login != nil {
		t.Fatalf("expected dashboard after login, error: %v", m.ui.Err())
	}
	if !m.ui.LoggedIn() {
		t.Fatalf("model not logged in")
	}
	if !strings.Contains(m.View(), "Demo User") {
		t.Fatalf("navbar should show the user:\n%s", m.View())
	}
}

func TestLoginRejected(t *testing.T) {
	m := NewModel(modelpkg.New(newFakeBackend(), &fakeStore{}))
	m = press(t, m, "AB12345", "tab", "9999", "enter")
	if m.login == nil {
		t.Fatalf("expected to stay on login")
	}
	if !strings.Contains(m.View(), "Invalid SOEID or passcode") {
		t.Fatalf("expected rejection message:\n%s", m.View())
	}
	if m.login.inputs[1].Value() != "" {
		t.Fatalf("passcode should be cleared after a failed attempt")
	}

	m = press(t, m, "esc")
	if m.ui.Err() != nil {
		t.Fatalf("esc should dismiss the error")
	}
}

func TestLoginValidation(t *testing.T) {
	m := NewModel(modelpkg.New(newFakeBackend(), &fakeStore{}))
	m = press(t, m, "AB12345", "tab", "12", "enter")
	if !strings.Contains(m.View(), "Passcode must be exactly 4 digits") {
		t.Fatalf("expected passcode validation message:\n%s", m.View())
	}
}

func TestPickProjectAndRelease(t *testing.T) {
	m, _, s := newLoggedIn(t)
	m = press(t, m, "p", "perf", "enter")

	p, ok := m.ui.Machine().Project()
	if !ok || p.ID != "2" {
		t.Fatalf("expected Performance Testing selected, got %+v", p)
	}
	if m.ui.Machine().Loading() {
		t.Fatalf("release fetch not applied")
	}
	if got := len(m.ui.Machine().Releases()); got != 2 {
		t.Fatalf("expected 2 releases got %d", got)
	}
	if !strings.Contains(m.View(), "2 releases available") {
		t.Fatalf("dashboard should prompt for a release:\n%s", m.View())
	}

	m = press(t, m, "r", "down", "enter")
	r, ok := m.ui.Machine().Release()
	if !ok || r.ID != "21" {
		t.Fatalf("expected Load Q2 selected, got %+v", r)
	}
	if m.stats == nil {
		t.Fatalf("expected stats after selecting a release")
	}
	out := m.View()
	for _, want := range []string{"1,245", "87%", "Performance Testing • Load Q2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}
	if s.sess.Release == nil || s.sess.Release.ID != "21" {
		t.Fatalf("selection not persisted: %+v", s.sess.Release)
	}
}

func TestStaleReleaseResponseDropped(t *testing.T) {
	m, _, _ := newLoggedIn(t)
	ui := m.ui

	t1 := ui.SelectProject(models.Project{ID: "1", Name: "CQE Platform"})
	slow := m.fetchReleases(t1)
	t2 := ui.SelectProject(models.Project{ID: "2", Name: "Performance Testing"})
	m = run(t, m, m.fetchReleases(t2))
	m = run(t, m, slow)

	rs := ui.Machine().Releases()
	if len(rs) != 2 || rs[0].ID != "20" {
		t.Fatalf("late response for the previous project leaked in: %+v", rs)
	}
}

func TestReleaseKeyNeedsProject(t *testing.T) {
	m, _, _ := newLoggedIn(t)
	m = press(t, m, "r")
	if m.picker != nil {
		t.Fatalf("release picker opened without a project")
	}
	if !strings.Contains(m.status, "Select a project first") {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestDisabledActionShowsHint(t *testing.T) {
	m, _, _ := newLoggedIn(t)
	m = press(t, m, "enter")
	if m.ui.Machine().View() != nav.Dashboard {
		t.Fatalf("create release opened without a project")
	}
	if m.create != nil {
		t.Fatalf("form should not exist")
	}
	if !strings.Contains(m.View(), "Select a project first") {
		t.Fatalf("expected hint in view:\n%s", m.View())
	}
}

func TestCreateRelease(t *testing.T) {
	m, b, _ := newLoggedIn(t)
	m = press(t, m, "p", "enter")
	m = press(t, m, "enter")
	if m.ui.Machine().View() != nav.CreateRelease || m.create == nil {
		t.Fatalf("expected create release form")
	}
	m = press(t, m, "Release 3.0", "tab", "BUILD-3")

	var copied string
	orig := copyToClipboard
	copyToClipboard = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { copyToClipboard = orig })

	m = press(t, m, "enter")
	if len(b.created) != 1 {
		t.Fatalf("expected one create call got %d", len(b.created))
	}
	req := b.created[0]
	if req.ReleaseName != "Release 3.0" || req.BuildRelease != "BUILD-3" || req.ProjectID != "1" {
		t.Fatalf("unexpected request %+v", req)
	}
	if m.ui.Machine().View() != nav.Dashboard || m.create != nil {
		t.Fatalf("expected dashboard after submit")
	}
	if !strings.Contains(m.View(), "created successfully") {
		t.Fatalf("expected success notice:\n%s", m.View())
	}
	if m.ui.Machine().Stale() {
		t.Fatalf("releases should be refetched after create")
	}

	m = press(t, m, "y")
	if copied != "99" {
		t.Fatalf("expected release id copied, got %q", copied)
	}
}

func TestCreateReleaseValidationKeepsForm(t *testing.T) {
	m, b, _ := newLoggedIn(t)
	m = press(t, m, "p", "enter", "enter", "tab", "BUILD-3", "enter")
	if len(b.created) != 0 {
		t.Fatalf("invalid form reached the backend")
	}
	if m.ui.Machine().View() != nav.CreateRelease || m.create == nil {
		t.Fatalf("form should stay open")
	}
	if m.create.inputs[fieldBuild].Value() != "BUILD-3" {
		t.Fatalf("form values lost")
	}
	if m.create.focused() != fieldName {
		t.Fatalf("focus should move to the invalid field, got %d", m.create.focused())
	}
	if !strings.Contains(m.View(), "Release name is required") {
		t.Fatalf("expected validation message:\n%s", m.View())
	}
}

func TestCreateReleasePreviousStructureToggle(t *testing.T) {
	f := newCreateForm(fixedNow)
	if len(f.order()) != 9 {
		t.Fatalf("previous build release should be hidden, order %v", f.order())
	}
	f.setFocus(4)
	if f.focused() != focusToggle {
		t.Fatalf("expected toggle focus")
	}
	f.toggle()
	if !f.usePrevious || len(f.order()) != 10 {
		t.Fatalf("toggle should reveal the previous release field")
	}
	f.inputs[fieldPrevious].SetValue("Release 2.0")
	f.toggle()
	if f.inputs[fieldPrevious].Value() != "" || f.value().PreviousBuildRelease != "" {
		t.Fatalf("turning the toggle off should clear the previous release")
	}
	if f.value().StartDate != "2024-05-06" {
		t.Fatalf("start date should default to today, got %q", f.value().StartDate)
	}
}

func TestImportRequirements(t *testing.T) {
	m, b, _ := newLoggedIn(t)
	m = press(t, m, "p", "enter", "r", "enter")
	// expand Manage Release Data and open Import Requirements
	m = press(t, m, "down", "enter", "down", "enter")
	if m.ui.Machine().View() != nav.ImportRequirements || m.imports == nil {
		t.Fatalf("expected import form, view %v", m.ui.Machine().View())
	}
	m = press(t, m, "Stories", "tab", "project = CQE", "ctrl+n", "Half filled", "ctrl+n", "ctrl+d")
	if len(m.imports.rows) != 2 {
		t.Fatalf("expected 2 rows got %d", len(m.imports.rows))
	}
	m = press(t, m, "enter")
	if len(b.imported) != 1 {
		t.Fatalf("expected one import call")
	}
	got := b.imported[0]
	if len(got.Requirements) != 1 || got.Requirements[0].FolderName != "Stories" || got.ReleaseID != "10" {
		t.Fatalf("unexpected import %+v", got)
	}
	if !strings.Contains(m.View(), "Successfully imported 1 requirement(s)") {
		t.Fatalf("expected notice:\n%s", m.View())
	}
}

func TestEscCancelsForm(t *testing.T) {
	m, b, _ := newLoggedIn(t)
	m = press(t, m, "p", "enter", "enter", "Draft", "esc")
	if m.ui.Machine().View() != nav.Dashboard || m.create != nil {
		t.Fatalf("esc should close the form")
	}
	if len(b.created) != 0 {
		t.Fatalf("cancel must not submit")
	}
	if _, ok := m.ui.Machine().Project(); !ok {
		t.Fatalf("cancel should keep the selection")
	}
}

func TestPlaceholderActionNotice(t *testing.T) {
	m, _, _ := newLoggedIn(t)
	m = press(t, m, "p", "enter", "r", "enter")
	// View My BOW sits right after the collapsed group
	m = press(t, m, "down", "down", "enter")
	if !strings.Contains(m.View(), "View My BOW will be available in a future release") {
		t.Fatalf("expected placeholder notice:\n%s", m.View())
	}
}

func TestSwitchTab(t *testing.T) {
	m, _, _ := newLoggedIn(t)
	m = press(t, m, "p", "enter", "r", "enter", "t")
	if m.ui.Machine().Tab() != nav.Jira {
		t.Fatalf("expected jira tab")
	}
	out := m.View()
	if !strings.Contains(out, "Jira Dashboard") || !strings.Contains(out, "67%") {
		t.Fatalf("expected jira stats:\n%s", out)
	}
}

func TestStatsFailureShown(t *testing.T) {
	m, b, _ := newLoggedIn(t)
	b.statsErr = errors.New("boom")
	m = press(t, m, "p", "enter", "r", "enter")
	if !strings.Contains(m.View(), "Dashboard unavailable") {
		t.Fatalf("expected stats failure:\n%s", m.View())
	}
}

func TestStatsForOldReleaseDropped(t *testing.T) {
	m, _, _ := newLoggedIn(t)
	m = press(t, m, "p", "perf", "enter")
	if err := m.ui.SelectRelease(models.Release{ID: "20", Name: "Load Q1"}); err != nil {
		t.Fatal(err)
	}
	old := m.fetchStats()
	if err := m.ui.SelectRelease(models.Release{ID: "21", Name: "Load Q2"}); err != nil {
		t.Fatal(err)
	}
	m = run(t, m, old)
	if m.stats != nil {
		t.Fatalf("stats of the previous release applied")
	}
}

func TestClearAndLogout(t *testing.T) {
	m, _, s := newLoggedIn(t)
	m = press(t, m, "p", "enter", "x")
	if _, ok := m.ui.Machine().Project(); ok {
		t.Fatalf("x should clear the selection")
	}
	m = press(t, m, "L")
	if m.login == nil {
		t.Fatalf("expected login screen after logout")
	}
	if s.sess.Token != "" {
		t.Fatalf("session not cleared")
	}
}

func TestServerTextSanitized(t *testing.T) {
	m, b, _ := newLoggedIn(t)
	b.projects[0].Name = "\x1b]0;pwned\x07Evil\x1b[31m Project"
	m = press(t, m, "p")
	m.picker.refresh(m.ui)
	m = press(t, m, "enter")
	out := m.View()
	if strings.Contains(out, "pwned") || strings.Contains(out, "\x1b[31m") {
		t.Fatalf("escape sequences leaked into view:\n%q", out)
	}
	if !strings.Contains(out, "Evil Project") {
		t.Fatalf("expected sanitized name:\n%s", out)
	}
}

func TestQuit(t *testing.T) {
	m, _, _ := newLoggedIn(t)
	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestHelpToggle(t *testing.T) {
	m, _, _ := newLoggedIn(t)
	m = press(t, m, "?")
	if !m.showHelp || !strings.Contains(m.View(), "choose a project") {
		t.Fatalf("expected help pane:\n%s", m.View())
	}
	m = press(t, m, "down")
	if m.cursor != 0 {
		t.Fatalf("arrow keys should scroll the help, not the sidebar")
	}
	m = press(t, m, "esc")
	if m.showHelp {
		t.Fatalf("esc should close help")
	}
}

func TestFooterListsBindings(t *testing.T) {
	got := keys.shortHelp()
	for _, want := range []string{"p project", "R reload", "q quit"} {
		if !strings.Contains(got, want) {
			t.Fatalf("footer %q missing %q", got, want)
		}
	}
}

func TestWindowResize(t *testing.T) {
	m, _, _ := newLoggedIn(t)
	m1, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	m = m1.(*TuiModel)
	if m.width != 60 || m.height != 20 {
		t.Fatalf("size not recorded")
	}
	if m.View() == "" {
		t.Fatalf("expected narrow layout to render")
	}
}
