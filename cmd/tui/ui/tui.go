package ui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	cqeerrors "github.com/VoxDroid/cqe/internal/errors"
	"github.com/VoxDroid/cqe/internal/models"
	"github.com/VoxDroid/cqe/internal/nav"
	"github.com/VoxDroid/cqe/internal/tui/adapters"
)

// TuiModel is the Bubble Tea model used by cmd/tui.
type TuiModel struct {
	ui Model

	width  int
	height int

	// at most one of these is active; the open form follows the machine view
	login   *loginForm
	picker  *picker
	create  *createForm
	imports *importForm

	// sidebar cursor, an index into menuRows()
	cursor int

	spin spinner.Model
	help viewport.Model

	stats        *adapters.Stats
	statsErr     error
	statsLoading bool

	// status is a local hint that never comes from the server
	status      string
	lastCreated models.ID

	showHelp     bool
	highContrast bool
}

type releasesMsg struct {
	ticket   nav.Ticket
	releases []models.Release
	err      error
}

type statsMsg struct {
	projectID models.ID
	releaseID models.ID
	stats     adapters.Stats
	err       error
}

// copyToClipboard is swapped out in tests.
var copyToClipboard = clipboard.WriteAll

// NewModel constructs the dashboard model. Without a session it starts on
// the login screen.
func NewModel(ui Model) *TuiModel {
	m := &TuiModel{
		ui:     ui,
		width:  100,
		height: 30,
		spin:   spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		help:   viewport.New(60, 16),
	}
	m.help.SetContent(helpText)
	if !ui.LoggedIn() {
		m.login = newLoginForm()
	}
	return m
}

// NewProgram constructs the tea.Program for the TUI.
func NewProgram(ui Model) *tea.Program {
	return tea.NewProgram(NewModel(ui), tea.WithAltScreen())
}

// Init starts the spinner and the release fetch of a restored project.
func (m *TuiModel) Init() tea.Cmd {
	if m.login != nil {
		return m.spin.Tick
	}
	if t, ok := m.ui.Reload(); ok {
		return tea.Batch(m.spin.Tick, m.fetchReleases(t))
	}
	return m.spin.Tick
}

func (m *TuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = max(m.width-sidebarWidth-8, 20)
		m.help.Height = max(m.height-8, 4)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case releasesMsg:
		if !m.ui.ApplyReleases(msg.ticket, msg.releases, msg.err) {
			return m, nil
		}
		if m.picker != nil && m.picker.kind == pickRelease {
			m.picker.refresh(m.ui)
		}
		if msg.err != nil {
			return m, nil
		}
		return m, m.fetchStats()

	case statsMsg:
		p, r, ok := m.ui.StatsRequest()
		if !ok || p != msg.projectID || r != msg.releaseID {
			return m, nil
		}
		m.statsLoading = false
		if msg.err != nil {
			m.stats, m.statsErr = nil, msg.err
			return m, nil
		}
		s := msg.stats
		m.stats, m.statsErr = &s, nil
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch {
		case m.login != nil:
			return m.updateLogin(msg)
		case m.picker != nil:
			return m.updatePicker(msg)
		}
		switch m.ui.Machine().View() {
		case nav.CreateRelease:
			if m.create != nil {
				return m.updateCreate(msg)
			}
		case nav.ImportRequirements:
			if m.imports != nil {
				return m.updateImport(msg)
			}
		}
		return m.updateDashboard(msg)
	}
	return m, nil
}

func (m *TuiModel) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.menuRows()
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
		m.help.GotoTop()
	case m.showHelp && (key.Matches(msg, keys.Up) || key.Matches(msg, keys.Down)):
		var cmd tea.Cmd
		m.help, cmd = m.help.Update(msg)
		return m, cmd
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Open):
		return m.activate(rows)
	case key.Matches(msg, keys.Project):
		m.openPicker(pickProject)
	case key.Matches(msg, keys.Release):
		if _, ok := m.ui.Machine().Project(); !ok {
			m.status = requirementHint(nav.NeedsProject)
			return m, nil
		}
		m.openPicker(pickRelease)
	case key.Matches(msg, keys.Tab):
		tab := nav.Jira
		if m.ui.Machine().Tab() == nav.Jira {
			tab = nav.Zephyr
		}
		m.ui.Machine().SetTab(tab)
		m.cursor = 0
	case key.Matches(msg, keys.Reload):
		if t, ok := m.ui.Reload(); ok {
			m.status = ""
			return m, m.fetchReleases(t)
		}
		m.status = requirementHint(nav.NeedsProject)
	case key.Matches(msg, keys.Clear):
		m.ui.ClearSelection()
		m.stats, m.statsErr, m.statsLoading = nil, nil, false
		m.status = ""
	case key.Matches(msg, keys.Copy):
		m.copyCreated()
	case key.Matches(msg, keys.Contrast):
		m.highContrast = !m.highContrast
	case key.Matches(msg, keys.Logout):
		if err := m.ui.Logout(context.Background()); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.login = newLoginForm()
		m.picker, m.create, m.imports = nil, nil, nil
		m.stats, m.statsErr, m.statsLoading = nil, nil, false
		m.cursor, m.status, m.lastCreated = 0, "", ""
		m.showHelp = false
	case key.Matches(msg, keys.Back):
		switch {
		case m.showHelp:
			m.showHelp = false
		case m.ui.Err() != nil:
			m.ui.DismissError()
		default:
			m.ui.ClearNotice()
			m.status = ""
		}
	}
	return m, nil
}

// activate invokes the sidebar row under the cursor.
func (m *TuiModel) activate(rows []menuRow) (tea.Model, tea.Cmd) {
	if m.cursor < 0 || m.cursor >= len(rows) {
		return m, nil
	}
	row := rows[m.cursor]
	if row.group != nil {
		m.ui.Machine().ToggleGroup(row.group.ID)
		return m, nil
	}
	a := *row.action
	if !m.ui.Invoke(a.ID) {
		m.status = requirementHint(a.Requires)
		return m, nil
	}
	m.status, m.showHelp = "", false
	switch m.ui.Machine().View() {
	case nav.CreateRelease:
		m.create = newCreateForm(time.Now())
	case nav.ImportRequirements:
		m.imports = newImportForm()
	}
	if a.ID == nav.ActionJiraDashboard {
		return m, m.fetchStats()
	}
	return m, nil
}

func (m *TuiModel) copyCreated() {
	if m.lastCreated == "" {
		m.status = "No release created yet"
		return
	}
	if err := copyToClipboard(m.lastCreated.String()); err != nil {
		m.status = "Clipboard unavailable: " + err.Error()
		return
	}
	m.status = "Copied release id " + m.lastCreated.String()
}

// afterSubmit refetches the release list once a form changed server data.
func (m *TuiModel) afterSubmit() tea.Cmd {
	if t, ok := m.ui.Reload(); ok {
		return m.fetchReleases(t)
	}
	return nil
}

// submitFailed records err when the model did not surface it itself.
func (m *TuiModel) submitFailed(err error) {
	if m.ui.Err() == nil {
		m.status = cqeerrors.UserMessage(err)
	}
}

func (m *TuiModel) fetchReleases(t nav.Ticket) tea.Cmd {
	ui := m.ui
	return func() tea.Msg {
		rs, err := ui.FetchReleases(context.Background(), t)
		return releasesMsg{ticket: t, releases: rs, err: err}
	}
}

// fetchStats loads the dashboard counters of the selected release. Results
// for a release that is no longer selected are dropped on arrival.
func (m *TuiModel) fetchStats() tea.Cmd {
	p, r, ok := m.ui.StatsRequest()
	if !ok {
		m.stats, m.statsErr, m.statsLoading = nil, nil, false
		return nil
	}
	m.statsLoading, m.statsErr = true, nil
	ui := m.ui
	return func() tea.Msg {
		s, err := ui.Stats(context.Background(), p, r)
		return statsMsg{projectID: p, releaseID: r, stats: s, err: err}
	}
}

type menuRow struct {
	action *nav.Action
	group  *nav.Group
	depth  int
}

// menuRows flattens the sidebar of the active tab, expanding the open
// group in place.
func (m *TuiModel) menuRows() []menuRow {
	var rows []menuRow
	for _, it := range m.ui.Machine().Menu() {
		switch it := it.(type) {
		case nav.Action:
			rows = append(rows, menuRow{action: &it})
		case nav.Group:
			rows = append(rows, menuRow{group: &it})
			if it.Expanded {
				for i := range it.Items {
					rows = append(rows, menuRow{action: &it.Items[i], depth: 1})
				}
			}
		}
	}
	if m.cursor >= len(rows) {
		m.cursor = len(rows) - 1
	}
	return rows
}

func requirementHint(r nav.Requirement) string {
	switch r {
	case nav.NeedsRelease:
		return "Select a project and a release first (press p, then r)"
	case nav.NeedsProject:
		return "Select a project first (press p)"
	default:
		return ""
	}
}
