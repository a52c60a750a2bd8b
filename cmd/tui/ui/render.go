package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	cqeerrors "github.com/VoxDroid/cqe/internal/errors"
	"github.com/VoxDroid/cqe/internal/nav"
	"github.com/VoxDroid/cqe/internal/tui/sanitize"
)

const sidebarWidth = 32

type palette struct {
	accent, brandFg, brandBg string
	border, dim, text        string
	errFg, okFg, barBg       string
}

func (m *TuiModel) palette() palette {
	if m.highContrast {
		return palette{
			accent: "#ffff00", brandFg: "#000000", brandBg: "#ffff00",
			border: "#ffffff", dim: "#aaaaaa", text: "#ffffff",
			errFg: "#ff5555", okFg: "#55ff55", barBg: "#000000",
		}
	}
	return palette{
		accent: "#0ea5a4", brandFg: "#ffffff", brandBg: "#0f766e",
		border: "#334155", dim: "#64748b", text: "#cbd5e1",
		errFg: "#f87171", okFg: "#4ade80", barBg: "#0b1226",
	}
}

func (m *TuiModel) View() string {
	if m.login != nil {
		return m.loginView()
	}
	pal := m.palette()

	bodyH := m.height - 4
	if bodyH < 8 {
		bodyH = 8
	}
	mainW := m.width - sidebarWidth - 4
	if mainW < 30 {
		mainW = 30
	}

	side := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(pal.border)).
		Width(sidebarWidth).
		Height(bodyH).
		Render(m.sidebarView())

	var content string
	switch {
	case m.picker != nil:
		content = m.pickerView()
	case m.showHelp:
		content = m.help.View()
	default:
		content = m.mainView(mainW - 2)
	}
	mainBox := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(pal.accent)).
		Padding(0, 1).
		Width(mainW).
		Height(bodyH).
		Render(content)

	var body string
	if m.width < 80 {
		body = lipgloss.JoinVertical(lipgloss.Left, side, mainBox)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, side, mainBox)
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.navbarView(), body, m.messageView(), m.footerView())
}

// navbarView renders the brand, the tabs, the user and the selection.
func (m *TuiModel) navbarView() string {
	pal := m.palette()
	brand := lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.Color(pal.brandFg)).
		Background(lipgloss.Color(pal.brandBg)).
		Padding(0, 1).
		Render("CQE")

	var tabs []string
	for _, t := range []nav.Tab{nav.Zephyr, nav.Jira} {
		label := " " + titleCase(t.String()) + " "
		st := lipgloss.NewStyle().Foreground(lipgloss.Color(pal.dim))
		if t == m.ui.Machine().Tab() {
			st = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color(pal.accent))
		}
		tabs = append(tabs, st.Render(label))
	}

	sel := m.ui.Machine().Selection()
	crumbs := "no project"
	if sel.Project != nil {
		crumbs = sanitize.Truncate(sanitize.Text(sel.Project.Name), 28)
		if sel.Release != nil {
			crumbs += " • " + sanitize.Truncate(sanitize.Text(sel.Release.Name), 24)
		}
	}
	user := sanitize.Truncate(sanitize.Text(m.ui.User().Display()), 28)
	right := lipgloss.NewStyle().Foreground(lipgloss.Color(pal.text)).Render(crumbs + "  |  " + user)

	left := lipgloss.JoinHorizontal(lipgloss.Top, brand, " ", strings.Join(tabs, " "))
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m *TuiModel) sidebarView() string {
	pal := m.palette()
	enabled := lipgloss.NewStyle().Foreground(lipgloss.Color(pal.text))
	disabled := lipgloss.NewStyle().Foreground(lipgloss.Color(pal.dim)).Faint(true)
	current := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(pal.accent))

	var b strings.Builder
	for i, row := range m.menuRows() {
		marker := "  "
		if i == m.cursor {
			marker = "› "
		}
		indent := strings.Repeat("  ", row.depth)
		var line string
		st := enabled
		if row.group != nil {
			arrow := "▸ "
			if row.group.Expanded {
				arrow = "▾ "
			}
			line = indent + arrow + row.group.Label
		} else {
			line = indent + row.action.Label
			if !m.ui.Machine().Enabled(row.action.ID) {
				st = disabled
			}
		}
		if i == m.cursor {
			st = current
		}
		b.WriteString(st.Render(sanitize.Truncate(marker+line, sidebarWidth)) + "\n")
	}
	return b.String()
}

// mainView renders the dashboard or the open form.
func (m *TuiModel) mainView(width int) string {
	switch m.ui.Machine().View() {
	case nav.CreateRelease:
		if m.create != nil {
			return m.createView()
		}
	case nav.ImportRequirements:
		if m.imports != nil {
			return m.importView(width)
		}
	}
	return m.dashboardView(width)
}

func (m *TuiModel) dashboardView(width int) string {
	pal := m.palette()
	h := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(pal.accent))
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color(pal.dim))
	mc := m.ui.Machine()

	title := titleCase(mc.Tab().String()) + " Dashboard"
	var b strings.Builder
	b.WriteString(h.Render(title) + "\n\n")

	if _, ok := mc.Project(); !ok {
		b.WriteString(fmt.Sprintf("Welcome, %s.\n", sanitize.Text(m.ui.User().Display())))
		b.WriteString(dim.Render("Press p to choose a project."))
		return b.String()
	}
	switch {
	case mc.Loading():
		b.WriteString(m.spin.View() + dim.Render(" Loading releases…"))
		return b.String()
	case mc.FetchErr() != nil:
		b.WriteString(dim.Render("Could not load releases. Press R to retry."))
		return b.String()
	}
	if _, ok := mc.Release(); !ok {
		n := len(mc.Releases())
		b.WriteString(fmt.Sprintf("%d %s available.\n", n, plural(n, "release", "releases")))
		b.WriteString(dim.Render("Press r to choose a release."))
		return b.String()
	}
	if mc.Stale() {
		b.WriteString(dim.Render("Data changed. Press R to refresh.") + "\n\n")
	}
	switch {
	case m.statsLoading:
		b.WriteString(m.spin.View() + dim.Render(" Loading dashboard…"))
	case m.statsErr != nil:
		b.WriteString("Dashboard unavailable: " + sanitize.Text(cqeerrors.UserMessage(m.statsErr)))
	case m.stats != nil:
		b.WriteString(m.statsView(width))
	}
	return b.String()
}

type statCard struct{ label, value string }

func (m *TuiModel) statsView(width int) string {
	var cards []statCard
	if m.ui.Machine().Tab() == nav.Jira {
		s := m.stats.Jira
		cards = []statCard{
			{"Open Issues", humanize.Comma(int64(s.OpenIssues))},
			{"In Progress", humanize.Comma(int64(s.InProgress))},
			{"Resolved", humanize.Comma(int64(s.Resolved))},
			{"Backlog Items", humanize.Comma(int64(s.BacklogItems))},
			{"Sprint Progress", fmt.Sprintf("%d%%", s.SprintProgress)},
			{"Team Velocity", fmt.Sprintf("%d pts", s.TeamVelocity)},
		}
	} else {
		s := m.stats.Zephyr
		cards = []statCard{
			{"Total Test Cases", humanize.Comma(int64(s.TotalTestCases))},
			{"Execution Rate", fmt.Sprintf("%d%%", s.ExecutionRate)},
			{"Pass Rate", fmt.Sprintf("%d%%", s.PassRate)},
			{"Open Defects", humanize.Comma(int64(s.OpenDefects))},
			{"Active Cycles", humanize.Comma(int64(s.ActiveCycles))},
			{"Requirements", humanize.Comma(int64(s.Requirements))},
		}
	}

	pal := m.palette()
	cardW := 20
	perRow := width / (cardW + 2)
	if perRow < 1 {
		perRow = 1
	}
	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(pal.border)).
		Padding(0, 1).
		Width(cardW)
	val := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(pal.accent))
	lbl := lipgloss.NewStyle().Foreground(lipgloss.Color(pal.dim))

	var rows []string
	for start := 0; start < len(cards); start += perRow {
		end := min(start+perRow, len(cards))
		var rendered []string
		for _, c := range cards[start:end] {
			rendered = append(rendered, box.Render(val.Render(c.value)+"\n"+lbl.Render(c.label)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *TuiModel) createView() string {
	pal := m.palette()
	h := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(pal.accent))
	lbl := lipgloss.NewStyle().Width(24).Foreground(lipgloss.Color(pal.text))
	active := lbl.Foreground(lipgloss.Color(pal.accent)).Bold(true)
	f := m.create

	var b strings.Builder
	b.WriteString(h.Render("Create Release") + "\n\n")
	cur := f.focused()
	for _, i := range f.order() {
		st := lbl
		if i == cur {
			st = active
		}
		if i == focusToggle {
			box := "[ ]"
			if f.usePrevious {
				box = "[x]"
			}
			b.WriteString(st.Render("Use Previous Structure") + box + "\n")
			continue
		}
		b.WriteString(st.Render(createFields[i].label) + f.inputs[i].View() + "\n")
	}
	return b.String()
}

func (m *TuiModel) importView(width int) string {
	pal := m.palette()
	h := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(pal.accent))
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color(pal.dim))
	f := m.imports

	var b strings.Builder
	b.WriteString(h.Render("Import Requirements") + "\n")
	if r, ok := m.ui.Machine().Release(); ok {
		b.WriteString(dim.Render("into "+sanitize.Text(r.Name)) + "\n")
	}
	b.WriteString("\n")
	colW := max((width-6)/2, 12)
	for i := range f.rows {
		f.rows[i][0].Width = colW
		f.rows[i][1].Width = colW
		marker := "  "
		if f.focus/2 == i {
			marker = "› "
		}
		b.WriteString(fmt.Sprintf("%s%d. %s | %s\n", marker, i+1, f.rows[i][0].View(), f.rows[i][1].View()))
	}
	return b.String()
}

func (m *TuiModel) pickerView() string {
	pal := m.palette()
	h := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(pal.accent))
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color(pal.dim))
	sel := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(pal.accent))
	p := m.picker

	var b strings.Builder
	title := "Select Project"
	if p.kind == pickRelease {
		title = "Select Release"
	}
	b.WriteString(h.Render(title) + "\n")
	b.WriteString("/ " + p.query.View() + "\n\n")

	mc := m.ui.Machine()
	switch {
	case p.kind == pickRelease && mc.Loading():
		b.WriteString(m.spin.View() + dim.Render(" Loading releases…"))
		return b.String()
	case p.kind == pickRelease && mc.FetchErr() != nil:
		b.WriteString(dim.Render("Releases could not be loaded. Press esc, then R to retry."))
		return b.String()
	case len(p.items) == 0:
		b.WriteString(dim.Render("No matches"))
		return b.String()
	}
	for i, it := range p.items {
		line := sanitize.Truncate(sanitize.Text(it.label), 40)
		if it.detail != "" {
			line += "  " + dim.Render(it.detail)
		}
		if i == p.cursor {
			b.WriteString(sel.Render("› "+line) + "\n")
			continue
		}
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

func (m *TuiModel) loginView() string {
	pal := m.palette()
	h := lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.Color(pal.brandFg)).
		Background(lipgloss.Color(pal.brandBg)).
		Padding(0, 1)
	lbl := lipgloss.NewStyle().Width(10).Foreground(lipgloss.Color(pal.text))
	f := m.login

	var b strings.Builder
	b.WriteString(h.Render("CQE Sign in") + "\n\n")
	b.WriteString(lbl.Render("SOEID") + f.inputs[0].View() + "\n")
	b.WriteString(lbl.Render("Passcode") + f.inputs[1].View() + "\n\n")
	b.WriteString(m.messageView() + "\n")
	b.WriteString(lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color(pal.dim)).
		Render("tab next field • enter sign in • ctrl+c quit"))

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(pal.accent)).
		Padding(1, 2).
		Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// messageView shows the dismissible error, the last notice or a local hint.
func (m *TuiModel) messageView() string {
	pal := m.palette()
	switch {
	case m.ui.Err() != nil:
		msg := sanitize.Text(cqeerrors.UserMessage(m.ui.Err()))
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(pal.errFg)).Render("✗ " + msg + "  (esc to dismiss)")
	case m.status != "":
		return lipgloss.NewStyle().Foreground(lipgloss.Color(pal.text)).Render(m.status)
	case m.ui.Notice() != "":
		return lipgloss.NewStyle().Foreground(lipgloss.Color(pal.okFg)).Render("✓ " + sanitize.Text(m.ui.Notice()))
	}
	return ""
}

func (m *TuiModel) footerView() string {
	pal := m.palette()
	var text string
	switch {
	case m.picker != nil:
		text = "type to filter • ↑/↓ move • enter select • esc close"
	case m.create != nil && m.ui.Machine().View() == nav.CreateRelease:
		text = "tab next • shift+tab previous • space toggle • enter submit • esc cancel"
	case m.imports != nil && m.ui.Machine().View() == nav.ImportRequirements:
		text = "tab next • ctrl+n add row • ctrl+d remove row • enter import • esc cancel"
	default:
		text = keys.shortHelp()
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(pal.barBg)).
		Foreground(lipgloss.Color(pal.text)).
		Padding(0, 1).
		Width(m.width).
		Render(text)
}

const helpText = `Keys

  ↑/↓ or j/k   move in the sidebar
  enter        open the highlighted action or group
  p            choose a project
  r            choose a release of the selected project
  t            switch between the Zephyr and Jira tabs
  R            reload the releases of the selected project
  x            clear the selection
  y            copy the id of the last created release
  L            log out
  T            toggle high contrast
  esc          dismiss the error or close this help
  q            quit`

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
