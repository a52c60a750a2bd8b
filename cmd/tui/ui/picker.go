package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	cqeerrors "github.com/VoxDroid/cqe/internal/errors"
	"github.com/VoxDroid/cqe/internal/models"
	modelpkg "github.com/VoxDroid/cqe/internal/tui/model"
)

type pickerKind int

const (
	pickProject pickerKind = iota
	pickRelease
)

type pickItem struct {
	label   string
	detail  string
	project *models.Project
	release *models.Release
}

// picker is a fuzzy-filtered chooser for projects or releases.
type picker struct {
	kind   pickerKind
	query  textinput.Model
	items  []pickItem
	cursor int
}

func (m *TuiModel) openPicker(kind pickerKind) {
	p := &picker{kind: kind, query: newInput("type to filter", 64)}
	p.query.Focus()
	p.refresh(m.ui)
	m.picker = p
	m.showHelp = false
}

func (p *picker) refresh(ui Model) {
	q := p.query.Value()
	p.items = p.items[:0]
	switch p.kind {
	case pickProject:
		for _, pr := range ui.FilterProjects(q) {
			p.items = append(p.items, pickItem{label: pr.Name, project: &pr})
		}
	case pickRelease:
		for _, r := range modelpkg.FilterReleases(ui.Machine().Releases(), q) {
			p.items = append(p.items, pickItem{label: r.Name, detail: releaseDates(r), release: &r})
		}
	}
	if p.cursor >= len(p.items) {
		p.cursor = len(p.items) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

func (m *TuiModel) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.picker
	switch msg.String() {
	case "esc":
		m.picker = nil
		return m, nil
	case "up", "ctrl+p":
		if p.cursor > 0 {
			p.cursor--
		}
		return m, nil
	case "down", "ctrl+n":
		if p.cursor < len(p.items)-1 {
			p.cursor++
		}
		return m, nil
	case "enter":
		if len(p.items) == 0 {
			return m, nil
		}
		it := p.items[p.cursor]
		m.picker = nil
		m.status = ""
		if it.project != nil {
			t := m.ui.SelectProject(*it.project)
			m.stats, m.statsErr, m.statsLoading = nil, nil, false
			m.create, m.imports = nil, nil
			return m, m.fetchReleases(t)
		}
		if err := m.ui.SelectRelease(*it.release); err != nil {
			m.status = cqeerrors.UserMessage(err)
			return m, nil
		}
		m.create, m.imports = nil, nil
		return m, m.fetchStats()
	}
	var cmd tea.Cmd
	p.query, cmd = p.query.Update(msg)
	p.cursor = 0
	p.refresh(m.ui)
	return m, cmd
}

func releaseDates(r models.Release) string {
	switch {
	case r.StartDate != "" && r.EndDate != "":
		return r.StartDate + " → " + r.EndDate
	case r.StartDate != "":
		return "from " + r.StartDate
	case r.EndDate != "":
		return "until " + r.EndDate
	}
	return ""
}
