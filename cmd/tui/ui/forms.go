package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	cqeerrors "github.com/VoxDroid/cqe/internal/errors"
	"github.com/VoxDroid/cqe/internal/forms"
	"github.com/VoxDroid/cqe/internal/models"
)

const (
	fieldName = iota
	fieldBuild
	fieldStart
	fieldEnd
	fieldPrevious
	fieldLoad
	fieldEndurance
	fieldSanity
	fieldStandalone
	numCreateFields

	// focusToggle marks the "use previous structure" checkbox in the focus
	// order.
	focusToggle = -1
)

var createFields = [numCreateFields]struct {
	key   string
	label string
}{
	{"release_name", "Release Name"},
	{"build_release", "Build/Jira Release"},
	{"start_date", "Start Date"},
	{"end_date", "End Date"},
	{"previous_build_release", "Previous Build Release"},
	{"load_test", "Load Test Phases"},
	{"endurance_test", "Endurance Test Phases"},
	{"sanity_test", "Sanity Test Phases"},
	{"standalone_test", "Standalone Test Phases"},
}

type createForm struct {
	inputs      [numCreateFields]textinput.Model
	usePrevious bool
	// focus is a position in order()
	focus int
}

func newCreateForm(now time.Time) *createForm {
	defaults := forms.NewCreateRelease(now)
	f := &createForm{}
	for i := range f.inputs {
		f.inputs[i] = newInput("", 128)
	}
	f.inputs[fieldStart].Placeholder = forms.DateLayout
	f.inputs[fieldEnd].Placeholder = forms.DateLayout
	f.inputs[fieldStart].SetValue(defaults.StartDate)
	f.inputs[fieldEnd].SetValue(defaults.EndDate)
	for _, i := range []int{fieldLoad, fieldEndurance, fieldSanity, fieldStandalone} {
		f.inputs[i].Placeholder = "0"
		f.inputs[i].CharLimit = 3
	}
	f.setFocus(0)
	return f
}

// order lists the focusable fields. The previous build release is only
// reachable while the checkbox is on.
func (f *createForm) order() []int {
	o := []int{fieldName, fieldBuild, fieldStart, fieldEnd, focusToggle}
	if f.usePrevious {
		o = append(o, fieldPrevious)
	}
	return append(o, fieldLoad, fieldEndurance, fieldSanity, fieldStandalone)
}

func (f *createForm) focused() int { return f.order()[f.focus] }

func (f *createForm) setFocus(pos int) {
	n := len(f.order())
	f.focus = (pos%n + n) % n
	cur := f.focused()
	for i := range f.inputs {
		if i == cur {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

func (f *createForm) focusField(key string) {
	for pos, i := range f.order() {
		if i != focusToggle && createFields[i].key == key {
			f.setFocus(pos)
			return
		}
	}
}

func (f *createForm) toggle() {
	cur := f.focused()
	f.usePrevious = !f.usePrevious
	if !f.usePrevious {
		f.inputs[fieldPrevious].SetValue("")
	}
	for pos, i := range f.order() {
		if i == cur {
			f.setFocus(pos)
			return
		}
	}
}

func (f *createForm) value() forms.CreateRelease {
	v := forms.CreateRelease{
		Name:                 f.inputs[fieldName].Value(),
		BuildRelease:         f.inputs[fieldBuild].Value(),
		StartDate:            f.inputs[fieldStart].Value(),
		EndDate:              f.inputs[fieldEnd].Value(),
		PreviousBuildRelease: f.inputs[fieldPrevious].Value(),
		LoadTestPhases:       f.inputs[fieldLoad].Value(),
		EnduranceTestPhases:  f.inputs[fieldEndurance].Value(),
		SanityTestPhases:     f.inputs[fieldSanity].Value(),
		StandaloneTestPhases: f.inputs[fieldStandalone].Value(),
	}
	v.SetUsePreviousStructure(f.usePrevious)
	return v
}

func (m *TuiModel) updateCreate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.create
	switch msg.String() {
	case "esc":
		m.ui.CancelAction()
		m.create = nil
		return m, nil
	case "tab", "down":
		f.setFocus(f.focus + 1)
		return m, nil
	case "shift+tab", "up":
		f.setFocus(f.focus - 1)
		return m, nil
	case " ":
		if f.focused() == focusToggle {
			f.toggle()
			return m, nil
		}
	case "enter", "ctrl+s":
		if f.focused() == focusToggle && msg.String() == "enter" {
			f.toggle()
			return m, nil
		}
		id, err := m.ui.SubmitCreateRelease(context.Background(), f.value())
		if err != nil {
			var ve *cqeerrors.ValidationError
			if cqeerrors.As(err, &ve) {
				f.focusField(ve.Field)
			}
			m.submitFailed(err)
			return m, nil
		}
		m.create = nil
		m.lastCreated = id
		return m, m.afterSubmit()
	}
	if f.focused() == focusToggle {
		return m, nil
	}
	var cmd tea.Cmd
	i := f.focused()
	f.inputs[i], cmd = f.inputs[i].Update(msg)
	return m, cmd
}

type importForm struct {
	// rows hold a folder and a JQL input each
	rows  [][2]textinput.Model
	focus int
}

func newImportForm() *importForm {
	f := &importForm{}
	for range forms.NewImportRequirements().Rows {
		f.rows = append(f.rows, newRequirementRow())
	}
	f.setFocus(0)
	return f
}

func newRequirementRow() [2]textinput.Model {
	folder := newInput("Folder Name", 128)
	jql := newInput("project = ABC AND fixVersion = 1.0", 1024)
	return [2]textinput.Model{folder, jql}
}

func (f *importForm) setFocus(pos int) {
	n := len(f.rows) * 2
	f.focus = (pos%n + n) % n
	for r := range f.rows {
		for c := range f.rows[r] {
			if r*2+c == f.focus {
				f.rows[r][c].Focus()
			} else {
				f.rows[r][c].Blur()
			}
		}
	}
}

func (f *importForm) addRow() {
	f.rows = append(f.rows, newRequirementRow())
	f.setFocus((len(f.rows) - 1) * 2)
}

func (f *importForm) removeRow() {
	form := f.value()
	row := f.focus / 2
	form.RemoveRow(row)
	if len(form.Rows) == len(f.rows) {
		return
	}
	f.rows = append(f.rows[:row], f.rows[row+1:]...)
	f.setFocus(min(row, len(f.rows)-1) * 2)
}

func (f *importForm) value() forms.ImportRequirements {
	v := forms.ImportRequirements{Rows: make([]models.RequirementRow, len(f.rows))}
	for i, r := range f.rows {
		v.Rows[i] = models.RequirementRow{FolderName: r[0].Value(), JQL: r[1].Value()}
	}
	return v
}

func (m *TuiModel) updateImport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.imports
	switch msg.String() {
	case "esc":
		m.ui.CancelAction()
		m.imports = nil
		return m, nil
	case "tab", "down":
		f.setFocus(f.focus + 1)
		return m, nil
	case "shift+tab", "up":
		f.setFocus(f.focus - 1)
		return m, nil
	case "ctrl+n":
		f.addRow()
		return m, nil
	case "ctrl+d":
		f.removeRow()
		return m, nil
	case "enter", "ctrl+s":
		if _, err := m.ui.SubmitImportRequirements(context.Background(), f.value()); err != nil {
			m.submitFailed(err)
			return m, nil
		}
		m.imports = nil
		return m, m.afterSubmit()
	}
	var cmd tea.Cmd
	r, c := f.focus/2, f.focus%2
	f.rows[r][c], cmd = f.rows[r][c].Update(msg)
	return m, cmd
}
