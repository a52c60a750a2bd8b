package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/VoxDroid/cqe/internal/forms"
)

type loginForm struct {
	inputs [2]textinput.Model
	focus  int
}

func newLoginForm() *loginForm {
	f := &loginForm{}
	f.inputs[0] = newInput("AB12345", 16)
	f.inputs[1] = newInput("4-digit passcode", 4)
	f.inputs[1].EchoMode = textinput.EchoPassword
	f.inputs[1].EchoCharacter = '•'
	f.setFocus(0)
	return f
}

func (f *loginForm) setFocus(i int) {
	n := len(f.inputs)
	f.focus = (i%n + n) % n
	for j := range f.inputs {
		if j == f.focus {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

func (f *loginForm) value() forms.Login {
	return forms.Login{SOEID: f.inputs[0].Value(), Passcode: f.inputs[1].Value()}
}

func (m *TuiModel) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.login
	switch msg.String() {
	case "tab", "down":
		f.setFocus(f.focus + 1)
		return m, nil
	case "shift+tab", "up":
		f.setFocus(f.focus - 1)
		return m, nil
	case "esc":
		m.ui.DismissError()
		m.status = ""
		return m, nil
	case "enter":
		if f.focus == 0 && f.inputs[1].Value() == "" {
			f.setFocus(1)
			return m, nil
		}
		if err := m.ui.Login(context.Background(), f.value()); err != nil {
			m.submitFailed(err)
			f.inputs[1].SetValue("")
			f.setFocus(1)
			return m, nil
		}
		m.login = nil
		m.cursor, m.status = 0, ""
		return m, nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return m, cmd
}

// newInput returns a text input with a steady cursor.
func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Prompt = ""
	in.Cursor.SetMode(cursor.CursorStatic)
	return in
}
