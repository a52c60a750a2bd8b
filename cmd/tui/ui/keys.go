package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// keyMap holds the dashboard bindings. Forms and pickers read raw keys
// since most printable keys are text there.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Open     key.Binding
	Project  key.Binding
	Release  key.Binding
	Tab      key.Binding
	Reload   key.Binding
	Clear    key.Binding
	Copy     key.Binding
	Logout   key.Binding
	Contrast key.Binding
	Help     key.Binding
	Back     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "move up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "move down")),
	Open:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "open")),
	Project:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "project")),
	Release:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "release")),
	Tab:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tab")),
	Reload:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reload")),
	Clear:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear")),
	Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy id")),
	Logout:   key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
	Contrast: key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "contrast")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
	Quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
}

// shortHelp is the footer line of the dashboard.
func (k keyMap) shortHelp() string {
	var parts []string
	for _, b := range []key.Binding{k.Project, k.Release, k.Tab, k.Reload, k.Clear, k.Copy, k.Logout, k.Help, k.Quit} {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}
