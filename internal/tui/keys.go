package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Grab    key.Binding
	Add     key.Binding
	Edit    key.Binding
	Labels  key.Binding
	Delete  key.Binding
	Assign  key.Binding
	Project key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
	Escape  key.Binding
	Enter   key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left column")),
	Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right column")),
	Grab:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "grab/drop task")),
	Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
	Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit title")),
	Labels:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "edit labels")),
	Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Assign:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "assign to me")),
	Project: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "switch project")),
	Refresh: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reload")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Escape:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
}
