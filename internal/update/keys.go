package update

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Add         key.Binding
	Up          key.Binding
	Down        key.Binding
	Delete      key.Binding
	ToggleFocus key.Binding
	Palette     key.Binding
	Cancel      key.Binding
	Help        key.Binding
	Quit        key.Binding
	ForceQuit   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add task")),
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "move up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "move down")),
		Delete:      key.NewBinding(key.WithKeys("d", "x", "delete"), key.WithHelp("d/x", "delete task")),
		ToggleFocus: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "input/list")),
		Palette:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "command")),
		Cancel:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.ToggleFocus, k.Delete, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Add, k.ToggleFocus, k.Cancel},
		{k.Up, k.Down, k.Delete},
		{k.Palette, k.Help, k.Quit, k.ForceQuit},
	}
}
