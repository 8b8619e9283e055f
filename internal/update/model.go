package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/sandeepkv93/tasklist/internal/notify"
	"github.com/sandeepkv93/tasklist/internal/tasklist"
)

type Focus string

const (
	FocusInput Focus = "input"
	FocusList  Focus = "list"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Model struct {
	Items       []string
	Cursor      int
	Focus       Focus
	Loaded      bool
	Palette     CommandPaletteState
	HelpVisible bool
	Status      StatusBar
	Keys        KeyMap
	Quitting    bool
	LastError   error
	ExportDir   string
	StatusTTL   time.Duration

	ctx          context.Context
	manager      *tasklist.Manager
	bus          *notify.Bus
	input        textinput.Model
	commandInput textinput.Model
	helpModel    help.Model
	statusSeq    int
}

// Messages

type loadedMsg struct {
	Items []string
	Err   error
}

type opDoneMsg struct {
	Op  string
	Err error
}

type paletteDoneMsg struct {
	Message string
	Err     error
}

// ListChangedMsg carries the list published by the manager after a mutation.
type ListChangedMsg struct {
	Items []string
}

// ClearStatusMsg clears a non-error status if nothing replaced it since
// the timer for Seq started.
type ClearStatusMsg struct {
	Seq int
}

// NewModel wires the TUI to a manager whose renderer publishes into bus.
func NewModel(ctx context.Context, manager *tasklist.Manager, bus *notify.Bus) Model {
	m := Model{
		Focus:     FocusInput,
		Keys:      DefaultKeyMap(),
		ExportDir: ".",
		StatusTTL: 3 * time.Second,
		ctx:       ctx,
		manager:   manager,
		bus:       bus,
	}
	m.input = textinput.New()
	m.input.Prompt = "add> "
	m.input.Placeholder = "What needs doing?"
	m.input.CharLimit = 512
	m.input.Width = 52
	m.input.Focus()

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 52

	m.helpModel = help.New()
	return m
}
