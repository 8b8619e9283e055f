package update

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/tasklist/internal/notify"
	"github.com/sandeepkv93/tasklist/internal/tasklist"
	"github.com/sandeepkv93/tasklist/internal/views"
)

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), waitForChangeCmd(m.bus), textinput.Blink)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)
	case loadedMsg:
		// a change event already carries a newer list than this load
		if m.Loaded {
			return m, nil
		}
		if typed.Err != nil {
			m.setError(typed.Err)
			return m, nil
		}
		m.Loaded = true
		m.setItems(typed.Items)
		return m, nil
	case ListChangedMsg:
		m.Loaded = true
		m.setItems(typed.Items)
		return m, waitForChangeCmd(m.bus)
	case opDoneMsg:
		switch {
		case typed.Err == nil:
			return m, m.setStatus(typed.Op)
		case errors.Is(typed.Err, tasklist.ErrEmptyInput):
		default:
			m.setError(typed.Err)
		}
		return m, nil
	case paletteDoneMsg:
		if typed.Err != nil {
			m.setError(typed.Err)
			return m, nil
		}
		return m, m.setStatus(typed.Message)
	case ClearStatusMsg:
		if typed.Seq == m.statusSeq && !m.Status.IsError {
			m.Status = StatusBar{}
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.Keys.ForceQuit) {
		m.Quitting = true
		return m, tea.Quit
	}
	if m.Palette.Active {
		return m.handlePaletteKey(msg)
	}
	if m.Focus == FocusInput {
		return m.handleInputKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Add):
		text := m.input.Value()
		m.input.SetValue("")
		return m, m.addCmd(text)
	case key.Matches(msg, m.Keys.ToggleFocus), key.Matches(msg, m.Keys.Cancel):
		m.focusList()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.Keys.ToggleFocus), key.Matches(msg, m.Keys.Add):
		m.focusInput()
	case key.Matches(msg, m.Keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}
	case key.Matches(msg, m.Keys.Down):
		if m.Cursor < len(m.Items)-1 {
			m.Cursor++
		}
	case key.Matches(msg, m.Keys.Delete):
		if len(m.Items) == 0 {
			return m, nil
		}
		return m, m.deleteCmd(m.Cursor)
	case key.Matches(msg, m.Keys.Palette):
		m.Palette = CommandPaletteState{Active: true}
		m.commandInput.SetValue("")
		m.commandInput.Focus()
		m.statusSeq++
		m.Status = StatusBar{Text: "command palette active"}
	case key.Matches(msg, m.Keys.Help):
		m.HelpVisible = !m.HelpVisible
		m.helpModel.ShowAll = m.HelpVisible
	}
	return m, nil
}

func (m *Model) focusInput() {
	m.Focus = FocusInput
	m.input.Focus()
}

func (m *Model) focusList() {
	m.Focus = FocusList
	m.input.Blur()
}

func (m *Model) setItems(items []string) {
	m.Items = items
	if m.Cursor >= len(m.Items) {
		m.Cursor = len(m.Items) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

// setStatus shows text and returns the timer that clears it.
func (m *Model) setStatus(text string) tea.Cmd {
	m.LastError = nil
	m.statusSeq++
	m.Status = StatusBar{Text: text}
	if m.StatusTTL <= 0 {
		return nil
	}
	seq := m.statusSeq
	return tea.Tick(m.StatusTTL, func(time.Time) tea.Msg { return ClearStatusMsg{Seq: seq} })
}

func (m *Model) setError(err error) {
	m.statusSeq++
	m.LastError = err
	m.Status = StatusBar{Text: err.Error(), IsError: true}
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		items, err := m.manager.Load(m.ctx)
		return loadedMsg{Items: items, Err: err}
	}
}

func (m Model) addCmd(text string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.manager.Add(m.ctx, text)
		return opDoneMsg{Op: "task added", Err: err}
	}
}

// deleteCmd binds the delete to the index the row has right now.
func (m Model) deleteCmd(index int) tea.Cmd {
	return func() tea.Msg {
		_, err := m.manager.Delete(m.ctx, index)
		return opDoneMsg{Op: fmt.Sprintf("task %d deleted", index+1), Err: err}
	}
}

func waitForChangeCmd(bus *notify.Bus) tea.Cmd {
	if bus == nil {
		return nil
	}
	ch := bus.C()
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ListChangedMsg{Items: ev.Items}
	}
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = "status: error: " + m.Status.Text
		} else {
			status = "status: " + m.Status.Text
		}
	}
	input := m.input.View()
	if m.Palette.Active {
		input = m.commandInput.View()
	}
	cursor := -1
	if m.Focus == FocusList {
		cursor = m.Cursor
	}
	helpView := ""
	if m.HelpVisible {
		helpView = m.helpModel.View(m.Keys)
	}
	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("tasklist | %d tasks | focus: %s", len(m.Items), m.Focus),
		Input:      input,
		List:       views.RenderList(m.Items, cursor),
		Help:       helpView,
		StatusLine: status,
		IsError:    m.Status.IsError,
		Footer:     m.helpModel.ShortHelpView(m.Keys.ShortHelp()),
	})
}
