package update

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/tasklist/internal/commands"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Cancel):
		m.closePalette()
		return m, m.setStatus("command palette closed")
	case msg.Type == tea.KeyEnter:
		raw := strings.TrimSpace(m.commandInput.Value())
		m.closePalette()
		return m, m.paletteCmd(raw)
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m, cmd
}

func (m *Model) closePalette() {
	m.Palette = CommandPaletteState{}
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) paletteCmd(raw string) tea.Cmd {
	return func() tea.Msg {
		cmd, err := commands.Parse(raw)
		if err != nil {
			return paletteDoneMsg{Err: err}
		}
		res, err := commands.Execute(cmd, m.paletteHandlers())
		return paletteDoneMsg{Message: res.Message, Err: err}
	}
}

func (m Model) paletteHandlers() commands.Handlers {
	return commands.NewHandlers(m.ctx, m.manager, m.ExportDir)
}
