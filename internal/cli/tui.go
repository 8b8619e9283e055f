package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/tasklist/internal/config"
	"github.com/sandeepkv93/tasklist/internal/notify"
	"github.com/sandeepkv93/tasklist/internal/tasklist"
	"github.com/sandeepkv93/tasklist/internal/update"
)

// runTUI opens the store and hands it to the bubbletea program. Logs are
// diverted away from the terminal while the program owns it.
func (a *app) runTUI(ctx context.Context) error {
	restore, err := a.divertLogs()
	if err != nil {
		return err
	}
	defer restore()

	bus := notify.NewBus(a.cfg.EventBuffer)
	defer bus.Close()

	s, err := a.open(ctx, tasklist.WithRenderer(bus.Renderer()))
	if err != nil {
		return err
	}
	defer a.closeSession(s)

	model := update.NewModel(ctx, s.manager, bus)
	model.ExportDir = exportDir()
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	if m, ok := final.(update.Model); ok && m.LastError != nil {
		a.log.WithError(m.LastError).Debug("tui exited after error")
	}
	return nil
}

func (a *app) divertLogs() (func(), error) {
	prev := a.log.Out
	if !a.flags.debug {
		a.log.SetOutput(io.Discard)
		return func() { a.log.SetOutput(prev) }, nil
	}
	path := filepath.Join(config.DefaultDataDir(), "tasklist-debug.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open debug log: %w", err)
	}
	a.log.SetOutput(f)
	return func() {
		a.log.SetOutput(prev)
		_ = f.Close()
	}, nil
}
