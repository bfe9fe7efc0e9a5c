package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/bluetui/internal/bluetooth"
)

// Run shows the device browser full screen until the user quits. It returns
// the fatal error that ended it, if any. The terminal is restored on every
// path out, panics included.
func Run(ctx context.Context, session bluetooth.Session) error {
	m := New(ctx, session)
	defer m.Shutdown()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run terminal ui: %w", err)
	}

	if fm, ok := final.(*Model); ok && fm.Err() != nil {
		return fm.Err()
	}
	return nil
}
