// Package tui is an interactive window picker: list windows, activate
// or close one, or arrange them all into a grid.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/wingrid/internal/engine"
	"github.com/1broseidon/wingrid/internal/windows"
)

// Backend is what the picker drives. *ipc.Client implements it.
type Backend interface {
	ListWindows(appNames []string) ([]windows.Record, error)
	ActivateWindow(id string) (bool, error)
	CloseWindow(id string) (engine.CloseResult, error)
	ArrangeGrid(appNames []string, opts engine.Options) (engine.ArrangeResult, error)
}

// Run shows the picker until the user activates a window or quits. It
// returns the activated window, or nil.
func Run(backend Backend, appNames []string) (*windows.Record, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return nil, fmt.Errorf("pick requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	final, err := tea.NewProgram(newModel(backend, appNames), tea.WithAltScreen()).Run()
	if err != nil {
		return nil, err
	}
	m, ok := final.(model)
	if !ok {
		return nil, nil
	}
	return m.chosen, nil
}
