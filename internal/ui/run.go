// Package ui is the terminal settings surface: status, settings, region browser, debug and
// help views over a running app, plus the simulation controls.
package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/app"
)

// Run boots the TUI program and blocks until it exits.
func Run(ctx context.Context, a *app.App, version string) error {
	m := newModel(a, version)
	program := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
