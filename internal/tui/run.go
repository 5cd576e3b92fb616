package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the full-screen interface and blocks until the user quits.
func Run(ctrl Controller, presets [][2]int) error {
	program := tea.NewProgram(New(ctrl, presets), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
