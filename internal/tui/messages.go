package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/alerta/internal/session"
)

type pushScreenMsg struct {
	screen Screen
}

type popScreenMsg struct{}

// busEventMsg carries a session bus event into the tea loop.
type busEventMsg struct {
	event session.Event
}

func pushScreen(s Screen) tea.Cmd {
	return func() tea.Msg { return pushScreenMsg{screen: s} }
}

func popScreen() tea.Msg { return popScreenMsg{} }
