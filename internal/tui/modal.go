package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const modalTitle = "Atención"

// Modal is the alert / confirmation dialog owned by a screen. Accept runs the
// confirm callback when one was given, otherwise it behaves like Close. Close
// never runs the confirm callback.
type Modal struct {
	message   string
	visible   bool
	onConfirm func() tea.Cmd
	onClose   func() tea.Cmd
}

// Open shows message as a plain alert.
func (m *Modal) Open(message string) {
	m.show(message, nil, nil)
}

// OpenThen shows message; dismissing it by either button runs onClose.
func (m *Modal) OpenThen(message string, onClose func() tea.Cmd) {
	m.show(message, nil, onClose)
}

// OpenConfirm shows message and runs onConfirm on accept.
func (m *Modal) OpenConfirm(message string, onConfirm func() tea.Cmd) {
	m.show(message, onConfirm, nil)
}

func (m *Modal) show(message string, onConfirm, onClose func() tea.Cmd) {
	m.message = message
	m.visible = true
	m.onConfirm = onConfirm
	m.onClose = onClose
}

func (m *Modal) Visible() bool { return m.visible }

func (m *Modal) Message() string { return m.message }

// Accept is the "Aceptar" button.
func (m *Modal) Accept() tea.Cmd {
	if !m.visible {
		return nil
	}
	if m.onConfirm != nil {
		fn := m.onConfirm
		m.reset()
		return fn()
	}
	return m.Close()
}

// Close is the × button.
func (m *Modal) Close() tea.Cmd {
	if !m.visible {
		return nil
	}
	fn := m.onClose
	m.reset()
	if fn != nil {
		return fn()
	}
	return nil
}

func (m *Modal) reset() {
	m.visible = false
	m.message = ""
	m.onConfirm = nil
	m.onClose = nil
}

// HandleKey consumes every key while the modal is visible.
func (m *Modal) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if !m.visible {
		return false, nil
	}
	switch {
	case key.Matches(msg, keys.Accept):
		return true, m.Accept()
	case key.Matches(msg, keys.Close):
		return true, m.Close()
	}
	return true, nil
}

func (m *Modal) View(width int) string {
	inner := max(20, min(width, 60))
	head := lipgloss.JoinHorizontal(lipgloss.Top,
		modalTitleStyle.Width(inner-3).Render(modalTitle),
		modalCloseStyle.Render("×"),
	)
	body := lipgloss.NewStyle().Width(inner).Render(m.message)
	button := lipgloss.PlaceHorizontal(inner, lipgloss.Center, modalButtonStyle.Render("Aceptar"))
	hint := mutedStyle.Render("enter: aceptar  esc: cerrar")
	return strings.Join([]string{head, "", body, "", button, hint}, "\n")
}

// overlay draws the modal on top of base when visible.
func (m *Modal) overlay(base string, width, height int) string {
	if !m.visible {
		return base
	}
	return RenderPopup(base, m.View(width-10), width, height)
}
