package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/alerta/internal/service"
)

type registerResultMsg struct {
	text string
	err  error
}

type registerScreen struct {
	env   *env
	form  form
	modal Modal
	busy  bool
}

func newRegisterScreen(e *env) *registerScreen {
	return &registerScreen{
		env: e,
		form: newForm(
			fieldSpec{Label: "Email", Placeholder: "Email"},
			fieldSpec{Label: "Password", Secret: true, Placeholder: "Password"},
			fieldSpec{Label: "Confirm password", Secret: true, Placeholder: "Confirm Password"},
		),
	}
}

func (s *registerScreen) Title() string { return "Registro" }
func (s *registerScreen) Scope() string { return "screen:register" }

func (s *registerScreen) FooterHints() []FooterHint {
	return hints(keys.Submit, keys.NextField, keys.Back)
}

func (s *registerScreen) submit() tea.Cmd {
	s.busy = true
	email, password, confirm := s.form.value(0), s.form.value(1), s.form.value(2)
	auth, ctx := s.env.svc.Auth, s.env.ctx
	return func() tea.Msg {
		text, err := auth.Register(ctx, email, password, confirm)
		return registerResultMsg{text: text, err: err}
	}
}

func (s *registerScreen) Update(msg tea.Msg) (Screen, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case registerResultMsg:
		s.busy = false
		back := func() tea.Cmd { return popScreen }
		switch {
		case errors.Is(msg.err, service.ErrPasswordMismatch):
			s.modal.Open(service.UserMessage(msg.err))
		case msg.err != nil:
			s.modal.OpenThen(service.UserMessage(msg.err), back)
		default:
			s.form.reset()
			s.modal.OpenThen(msg.text, back)
		}
		return s, nil, false
	case tea.KeyMsg:
		if handled, cmd := s.modal.HandleKey(msg); handled {
			return s, cmd, false
		}
		switch {
		case key.Matches(msg, keys.Back):
			return s, nil, true
		case key.Matches(msg, keys.Submit):
			if s.busy {
				return s, nil, false
			}
			return s, s.submit(), false
		}
		if s.form.handleNav(msg) {
			return s, nil, false
		}
		return s, s.form.update(msg), false
	}
	return s, s.form.update(msg), false
}

func (s *registerScreen) View(width, height int) string {
	lines := []string{
		titleStyle.Render("Crear cuenta"),
		"",
		s.form.view(width),
		"",
		mutedStyle.Render("enter: Registrarse   esc: back"),
	}
	return s.modal.overlay(strings.Join(lines, "\n"), width, height)
}
