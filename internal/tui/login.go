package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/alerta/internal/service"
)

type loginResultMsg struct {
	res service.LoginResult
	err error
}

type loginScreen struct {
	env   *env
	form  form
	modal Modal
	busy  bool
}

func newLoginScreen(e *env) *loginScreen {
	var email, password string
	if e.svc.Auth != nil {
		email, password = e.svc.Auth.Remembered()
	}
	s := &loginScreen{
		env: e,
		form: newForm(
			fieldSpec{Label: "Email", Value: email, Placeholder: "Email"},
			fieldSpec{Label: "Password", Value: password, Secret: true, Placeholder: "Password"},
		),
	}
	if email != "" {
		s.form.move(1)
	}
	return s
}

func (s *loginScreen) Title() string { return "Login" }
func (s *loginScreen) Scope() string { return "screen:login" }

func (s *loginScreen) FooterHints() []FooterHint {
	return hints(keys.Submit, keys.NextField, keys.Register, keys.Quit)
}

func (s *loginScreen) submit() tea.Cmd {
	s.busy = true
	email, password := s.form.value(0), s.form.value(1)
	auth, ctx := s.env.svc.Auth, s.env.ctx
	return func() tea.Msg {
		res, err := auth.Login(ctx, email, password)
		return loginResultMsg{res: res, err: err}
	}
}

func (s *loginScreen) Update(msg tea.Msg) (Screen, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case loginResultMsg:
		s.busy = false
		if msg.err != nil {
			s.modal.Open(service.UserMessage(msg.err))
			return s, nil, false
		}
		if !msg.res.Proceed {
			return s, nil, false
		}
		landing := newLandingScreen(s.env)
		if msg.res.Notice != "" {
			landing.modal.Open(msg.res.Notice)
		}
		return s, pushScreen(landing), false
	case tea.KeyMsg:
		if handled, cmd := s.modal.HandleKey(msg); handled {
			return s, cmd, false
		}
		switch {
		case key.Matches(msg, keys.Back):
			return s, nil, true
		case key.Matches(msg, keys.Register):
			return s, pushScreen(newRegisterScreen(s.env)), false
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

func (s *loginScreen) View(width, height int) string {
	lines := []string{
		titleStyle.Render("Iniciar sesión"),
		"",
		s.form.view(width),
		"",
	}
	if s.busy {
		lines = append(lines, mutedStyle.Render("Signing in…"))
	} else {
		lines = append(lines, mutedStyle.Render("enter: login   ctrl+r: create an account"))
	}
	return s.modal.overlay(strings.Join(lines, "\n"), width, height)
}
