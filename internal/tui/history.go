package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/alerta/internal/database/repository"
	"github.com/jask/alerta/internal/service"
)

type historyMsg struct {
	list []repository.SentReport
	err  error
}

// historyScreen lists reports this terminal sent.
type historyScreen struct {
	env     *env
	list    []repository.SentReport
	cursor  int
	loading bool
	modal   Modal
}

func newHistoryScreen(e *env) *historyScreen { return &historyScreen{env: e} }

func (s *historyScreen) Title() string { return "Historial" }
func (s *historyScreen) Scope() string { return "screen:history" }

func (s *historyScreen) FooterHints() []FooterHint {
	return hints(keys.Up, keys.Down, keys.Refresh, keys.Back)
}

func (s *historyScreen) Init() tea.Cmd {
	s.loading = true
	reports, ctx := s.env.svc.Reports, s.env.ctx
	return func() tea.Msg {
		list, err := reports.History(ctx)
		return historyMsg{list: list, err: err}
	}
}

func (s *historyScreen) Update(msg tea.Msg) (Screen, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case historyMsg:
		s.loading = false
		if msg.err != nil {
			s.modal.Open(service.UserMessage(msg.err))
			return s, nil, false
		}
		s.list = msg.list
		if s.cursor >= len(s.list) {
			s.cursor = max(0, len(s.list)-1)
		}
	case tea.KeyMsg:
		if handled, cmd := s.modal.HandleKey(msg); handled {
			return s, cmd, false
		}
		switch {
		case key.Matches(msg, keys.Back):
			return s, nil, true
		case key.Matches(msg, keys.Refresh):
			return s, s.Init(), false
		case key.Matches(msg, keys.Up):
			if s.cursor > 0 {
				s.cursor--
			}
		case key.Matches(msg, keys.Down):
			if s.cursor < len(s.list)-1 {
				s.cursor++
			}
		}
	}
	return s, nil, false
}

func (s *historyScreen) View(width, height int) string {
	lines := []string{titleStyle.Render("Reportes enviados"), ""}
	switch {
	case s.loading:
		lines = append(lines, mutedStyle.Render("Loading…"))
	case len(s.list) == 0:
		lines = append(lines, mutedStyle.Render("Nothing sent from this terminal yet."))
	}
	for i, r := range s.list {
		channel := r.ChannelName
		if r.ChannelID == nil {
			channel = "sin canal"
		}
		row := fmt.Sprintf("%s  %s  (%s)", r.CreatedAt.Local().Format(s.env.dateFormat), r.Title, channel)
		if r.Attachments > 0 {
			row += fmt.Sprintf("  [%d image(s)]", r.Attachments)
		}
		if i == s.cursor {
			row = selectedStyle.Render(row)
			lines = append(lines, row)
			if r.ServerMessage != "" {
				lines = append(lines, successStyle.Render("    "+truncate(r.ServerMessage, max(10, width-6))))
			}
			continue
		}
		lines = append(lines, row)
	}
	return s.modal.overlay(fitHeight(strings.Join(lines, "\n"), height), width, height)
}
