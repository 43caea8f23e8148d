package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/alerta/internal/api"
	"github.com/jask/alerta/internal/service"
	"github.com/jask/alerta/internal/session"
)

type landingChannelsMsg struct {
	channels []api.Channel
	err      error
}

type landingEmergenciesMsg struct {
	channelID int64
	list      []api.Emergency
	err       error
}

type landingUnsubscribedMsg struct {
	channelID int64
	ack       api.Ack
	err       error
}

type landingScreen struct {
	env      *env
	channels []api.Channel
	cursor   int
	expanded int64
	reports  map[int64][]api.Emergency
	loading  bool
	fetches  int
	modal    Modal
}

func newLandingScreen(e *env) *landingScreen {
	return &landingScreen{env: e, expanded: -1, reports: map[int64][]api.Emergency{}}
}

func (s *landingScreen) Title() string { return "Canales" }
func (s *landingScreen) Scope() string { return "screen:landing" }

func (s *landingScreen) FooterHints() []FooterHint {
	return append([]FooterHint{informAction},
		hints(keys.Expand, keys.Subscribe, keys.Unsubscribe, keys.History, keys.Refresh, keys.Back)...)
}

func (s *landingScreen) Init() tea.Cmd { return s.fetch() }

func (s *landingScreen) fetch() tea.Cmd {
	s.loading = true
	s.fetches++
	chans, ctx := s.env.svc.Channels, s.env.ctx
	return func() tea.Msg {
		list, err := chans.Subscribed(ctx)
		return landingChannelsMsg{channels: list, err: err}
	}
}

func (s *landingScreen) fetchEmergencies(id int64) tea.Cmd {
	chans, ctx := s.env.svc.Channels, s.env.ctx
	return func() tea.Msg {
		list, err := chans.Emergencies(ctx, id)
		return landingEmergenciesMsg{channelID: id, list: list, err: err}
	}
}

func (s *landingScreen) unsubscribe(ch api.Channel) tea.Cmd {
	chans, ctx := s.env.svc.Channels, s.env.ctx
	return func() tea.Msg {
		ack, err := chans.Unsubscribe(ctx, ch.ID)
		return landingUnsubscribedMsg{channelID: ch.ID, ack: ack, err: err}
	}
}

func (s *landingScreen) current() (api.Channel, bool) {
	if s.cursor < 0 || s.cursor >= len(s.channels) {
		return api.Channel{}, false
	}
	return s.channels[s.cursor], true
}

func (s *landingScreen) Update(msg tea.Msg) (Screen, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case busEventMsg:
		if msg.event.Kind == session.SubscriptionsChanged {
			return s, s.fetch(), false
		}
	case landingChannelsMsg:
		s.loading = false
		if msg.err != nil {
			s.modal.Open(service.UserMessage(msg.err))
			return s, nil, false
		}
		s.channels = msg.channels
		if s.cursor >= len(s.channels) {
			s.cursor = max(0, len(s.channels)-1)
		}
		found := false
		for _, ch := range s.channels {
			if ch.ID == s.expanded {
				found = true
			}
		}
		if !found {
			s.expanded = -1
		}
	case landingEmergenciesMsg:
		if msg.err != nil {
			if s.expanded == msg.channelID {
				s.expanded = -1
			}
			s.modal.Open(service.UserMessage(msg.err))
			return s, nil, false
		}
		s.reports[msg.channelID] = msg.list
	case landingUnsubscribedMsg:
		if msg.err != nil {
			s.modal.Open(service.UserMessage(msg.err))
			return s, nil, false
		}
		delete(s.reports, msg.channelID)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil, false
}

func (s *landingScreen) handleKey(msg tea.KeyMsg) (Screen, tea.Cmd, bool) {
	if handled, cmd := s.modal.HandleKey(msg); handled {
		return s, cmd, false
	}
	switch {
	case key.Matches(msg, keys.Back):
		return s, nil, true
	case key.Matches(msg, keys.Up):
		if s.cursor > 0 {
			s.cursor--
		}
	case key.Matches(msg, keys.Down):
		if s.cursor < len(s.channels)-1 {
			s.cursor++
		}
	case key.Matches(msg, keys.Expand):
		ch, ok := s.current()
		if !ok {
			return s, nil, false
		}
		if s.expanded == ch.ID {
			s.expanded = -1
			return s, nil, false
		}
		s.expanded = ch.ID
		return s, s.fetchEmergencies(ch.ID), false
	case key.Matches(msg, keys.Unsubscribe):
		ch, ok := s.current()
		if !ok {
			return s, nil, false
		}
		s.modal.OpenConfirm(fmt.Sprintf("Unsubscribe from channel %q?", ch.Name), func() tea.Cmd {
			return s.unsubscribe(ch)
		})
	case key.Matches(msg, keys.Subscribe):
		return s, pushScreen(newSubscribeScreen(s.env)), false
	case key.Matches(msg, keys.Inform), key.Matches(msg, keys.InformAlt):
		return s, pushScreen(newInformScreen(s.env)), false
	case key.Matches(msg, keys.History):
		return s, pushScreen(newHistoryScreen(s.env)), false
	case key.Matches(msg, keys.Refresh):
		return s, s.fetch(), false
	}
	return s, nil, false
}

func (s *landingScreen) View(width, height int) string {
	lines := []string{titleStyle.Render("Tus canales suscritos:"), ""}
	switch {
	case s.loading && len(s.channels) == 0:
		lines = append(lines, mutedStyle.Render("Loading…"))
	case len(s.channels) == 0:
		lines = append(lines, mutedStyle.Render("No subscriptions yet. Press s to subscribe to a channel."))
	}
	for i, ch := range s.channels {
		marker := "▸"
		if ch.ID == s.expanded {
			marker = "▾"
		}
		row := fmt.Sprintf("%s %s", marker, ch.Name)
		if i == s.cursor {
			row = selectedStyle.Render(row)
		}
		lines = append(lines, row)
		if ch.ID == s.expanded {
			lines = append(lines, s.renderReports(ch.ID, width)...)
		}
	}
	return s.modal.overlay(fitHeight(strings.Join(lines, "\n"), height), width, height)
}

func (s *landingScreen) renderReports(channelID int64, width int) []string {
	list, ok := s.reports[channelID]
	if !ok {
		return []string{mutedStyle.Render("    loading reports…")}
	}
	if len(list) == 0 {
		return []string{mutedStyle.Render("    no reports in this channel")}
	}
	out := make([]string, 0, len(list)*2)
	for _, e := range list {
		head := "    • " + labelStyle.Render(e.Title)
		if n := len(e.Images); n > 0 {
			head += mutedStyle.Render(fmt.Sprintf("  [%d image(s)]", n))
		}
		out = append(out, head)
		if d := strings.TrimSpace(e.Description); d != "" {
			out = append(out, mutedStyle.Render("      "+truncate(d, max(10, width-8))))
		}
		for _, img := range e.Images {
			if img.IsInline() {
				out = append(out, mutedStyle.Render("      (inline image)"))
				continue
			}
			out = append(out, mutedStyle.Render("      "+truncate(img.URL, max(10, width-8))))
		}
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(strings.ReplaceAll(s, "\n", " "))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:max(0, n-1)]) + "…"
}
