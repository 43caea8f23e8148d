package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/alerta/internal/api"
	"github.com/jask/alerta/internal/service"
)

type availableChannelsMsg struct {
	channels []api.Channel
	err      error
}

type subscribedMsg struct {
	channelID int64
	ack       api.Ack
	err       error
}

type subscribeScreen struct {
	env      *env
	all      []api.Channel
	visible  []api.Channel
	filter   textinput.Model
	cursor   int
	loading  bool
	inflight bool
	modal    Modal
}

func newSubscribeScreen(e *env) *subscribeScreen {
	in := textinput.New()
	in.Prompt = "Filtrar: "
	in.Placeholder = "type to filter"
	in.Focus()
	return &subscribeScreen{env: e, filter: in}
}

func (s *subscribeScreen) Title() string { return "Suscribirse" }
func (s *subscribeScreen) Scope() string { return "screen:subscribe" }

func (s *subscribeScreen) FooterHints() []FooterHint {
	return append([]FooterHint{{Binding: keys.InformAlt, Action: true}},
		hints(keys.Up, keys.Down, keys.Submit, keys.Back)...)
}

func (s *subscribeScreen) Init() tea.Cmd {
	s.loading = true
	chans, ctx := s.env.svc.Channels, s.env.ctx
	return func() tea.Msg {
		list, err := chans.Available(ctx)
		return availableChannelsMsg{channels: list, err: err}
	}
}

func (s *subscribeScreen) subscribe(ch api.Channel) tea.Cmd {
	s.inflight = true
	chans, ctx := s.env.svc.Channels, s.env.ctx
	return func() tea.Msg {
		ack, err := chans.Subscribe(ctx, ch.ID)
		return subscribedMsg{channelID: ch.ID, ack: ack, err: err}
	}
}

func (s *subscribeScreen) refilter() {
	s.visible = filterChannels(s.all, s.filter.Value())
	if s.cursor >= len(s.visible) {
		s.cursor = max(0, len(s.visible)-1)
	}
}

func (s *subscribeScreen) Update(msg tea.Msg) (Screen, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case availableChannelsMsg:
		s.loading = false
		if msg.err != nil {
			s.modal.Open(service.UserMessage(msg.err))
			return s, nil, false
		}
		s.all = msg.channels
		s.refilter()
		return s, nil, false
	case subscribedMsg:
		s.inflight = false
		if msg.err != nil {
			s.modal.Open(service.UserMessage(msg.err))
			return s, nil, false
		}
		return s, nil, true
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	var cmd tea.Cmd
	s.filter, cmd = s.filter.Update(msg)
	return s, cmd, false
}

func (s *subscribeScreen) handleKey(msg tea.KeyMsg) (Screen, tea.Cmd, bool) {
	if handled, cmd := s.modal.HandleKey(msg); handled {
		return s, cmd, false
	}
	switch {
	case key.Matches(msg, keys.Back):
		return s, nil, true
	case key.Matches(msg, keys.InformAlt):
		if s.inflight {
			return s, nil, false
		}
		return s, pushScreen(newInformScreen(s.env)), false
	case msg.Type == tea.KeyUp:
		if s.cursor > 0 {
			s.cursor--
		}
		return s, nil, false
	case msg.Type == tea.KeyDown:
		if s.cursor < len(s.visible)-1 {
			s.cursor++
		}
		return s, nil, false
	case key.Matches(msg, keys.Submit):
		if s.inflight || s.cursor >= len(s.visible) {
			return s, nil, false
		}
		ch := s.visible[s.cursor]
		s.modal.OpenConfirm(fmt.Sprintf("Subscribe to channel %q?", ch.Name), func() tea.Cmd {
			return s.subscribe(ch)
		})
		return s, nil, false
	}
	var cmd tea.Cmd
	before := s.filter.Value()
	s.filter, cmd = s.filter.Update(msg)
	if s.filter.Value() != before {
		s.refilter()
	}
	return s, cmd, false
}

func (s *subscribeScreen) View(width, height int) string {
	lines := []string{titleStyle.Render("Canales disponibles:"), s.filter.View(), ""}
	lines = append(lines, labelStyle.Render(fmt.Sprintf("%-6s %s", "ID", "Nombre")))
	switch {
	case s.loading:
		lines = append(lines, mutedStyle.Render("Loading…"))
	case len(s.all) == 0:
		lines = append(lines, mutedStyle.Render("You are subscribed to every channel."))
	case len(s.visible) == 0:
		lines = append(lines, mutedStyle.Render("No channel matches the filter."))
	}
	for i, ch := range s.visible {
		row := fmt.Sprintf("%-6d %s", ch.ID, ch.Name)
		if i == s.cursor {
			row = selectedStyle.Render(row)
		}
		lines = append(lines, row)
	}
	if s.inflight {
		lines = append(lines, "", mutedStyle.Render("Subscribing…"))
	}
	return s.modal.overlay(fitHeight(strings.Join(lines, "\n"), height), width, height)
}
