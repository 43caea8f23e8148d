package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/alerta/internal/api"
	"github.com/jask/alerta/internal/media"
	"github.com/jask/alerta/internal/service"
)

const channelDropdownID = "inform-channel"

type informField int

const (
	fieldTitle informField = iota
	fieldDescription
	fieldChannel
	fieldImage
	informFieldCount
)

type informChannelsMsg struct {
	channels []api.Channel
	err      error
}

type imageLoadedMsg struct {
	img media.Image
	err error
}

type reportSentMsg struct {
	out api.CreatedEmergency
	err error
}

type informScreen struct {
	env         *env
	title       textinput.Model
	description textarea.Model
	channel     Dropdown
	imagePath   textinput.Model
	images      []media.Image
	focus       informField
	sending     bool
	modal       Modal
}

func newInformScreen(e *env) *informScreen {
	title := textinput.New()
	title.Prompt = ""
	title.Placeholder = "Ingrese el título"
	title.Focus()

	desc := textarea.New()
	desc.Placeholder = "Ingrese la descripción"
	desc.ShowLineNumbers = false
	desc.SetHeight(4)

	path := textinput.New()
	path.Prompt = ""
	path.Placeholder = "path to an image, enter to attach"

	return &informScreen{
		env:         e,
		title:       title,
		description: desc,
		channel:     NewDropdown(channelDropdownID, nil),
		imagePath:   path,
	}
}

func (s *informScreen) Title() string { return "Reportar" }
func (s *informScreen) Scope() string { return "screen:inform" }

func (s *informScreen) FooterHints() []FooterHint {
	return append([]FooterHint{{Binding: keys.Send, Action: true}},
		hints(keys.FocusNext, keys.Attach, keys.Detach, keys.Back)...)
}

func (s *informScreen) Init() tea.Cmd {
	chans, ctx := s.env.svc.Channels, s.env.ctx
	return func() tea.Msg {
		list, err := chans.Subscribed(ctx)
		return informChannelsMsg{channels: list, err: err}
	}
}

func (s *informScreen) setFocus(f informField) {
	s.title.Blur()
	s.description.Blur()
	s.imagePath.Blur()
	s.focus = (f + informFieldCount) % informFieldCount
	switch s.focus {
	case fieldTitle:
		s.title.Focus()
	case fieldDescription:
		s.description.Focus()
	case fieldImage:
		s.imagePath.Focus()
	}
}

func (s *informScreen) draft() service.Draft {
	d := service.Draft{
		Title:       s.title.Value(),
		Description: s.description.Value(),
		Images:      append([]media.Image(nil), s.images...),
	}
	if opt, ok := s.channel.Selected(); ok {
		id := opt.Value
		d.ChannelID = &id
		d.ChannelName = opt.Label
	}
	return d
}

func (s *informScreen) send() tea.Cmd {
	s.sending = true
	d := s.draft()
	reports, ctx := s.env.svc.Reports, s.env.ctx
	return func() tea.Msg {
		out, err := reports.Create(ctx, d)
		return reportSentMsg{out: out, err: err}
	}
}

func (s *informScreen) attach() tea.Cmd {
	path := strings.TrimSpace(s.imagePath.Value())
	if path == "" {
		return nil
	}
	loader := s.env.svc.Media
	if loader == nil {
		loader = media.NewLoader(0)
	}
	return func() tea.Msg {
		img, err := loader.Load(path)
		return imageLoadedMsg{img: img, err: err}
	}
}

func (s *informScreen) Update(msg tea.Msg) (Screen, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case informChannelsMsg:
		if msg.err != nil {
			s.modal.Open(service.UserMessage(msg.err))
			return s, nil, false
		}
		opts := make([]Option, 0, len(msg.channels))
		for _, ch := range msg.channels {
			opts = append(opts, Option{Value: ch.ID, Label: ch.Name})
		}
		s.channel.SetOptions(opts)
		return s, nil, false
	case DropdownSelectedMsg:
		if msg.ID == channelDropdownID {
			s.setFocus(fieldImage)
		}
		return s, nil, false
	case imageLoadedMsg:
		if msg.err != nil {
			s.modal.Open(service.UserMessage(msg.err))
			return s, nil, false
		}
		s.images = append(s.images, msg.img)
		s.imagePath.Reset()
		return s, nil, false
	case reportSentMsg:
		s.sending = false
		if msg.err != nil {
			s.modal.Open(service.UserMessage(msg.err))
			return s, nil, false
		}
		s.modal.OpenThen(msg.out.Message, func() tea.Cmd { return popScreen })
		return s, nil, false
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, s.updateFocused(msg), false
}

func (s *informScreen) handleKey(msg tea.KeyMsg) (Screen, tea.Cmd, bool) {
	if handled, cmd := s.modal.HandleKey(msg); handled {
		return s, cmd, false
	}
	if s.focus == fieldChannel {
		if handled, cmd := s.channel.HandleKey(msg); handled {
			return s, cmd, false
		}
	}
	switch {
	case key.Matches(msg, keys.Back):
		return s, nil, true
	case key.Matches(msg, keys.Send):
		if s.sending {
			return s, nil, false
		}
		return s, s.send(), false
	case key.Matches(msg, keys.FocusNext):
		s.setFocus(s.focus + 1)
		return s, nil, false
	case key.Matches(msg, keys.FocusPrev):
		s.setFocus(s.focus - 1)
		return s, nil, false
	case key.Matches(msg, keys.Attach):
		s.setFocus(fieldImage)
		return s, s.attach(), false
	case key.Matches(msg, keys.Detach):
		if n := len(s.images); n > 0 {
			s.images = s.images[:n-1]
		}
		return s, nil, false
	case key.Matches(msg, keys.Submit):
		switch s.focus {
		case fieldTitle:
			s.setFocus(fieldDescription)
			return s, nil, false
		case fieldImage:
			return s, s.attach(), false
		}
	}
	return s, s.updateFocused(msg), false
}

func (s *informScreen) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch s.focus {
	case fieldTitle:
		s.title, cmd = s.title.Update(msg)
	case fieldDescription:
		s.description, cmd = s.description.Update(msg)
	case fieldImage:
		s.imagePath, cmd = s.imagePath.Update(msg)
	}
	return cmd
}

func (s *informScreen) View(width, height int) string {
	w := max(20, min(width-4, 60))
	box := func(f informField, body string) string {
		if s.focus == f {
			return focusedFieldStyle.Width(w).Render(body)
		}
		return fieldStyle.Width(w).Render(body)
	}
	s.title.Width = w - 4
	s.description.SetWidth(w - 4)
	s.imagePath.Width = w - 4

	lines := []string{
		titleStyle.Render("Reportar emergencia"),
		labelStyle.Render("Título"),
		box(fieldTitle, s.title.View()),
		labelStyle.Render("Descripción"),
		box(fieldDescription, s.description.View()),
		labelStyle.Render("Canal"),
		s.channel.View(s.focus == fieldChannel),
		labelStyle.Render("Imágenes"),
		box(fieldImage, s.imagePath.View()),
	}
	for _, img := range s.images {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("  • %s (%s, %dx%d, %d bytes)", img.Name, img.Format, img.Width, img.Height, len(img.Data))))
	}
	if s.sending {
		lines = append(lines, "", mutedStyle.Render("Enviando…"))
	}
	return s.modal.overlay(fitHeight(strings.Join(lines, "\n"), height), width, height)
}
