// Package tui is the terminal front end: a stack of bubbletea screens over
// the service layer.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"go.uber.org/zap"

	"github.com/jask/alerta/internal/config"
	"github.com/jask/alerta/internal/media"
	"github.com/jask/alerta/internal/service"
	"github.com/jask/alerta/internal/session"
)

// Services are the collaborators screens call into.
type Services struct {
	Auth     *service.AuthService
	Channels *service.ChannelService
	Reports  *service.ReportService
	Media    *media.Loader
	Session  *session.Store
	Bus      *session.Bus
}

// env is shared by every screen of one App.
type env struct {
	ctx        context.Context
	svc        Services
	log        *zap.Logger
	dateFormat string
}

// App is the root model. It owns the screen stack and bridges bus events
// into the tea loop.
type App struct {
	env      *env
	screens  ScreenStack
	events   chan session.Event
	cancel   func()
	width    int
	height   int
	quitting bool
}

func New(ctx context.Context, cfg config.Config, svc Services, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	e := &env{ctx: ctx, svc: svc, log: log, dateFormat: cfg.UI.DateFormat}
	if e.dateFormat == "" {
		e.dateFormat = "02/01/2006 15:04"
	}
	a := &App{env: e, events: make(chan session.Event, 16), width: 100, height: 32}
	if svc.Bus != nil {
		a.cancel = svc.Bus.Subscribe(func(ev session.Event) {
			select {
			case a.events <- ev:
			default:
				log.Warn("dropping bus event, tui not draining", zap.Stringer("kind", ev.Kind))
			}
		})
	}
	a.screens.Push(newLoginScreen(e))
	return a
}

// Close detaches the App from the bus.
func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.listen()}
	if top, ok := a.screens.Top().(ScreenInitializer); ok {
		cmds = append(cmds, top.Init())
	}
	return tea.Batch(cmds...)
}

func (a *App) listen() tea.Cmd {
	ch := a.events
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return busEventMsg{event: ev}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		return a, nil
	case pushScreenMsg:
		return a, a.push(msg.screen)
	case popScreenMsg:
		return a, a.pop()
	case busEventMsg:
		a.env.log.Debug("bus event", zap.Stringer("kind", msg.event.Kind), zap.Int64("channel_id", msg.event.ChannelID))
		return a, tea.Batch(a.broadcast(msg), a.listen())
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			a.quitting = true
			a.Close()
			return a, tea.Quit
		}
		top := a.screens.Top()
		if top == nil {
			return a, nil
		}
		next, cmd, pop := top.Update(msg)
		if pop {
			return a, tea.Batch(cmd, a.pop())
		}
		a.screens.replaceTop(next)
		return a, cmd
	}
	return a, a.broadcast(msg)
}

// broadcast hands a non-key message to every screen; results are typed per
// screen so only the issuer reacts. Only the top screen may pop itself.
func (a *App) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	popTop := false
	last := len(a.screens.items) - 1
	for i, s := range a.screens.items {
		next, cmd, pop := s.Update(msg)
		if next != nil {
			a.screens.items[i] = next
		}
		if pop && i == last {
			popTop = true
		}
		cmds = append(cmds, cmd)
	}
	if popTop {
		cmds = append(cmds, a.pop())
	}
	return tea.Batch(cmds...)
}

func (a *App) push(s Screen) tea.Cmd {
	if s == nil {
		return nil
	}
	a.screens.Push(s)
	a.env.log.Debug("push screen", zap.String("screen", s.Scope()))
	if init, ok := s.(ScreenInitializer); ok {
		return init.Init()
	}
	return nil
}

// pop removes the top screen; popping the last one quits.
func (a *App) pop() tea.Cmd {
	popped := a.screens.Pop()
	if popped != nil {
		a.env.log.Debug("pop screen", zap.String("screen", popped.Scope()))
	}
	if a.screens.Len() == 0 {
		a.quitting = true
		a.Close()
		return tea.Quit
	}
	return nil
}

// Top exposes the visible screen.
func (a *App) Top() Screen { return a.screens.Top() }

// Depth is the number of stacked screens.
func (a *App) Depth() int { return a.screens.Len() }

func (a *App) View() string {
	if a.quitting {
		return "Hasta luego\n"
	}
	header := a.renderHeader()
	var items []FooterHint
	top := a.screens.Top()
	if fp, ok := top.(FooterProvider); ok {
		items = fp.FooterHints()
	}
	footer := RenderFooter(a.width, items)
	bodyHeight := max(0, a.height-lipgloss.Height(header)-lipgloss.Height(footer))
	body := ""
	if top != nil && bodyHeight > 0 {
		body = top.View(max(1, a.width), bodyHeight)
	}
	body = fitHeight(body, bodyHeight)
	view := strings.Join([]string{header, body, footer}, "\n")
	view = fitHeight(view, max(1, a.height))
	return appStyle.Width(max(1, a.width)).MaxWidth(max(1, a.width)).Render(view)
}

func (a *App) renderHeader() string {
	left := headerAppStyle.Render("Alerta")
	crumbs := crumbStyle.Render(strings.Join(a.screens.Titles(), " › "))
	right := ""
	if a.env.svc.Session != nil {
		if u, ok := a.env.svc.Session.Current(); ok {
			right = crumbStyle.Render(u.Email)
		}
	}
	line := left + crumbStyle.Render("  ") + crumbs
	gap := max(1, a.width-ansi.StringWidth(line)-ansi.StringWidth(right))
	return renderBar(headerBarStyle, max(1, a.width), line+strings.Repeat(" ", gap)+right)
}
