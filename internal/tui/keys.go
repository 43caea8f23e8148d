package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit        key.Binding
	Back        key.Binding
	Submit      key.Binding
	NextField   key.Binding
	PrevField   key.Binding
	FocusNext   key.Binding
	FocusPrev   key.Binding
	Up          key.Binding
	Down        key.Binding
	Register    key.Binding
	Expand      key.Binding
	Unsubscribe key.Binding
	Subscribe   key.Binding
	Inform      key.Binding
	InformAlt   key.Binding
	History     key.Binding
	Refresh     key.Binding
	Attach      key.Binding
	Detach      key.Binding
	Send        key.Binding
	Toggle      key.Binding
	Accept      key.Binding
	Close       key.Binding
}

var keys = keyMap{
	Quit:        key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Submit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
	NextField:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	PrevField:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
	FocusNext:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	FocusPrev:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
	Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Register:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "register")),
	Expand:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "expand")),
	Unsubscribe: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unsubscribe")),
	Subscribe:   key.NewBinding(key.WithKeys("s", "+"), key.WithHelp("s", "subscribe")),
	Inform:      key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "report emergency")),
	InformAlt:   key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "report emergency")),
	History:     key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "history")),
	Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Attach:      key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "attach image")),
	Detach:      key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "drop last image")),
	Send:        key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "send")),
	Toggle:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "open list")),
	Accept:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "Aceptar")),
	Close:       key.NewBinding(key.WithKeys("esc", "x"), key.WithHelp("esc", "close")),
}
