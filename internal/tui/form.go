package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type fieldSpec struct {
	Label       string
	Value       string
	Secret      bool
	Placeholder string
}

// form is a column of single-line inputs with one focused at a time.
type form struct {
	labels []string
	inputs []textinput.Model
	focus  int
}

func newForm(specs ...fieldSpec) form {
	f := form{}
	for i, sp := range specs {
		inp := textinput.New()
		inp.Prompt = ""
		inp.Placeholder = sp.Placeholder
		inp.SetValue(sp.Value)
		if sp.Secret {
			inp.EchoMode = textinput.EchoPassword
			inp.EchoCharacter = '•'
		}
		if i == 0 {
			inp.Focus()
		}
		f.labels = append(f.labels, sp.Label)
		f.inputs = append(f.inputs, inp)
	}
	return f
}

func (f *form) move(dir int) {
	if len(f.inputs) == 0 {
		return
	}
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + dir + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

// handleNav moves focus on tab/shift+tab (and arrows) and reports whether it did.
func (f *form) handleNav(msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, keys.NextField):
		f.move(1)
		return true
	case key.Matches(msg, keys.PrevField):
		f.move(-1)
		return true
	}
	return false
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *form) value(i int) string {
	if i < 0 || i >= len(f.inputs) {
		return ""
	}
	return f.inputs[i].Value()
}

func (f *form) reset() {
	for i := range f.inputs {
		f.inputs[i].Reset()
	}
	f.inputs[f.focus].Blur()
	f.focus = 0
	f.inputs[0].Focus()
}

func (f *form) view(width int) string {
	w := max(10, min(width-4, 50))
	lines := make([]string, 0, len(f.inputs)*2)
	for i, in := range f.inputs {
		style := fieldStyle
		if i == f.focus {
			style = focusedFieldStyle
		}
		in.Width = w - 4
		lines = append(lines, labelStyle.Render(f.labels[i]), style.Width(w).Render(in.View()))
	}
	return strings.Join(lines, "\n")
}
