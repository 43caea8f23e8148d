package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const dropdownPlaceholder = "Select option"

type Option struct {
	Value int64
	Label string
}

// DropdownSelectedMsg reports a choice made in a Dropdown.
type DropdownSelectedMsg struct {
	ID     string
	Option Option
}

// Dropdown is a single-choice list that opens in place.
type Dropdown struct {
	ID      string
	Options []Option

	open     bool
	cursor   int
	selected *Option
}

func NewDropdown(id string, options []Option) Dropdown {
	return Dropdown{ID: id, Options: options}
}

func (d *Dropdown) Toggle() {
	d.open = !d.open
	if d.open {
		d.cursor = 0
		if d.selected != nil {
			for i, o := range d.Options {
				if o == *d.selected {
					d.cursor = i
				}
			}
		}
	}
}

func (d *Dropdown) IsOpen() bool { return d.open }

func (d *Dropdown) Selected() (Option, bool) {
	if d.selected == nil {
		return Option{}, false
	}
	return *d.selected, true
}

// SetOptions replaces the list. A selection that is no longer offered is cleared.
func (d *Dropdown) SetOptions(opts []Option) {
	d.Options = opts
	if d.selected != nil {
		keep := false
		for _, o := range opts {
			if o == *d.selected {
				keep = true
			}
		}
		if !keep {
			d.selected = nil
		}
	}
	if d.cursor >= len(opts) {
		d.cursor = max(0, len(opts)-1)
	}
}

// Select picks index i, closes the list and reports the choice.
func (d *Dropdown) Select(i int) tea.Cmd {
	if i < 0 || i >= len(d.Options) {
		d.open = false
		return nil
	}
	opt := d.Options[i]
	d.selected = &opt
	d.open = false
	id := d.ID
	return func() tea.Msg { return DropdownSelectedMsg{ID: id, Option: opt} }
}

// HandleKey returns true when the key was used by the dropdown.
func (d *Dropdown) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if !d.open {
		if key.Matches(msg, keys.Toggle) {
			d.Toggle()
			return true, nil
		}
		return false, nil
	}
	switch {
	case key.Matches(msg, keys.Up):
		if d.cursor > 0 {
			d.cursor--
		}
		return true, nil
	case key.Matches(msg, keys.Down):
		if d.cursor < len(d.Options)-1 {
			d.cursor++
		}
		return true, nil
	case key.Matches(msg, keys.Submit):
		return true, d.Select(d.cursor)
	case key.Matches(msg, keys.Back):
		d.open = false
		return true, nil
	}
	return true, nil
}

func (d *Dropdown) View(focused bool) string {
	label := dropdownPlaceholder
	if d.selected != nil {
		label = d.selected.Label
	}
	style := fieldStyle
	if focused {
		style = focusedFieldStyle
	}
	out := style.Render(label + " ▾")
	if !d.open {
		return out
	}
	lines := []string{out}
	if len(d.Options) == 0 {
		lines = append(lines, mutedStyle.Render("  (no channels)"))
	}
	for i, o := range d.Options {
		prefix := "  "
		if i == d.cursor {
			prefix = cursorStyle.Render("> ")
		}
		lines = append(lines, prefix+o.Label)
	}
	return strings.Join(lines, "\n")
}
