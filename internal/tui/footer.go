package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// FooterHint is one key hint rendered in the footer.
type FooterHint struct {
	Binding key.Binding
	// Action marks the footer's primary button.
	Action bool
}

func hints(bs ...key.Binding) []FooterHint {
	out := make([]FooterHint, 0, len(bs))
	for _, b := range bs {
		out = append(out, FooterHint{Binding: b})
	}
	return out
}

// informAction is the footer's report button shown on signed-in screens.
var informAction = FooterHint{Binding: keys.Inform, Action: true}

// RenderFooter renders the action bar for width columns.
func RenderFooter(width int, items []FooterHint) string {
	bg := colorMantle
	keyStyle := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Background(bg)
	descStyle := lipgloss.NewStyle().Foreground(colorMuted).Background(bg)
	space := lipgloss.NewStyle().Background(bg).Render(" ")
	sep := lipgloss.NewStyle().Background(bg).Render("  ")

	parts := make([]string, 0, len(items))
	for _, it := range items {
		h := it.Binding.Help()
		if h.Key == "" && h.Desc == "" {
			continue
		}
		if it.Action {
			parts = append(parts, footerActionStyle.Render(h.Key+" "+h.Desc))
			continue
		}
		parts = append(parts, keyStyle.Render(h.Key)+space+descStyle.Render(h.Desc))
	}
	line := strings.Join(parts, sep)
	if line == "" {
		line = descStyle.Render("No shortcuts")
	}
	return renderBar(footerStyle, max(1, width), line)
}

func renderBar(style lipgloss.Style, width int, text string) string {
	line := strings.ReplaceAll(text, "\n", " ")
	line = ansi.Truncate(line, width, "")
	lineW := ansi.StringWidth(line)
	if lineW < width {
		line += strings.Repeat(" ", width-lineW)
	}
	return style.Width(width).MaxWidth(width).Render(line)
}
