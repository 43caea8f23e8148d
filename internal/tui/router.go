package tui

import tea "github.com/charmbracelet/bubbletea"

// Screen is one entry of the navigation stack. Update returns true to pop itself.
type Screen interface {
	Update(msg tea.Msg) (Screen, tea.Cmd, bool)
	View(width, height int) string
	Scope() string
	Title() string
}

// ScreenInitializer is implemented by screens that load data when pushed.
type ScreenInitializer interface {
	Init() tea.Cmd
}

// FooterProvider lets a screen contribute key hints to the footer.
type FooterProvider interface {
	FooterHints() []FooterHint
}

type ScreenStack struct {
	items []Screen
}

func (s *ScreenStack) Push(screen Screen) {
	if screen == nil {
		return
	}
	s.items = append(s.items, screen)
}

func (s *ScreenStack) Pop() Screen {
	if len(s.items) == 0 {
		return nil
	}
	last := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return last
}

func (s ScreenStack) Top() Screen {
	if len(s.items) == 0 {
		return nil
	}
	return s.items[len(s.items)-1]
}

func (s ScreenStack) Len() int {
	return len(s.items)
}

// replaceTop swaps the top screen for next.
func (s *ScreenStack) replaceTop(next Screen) {
	if next == nil || len(s.items) == 0 {
		return
	}
	s.items[len(s.items)-1] = next
}

// Titles lists screen titles bottom to top.
func (s ScreenStack) Titles() []string {
	out := make([]string, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it.Title())
	}
	return out
}
