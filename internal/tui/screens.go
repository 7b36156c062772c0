package tui

import tea "github.com/charmbracelet/bubbletea"

// Screen is a modal drawn over the mounted panel. It sees every message
// before the panel does and reports when it wants to close.
type Screen interface {
	Title() string
	View(width, height int) string
	Update(msg tea.Msg) (Screen, tea.Cmd, bool)
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

// ReplaceTop swaps the top screen for next.
func (s *ScreenStack) ReplaceTop(next Screen) {
	if len(s.items) == 0 || next == nil {
		return
	}
	s.items[len(s.items)-1] = next
}

func (s ScreenStack) Len() int {
	return len(s.items)
}

// Clear drops every screen; used when the panel underneath remounts.
func (s *ScreenStack) Clear() {
	s.items = nil
}
