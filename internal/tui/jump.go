package tui

import (
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/utrainer/utrainer/internal/filter"
	"github.com/utrainer/utrainer/internal/nav"
)

var viewSpec = filter.Spec[nav.View]{
	Text: func(v nav.View) string { return nav.Breadcrumb(v.Key) },
}

// jumpScreen is a type-to-filter picker over every sub-view.
type jumpScreen struct {
	views  []nav.View
	query  string
	cursor int
}

func newJumpScreen() *jumpScreen {
	var views []nav.View
	for _, top := range nav.Tree {
		views = append(views, top.Subs...)
	}
	return &jumpScreen{views: views}
}

func (s *jumpScreen) Title() string { return "Go to view" }

func (s *jumpScreen) matches() []nav.View {
	return filter.Apply(s.views, viewSpec, filter.State{Search: s.query})
}

func (s *jumpScreen) Update(msg tea.Msg) (Screen, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil, false
	}
	items := s.matches()
	switch km.String() {
	case "esc":
		return s, nil, true
	case "enter":
		if len(items) == 0 {
			return s, nil, false
		}
		target := items[clampCursor(s.cursor, len(items))].Key
		return s, navigateCmd(target, nil), true
	case "up", "ctrl+p":
		s.cursor = clampCursor(s.cursor-1, len(items))
	case "down", "ctrl+n":
		s.cursor = clampCursor(s.cursor+1, len(items))
	case "backspace":
		if r := []rune(s.query); len(r) > 0 {
			s.query = string(r[:len(r)-1])
			s.cursor = 0
		}
	default:
		if km.Type == tea.KeyRunes && !km.Alt && printable(km.Runes) {
			s.query += string(km.Runes)
			s.cursor = 0
		}
	}
	return s, nil, false
}

func printable(runes []rune) bool {
	for _, r := range runes {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return len(runes) > 0
}

func (s *jumpScreen) View(width, height int) string {
	q := s.query
	if q == "" {
		q = mutedStyle.Render("(type to filter)")
	}
	lines := []string{titleStyle.Render(s.Title()), "Filter: " + q, ""}
	items := s.matches()
	if len(items) == 0 {
		lines = append(lines, emptyState("No views match."))
		if hints := filter.Suggest(s.views, viewSpec, s.query, 2); len(hints) > 0 {
			lines = append(lines, mutedStyle.Render("did you mean: ")+strings.Join(hints, ", "))
		}
	}
	cursor := clampCursor(s.cursor, len(items))
	for i, v := range items {
		label := nav.Breadcrumb(v.Key)
		if i == cursor {
			lines = append(lines, selectedStyle.Render("› "+label))
			continue
		}
		lines = append(lines, "  "+label)
	}
	lines = append(lines, "", mutedStyle.Render("enter go · esc cancel"))
	return strings.Join(lines, "\n")
}
