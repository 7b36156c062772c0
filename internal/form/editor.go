package form

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Edit is a value change produced by the editor.
type Edit struct {
	Key   string
	Value any
}

// Editor moves focus across a field list and edits the focused field.
// Values live with the caller; the editor only reads them for display and
// reports changes as Edits.
type Editor struct {
	fields   []Field
	focus    int
	input    textinput.Model
	registry Registry
}

func NewEditor(reg Registry, fields ...Field) *Editor {
	normalized := make([]Field, 0, len(fields))
	for _, f := range fields {
		normalized = append(normalized, f.Normalize())
	}
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 128
	return &Editor{fields: normalized, input: in, registry: reg}
}

func (e *Editor) Fields() []Field { return e.fields }

// Focused returns the focused field, if any.
func (e *Editor) Focused() (Field, bool) {
	if e.focus < 0 || e.focus >= len(e.fields) {
		return Field{}, false
	}
	return e.fields[e.focus], true
}

// Focus puts the cursor on the first field and loads its value.
func (e *Editor) Focus(values map[string]any) tea.Cmd {
	e.focus = 0
	return e.load(values)
}

func (e *Editor) load(values map[string]any) tea.Cmd {
	f, ok := e.Focused()
	if !ok || !f.textual() {
		e.input.Blur()
		return nil
	}
	e.input.SetValue(display(values[f.Key]))
	e.input.Placeholder = f.Placeholder
	e.input.CursorEnd()
	return e.input.Focus()
}

func (e *Editor) move(delta int, values map[string]any) tea.Cmd {
	if len(e.fields) == 0 {
		return nil
	}
	e.focus = (e.focus + delta + len(e.fields)) % len(e.fields)
	return e.load(values)
}

// Update handles one key. It returns the resulting edit, if any.
func (e *Editor) Update(msg tea.KeyMsg, values map[string]any) (*Edit, tea.Cmd) {
	f, ok := e.Focused()
	if !ok {
		return nil, nil
	}
	switch msg.String() {
	case "up", "shift+tab":
		return nil, e.move(-1, values)
	case "down", "tab":
		return nil, e.move(1, values)
	}
	switch f.Kind {
	case Select:
		switch msg.String() {
		case "left", "h":
			return &Edit{Key: f.Key, Value: cycle(f.Options, display(values[f.Key]), -1)}, nil
		case "right", "l", " ":
			return &Edit{Key: f.Key, Value: cycle(f.Options, display(values[f.Key]), 1)}, nil
		}
	case Toggle:
		if msg.String() == " " || msg.String() == "x" {
			b, _ := values[f.Key].(bool)
			return &Edit{Key: f.Key, Value: !b}, nil
		}
	case Input, Number:
		if f.Kind == Number && msg.Type == tea.KeyRunes && !numeric(msg.Runes) {
			return nil, nil
		}
		before := e.input.Value()
		var cmd tea.Cmd
		e.input, cmd = e.input.Update(msg)
		if after := e.input.Value(); after != before {
			return &Edit{Key: f.Key, Value: after}, cmd
		}
		return nil, cmd
	}
	return nil, nil
}

func numeric(runes []rune) bool {
	for _, r := range runes {
		if (r < '0' || r > '9') && r != '.' && r != '-' && r != 'e' {
			return false
		}
	}
	return true
}

func cycle(options []string, current string, delta int) string {
	if len(options) == 0 {
		return current
	}
	idx := -1
	for i, o := range options {
		if o == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		if delta < 0 {
			return options[len(options)-1]
		}
		return options[0]
	}
	return options[((idx+delta)%len(options)+len(options))%len(options)]
}

func display(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

// View renders every field with the focused one highlighted.
func (e *Editor) View(values map[string]any) string {
	lines := make([]string, 0, len(e.fields))
	for i, f := range e.fields {
		focused := i == e.focus
		var text string
		switch {
		case f.textual() && focused:
			text = e.input.View()
		case f.Kind == Toggle:
			text = "[ ]"
			if b, _ := values[f.Key].(bool); b {
				text = "[x]"
			}
		default:
			text = display(values[f.Key])
		}
		lines = append(lines, e.registry.Render(f, text, focused))
	}
	return strings.Join(lines, "\n")
}

// Missing lists required fields without a value.
func (e *Editor) Missing(values map[string]any) []string {
	var out []string
	for _, f := range e.fields {
		if !f.Required {
			continue
		}
		if f.Kind == Toggle {
			continue
		}
		if strings.TrimSpace(display(values[f.Key])) == "" {
			out = append(out, f.Label)
		}
	}
	return out
}
