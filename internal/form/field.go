// Package form renders declarative field descriptors and edits their values.
package form

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ettle/strcase"
)

type Kind int

const (
	Input Kind = iota
	Number
	Select
	Toggle
)

func (k Kind) String() string {
	switch k {
	case Input:
		return "input"
	case Number:
		return "number"
	case Select:
		return "select"
	case Toggle:
		return "toggle"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Field describes one input of a form.
type Field struct {
	Key         string
	Label       string
	Kind        Kind
	Options     []string
	Placeholder string
	Required    bool
}

// Normalize snake-cases the key so descriptors may use display names.
func (f Field) Normalize() Field {
	f.Key = strcase.ToSnake(strings.TrimSpace(f.Key))
	if f.Label == "" {
		f.Label = f.Key
	}
	return f
}

func (f Field) textual() bool { return f.Kind == Input || f.Kind == Number }

// Renderer draws a field. display is the already formatted value.
type Renderer func(f Field, display string, focused bool) string

// Registry maps field kinds to renderers.
type Registry struct {
	renderers map[Kind]Renderer
}

func NewRegistry() Registry {
	return Registry{renderers: map[Kind]Renderer{}}
}

// Register installs r for kind, replacing any previous renderer.
func (r Registry) Register(kind Kind, fn Renderer) {
	r.renderers[kind] = fn
}

// Render draws f, falling back to a plain line for unregistered kinds.
func (r Registry) Render(f Field, display string, focused bool) string {
	if fn, ok := r.renderers[f.Kind]; ok {
		return fn(f, display, focused)
	}
	return fmt.Sprintf("%s: %s (unsupported %s field)", f.Label, display, f.Kind)
}

var (
	labelStyle    = lipgloss.NewStyle().Width(18)
	focusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#cba6f7")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086"))
	requiredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
)

func label(f Field, focused bool) string {
	text := f.Label
	if f.Required {
		text += requiredStyle.Render("*")
	}
	marker := "  "
	if focused {
		marker = focusStyle.Render("▶ ")
		text = focusStyle.Render(f.Label)
		if f.Required {
			text += requiredStyle.Render("*")
		}
	}
	return marker + labelStyle.Render(text)
}

func inputRenderer(f Field, display string, focused bool) string {
	if display == "" && !focused {
		display = mutedStyle.Render(f.Placeholder)
	}
	return label(f, focused) + display
}

func selectRenderer(f Field, display string, focused bool) string {
	if display == "" {
		display = mutedStyle.Render("(choose)")
	}
	if focused {
		return label(f, focused) + "‹ " + display + " ›"
	}
	return label(f, focused) + display
}

func toggleRenderer(f Field, display string, focused bool) string {
	return label(f, focused) + display
}

// DefaultRegistry renders every built-in kind.
func DefaultRegistry() Registry {
	r := NewRegistry()
	r.Register(Input, inputRenderer)
	r.Register(Number, inputRenderer)
	r.Register(Select, selectRenderer)
	r.Register(Toggle, toggleRenderer)
	return r
}
