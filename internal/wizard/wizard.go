// Package wizard drives multi-step data entry flows.
//
// A flow is an ordered list of steps. Each step may gate forward movement
// with a predicate over the collected values. Transitions never fail: an
// invalid transition leaves the state unchanged.
package wizard

import "fmt"

// Values maps field keys to the values entered so far.
type Values map[string]any

func (v Values) String(key string) string {
	switch x := v[key].(type) {
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}

func (v Values) Bool(key string) bool {
	b, _ := v[key].(bool)
	return b
}

func (v Values) Int(key string) int {
	switch x := v[key].(type) {
	case int:
		return x
	case int64:
		return int(x)
	case float64:
		return int(x)
	case string:
		var n int
		if _, err := fmt.Sscan(x, &n); err == nil {
			return n
		}
	}
	return 0
}

func (v Values) Float(key string) float64 {
	switch x := v[key].(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case string:
		var f float64
		if _, err := fmt.Sscan(x, &f); err == nil {
			return f
		}
	}
	return 0
}

func (v Values) clone() Values {
	out := make(Values, len(v)+1)
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Step describes one screen of a flow. A nil Valid always passes.
type Step struct {
	ID    int
	Name  string
	Valid func(Values) bool
}

func (s Step) passes(v Values) bool {
	return s.Valid == nil || s.Valid(v)
}

// State is the immutable state of a running flow.
type State struct {
	Current int
	Steps   []Step
	Values  Values
}

// New starts a flow on its first step. It panics when steps is empty.
func New(steps ...Step) State {
	if len(steps) == 0 {
		panic("wizard: flow must declare at least one step")
	}
	return State{Steps: steps, Values: Values{}}
}

func (s State) CurrentStep() Step { return s.Steps[s.Current] }
func (s State) IsFirst() bool     { return s.Current == 0 }
func (s State) IsLast() bool      { return s.Current == len(s.Steps)-1 }

// CanNext reports whether the current step's predicate accepts the values.
// The last step always reports the predicate result so callers can gate a
// final submit the same way.
func (s State) CanNext() bool {
	return s.CurrentStep().passes(s.Values)
}

// Progress is the fraction of steps before the current one.
func (s State) Progress() float64 {
	if len(s.Steps) <= 1 {
		return 0
	}
	return float64(s.Current) / float64(len(s.Steps)-1)
}

func (s State) indexOf(id int) int {
	for i, st := range s.Steps {
		if st.ID == id {
			return i
		}
	}
	return -1
}

// Next advances one step when the current step validates.
func (s State) Next() State { return Reduce(s, Next{}) }

// Back moves one step back, stopping at the first step.
func (s State) Back() State { return Reduce(s, Back{}) }

// GoTo jumps to a step that is not ahead of the current one.
func (s State) GoTo(id int) State { return Reduce(s, GoTo{ID: id}) }

// Set records a field value.
func (s State) Set(key string, value any) State { return Reduce(s, SetField{Key: key, Value: value}) }

// Reset returns to the first step with no values.
func (s State) Reset() State { return Reduce(s, Reset{}) }
