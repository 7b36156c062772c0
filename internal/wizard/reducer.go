package wizard

// Action is a transition request applied by Reduce.
type Action interface{ isAction() }

type (
	Next     struct{}
	Back     struct{}
	GoTo     struct{ ID int }
	SetField struct {
		Key   string
		Value any
	}
	Reset struct{}
)

func (Next) isAction()     {}
func (Back) isAction()     {}
func (GoTo) isAction()     {}
func (SetField) isAction() {}
func (Reset) isAction()    {}

// Reduce applies a to s and returns the resulting state. s is never mutated.
func Reduce(s State, a Action) State {
	if len(s.Steps) == 0 {
		return s
	}
	switch act := a.(type) {
	case Next:
		if s.IsLast() || !s.CanNext() {
			return s
		}
		s.Current++
	case Back:
		if s.Current > 0 {
			s.Current--
		}
	case GoTo:
		idx := s.indexOf(act.ID)
		if idx < 0 || idx > s.Current {
			return s
		}
		s.Current = idx
	case SetField:
		if act.Key == "" {
			return s
		}
		values := s.Values.clone()
		values[act.Key] = act.Value
		s.Values = values
	case Reset:
		s.Current = 0
		s.Values = Values{}
	}
	return s
}
