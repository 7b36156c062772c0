package nav

import "strings"

// Params is the opaque payload a navigation hands to its destination.
type Params map[string]any

func (p Params) String(key string) string {
	s, _ := p[key].(string)
	return s
}

func (p Params) Bool(key string) bool {
	b, _ := p[key].(bool)
	return b
}

// Param keys understood by panels.
const (
	ParamAction      = "action"
	ParamDatasetName = "datasetName"
	ParamJobID       = "jobID"

	ActionCreate = "create"
)

// Location is the mounted view plus params not yet consumed.
type Location struct {
	Top     string
	Sub     string
	Pending Params
}

// AppState is the shell state. Values are replaced, never mutated, by the
// transition functions below.
type AppState struct {
	User             string
	Nav              Location
	SidebarCollapsed bool
}

// Transition describes what a Navigate call did.
type Transition struct {
	Accepted bool
	Remount  bool
	From     string
	To       string
}

// NewAppState starts on start, falling back to the first view when start
// is unknown.
func NewAppState(start string, sidebarCollapsed bool) AppState {
	s := AppState{SidebarCollapsed: sidebarCollapsed}
	next, tr := s.Navigate(start, nil)
	if !tr.Accepted {
		next, _ = s.Navigate(Tree[0].Key, nil)
	}
	return next
}

func (s AppState) LoggedIn() bool { return s.User != "" }

// Login accepts any non-blank user name.
func (s AppState) Login(user string) (AppState, bool) {
	user = strings.TrimSpace(user)
	if user == "" {
		return s, false
	}
	s.User = user
	return s, true
}

func (s AppState) Logout() AppState {
	s.User = ""
	s.Nav.Pending = nil
	return s
}

func (s AppState) ToggleSidebar() AppState {
	s.SidebarCollapsed = !s.SidebarCollapsed
	return s
}

// Active is the mounted sub-view key.
func (s AppState) Active() string { return s.Nav.Sub }

// Navigate moves to key. Unknown keys are refused. Moving between
// sub-views of the mounted top-level view keeps the panel mounted.
func (s AppState) Navigate(key string, params Params) (AppState, Transition) {
	top, sub, ok := Resolve(key)
	tr := Transition{From: s.Nav.Sub}
	if !ok {
		return s, tr
	}
	tr.Accepted = true
	tr.To = sub.Key
	tr.Remount = s.Nav.Top != top.Key
	var pending Params
	if len(params) > 0 {
		pending = make(Params, len(params))
		for k, v := range params {
			pending[k] = v
		}
	}
	s.Nav = Location{Top: top.Key, Sub: sub.Key, Pending: pending}
	return s, tr
}

// TakeParams hands over pending params and clears them so they are
// consumed exactly once.
func (s AppState) TakeParams() (AppState, Params) {
	p := s.Nav.Pending
	s.Nav.Pending = nil
	if p == nil {
		p = Params{}
	}
	return s, p
}
