package tui

import "github.com/charmbracelet/bubbles/key"

type globalKeys struct {
	Quit    key.Binding
	Sidebar key.Binding
	NextSub key.Binding
	PrevSub key.Binding
	Jump    key.Binding
	Goto    key.Binding
	Logout  key.Binding
}

var keys = globalKeys{
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Sidebar: key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "sidebar")),
	NextSub: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
	PrevSub: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev view")),
	Jump:    key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7"), key.WithHelp("1-7", "section")),
	Goto:    key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "go to")),
	Logout:  key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "log out")),
}

func (k globalKeys) short() []key.Binding {
	return []key.Binding{k.Jump, k.Goto, k.NextSub, k.Sidebar, k.Logout, k.Quit}
}

type wizardKeys struct {
	Next   key.Binding
	Back   key.Binding
	JumpTo key.Binding
	Cancel key.Binding
}

var wkeys = wizardKeys{
	Next:   key.NewBinding(key.WithKeys("enter", "pgdown"), key.WithHelp("enter", "next")),
	Back:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "back")),
	JumpTo: key.NewBinding(key.WithKeys("alt+1", "alt+2", "alt+3", "alt+4", "alt+5"), key.WithHelp("alt+n", "go to step")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
}

// listKeys are shared by the filterable list panels.
type listKeys struct {
	Up     key.Binding
	Down   key.Binding
	Search key.Binding
	Clear  key.Binding
}

var lkeys = listKeys{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Clear:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
}

func bind(k, help string) key.Binding {
	return key.NewBinding(key.WithKeys(k), key.WithHelp(k, help))
}
