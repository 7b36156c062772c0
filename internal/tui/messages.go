package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/utrainer/utrainer/internal/nav"
)

type statusMsg struct {
	Text  string
	IsErr bool
}

type errMsg struct{ error }

// navigateMsg asks the shell to change view.
type navigateMsg struct {
	Key    string
	Params nav.Params
}

type pushScreenMsg struct {
	Screen Screen
}

type popScreenMsg struct{}

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{Text: text} }
}

func navigateCmd(key string, params nav.Params) tea.Cmd {
	return func() tea.Msg { return navigateMsg{Key: key, Params: params} }
}

func pushScreenCmd(s Screen) tea.Cmd {
	return func() tea.Msg { return pushScreenMsg{Screen: s} }
}
