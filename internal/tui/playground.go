package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/utrainer/utrainer/internal/filter"
	"github.com/utrainer/utrainer/internal/nav"
	"github.com/utrainer/utrainer/internal/platform"
	"github.com/utrainer/utrainer/internal/sim"
)

var (
	composeKey = bind("i", "compose")
	modelKey   = bind("m", "model")
	clearKey   = bind("ctrl+l", "clear chat")
)

var replyTemplates = []string{
	"Here is a short answer to %q: it depends on the data, but a sensible starting point is a small learning rate and a held-out eval split.",
	"Good question. For %q I would first check the dataset quality, then compare against the current leaderboard baseline.",
	"Thinking about %q: the fine-tuned checkpoint handles this well in most cases, though long inputs may need a larger context window.",
}

type playgroundPanel struct {
	st      *store
	model   string
	input   textinput.Model
	spin    spinner.Model
	history []platform.ChatMessage
	pending string
}

func newPlaygroundPanel(st *store) *playgroundPanel {
	in := textinput.New()
	in.Prompt = "› "
	in.Placeholder = "ask the model something"
	in.CharLimit = 280
	return &playgroundPanel{
		st:    st,
		model: first(st.catalog.BaseModels),
		input: in,
		spin:  spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (p *playgroundPanel) Enter(string, nav.Params) tea.Cmd { return nil }

func (p *playgroundPanel) Capturing() bool { return p.input.Focused() }

func (p *playgroundPanel) Help() []key.Binding {
	if p.input.Focused() {
		return []key.Binding{bind("enter", "send"), bind("esc", "stop typing")}
	}
	return []key.Binding{composeKey, modelKey, clearKey}
}

func (p *playgroundPanel) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case sim.ReplyMsg:
		if m.ID != p.pending {
			return nil
		}
		p.pending = ""
		p.history = append(p.history, platform.ChatMessage{Role: "assistant", Text: m.Text})
		return nil
	case spinner.TickMsg:
		if p.pending == "" {
			return nil
		}
		var cmd tea.Cmd
		p.spin, cmd = p.spin.Update(m)
		return cmd
	case tea.KeyMsg:
		if p.input.Focused() {
			return p.updateInput(m)
		}
		switch {
		case key.Matches(m, composeKey):
			return p.input.Focus()
		case key.Matches(m, modelKey):
			p.model = filter.Cycle(p.st.catalog.BaseModels, p.model, 1)
		case key.Matches(m, clearKey):
			p.history = nil
			p.pending = ""
		}
	}
	return nil
}

func (p *playgroundPanel) updateInput(m tea.KeyMsg) tea.Cmd {
	switch m.String() {
	case "esc":
		p.input.Blur()
		return nil
	case "enter":
		return p.send()
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(m)
	return cmd
}

// send posts the prompt and schedules the fake reply. A new prompt
// supersedes a reply still in flight.
func (p *playgroundPanel) send() tea.Cmd {
	prompt := strings.TrimSpace(p.input.Value())
	if prompt == "" {
		return nil
	}
	p.input.SetValue("")
	p.history = append(p.history, platform.ChatMessage{Role: "user", Text: prompt})
	p.pending = p.st.nextReplyID()
	text := fmt.Sprintf(replyTemplates[p.st.rng.Intn(len(replyTemplates))], prompt)
	slog.Debug("chat prompt", "model", p.model, "id", p.pending)
	return tea.Batch(sim.Reply(p.st.clock, p.st.chatDelay, p.pending, text), p.spin.Tick)
}

func (p *playgroundPanel) View(width, height int) string {
	var b strings.Builder
	b.WriteString(facetLine("model", p.model) + "\n\n")
	if len(p.history) == 0 {
		b.WriteString(emptyState("No messages yet. Press i and ask something.") + "\n")
	}
	lines := make([]string, 0, len(p.history))
	for _, m := range p.history {
		who := userStyle.Render("you")
		if m.Role == "assistant" {
			who = titleStyle.Render(p.model)
		}
		lines = append(lines, who+"  "+truncate(m.Text, max(width-len(p.model)-4, 20)))
	}
	if keep := max(height-6, 1); len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}
	for _, l := range lines {
		b.WriteString(l + "\n")
	}
	if p.pending != "" {
		b.WriteString(p.spin.View() + mutedStyle.Render(" thinking…") + "\n")
	}
	b.WriteString("\n" + p.input.View())
	return b.String()
}
