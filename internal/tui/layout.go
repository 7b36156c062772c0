package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// placeWithFooter pins the status line and footer to the bottom row.
func placeWithFooter(width, height int, body, statusLine, footer string) string {
	if height == 0 {
		return body + "\n\n" + statusLine + "\n" + footer
	}
	contentHeight := max(height-2, 1)
	if lipgloss.Height(body) >= contentHeight {
		return body + "\n" + statusLine + "\n" + footer
	}
	main := lipgloss.Place(width, contentHeight, lipgloss.Left, lipgloss.Top, body)
	// Full-width lines keep stale cells from previous frames out.
	lines := splitLines(main)
	for i, line := range lines {
		lines[i] = padRight(line, width)
	}
	return strings.Join(lines, "\n") + "\n" + statusLine + "\n" + footer
}

// composeOverlay centres content in a modal box over the placed base view.
func composeOverlay(width, height int, base, statusLine, footer, content string) string {
	baseView := placeWithFooter(width, height, base, statusLine, footer)
	if height == 0 || width == 0 {
		return baseView + "\n\n" + modalStyle.Render(content)
	}
	inner := lipgloss.NewStyle().Width(max(min(76, width-10), 20)).Render(content)
	modal := modalStyle.Render(inner)
	lines := splitLines(modal)
	targetHeight := max(height-2, 1)
	x := max((width-maxLineWidth(lines))/2, 0)
	y := max((targetHeight-len(lines))/2, 0)
	return overlayAt(baseView, modal, x, y, width, targetHeight)
}

// overlayAt composites overlay on top of base at cell (x, y).
func overlayAt(base, overlay string, x, y, width, height int) string {
	baseLines := splitLines(base)
	overlayLines := splitLines(overlay)
	overlayWidth := maxLineWidth(overlayLines)
	for i, line := range overlayLines {
		row := y + i
		if row < 0 || row >= len(baseLines) || row >= height {
			continue
		}
		target := padRight(baseLines[row], width)
		left := ansi.Truncate(target, x, "")
		if w := ansi.StringWidth(left); w < x {
			left += strings.Repeat(" ", x-w)
		}
		overlayLine := padRight(line, overlayWidth)
		pos := x + ansi.StringWidth(overlayLine)
		right := ""
		if width > 0 {
			right = ansi.TruncateLeft(target, pos, "")
			if gap := width - pos - ansi.StringWidth(right); gap > 0 {
				right = strings.Repeat(" ", gap) + right
			}
		}
		baseLines[row] = left + overlayLine + right
	}
	return strings.Join(baseLines, "\n")
}

func splitLines(s string) []string {
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}

func maxLineWidth(lines []string) int {
	m := 0
	for _, line := range lines {
		if w := ansi.StringWidth(line); w > m {
			m = w
		}
	}
	return m
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// truncate shortens s to width cells with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}
