package tui

import "github.com/charmbracelet/lipgloss"

// ---------------------------------------------------------------------------
// Catppuccin Mocha palette
// ---------------------------------------------------------------------------

const (
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorSky      lipgloss.Color = "#89dceb"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorMantle   lipgloss.Color = "#181825"
)

const (
	colorAccent  = colorMauve
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
	colorInfo    = colorTeal
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	crumbStyle     = lipgloss.NewStyle().Foreground(colorSubtext0)
	mutedStyle     = lipgloss.NewStyle().Foreground(colorOverlay0)
	emptyStyle     = lipgloss.NewStyle().Foreground(colorOverlay1).Italic(true)
	errorStyle     = lipgloss.NewStyle().Foreground(colorError)
	successStyle   = lipgloss.NewStyle().Foreground(colorSuccess)
	warnStyle      = lipgloss.NewStyle().Foreground(colorWarning)
	infoStyle      = lipgloss.NewStyle().Foreground(colorInfo)
	selectedStyle  = lipgloss.NewStyle().Foreground(colorFocus).Bold(true)
	statusBarStyle = lipgloss.NewStyle().Foreground(colorText).Background(colorSurface0).Padding(0, 1)
	sidebarStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(colorSurface1).Padding(0, 1)
	navItemStyle   = lipgloss.NewStyle().Foreground(colorSubtext0)
	navActiveStyle = lipgloss.NewStyle().Foreground(colorMantle).Background(colorAccent).Bold(true)
	modalStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorFocus).Padding(0, 1)
	stepDoneStyle  = lipgloss.NewStyle().Foreground(colorSuccess)
	stepTodoStyle  = lipgloss.NewStyle().Foreground(colorOverlay0)
	tabActiveStyle = lipgloss.NewStyle().Foreground(colorAccent).Underline(true).Bold(true)
)

func statusColor(status string) lipgloss.Style {
	switch status {
	case "Running", "Ready", "Completed", "Complete":
		return successStyle
	case "Failed", "ERROR":
		return errorStyle
	case "Degraded", "WARN", "Processing":
		return warnStyle
	case "Queued", "Pending":
		return infoStyle
	default:
		return mutedStyle
	}
}

var chartStyle = lipgloss.NewStyle().Foreground(colorPeach)
var axisStyle = lipgloss.NewStyle().Foreground(colorSurface1)
var labelStyle = lipgloss.NewStyle().Foreground(colorOverlay1)
var linkStyle = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
var userStyle = lipgloss.NewStyle().Foreground(colorSky).Bold(true)
