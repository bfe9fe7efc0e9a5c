package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Default terminal size, used until the first WindowSizeMsg.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Color palette
var (
	ErrorColor  = lipgloss.Color("#FF0000") // Red
	SubtleColor = lipgloss.Color("#626262") // Gray
)

var (
	// Legend style - the one-line footer
	LegendStyle = lipgloss.NewStyle().
			Bold(true).
			Align(lipgloss.Center)

	// Status shown in the legend before the adapter is ready
	StatusStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	// Error popup style
	PopupStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ErrorColor).
			Padding(0, 1)

	PopupHeadingStyle = lipgloss.NewStyle().
				Bold(true)
)

// paneBorder returns the border of a device list: thick for the active one.
func paneBorder(active bool) lipgloss.Border {
	if active {
		return lipgloss.ThickBorder()
	}
	return lipgloss.NormalBorder()
}

// tableStyles returns the styles of a device list. Only the active list
// highlights its selected row, and only when it has rows.
func tableStyles(highlight bool) table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(SubtleColor)
	s.Selected = lipgloss.NewStyle()
	if highlight {
		s.Selected = s.Selected.Reverse(true)
	}
	return s
}

// renderPane draws body inside a border of the given outer size with title
// set into the top edge, e.g. ┏Paired━━━━┓.
func renderPane(title, body string, width, height int, active bool) string {
	border := paneBorder(active)

	titleStyle := lipgloss.NewStyle()
	if active {
		titleStyle = titleStyle.Bold(true)
	}

	inner := max(width-2, 0)
	label := ansi.Truncate(title, inner, "")
	fill := max(inner-ansi.StringWidth(label), 0)
	top := border.TopLeft + titleStyle.Render(label) + strings.Repeat(border.Top, fill) + border.TopRight

	box := lipgloss.NewStyle().
		Border(border).
		BorderTop(false).
		Width(inner).
		Height(max(height-2, 0)).
		MaxHeight(max(height-1, 0)).
		Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, top, box)
}

// RenderModal centers modalContent over background.
func RenderModal(background string, modalContent string, terminalWidth int, terminalHeight int) string {
	bg := strings.Split(lipgloss.Place(terminalWidth, terminalHeight, lipgloss.Left, lipgloss.Top, background), "\n")
	fg := strings.Split(modalContent, "\n")

	w := lipgloss.Width(modalContent)
	x := max((terminalWidth-w)/2, 0)
	y := max((terminalHeight-len(fg))/2, 0)

	for i, line := range fg {
		row := y + i
		if row >= len(bg) {
			break
		}
		left := ansi.Truncate(bg[row], x, "")
		if pad := x - ansi.StringWidth(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}
		right := ansi.TruncateLeft(bg[row], x+w, "")
		bg[row] = left + line + right
	}
	return strings.Join(bg, "\n")
}
