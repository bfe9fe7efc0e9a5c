package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/bluetui/internal/devices"
)

// View renders the current state.
func (m *Model) View() string {
	width, height := m.width, m.height
	if width <= 0 || height <= 0 {
		width, height = defaultWidth, defaultHeight
	}

	bodyHeight := max(height-1, 0)
	leftWidth := width / 2
	rightWidth := width - leftWidth

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.viewList(devices.Unpaired, leftWidth, bodyHeight),
		m.viewList(devices.Paired, rightWidth, bodyHeight),
	)
	screen := lipgloss.JoinVertical(lipgloss.Left, body, m.viewLegend(width))

	if m.registry.Err != nil {
		return RenderModal(screen, m.viewError(width), width, height)
	}
	return screen
}

func (m *Model) viewList(list devices.List, width, height int) string {
	r := m.registry
	entries := r.List(list)
	active := r.Active == list

	// Three equal columns: alias, connected (paired only), throbber.
	inner := max(width-2, 0)
	col := max(inner/3-2, 1)
	columns := []table.Column{{Title: "Alias", Width: col}}
	if list == devices.Paired {
		columns = append(columns, table.Column{Title: "Connected", Width: col})
	}
	columns = append(columns, table.Column{Title: "", Width: col})

	rows := make([]table.Row, 0, entries.Len())
	for _, dev := range entries.Values() {
		row := table.Row{dev.Alias}
		if list == devices.Paired {
			row = append(row, strconv.FormatBool(dev.Connected))
		}
		row = append(row, dev.Throbber())
		rows = append(rows, row)
	}

	highlight := active && entries.Len() > 0
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithWidth(inner),
		table.WithHeight(max(height-2, 1)),
		table.WithStyles(tableStyles(highlight)),
	)
	if highlight {
		t.SetCursor(r.Row)
	}

	return renderPane(list.String(), t.View(), width, height, active)
}

func (m *Model) viewLegend(width int) string {
	bindings := m.keys.legendBindings(m.registry.Err != nil, m.registry.Active == devices.Unpaired)
	text := legend(bindings)
	if m.state == stateBootstrapping {
		text = StatusStyle.Render("waiting for adapter") + " • " + text
	}
	return LegendStyle.Width(width).MaxHeight(1).Render(text)
}

// legend formats bindings as "key: action • key: action".
func legend(bindings []key.Binding) string {
	items := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		items = append(items, h.Key+": "+h.Desc)
	}
	return strings.Join(items, " • ")
}

func (m *Model) viewError(width int) string {
	f := m.registry.Err
	content := lipgloss.JoinVertical(lipgloss.Left,
		PopupHeadingStyle.Render("Error while "+f.Process),
		f.Message,
	)
	maxInner := max(width-4-2, 10)
	if lipgloss.Width(content) > maxInner {
		content = lipgloss.NewStyle().Width(maxInner).Render(content)
	}
	return renderPopup("Error", content)
}

// renderPopup frames content with the popup border and title.
func renderPopup(title, content string) string {
	box := PopupStyle.Render(content)
	lines := strings.Split(box, "\n")
	w := lipgloss.Width(box)

	border := lipgloss.RoundedBorder()
	label := " " + title + " "
	fill := max(w-2-lipgloss.Width(label), 0)
	left := fill / 2
	top := border.TopLeft + strings.Repeat(border.Top, left) + label + strings.Repeat(border.Top, fill-left) + border.TopRight
	lines[0] = lipgloss.NewStyle().Foreground(ErrorColor).Render(top)
	return strings.Join(lines, "\n")
}
