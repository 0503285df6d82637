package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"task-intake-assistant/internal/model"
)

var (
	colorGreen  = lipgloss.Color("#8ec07c")
	colorYellow = lipgloss.Color("#fabd2f")
	colorRed    = lipgloss.Color("#fb4934")
	colorBlue   = lipgloss.Color("#83a598")
	colorDim    = lipgloss.Color("#928374")
	colorHeader = lipgloss.Color("#fe8019")
)

var (
	styleAssistant = lipgloss.NewStyle().Foreground(colorBlue)
	styleWarning   = lipgloss.NewStyle().Foreground(colorYellow)
	styleError     = lipgloss.NewStyle().Foreground(colorRed)
	styleSuccess   = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	styleDim       = lipgloss.NewStyle().Foreground(colorDim)
	styleHeader    = lipgloss.NewStyle().Foreground(colorHeader).Bold(true)
)

var statusStyles = map[model.TaskStatus]lipgloss.Style{
	model.TaskStatusInbox:     styleAssistant,
	model.TaskStatusScheduled: styleWarning,
	model.TaskStatusCompleted: styleSuccess,
	model.TaskStatusArchived:  styleDim,
}

// renderTable aligns columns by display width, so full-width text lines up.
func renderTable(headers []string, rows [][]string) string {
	const gap = 2
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(headers) && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	var b strings.Builder
	writeRow := func(cells []string, style func(string) string) {
		for i := range headers {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(style(cell))
			if i < len(headers)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+gap))
			}
		}
		b.WriteString("\n")
	}

	writeRow(headers, func(s string) string { return styleHeader.Render(s) })
	seps := make([]string, len(widths))
	for i, w := range widths {
		seps[i] = strings.Repeat("─", w)
	}
	writeRow(seps, func(s string) string { return styleDim.Render(s) })
	for _, row := range rows {
		writeRow(row, func(s string) string { return s })
	}
	return b.String()
}

// numberedOptions renders chips as "[1] 買い物  [2] 返信 ...".
func numberedOptions(options []string) string {
	parts := make([]string, len(options))
	for i, o := range options {
		parts[i] = fmt.Sprintf("[%d] %s", i+1, o)
	}
	return styleDim.Render(strings.Join(parts, "  "))
}
