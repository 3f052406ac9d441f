package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading..."
	}
	header := m.renderHeader()
	status := m.renderStatus()
	helpView := m.help.View(m.keys)
	body := m.surface.Render(m.theme)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, status, helpView)
}

func (m *Model) helpRows() int {
	if !m.help.ShowAll {
		return 1
	}
	rows := 0
	for _, column := range m.keys.FullHelp() {
		if len(column) > rows {
			rows = len(column)
		}
	}
	return rows
}

func (m *Model) renderHeader() string {
	title := "timeline"
	if m.source != "" {
		title = m.source
	}
	parts := []string{m.theme.Accent().Bold(true).Render(title)}
	if id, ok := m.selectedID(); ok {
		parts = append(parts, m.theme.Label().Render("["+id+"]"))
	}
	if id, ok := m.ctrl.DraggingTaskID(); ok {
		parts = append(parts, m.theme.Today().Render("dragging "+id))
	}
	if !m.mouse {
		parts = append(parts, m.theme.Muted().Render("mouse off"))
	}
	line := strings.Join(parts, " ")
	return truncate.StringWithTail(line, uint(m.width), "…")
}

func (m *Model) renderStatus() string {
	text := m.status
	if m.changes > 0 {
		text = fmt.Sprintf("%s  (%d changed)", text, m.changes)
	}
	return m.theme.Muted().Width(m.width).Render(truncate.StringWithTail(text, uint(m.width), "…"))
}
