package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/tablero/internal/board"
	"github.com/existflow/tablero/internal/model"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := m.renderHeader()
	columns := m.renderColumns()
	statusBar := m.renderStatusBar()

	content := lipgloss.JoinVertical(lipgloss.Left, header, columns)

	switch m.mode {
	case ModeAddTask, ModeEditTitle, ModeEditLabels:
		content = m.overlay(m.renderInputModal())
	case ModeConfirmDelete:
		content = m.overlay(m.renderConfirmModal())
	case ModeProjectPick:
		content = m.overlay(m.renderProjectModal())
	case ModeHelp:
		content = m.renderHelp()
	}

	return lipgloss.JoinVertical(lipgloss.Left, content, statusBar)
}

func (m Model) overlay(modal string) string {
	return lipgloss.Place(
		m.width, m.height-2,
		lipgloss.Center, lipgloss.Center,
		modal,
		lipgloss.WithWhitespaceChars(" "),
	)
}

func (m Model) renderHeader() string {
	title := "Tablero"
	if m.project.Name != "" {
		title += " — " + m.project.Name
	}
	return HeaderStyle.Render(title)
}

func (m Model) renderColumns() string {
	colWidth := m.width/len(board.Columns) - 4
	if colWidth < 20 {
		colWidth = 20
	}

	b := m.engine.Board()
	_, carriedID, dragging := m.drag.Dragging()

	rendered := make([]string, 0, len(board.Columns))
	for i, col := range board.Columns {
		var s strings.Builder
		s.WriteString(ColumnTitleStyle.Render(fmt.Sprintf("%s (%d)", col.Title(), len(b[col]))))
		s.WriteString("\n\n")

		for j, t := range b[col] {
			style := TaskItemStyle
			cursor := "  "
			if i == m.colIndex && j == m.cursors[col] {
				style = TaskItemSelectedStyle
				cursor = "❯ "
			}
			if dragging && model.CanonicalID(t.ID) == model.CanonicalID(carriedID) {
				style = TaskCarriedStyle
			}

			line := cursor + truncate(t.Title, colWidth-10) + " " + FormatPriority(t.Priority)
			s.WriteString(style.Render(line) + "\n")

			if len(t.Labels) > 0 {
				names := make([]string, 0, len(t.Labels))
				for _, l := range t.Labels {
					names = append(names, l.Name)
				}
				s.WriteString(LabelStyle.Render("    #"+strings.Join(names, " #")) + "\n")
			}
		}

		style := ColumnStyle
		if i == m.colIndex {
			style = ColumnFocusStyle
		}
		rendered = append(rendered, style.Width(colWidth).Height(m.height-6).Render(s.String()))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderInputModal() string {
	title := map[Mode]string{
		ModeAddTask:    "New task",
		ModeEditTitle:  "Edit title",
		ModeEditLabels: "Edit labels",
	}[m.mode]

	return ModalStyle.Render(
		ColumnTitleStyle.Render(title) + "\n\n" +
			m.input.View() + "\n\n" +
			HelpStyle.Render("enter save · esc cancel"),
	)
}

func (m Model) renderConfirmModal() string {
	return ModalStyle.Render(
		fmt.Sprintf("Delete \"%s\"?\n\n", truncate(m.editing.Title, 40)) +
			HelpStyle.Render("y confirm · n cancel"),
	)
}

func (m Model) renderProjectModal() string {
	var s strings.Builder
	s.WriteString(ColumnTitleStyle.Render("Switch project") + "\n\n")
	for i, p := range m.projects {
		cursor := "  "
		style := TaskItemStyle
		if i == m.projCursor {
			cursor = "❯ "
			style = TaskItemSelectedStyle
		}
		s.WriteString(style.Render(cursor+truncate(p.Name, 30)) + "\n")
	}
	s.WriteString("\n" + HelpStyle.Render("enter open · esc cancel"))
	return ModalStyle.Render(s.String())
}

func (m Model) renderHelp() string {
	rows := []string{
		"h/l      focus column",
		"j/k      move cursor",
		"g        grab task / drop on focused column",
		"esc      cancel move",
		"a        add task",
		"e        edit title",
		"t        edit labels",
		"m        assign to me",
		"d        delete task",
		"p        switch project",
		"R        reload board",
		"?        close help",
		"q        quit",
	}
	return m.overlay(ModalStyle.Render(
		ColumnTitleStyle.Render("Keys") + "\n\n" + strings.Join(rows, "\n"),
	))
}

func (m Model) renderStatusBar() string {
	left := m.message
	if left == "" {
		left = fmt.Sprintf("%d tasks", m.engine.Board().Count())
	}
	right := m.me.Username
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}
	return StatusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// truncate shortens a string, appending an ellipsis.
func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
