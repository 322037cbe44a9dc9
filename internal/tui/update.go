package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/tablero/internal/api"
	"github.com/existflow/tablero/internal/board"
	"github.com/existflow/tablero/internal/governance"
	"github.com/existflow/tablero/internal/logger"
	"github.com/existflow/tablero/internal/model"
)

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeNormal:
			return m.updateNormal(msg)
		case ModeProjectPick:
			return m.updateProjectPick(msg)
		case ModeAddTask, ModeEditTitle, ModeEditLabels:
			return m.updateInput(msg)
		case ModeConfirmDelete:
			return m.updateConfirmDelete(msg)
		case ModeHelp:
			if key.Matches(msg, keys.Escape) || key.Matches(msg, keys.Help) || key.Matches(msg, keys.Quit) {
				m.mode = ModeNormal
			}
			return m, nil
		}
	}
	return m, nil
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp

	case key.Matches(msg, keys.Left):
		if m.colIndex > 0 {
			m.colIndex--
		}

	case key.Matches(msg, keys.Right):
		if m.colIndex < len(board.Columns)-1 {
			m.colIndex++
		}

	case key.Matches(msg, keys.Up):
		col := m.column()
		if m.cursors[col] > 0 {
			m.cursors[col]--
		}

	case key.Matches(msg, keys.Down):
		col := m.column()
		if m.cursors[col] < len(m.engine.Board()[col])-1 {
			m.cursors[col]++
		}

	case key.Matches(msg, keys.Grab):
		m.grabOrDrop()

	case key.Matches(msg, keys.Enter):
		if _, _, dragging := m.drag.Dragging(); dragging {
			m.grabOrDrop()
		}

	case key.Matches(msg, keys.Escape):
		if _, _, dragging := m.drag.Dragging(); dragging {
			m.drag.Cancel()
			m.message = "Move cancelled"
		}

	case key.Matches(msg, keys.Refresh):
		m.reload()
		m.message = "Reloaded"

	case key.Matches(msg, keys.Add):
		m.mode = ModeAddTask
		m.input.Placeholder = "Task title..."
		m.input.SetValue("")
		m.input.Focus()

	case key.Matches(msg, keys.Edit):
		if task, ok := m.selectedTask(); ok {
			m.mode = ModeEditTitle
			m.editing = task
			m.input.Placeholder = "Title..."
			m.input.SetValue(task.Title)
			m.input.Focus()
		}

	case key.Matches(msg, keys.Labels):
		if task, ok := m.selectedTask(); ok {
			m.mode = ModeEditLabels
			m.editing = task
			names := make([]string, 0, len(task.Labels))
			for _, l := range task.Labels {
				names = append(names, l.Name)
			}
			m.input.Placeholder = "Labels, comma separated..."
			m.input.SetValue(strings.Join(names, ", "))
			m.input.Focus()
		}

	case key.Matches(msg, keys.Delete):
		task, ok := m.selectedTask()
		if !ok {
			break
		}
		viewer := governance.Actor{UserID: m.me.ID, IsAdmin: m.me.IsAdmin}
		if !governance.CanDeleteTask(viewer, m.project, task) {
			m.message = "Not allowed to delete this task"
			break
		}
		m.mode = ModeConfirmDelete
		m.editing = task

	case key.Matches(msg, keys.Assign):
		if task, ok := m.selectedTask(); ok {
			refreshed, err := m.engine.AutoAssign(context.Background(), task)
			if err != nil {
				m.message = "Error: " + err.Error()
			} else {
				m.message = "Assigned to " + refreshed.OwnerName
			}
			m.clampCursors()
		}

	case key.Matches(msg, keys.Project):
		if len(m.projects) > 0 {
			m.mode = ModeProjectPick
			m.projCursor = 0
		}
	}

	return m, nil
}

// grabOrDrop toggles the move gesture: first press grabs the selected
// task, second press drops it on the focused column. The drop routes
// through the drag controller and the engine's move; nothing else
// touches the column lists.
func (m *Model) grabOrDrop() {
	if _, taskID, dragging := m.drag.Dragging(); dragging {
		target := m.column()
		if m.drag.Drop(target) {
			m.message = "Moved " + model.ShortID(taskID)
			b := m.engine.Board()
			m.cursors[target] = len(b[target]) - 1
		}
		m.clampCursors()
		return
	}

	if task, ok := m.selectedTask(); ok {
		m.drag.Start(m.column(), task.ID)
		m.message = "Carrying " + model.ShortID(task.ID) + ", move to a column and press g"
	}
}

func (m Model) updateProjectPick(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal

	case key.Matches(msg, keys.Up):
		if m.projCursor > 0 {
			m.projCursor--
		}

	case key.Matches(msg, keys.Down):
		if m.projCursor < len(m.projects)-1 {
			m.projCursor++
		}

	case key.Matches(msg, keys.Enter):
		m.project = m.projects[m.projCursor]
		m.labelCache = make(map[string][]model.Label)
		m.reload()
		m.mode = ModeNormal
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		// Discarding a draft takes no backend call; no lock was held.
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil

	case key.Matches(msg, keys.Enter):
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.mode = ModeNormal
		m.input.Blur()

		switch mode {
		case ModeAddTask:
			m.submitAdd(value)
		case ModeEditTitle:
			m.submitEditTitle(value)
		case ModeEditLabels:
			m.submitEditLabels(value)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submitAdd(title string) {
	if title == "" {
		return
	}
	task, err := m.engine.Create(context.Background(), model.TaskCreate{
		Title:     title,
		Priority:  model.PriorityLow,
		ProjectID: m.project.ID,
	})
	if err != nil {
		m.message = "Error: " + formatAPIError(err)
		return
	}
	m.message = "Added " + model.ShortID(task.ID)
	m.clampCursors()
}

func (m *Model) submitEditTitle(title string) {
	if title == "" || title == m.editing.Title {
		return
	}
	draft := m.editing
	draft.Title = title

	result, err := m.engine.Update(context.Background(), draft, m.editing, m.project.ID, m.editing.Labels)
	if err != nil {
		m.message = "Error: " + formatAPIError(err)
		return
	}
	if result.Changed() {
		m.message = "Saved"
	} else {
		m.message = "No changes"
	}
	m.clampCursors()
}

func (m *Model) submitEditLabels(value string) {
	labels := []model.Label{}
	for _, name := range strings.Split(value, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			labels = append(labels, model.Label{Name: name})
		}
	}

	result, err := m.engine.Update(context.Background(), m.editing, m.editing, m.project.ID, labels)
	if err != nil {
		m.message = "Error: " + formatAPIError(err)
		return
	}
	if result.LabelsChanged {
		m.message = "Labels updated"
	} else {
		m.message = "No changes"
	}
	m.clampCursors()
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = ModeNormal
		_, col, ok := m.engine.Board().Find(m.editing.ID)
		if !ok {
			return m, nil
		}
		err := m.engine.Delete(context.Background(), m.editing.ID, col, func(taskID string, col board.Column) {
			delete(m.labelCache, taskID+"|"+string(col))
		})
		if err != nil {
			m.message = "Error: " + formatAPIError(err)
		} else {
			m.message = "Deleted"
		}
		m.clampCursors()
	case "n", "N", "esc":
		m.mode = ModeNormal
	}
	return m, nil
}

// formatAPIError renders validation detail when the backend provides
// it.
func formatAPIError(err error) string {
	if fields := api.FieldErrors(err); len(fields) > 0 {
		parts := make([]string, 0, len(fields))
		for k, v := range fields {
			parts = append(parts, k+": "+v)
		}
		return strings.Join(parts, ", ")
	}
	if api.IsUnauthorized(err) {
		logger.Warn("Operation not authorized", logger.F("error", err))
	}
	return err.Error()
}
