package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/existflow/tablero/internal/api"
	"github.com/existflow/tablero/internal/board"
	"github.com/existflow/tablero/internal/logger"
	"github.com/existflow/tablero/internal/model"
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeProjectPick
	ModeAddTask
	ModeEditTitle
	ModeEditLabels
	ModeConfirmDelete
	ModeHelp
)

// Model is the board TUI model
type Model struct {
	client *api.Client
	engine *board.Engine
	drag   *board.DragController

	me       model.User
	projects []model.Project
	project  model.Project

	// Per-task label cache keyed by task and column; purged by the
	// engine's delete cleanup callback.
	labelCache map[string][]model.Label

	// UI state
	width      int
	height     int
	mode       Mode
	colIndex   int
	cursors    map[board.Column]int
	projCursor int

	// Input
	input   textinput.Model
	editing model.Task // original snapshot while editing

	message string
}

// NewModel creates the board TUI model and loads the initial board.
func NewModel(client *api.Client, me model.User, defaultProject string) Model {
	logger.Info("Initializing board TUI")

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50

	m := Model{
		client:     client,
		engine:     board.NewEngine(client),
		me:         me,
		labelCache: make(map[string][]model.Label),
		mode:       ModeNormal,
		cursors:    make(map[board.Column]int),
		input:      ti,
	}
	m.drag = board.NewDragController(m.engine)

	m.loadProjects(defaultProject)
	return m
}

// loadProjects fetches the project list and loads the selected board.
func (m *Model) loadProjects(preferred string) {
	ctx := context.Background()
	projects, err := m.client.Projects(ctx)
	if err != nil {
		logger.Error("Failed to load projects", logger.F("error", err))
		m.message = "Error: " + err.Error()
		return
	}
	m.projects = projects
	if len(projects) == 0 {
		m.message = "No projects yet"
		return
	}

	m.project = projects[0]
	for _, p := range projects {
		if p.ID == preferred {
			m.project = p
			break
		}
	}
	m.reload()
}

// reload replaces the board from the server.
func (m *Model) reload() {
	if m.project.ID == "" {
		return
	}
	if err := m.engine.Load(context.Background(), m.project.ID); err != nil {
		logger.Error("Failed to load board", logger.F("project", m.project.ID), logger.F("error", err))
		m.message = "Error: " + err.Error()
		return
	}
	m.clampCursors()
}

// column returns the currently focused column.
func (m *Model) column() board.Column {
	return board.Columns[m.colIndex]
}

// selectedTask returns the task under the cursor, if any.
func (m *Model) selectedTask() (model.Task, bool) {
	col := m.column()
	tasks := m.engine.Board()[col]
	cursor := m.cursors[col]
	if cursor < 0 || cursor >= len(tasks) {
		return model.Task{}, false
	}
	return tasks[cursor], true
}

// clampCursors keeps every column cursor inside its list.
func (m *Model) clampCursors() {
	b := m.engine.Board()
	for _, col := range board.Columns {
		if m.cursors[col] >= len(b[col]) {
			m.cursors[col] = len(b[col]) - 1
		}
		if m.cursors[col] < 0 {
			m.cursors[col] = 0
		}
	}
}
