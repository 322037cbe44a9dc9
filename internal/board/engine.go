package board

import (
	"context"

	"github.com/existflow/tablero/internal/api"
	"github.com/existflow/tablero/internal/diff"
	"github.com/existflow/tablero/internal/logger"
	"github.com/existflow/tablero/internal/model"
)

// Backend is the server contract the engine drives. internal/api
// implements it over HTTP.
type Backend interface {
	Board(ctx context.Context, projectID string) (map[string][]model.Task, error)
	CreateTask(ctx context.Context, req model.TaskCreate) (model.Task, error)
	UpdateTask(ctx context.Context, taskID string, patch diff.Patch) (model.Task, error)
	ChangeStatus(ctx context.Context, taskID string, status model.Status) error
	DeleteTask(ctx context.Context, taskID string) error
	AssignToMe(ctx context.Context, taskID string) error
	TaskLabels(ctx context.Context, taskID string) ([]model.Label, error)
	EnsureLabels(ctx context.Context, names []string) ([]string, error)
	ReplaceTaskLabels(ctx context.Context, taskID string, labelIDs []string) error
	TaskComments(ctx context.Context, taskID string) ([]model.Comment, error)
}

// Engine owns the in-memory board and is the only code allowed to
// mutate its column lists. Every mutating operation either reconciles
// against a fresh authoritative re-fetch or, for the optimistic move,
// commits locally and lets the next full load correct any drift.
type Engine struct {
	backend Backend
	board   Board

	// dispatch runs the deferred half of a two-phase operation. The
	// optimistic move's status push goes through here so the local
	// splice stays synchronous while the network write does not.
	dispatch func(func())
}

// NewEngine creates an engine with an empty board.
func NewEngine(backend Backend) *Engine {
	return &Engine{
		backend:  backend,
		board:    NewBoard(),
		dispatch: func(f func()) { go f() },
	}
}

// Board returns the current projection. Callers must not splice the
// column lists; moves go through Move.
func (e *Engine) Board() Board {
	return e.board
}

// Load replaces the whole board from the server's grouped listing.
// On failure the board resets to empty rather than holding partial
// state.
func (e *Engine) Load(ctx context.Context, projectID string) error {
	grouped, err := e.backend.Board(ctx, projectID)
	if err != nil {
		e.board = NewBoard()
		return err
	}
	e.board = FromGrouped(grouped)
	return nil
}

// Create issues the creation and then reloads the full board; the
// creation response is flat, so the board-shaped task is located by
// id after the reload.
func (e *Engine) Create(ctx context.Context, req model.TaskCreate) (model.Task, error) {
	created, err := e.backend.CreateTask(ctx, req)
	if err != nil {
		return model.Task{}, err
	}
	if err := e.Load(ctx, req.ProjectID); err != nil {
		return created, err
	}
	if t, _, ok := e.board.Find(created.ID); ok {
		return t, nil
	}
	return created, nil
}

// UpdateResult reports what a save actually did.
type UpdateResult struct {
	Task          model.Task
	FieldsChanged bool
	LabelsChanged bool
}

// Changed reports whether the save wrote anything at all.
func (r UpdateResult) Changed() bool {
	return r.FieldsChanged || r.LabelsChanged
}

// Update saves an edited draft. The persisted label set is fetched
// fresh rather than trusted from local cache, the label association is
// replaced only when the delta says so, and the scalar patch goes out
// only when non-empty: at most one label write and one scalar write
// per save. A save that changed nothing performs zero network writes.
func (e *Engine) Update(ctx context.Context, draft, original model.Task, projectID string, labels []model.Label) (UpdateResult, error) {
	taskID := model.CanonicalID(original.ID)
	result := UpdateResult{Task: original}

	persisted, err := e.backend.TaskLabels(ctx, taskID)
	if err != nil {
		return result, err
	}

	if diff.LabelsChanged(persisted, labels) {
		// Awaited before the scalar write: the association replace
		// must land against the snapshot it was computed from.
		ids, err := e.backend.EnsureLabels(ctx, diff.Names(labels))
		if err != nil {
			return result, err
		}
		if err := e.backend.ReplaceTaskLabels(ctx, taskID, ids); err != nil {
			return result, err
		}
		result.LabelsChanged = true
	}

	patch := diff.Fields(draft, original)
	if len(patch) > 0 {
		if _, err := e.backend.UpdateTask(ctx, taskID, patch); err != nil {
			return result, err
		}
		result.FieldsChanged = true
	}

	if !result.Changed() {
		return result, nil
	}

	if err := e.Load(ctx, projectID); err != nil {
		return result, err
	}
	if t, _, ok := e.board.Find(taskID); ok {
		result.Task = t
	}
	return result, nil
}

// Delete removes the task on the server, splices it out of its column
// locally (deletion is idempotent, no reload needed), then invokes
// cleanup so caches keyed by task and column can purge.
func (e *Engine) Delete(ctx context.Context, taskID string, col Column, cleanup func(taskID string, col Column)) error {
	id := model.CanonicalID(taskID)
	if err := e.backend.DeleteTask(ctx, id); err != nil {
		return err
	}
	e.board.remove(id, col)
	if cleanup != nil {
		cleanup(id, col)
	}
	return nil
}

// Move is the two-phase optimistic move. Phase one is synchronous and
// always succeeds: the task is spliced from source to target with its
// status rewritten through the mapper. Phase two pushes the status
// change to the backend asynchronously when the column actually
// changed; a push failure is logged only and never rolled back, the
// next full load corrects the drift.
func (e *Engine) Move(taskID string, source, target Column) bool {
	task, ok := e.board.remove(taskID, source)
	if !ok {
		return false
	}
	task.Status = StatusForColumn(target)
	e.board[target] = append(e.board[target], task)

	if source != target {
		id := model.CanonicalID(task.ID)
		status := task.Status
		e.dispatch(func() {
			if err := e.backend.ChangeStatus(context.Background(), id, status); err != nil {
				logger.Warn("status push failed after local move",
					logger.F("task", id),
					logger.F("status", status),
					logger.F("error", err))
			}
		})
	}
	return true
}

// AutoAssign assigns the task to the current user and returns the
// refreshed task after a full reload.
func (e *Engine) AutoAssign(ctx context.Context, task model.Task) (model.Task, error) {
	id := model.CanonicalID(task.ID)
	if err := e.backend.AssignToMe(ctx, id); err != nil {
		return task, err
	}
	if err := e.Load(ctx, task.ProjectID); err != nil {
		return task, err
	}
	if t, _, ok := e.board.Find(id); ok {
		return t, nil
	}
	return task, nil
}

// Comments lazily loads a task's comments. A stale reference (task
// deleted while its detail view is open) is an expected race and
// yields an empty list; only other failures are logged.
func (e *Engine) Comments(ctx context.Context, taskID string) []model.Comment {
	comments, err := e.backend.TaskComments(ctx, model.CanonicalID(taskID))
	if err != nil {
		if !api.IsNotFound(err) {
			logger.Warn("loading comments failed", logger.F("task", taskID), logger.F("error", err))
		}
		return []model.Comment{}
	}
	return comments
}

// SetDispatch overrides the async boundary for the deferred phase of
// Move. Tests use this to hold pushes back.
func (e *Engine) SetDispatch(d func(func())) {
	if d != nil {
		e.dispatch = d
	}
}
