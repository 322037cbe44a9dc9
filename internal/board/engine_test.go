package board

import (
	"context"
	"errors"
	"testing"

	"github.com/existflow/tablero/internal/diff"
	"github.com/existflow/tablero/internal/model"
)

// fakeBackend is an in-memory Backend that records every write.
type fakeBackend struct {
	tasks  map[string]model.Task
	labels map[string][]model.Label

	updates  []diff.Patch
	ensures  [][]string
	replaces [][]string
	pushes   []model.Status
	deletes  []string

	boardErr error
}

func newFakeBackend(tasks ...model.Task) *fakeBackend {
	f := &fakeBackend{
		tasks:  make(map[string]model.Task),
		labels: make(map[string][]model.Label),
	}
	for _, t := range tasks {
		f.tasks[t.ID] = t
	}
	return f
}

func (f *fakeBackend) Board(ctx context.Context, projectID string) (map[string][]model.Task, error) {
	if f.boardErr != nil {
		return nil, f.boardErr
	}
	grouped := make(map[string][]model.Task)
	for _, t := range f.tasks {
		col, ok := ColumnForStatus(t.Status)
		if !ok {
			col = ColumnTodo
		}
		grouped[string(col)] = append(grouped[string(col)], t)
	}
	return grouped, nil
}

func (f *fakeBackend) CreateTask(ctx context.Context, req model.TaskCreate) (model.Task, error) {
	task := model.NewTask("t-new", req.ProjectID, req.Title)
	task.Priority = req.Priority
	f.tasks[task.ID] = task
	return task, nil
}

func (f *fakeBackend) UpdateTask(ctx context.Context, taskID string, patch diff.Patch) (model.Task, error) {
	f.updates = append(f.updates, patch)
	task := f.tasks[taskID]
	if v, ok := patch["titulo"]; ok {
		task.Title = v.(string)
	}
	if v, ok := patch["estado"]; ok {
		task.Status = model.Status(v.(string))
	}
	f.tasks[taskID] = task
	return task, nil
}

func (f *fakeBackend) ChangeStatus(ctx context.Context, taskID string, status model.Status) error {
	f.pushes = append(f.pushes, status)
	task := f.tasks[taskID]
	task.Status = status
	f.tasks[taskID] = task
	return nil
}

func (f *fakeBackend) DeleteTask(ctx context.Context, taskID string) error {
	f.deletes = append(f.deletes, taskID)
	delete(f.tasks, taskID)
	return nil
}

func (f *fakeBackend) AssignToMe(ctx context.Context, taskID string) error {
	task := f.tasks[taskID]
	task.OwnerName = "yo"
	f.tasks[taskID] = task
	return nil
}

func (f *fakeBackend) TaskLabels(ctx context.Context, taskID string) ([]model.Label, error) {
	return f.labels[taskID], nil
}

func (f *fakeBackend) EnsureLabels(ctx context.Context, names []string) ([]string, error) {
	f.ensures = append(f.ensures, names)
	ids := make([]string, len(names))
	for i, n := range names {
		ids[i] = "lbl-" + model.NormalizeLabel(n)
	}
	return ids, nil
}

func (f *fakeBackend) ReplaceTaskLabels(ctx context.Context, taskID string, labelIDs []string) error {
	f.replaces = append(f.replaces, labelIDs)
	return nil
}

func (f *fakeBackend) TaskComments(ctx context.Context, taskID string) ([]model.Comment, error) {
	return nil, nil
}

func TestEngineLoad(t *testing.T) {
	t.Run("groups by column", func(t *testing.T) {
		backend := newFakeBackend(
			model.Task{ID: "a", Status: model.StatusPending},
			model.Task{ID: "b", Status: model.StatusDone},
		)
		e := NewEngine(backend)
		if err := e.Load(context.Background(), "p1"); err != nil {
			t.Fatalf("Load: %v", err)
		}
		if len(e.Board()[ColumnTodo]) != 1 || len(e.Board()[ColumnDone]) != 1 {
			t.Errorf("board = %v", e.Board())
		}
	})

	t.Run("resets on failure", func(t *testing.T) {
		backend := newFakeBackend(model.Task{ID: "a", Status: model.StatusPending})
		e := NewEngine(backend)
		if err := e.Load(context.Background(), "p1"); err != nil {
			t.Fatalf("Load: %v", err)
		}

		backend.boardErr = errors.New("boom")
		if err := e.Load(context.Background(), "p1"); err == nil {
			t.Fatal("expected error")
		}
		if e.Board().Count() != 0 {
			t.Errorf("board should be empty after a failed load, has %d", e.Board().Count())
		}
	})
}

func TestEngineCreate(t *testing.T) {
	backend := newFakeBackend()
	e := NewEngine(backend)

	task, err := e.Create(context.Background(), model.TaskCreate{
		Title:     "Nueva",
		Priority:  model.PriorityMedium,
		ProjectID: "p1",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, col, ok := e.Board().Find(task.ID); !ok || col != ColumnTodo {
		t.Errorf("created task not on board in todo: %q, %v", col, ok)
	}
}

func TestEngineUpdate(t *testing.T) {
	original := model.Task{ID: "t1", ProjectID: "p1", Title: "Antes", Status: model.StatusPending, Priority: model.PriorityLow}

	t.Run("no-op performs zero writes", func(t *testing.T) {
		backend := newFakeBackend(original)
		backend.labels["t1"] = []model.Label{{Name: "urgente"}}
		e := NewEngine(backend)

		result, err := e.Update(context.Background(), original, original, "p1", []model.Label{{Name: "Urgente"}})
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if result.Changed() {
			t.Error("nothing changed, result should say so")
		}
		if len(backend.updates)+len(backend.ensures)+len(backend.replaces) != 0 {
			t.Errorf("no-op save wrote: updates=%d ensures=%d replaces=%d",
				len(backend.updates), len(backend.ensures), len(backend.replaces))
		}
	})

	t.Run("title change writes one scalar patch", func(t *testing.T) {
		backend := newFakeBackend(original)
		e := NewEngine(backend)

		draft := original
		draft.Title = "Después"
		result, err := e.Update(context.Background(), draft, original, "p1", nil)
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if !result.FieldsChanged || result.LabelsChanged {
			t.Errorf("result = %+v", result)
		}
		if len(backend.updates) != 1 {
			t.Fatalf("got %d scalar writes, want 1", len(backend.updates))
		}
		patch := backend.updates[0]
		if len(patch) != 1 || patch["titulo"] != "Después" {
			t.Errorf("patch = %v", patch)
		}
		if len(backend.ensures) != 0 || len(backend.replaces) != 0 {
			t.Error("title change must not touch labels")
		}
	})

	t.Run("label change writes one replace and no scalar patch", func(t *testing.T) {
		backend := newFakeBackend(original)
		backend.labels["t1"] = []model.Label{{Name: "urgente"}}
		e := NewEngine(backend)

		next := []model.Label{{Name: "urgente"}, {Name: "backend"}}
		result, err := e.Update(context.Background(), original, original, "p1", next)
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if !result.LabelsChanged || result.FieldsChanged {
			t.Errorf("result = %+v", result)
		}
		if len(backend.ensures) != 1 || len(backend.replaces) != 1 {
			t.Errorf("got %d ensures, %d replaces; want 1 each", len(backend.ensures), len(backend.replaces))
		}
		if len(backend.updates) != 0 {
			t.Error("label-only save must not write scalars")
		}
	})
}

func TestEngineMove(t *testing.T) {
	task := model.Task{ID: "t1", ProjectID: "p1", Title: "Mover", Status: model.StatusPending}

	t.Run("there and back again", func(t *testing.T) {
		backend := newFakeBackend(task)
		e := NewEngine(backend)
		if err := e.Load(context.Background(), "p1"); err != nil {
			t.Fatalf("Load: %v", err)
		}

		// Hold the async pushes so both moves land before any
		// network write runs.
		var queued []func()
		e.SetDispatch(func(f func()) { queued = append(queued, f) })

		if !e.Move("t1", ColumnTodo, ColumnInProgress) {
			t.Fatal("first move failed")
		}
		if !e.Move("t1", ColumnInProgress, ColumnTodo) {
			t.Fatal("second move failed")
		}

		if e.Board().Count() != 1 {
			t.Fatalf("task duplicated or lost: count = %d", e.Board().Count())
		}
		got, col, ok := e.Board().Find("t1")
		if !ok || col != ColumnTodo {
			t.Fatalf("task in %q, want todo", col)
		}
		if got.Status != model.StatusPending {
			t.Errorf("status = %q, want %q", got.Status, model.StatusPending)
		}

		for _, f := range queued {
			f()
		}
		if len(backend.pushes) != 2 {
			t.Fatalf("got %d status pushes, want 2", len(backend.pushes))
		}
		if backend.tasks["t1"].Status != model.StatusPending {
			t.Errorf("backend status = %q after pushes, want %q", backend.tasks["t1"].Status, model.StatusPending)
		}
	})

	t.Run("same column pushes nothing", func(t *testing.T) {
		backend := newFakeBackend(task)
		e := NewEngine(backend)
		if err := e.Load(context.Background(), "p1"); err != nil {
			t.Fatalf("Load: %v", err)
		}
		var queued []func()
		e.SetDispatch(func(f func()) { queued = append(queued, f) })

		if !e.Move("t1", ColumnTodo, ColumnTodo) {
			t.Fatal("move within a column should still succeed")
		}
		if len(queued) != 0 {
			t.Error("same-column move must not push a status change")
		}
	})

	t.Run("missing task is a no-op", func(t *testing.T) {
		e := NewEngine(newFakeBackend())
		if e.Move("ghost", ColumnTodo, ColumnDone) {
			t.Error("moving an absent task should report false")
		}
	})
}

func TestEngineDelete(t *testing.T) {
	task := model.Task{ID: "t1", ProjectID: "p1", Status: model.StatusInReview}
	backend := newFakeBackend(task)
	e := NewEngine(backend)
	if err := e.Load(context.Background(), "p1"); err != nil {
		t.Fatalf("Load: %v", err)
	}

	var cleanedID string
	var cleanedCol Column
	err := e.Delete(context.Background(), "TAB-t1", ColumnInReview, func(id string, col Column) {
		cleanedID, cleanedCol = id, col
	})
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if len(backend.deletes) != 1 || backend.deletes[0] != "t1" {
		t.Errorf("backend deletes = %v, want [t1]", backend.deletes)
	}
	if e.Board().Count() != 0 {
		t.Error("task should be spliced out locally")
	}
	if cleanedID != "t1" || cleanedCol != ColumnInReview {
		t.Errorf("cleanup got (%q, %q)", cleanedID, cleanedCol)
	}
}

func TestEngineAutoAssign(t *testing.T) {
	task := model.Task{ID: "t1", ProjectID: "p1", Status: model.StatusPending}
	backend := newFakeBackend(task)
	e := NewEngine(backend)
	if err := e.Load(context.Background(), "p1"); err != nil {
		t.Fatalf("Load: %v", err)
	}

	refreshed, err := e.AutoAssign(context.Background(), task)
	if err != nil {
		t.Fatalf("AutoAssign: %v", err)
	}
	if refreshed.OwnerName != "yo" {
		t.Errorf("OwnerName = %q after assignment", refreshed.OwnerName)
	}
}
