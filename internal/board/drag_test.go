package board

import (
	"context"
	"testing"

	"github.com/existflow/tablero/internal/model"
)

func dragFixture(t *testing.T) (*DragController, *Engine, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend(model.Task{ID: "t1", ProjectID: "p1", Status: model.StatusPending})
	e := NewEngine(backend)
	if err := e.Load(context.Background(), "p1"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	e.SetDispatch(func(f func()) { f() })
	return NewDragController(e), e, backend
}

func TestDragDrop(t *testing.T) {
	d, e, backend := dragFixture(t)

	d.Start(ColumnTodo, "t1")
	if _, id, active := d.Dragging(); !active || id != "t1" {
		t.Fatalf("Dragging = %q, %v", id, active)
	}

	if !d.Drop(ColumnDone) {
		t.Fatal("drop failed")
	}
	if _, _, active := d.Dragging(); active {
		t.Error("drag state should clear after drop")
	}
	if _, col, _ := e.Board().Find("t1"); col != ColumnDone {
		t.Errorf("task in %q, want done", col)
	}
	if len(backend.pushes) != 1 || backend.pushes[0] != model.StatusDone {
		t.Errorf("pushes = %v", backend.pushes)
	}
}

func TestDragDropWithoutGrab(t *testing.T) {
	d, e, backend := dragFixture(t)

	if d.Drop(ColumnDone) {
		t.Error("drop with nothing grabbed should be a no-op")
	}
	if _, col, _ := e.Board().Find("t1"); col != ColumnTodo {
		t.Errorf("task moved to %q without a grab", col)
	}
	if len(backend.pushes) != 0 {
		t.Errorf("pushes = %v, want none", backend.pushes)
	}
}

func TestDragCancel(t *testing.T) {
	d, e, _ := dragFixture(t)

	d.Start(ColumnTodo, "t1")
	d.Cancel()

	if _, _, active := d.Dragging(); active {
		t.Error("cancel should clear the drag")
	}
	if d.Drop(ColumnDone) {
		t.Error("drop after cancel should be a no-op")
	}
	if _, col, _ := e.Board().Find("t1"); col != ColumnTodo {
		t.Errorf("task in %q after cancelled drag", col)
	}
}

func TestDragRestartReplaces(t *testing.T) {
	d, e, _ := dragFixture(t)
	e.Board()[ColumnInReview] = append(e.Board()[ColumnInReview], model.Task{ID: "t2", Status: model.StatusInReview})

	d.Start(ColumnTodo, "t1")
	d.Start(ColumnInReview, "t2")

	if !d.Drop(ColumnDone) {
		t.Fatal("drop failed")
	}
	if _, col, _ := e.Board().Find("t2"); col != ColumnDone {
		t.Errorf("second grab should win; t2 in %q", col)
	}
	if _, col, _ := e.Board().Find("t1"); col != ColumnTodo {
		t.Errorf("first grab should be discarded; t1 in %q", col)
	}
}
