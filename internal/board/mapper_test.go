package board

import (
	"testing"

	"github.com/existflow/tablero/internal/model"
)

func TestColumnStatusRoundTrip(t *testing.T) {
	for _, col := range Columns {
		t.Run(string(col), func(t *testing.T) {
			status := StatusForColumn(col)
			back, ok := ColumnForStatus(status)
			if !ok {
				t.Fatalf("ColumnForStatus(%q) not ok", status)
			}
			if back != col {
				t.Errorf("round trip %q -> %q -> %q", col, status, back)
			}
		})
	}
}

func TestColumnForStatus(t *testing.T) {
	cases := []struct {
		status model.Status
		want   Column
	}{
		{model.StatusPending, ColumnTodo},
		{model.StatusInProgress, ColumnInProgress},
		{model.StatusInReview, ColumnInReview},
		{model.StatusDone, ColumnDone},
	}
	for _, tc := range cases {
		got, ok := ColumnForStatus(tc.status)
		if !ok || got != tc.want {
			t.Errorf("ColumnForStatus(%q) = %q, %v; want %q", tc.status, got, ok, tc.want)
		}
	}

	if _, ok := ColumnForStatus(model.Status("Archivada")); ok {
		t.Error("unknown status should not map to a column")
	}
}

func TestColumnTitle(t *testing.T) {
	if got := ColumnInProgress.Title(); got != "En progreso" {
		t.Errorf("Title() = %q, want %q", got, "En progreso")
	}
	if got := ColumnTodo.Title(); got != "Pendiente" {
		t.Errorf("Title() = %q, want %q", got, "Pendiente")
	}
}

func TestFromGrouped(t *testing.T) {
	grouped := map[string][]model.Task{
		"todo":        {{ID: "a"}},
		"in_progress": {{ID: "b"}},
		"basura":      {{ID: "c"}},
	}
	b := FromGrouped(grouped)

	if len(b[ColumnTodo]) != 2 {
		t.Errorf("todo has %d tasks, want 2 (unknown keys fall back to todo)", len(b[ColumnTodo]))
	}
	if len(b[ColumnInProgress]) != 1 {
		t.Errorf("in_progress has %d tasks, want 1", len(b[ColumnInProgress]))
	}
	for _, col := range Columns {
		if b[col] == nil {
			t.Errorf("column %q missing from board", col)
		}
	}
}

func TestBoardFind(t *testing.T) {
	b := NewBoard()
	b[ColumnInReview] = []model.Task{{ID: "abc-123", Title: "Revisar"}}

	t.Run("canonical id", func(t *testing.T) {
		task, col, ok := b.Find("abc-123")
		if !ok || col != ColumnInReview || task.Title != "Revisar" {
			t.Errorf("Find = %+v, %q, %v", task, col, ok)
		}
	})

	t.Run("display id", func(t *testing.T) {
		_, _, ok := b.Find(model.DisplayID("abc-123"))
		if !ok {
			t.Error("Find should accept the prefixed display form")
		}
	})

	t.Run("missing", func(t *testing.T) {
		if _, _, ok := b.Find("nope"); ok {
			t.Error("Find should miss for unknown ids")
		}
	})
}
