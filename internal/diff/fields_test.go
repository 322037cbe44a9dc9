package diff

import (
	"testing"

	"github.com/existflow/tablero/internal/model"
)

func baseTask() model.Task {
	return model.Task{
		ID:          "t1",
		ProjectID:   "p1",
		Title:       "Revisar contrato",
		Description: "Con legal",
		Status:      model.StatusPending,
		Priority:    model.PriorityMedium,
		DueDate:     "2025-03-01",
		OwnerName:   "Ana",
	}
}

func TestFieldsEmptyForEqual(t *testing.T) {
	task := baseTask()
	patch := Fields(task, task)
	if len(patch) != 0 {
		t.Errorf("patch = %v, want empty", patch)
	}
}

func TestFieldsStatusOnly(t *testing.T) {
	original := baseTask()
	draft := original
	// Drafts carry the UI label; the patch must carry the token.
	draft.Status = model.Status("En progreso")

	patch := Fields(draft, original)
	if len(patch) != 1 {
		t.Fatalf("patch = %v, want only estado", patch)
	}
	if patch["estado"] != "En_progreso" {
		t.Errorf("estado = %v, want En_progreso", patch["estado"])
	}
}

func TestFieldsStatusLabelEqualsToken(t *testing.T) {
	original := baseTask()
	original.Status = model.StatusInProgress
	draft := original
	draft.Status = model.Status("En progreso")

	if patch := Fields(draft, original); len(patch) != 0 {
		t.Errorf("label and token for the same state should not diff: %v", patch)
	}
}

func TestFieldsDueDate(t *testing.T) {
	t.Run("timestamp equals date", func(t *testing.T) {
		original := baseTask()
		draft := original
		draft.DueDate = "2025-03-01T00:00:00Z"
		if patch := Fields(draft, original); len(patch) != 0 {
			t.Errorf("same calendar day should not diff: %v", patch)
		}
	})

	t.Run("cleared date patches null", func(t *testing.T) {
		original := baseTask()
		draft := original
		draft.DueDate = ""
		patch := Fields(draft, original)
		if len(patch) != 1 {
			t.Fatalf("patch = %v", patch)
		}
		v, present := patch["fechaFin"]
		if !present || v != nil {
			t.Errorf("fechaFin = %v, want explicit null", v)
		}
	})

	t.Run("new date patches day form", func(t *testing.T) {
		original := baseTask()
		draft := original
		draft.DueDate = "2025-04-15T12:30:00Z"
		patch := Fields(draft, original)
		if patch["fechaFin"] != "2025-04-15" {
			t.Errorf("fechaFin = %v, want 2025-04-15", patch["fechaFin"])
		}
	})
}

func TestFieldsOwner(t *testing.T) {
	original := baseTask()
	draft := original
	draft.OwnerName = "Benito"

	patch := Fields(draft, original)
	if len(patch) != 1 || patch["asignadoA"] != "Benito" {
		t.Errorf("patch = %v, want asignadoA only", patch)
	}
}

func TestFieldsMultiple(t *testing.T) {
	original := baseTask()
	draft := original
	draft.Title = "Firmar contrato"
	draft.Priority = model.PriorityHigh

	patch := Fields(draft, original)
	if len(patch) != 2 {
		t.Fatalf("patch = %v, want titulo and prioridad", patch)
	}
	if patch["titulo"] != "Firmar contrato" || patch["prioridad"] != "Alta" {
		t.Errorf("patch = %v", patch)
	}
}

func TestFieldsProject(t *testing.T) {
	original := baseTask()
	draft := original
	draft.ProjectID = "p2"

	patch := Fields(draft, original)
	if patch["proyecto"] != "p2" {
		t.Errorf("patch = %v, want proyecto p2", patch)
	}

	// A draft with no project set must never patch the project away.
	draft.ProjectID = ""
	if patch := Fields(draft, original); len(patch) != 0 {
		t.Errorf("empty draft project produced %v", patch)
	}
}
