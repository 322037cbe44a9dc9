package model

import (
	"strings"
	"time"
)

// Status is the backend-facing pipeline state token.
type Status string

const (
	StatusPending    Status = "Pendiente"
	StatusInProgress Status = "En_progreso"
	StatusInReview   Status = "En_revision"
	StatusDone       Status = "Terminada"
)

// statusLabels maps UI-facing labels to backend tokens. The UI shows
// "En progreso"; the wire carries "En_progreso".
var statusLabels = map[string]Status{
	"Pendiente":   StatusPending,
	"En progreso": StatusInProgress,
	"En revision": StatusInReview,
	"Terminada":   StatusDone,
}

// StatusFromLabel resolves a UI-facing status label to its backend
// token. A string that is already a token resolves to itself.
func StatusFromLabel(label string) (Status, bool) {
	if s, ok := statusLabels[label]; ok {
		return s, true
	}
	switch Status(label) {
	case StatusPending, StatusInProgress, StatusInReview, StatusDone:
		return Status(label), true
	}
	return "", false
}

// Label returns the UI-facing form of the status.
func (s Status) Label() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// Priority levels for tasks
type Priority string

const (
	PriorityLow    Priority = "Baja"
	PriorityMedium Priority = "Media"
	PriorityHigh   Priority = "Alta"
)

// Task represents a single board card.
type Task struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"proyectoId"`
	Title       string    `json:"titulo"`
	Description string    `json:"descripcion"`
	Status      Status    `json:"estado"`
	Priority    Priority  `json:"prioridad"`
	DueDate     string    `json:"fechaFin,omitempty"` // ISO date, empty = none
	OwnerName   string    `json:"asignadoA"`
	OwnerID     *string   `json:"asignadoId"` // nil and "unassigned" are distinct server-side
	CreatorID   string    `json:"creadorId"`
	Labels      []Label   `json:"etiquetas,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TaskCreate carries the minimal fields for task creation.
type TaskCreate struct {
	Title       string   `json:"titulo"`
	Description string   `json:"descripcion"`
	Priority    Priority `json:"prioridad"`
	ProjectID   string   `json:"proyecto"`
	OwnerName   string   `json:"asignadoA,omitempty"`
	DueDate     string   `json:"fechaFin,omitempty"`
}

// displayPrefix decorates task ids in client surfaces ("TAB-42").
const displayPrefix = "TAB-"

// CanonicalID strips the display prefix from a task id. Backend calls
// must always receive the canonical form.
func CanonicalID(id string) string {
	return strings.TrimPrefix(id, displayPrefix)
}

// DisplayID returns the prefixed form used in client surfaces.
func DisplayID(id string) string {
	if strings.HasPrefix(id, displayPrefix) {
		return id
	}
	return displayPrefix + id
}

// ShortID abbreviates a display id for terminal output.
func ShortID(id string) string {
	d := DisplayID(id)
	if len(d) > 12 {
		return d[:12]
	}
	return d
}

// NewTask creates a task with defaults: initial pipeline state, low
// priority, unassigned.
func NewTask(id, projectID, title string) Task {
	now := time.Now()
	return Task{
		ID:        id,
		ProjectID: projectID,
		Title:     title,
		Status:    StatusPending,
		Priority:  PriorityLow,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsOverdue returns true if the task is past its due date.
func (t *Task) IsOverdue() bool {
	if t.DueDate == "" {
		return false
	}
	due, err := time.ParseInLocation("2006-01-02", DateOnly(t.DueDate), time.Local)
	if err != nil {
		return false
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return due.Before(today)
}

// DateOnly reduces an ISO timestamp or date string to YYYY-MM-DD.
// Empty input stays empty.
func DateOnly(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
