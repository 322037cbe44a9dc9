package board

import "github.com/existflow/tablero/internal/model"

// Column identifies one of the four fixed board columns.
type Column string

const (
	ColumnTodo       Column = "todo"
	ColumnInProgress Column = "in_progress"
	ColumnInReview   Column = "in_review"
	ColumnDone       Column = "done"
)

// Columns lists the board columns in display order.
var Columns = []Column{ColumnTodo, ColumnInProgress, ColumnInReview, ColumnDone}

// The status↔column bijection. Server and client group through the
// same table; a divergence here corrupts boards silently, which is why
// the tests pin the round-trip for every state.
var statusToColumn = map[model.Status]Column{
	model.StatusPending:    ColumnTodo,
	model.StatusInProgress: ColumnInProgress,
	model.StatusInReview:   ColumnInReview,
	model.StatusDone:       ColumnDone,
}

var columnToStatus = map[Column]model.Status{
	ColumnTodo:       model.StatusPending,
	ColumnInProgress: model.StatusInProgress,
	ColumnInReview:   model.StatusInReview,
	ColumnDone:       model.StatusDone,
}

// ColumnForStatus returns the column a status belongs to. ok is false
// for an unrecognized status; callers fall back to ColumnTodo.
func ColumnForStatus(s model.Status) (Column, bool) {
	c, ok := statusToColumn[s]
	return c, ok
}

// StatusForColumn returns the pipeline status a column represents.
// Total over the four columns.
func StatusForColumn(c Column) model.Status {
	return columnToStatus[c]
}

// Title returns the column header shown in client surfaces.
func (c Column) Title() string {
	return StatusForColumn(c).Label()
}
