package board

import "github.com/existflow/tablero/internal/model"

// Board is the client's in-memory projection of a project's tasks,
// keyed by column. It is never the source of truth: it is rebuilt from
// the server's grouped listing after every mutation that needs it, so
// partial updates cannot drift.
type Board map[Column][]model.Task

// NewBoard returns an empty board with all four columns present.
func NewBoard() Board {
	b := make(Board, len(Columns))
	for _, c := range Columns {
		b[c] = []model.Task{}
	}
	return b
}

// FromGrouped builds a board from the server's column-keyed listing.
// Tasks under an unknown column key land in the todo column.
func FromGrouped(grouped map[string][]model.Task) Board {
	b := NewBoard()
	for key, tasks := range grouped {
		col := Column(key)
		if _, ok := columnToStatus[col]; !ok {
			col = ColumnTodo
		}
		b[col] = append(b[col], tasks...)
	}
	return b
}

// Find locates a task by id across all columns.
func (b Board) Find(taskID string) (model.Task, Column, bool) {
	id := model.CanonicalID(taskID)
	for _, c := range Columns {
		for _, t := range b[c] {
			if model.CanonicalID(t.ID) == id {
				return t, c, true
			}
		}
	}
	return model.Task{}, "", false
}

// remove splices the task out of the given column, returning it.
func (b Board) remove(taskID string, col Column) (model.Task, bool) {
	id := model.CanonicalID(taskID)
	list := b[col]
	for i, t := range list {
		if model.CanonicalID(t.ID) == id {
			b[col] = append(list[:i:i], list[i+1:]...)
			return t, true
		}
	}
	return model.Task{}, false
}

// Count returns the total number of tasks on the board.
func (b Board) Count() int {
	n := 0
	for _, c := range Columns {
		n += len(b[c])
	}
	return n
}
