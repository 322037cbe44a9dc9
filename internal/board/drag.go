package board

// DragController tracks the single task being carried between columns.
// It holds no business rules beyond "at most one drag in flight"; the
// actual move always routes through the engine.
type DragController struct {
	engine *Engine
	source Column
	taskID string
	active bool
}

// NewDragController creates a controller bound to an engine.
func NewDragController(engine *Engine) *DragController {
	return &DragController{engine: engine}
}

// Start begins tracking a drag. Starting while another drag is in
// flight replaces it; the previous gesture never reached a drop.
func (d *DragController) Start(source Column, taskID string) {
	d.source = source
	d.taskID = taskID
	d.active = true
}

// Drop completes the drag onto the target column. With nothing
// tracked it is a no-op. Tracking state clears regardless of outcome.
func (d *DragController) Drop(target Column) bool {
	if !d.active {
		return false
	}
	moved := d.engine.Move(d.taskID, d.source, target)
	d.clear()
	return moved
}

// Cancel discards the tracked drag without moving anything.
func (d *DragController) Cancel() {
	d.clear()
}

// Dragging returns the tracked tuple, if any.
func (d *DragController) Dragging() (Column, string, bool) {
	return d.source, d.taskID, d.active
}

func (d *DragController) clear() {
	d.source = ""
	d.taskID = ""
	d.active = false
}
