package server

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/existflow/tablero/internal/board"
	"github.com/existflow/tablero/internal/governance"
	"github.com/existflow/tablero/internal/model"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// scanTask reads one task row.
func scanTask(rows interface{ Scan(...interface{}) error }) (model.Task, error) {
	var t model.Task
	var fechaFin, asignadoID sql.NullString
	var createdAt, updatedAt string
	err := rows.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status,
		&t.Priority, &fechaFin, &t.OwnerName, &asignadoID, &t.CreatorID,
		&createdAt, &updatedAt)
	if err != nil {
		return t, err
	}
	if fechaFin.Valid {
		t.DueDate = fechaFin.String
	}
	if asignadoID.Valid {
		id := asignadoID.String
		t.OwnerID = &id
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	t.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return t, nil
}

const taskColumns = `id, project_id, titulo, descripcion, estado, prioridad,
	fecha_fin, asignado_nombre, asignado_id, creador_id, created_at, updated_at`

// loadTask fetches a single task.
func (s *Server) loadTask(taskID string) (model.Task, error) {
	row := s.db.QueryRow(s.q(`SELECT `+taskColumns+` FROM tasks WHERE id = $1`), taskID)
	return scanTask(row)
}

// handleBoard returns a project's tasks pre-grouped by board column.
// Grouping goes through the same status↔column table the client uses.
func (s *Server) handleBoard(c echo.Context) error {
	p, err := s.loadProject(c.Param("id"))
	if err != nil {
		return errJSON(c, http.StatusNotFound, "proyecto no encontrado")
	}
	if !requestIsAdmin(c) && !s.isMember(p.ID, requestUserID(c)) {
		return errJSON(c, http.StatusForbidden, "no autorizado")
	}

	rows, err := s.db.Query(s.q(`
		SELECT `+taskColumns+` FROM tasks WHERE project_id = $1 ORDER BY created_at, id`),
		p.ID,
	)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	defer rows.Close()

	grouped := map[string][]model.Task{}
	for _, col := range board.Columns {
		grouped[string(col)] = []model.Task{}
	}

	taskIndex := map[string]int{}
	taskColumn := map[string]string{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return errJSON(c, http.StatusInternalServerError, "internal error")
		}
		col, ok := board.ColumnForStatus(t.Status)
		if !ok {
			col = board.ColumnTodo
		}
		grouped[string(col)] = append(grouped[string(col)], t)
		taskIndex[t.ID] = len(grouped[string(col)]) - 1
		taskColumn[t.ID] = string(col)
	}

	if err := s.attachLabels(grouped, taskIndex, taskColumn, p.ID); err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, grouped)
}

// attachLabels fills the label sets of every task on a board in one
// query.
func (s *Server) attachLabels(grouped map[string][]model.Task, taskIndex map[string]int, taskColumn map[string]string, projectID string) error {
	rows, err := s.db.Query(s.q(`
		SELECT tl.task_id, l.id, l.nombre, l.color
		FROM task_labels tl
		JOIN labels l ON l.id = tl.label_id
		JOIN tasks t ON t.id = tl.task_id
		WHERE t.project_id = $1
		ORDER BY tl.task_id, tl.posicion`),
		projectID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var taskID string
		var l model.Label
		if err := rows.Scan(&taskID, &l.ID, &l.Name, &l.Color); err != nil {
			return err
		}
		col, ok := taskColumn[taskID]
		if !ok {
			continue
		}
		i := taskIndex[taskID]
		grouped[col][i].Labels = append(grouped[col][i].Labels, l)
	}
	return rows.Err()
}

// handleCreateTask creates a task in the initial pipeline state and
// returns it flat.
func (s *Server) handleCreateTask(c echo.Context) error {
	var req model.TaskCreate
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request")
	}

	fields := map[string]string{}
	if strings.TrimSpace(req.Title) == "" {
		fields["titulo"] = "obligatorio"
	}
	if req.ProjectID == "" {
		fields["proyecto"] = "obligatorio"
	}
	if req.Priority == "" {
		req.Priority = model.PriorityLow
	}
	switch req.Priority {
	case model.PriorityLow, model.PriorityMedium, model.PriorityHigh:
	default:
		fields["prioridad"] = "valor no valido"
	}
	if len(fields) > 0 {
		return validationJSON(c, fields)
	}

	p, err := s.loadProject(req.ProjectID)
	if err != nil {
		return errJSON(c, http.StatusNotFound, "proyecto no encontrado")
	}
	if !requestIsAdmin(c) && !s.isMember(p.ID, requestUserID(c)) {
		return errJSON(c, http.StatusForbidden, "no autorizado")
	}

	ownerName := req.OwnerName
	ownerID := s.resolveUserByName(ownerName)

	taskID := uuid.New().String()
	now := nowISO()
	_, err = s.db.Exec(s.q(`
		INSERT INTO tasks (id, project_id, titulo, descripcion, estado, prioridad,
			fecha_fin, asignado_nombre, asignado_id, creador_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`),
		taskID, p.ID, req.Title, req.Description, string(model.StatusPending),
		string(req.Priority), nullIfEmpty(model.DateOnly(req.DueDate)), ownerName,
		ownerID, requestUserID(c), now,
	)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}

	t, err := s.loadTask(taskID)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusCreated, t)
}

// resolveUserByName resolves an assignee display name to a user id.
// Assignment is name-based on the wire; identity resolution happens
// here. Unknown names stay unresolved rather than failing the write.
func (s *Server) resolveUserByName(name string) interface{} {
	if name == "" {
		return nil
	}
	var id string
	err := s.db.QueryRow(s.q("SELECT id FROM users WHERE nombre = $1"), name).Scan(&id)
	if err != nil {
		return nil
	}
	return id
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// patchColumns maps wire patch keys to task columns. estado, fechaFin
// and asignadoA need extra handling and are treated separately.
var patchColumns = map[string]string{
	"titulo":      "titulo",
	"descripcion": "descripcion",
	"prioridad":   "prioridad",
	"proyecto":    "project_id",
}

// handleUpdateTask applies a sparse patch keyed by backend field
// names. Fields absent from the patch are untouched: partial-update
// semantics, never full-replace.
func (s *Server) handleUpdateTask(c echo.Context) error {
	t, err := s.loadTask(c.Param("id"))
	if err != nil {
		return errJSON(c, http.StatusNotFound, "tarea no encontrada")
	}
	if _, err := s.loadProject(t.ProjectID); err != nil {
		return errJSON(c, http.StatusNotFound, "proyecto no encontrado")
	}
	if !requestIsAdmin(c) && !s.isMember(t.ProjectID, requestUserID(c)) {
		return errJSON(c, http.StatusForbidden, "no autorizado")
	}

	var patch map[string]interface{}
	if err := c.Bind(&patch); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request")
	}

	sets := []string{}
	args := []interface{}{}
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}

	for key, value := range patch {
		if column, ok := patchColumns[key]; ok {
			str, ok := value.(string)
			if !ok {
				return validationJSON(c, map[string]string{key: "valor no valido"})
			}
			if key == "titulo" && strings.TrimSpace(str) == "" {
				return validationJSON(c, map[string]string{"titulo": "obligatorio"})
			}
			if key == "prioridad" {
				switch model.Priority(str) {
				case model.PriorityLow, model.PriorityMedium, model.PriorityHigh:
				default:
					return validationJSON(c, map[string]string{"prioridad": "valor no valido"})
				}
			}
			add(column, str)
			continue
		}

		switch key {
		case "estado":
			str, _ := value.(string)
			status, ok := model.StatusFromLabel(str)
			if !ok {
				return validationJSON(c, map[string]string{"estado": "estado no valido"})
			}
			add("estado", string(status))
		case "fechaFin":
			if value == nil {
				add("fecha_fin", nil)
				break
			}
			str, ok := value.(string)
			if !ok {
				return validationJSON(c, map[string]string{"fechaFin": "valor no valido"})
			}
			add("fecha_fin", nullIfEmpty(model.DateOnly(str)))
		case "asignadoA":
			str, ok := value.(string)
			if !ok {
				return validationJSON(c, map[string]string{"asignadoA": "valor no valido"})
			}
			add("asignado_nombre", str)
			add("asignado_id", s.resolveUserByName(str))
		default:
			// Unknown keys are rejected rather than silently dropped.
			return validationJSON(c, map[string]string{key: "campo desconocido"})
		}
	}

	if len(sets) > 0 {
		add("updated_at", nowISO())
		args = append(args, t.ID)
		query := "UPDATE tasks SET " + strings.Join(sets, ", ") + " WHERE id = $" + strconv.Itoa(len(args))
		if _, err := s.db.Exec(s.q(query), args...); err != nil {
			return errJSON(c, http.StatusInternalServerError, "internal error")
		}
	}

	t, err = s.loadTask(t.ID)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, t)
}

// handleChangeStatus applies a bare status token.
func (s *Server) handleChangeStatus(c echo.Context) error {
	t, err := s.loadTask(c.Param("id"))
	if err != nil {
		return errJSON(c, http.StatusNotFound, "tarea no encontrada")
	}
	if !requestIsAdmin(c) && !s.isMember(t.ProjectID, requestUserID(c)) {
		return errJSON(c, http.StatusForbidden, "no autorizado")
	}

	var req struct {
		Status string `json:"estado"`
	}
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request")
	}
	status, ok := model.StatusFromLabel(req.Status)
	if !ok {
		return validationJSON(c, map[string]string{"estado": "estado no valido"})
	}

	_, err = s.db.Exec(s.q(`
		UPDATE tasks SET estado = $1, updated_at = $2 WHERE id = $3`),
		string(status), nowISO(), t.ID,
	)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleAssignTask assigns the task to the caller.
func (s *Server) handleAssignTask(c echo.Context) error {
	t, err := s.loadTask(c.Param("id"))
	if err != nil {
		return errJSON(c, http.StatusNotFound, "tarea no encontrada")
	}
	if !requestIsAdmin(c) && !s.isMember(t.ProjectID, requestUserID(c)) {
		return errJSON(c, http.StatusForbidden, "no autorizado")
	}

	userID := requestUserID(c)
	var name string
	if err := s.db.QueryRow(s.q("SELECT nombre FROM users WHERE id = $1"), userID).Scan(&name); err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}

	_, err = s.db.Exec(s.q(`
		UPDATE tasks SET asignado_nombre = $1, asignado_id = $2, updated_at = $3 WHERE id = $4`),
		name, userID, nowISO(), t.ID,
	)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}

	t, _ = s.loadTask(t.ID)
	return c.JSON(http.StatusOK, t)
}

// handleDeleteTask deletes a task and cascades its comments and label
// associations. Allowed for administrators, the project manager, and
// the task's creator.
func (s *Server) handleDeleteTask(c echo.Context) error {
	t, err := s.loadTask(c.Param("id"))
	if err != nil {
		return errJSON(c, http.StatusNotFound, "tarea no encontrada")
	}
	p, err := s.loadProject(t.ProjectID)
	if err != nil {
		return errJSON(c, http.StatusNotFound, "proyecto no encontrado")
	}
	if !governance.CanDeleteTask(currentActor(c), p, t) {
		return errJSON(c, http.StatusForbidden, "no autorizado")
	}

	statements := []string{
		`DELETE FROM comments WHERE task_id = $1`,
		`DELETE FROM task_labels WHERE task_id = $1`,
		`DELETE FROM tasks WHERE id = $1`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(s.q(stmt), t.ID); err != nil {
			return errJSON(c, http.StatusInternalServerError, "internal error")
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
