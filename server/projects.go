package server

import (
	"net/http"
	"time"

	"github.com/existflow/tablero/internal/governance"
	"github.com/existflow/tablero/internal/model"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func currentActor(c echo.Context) governance.Actor {
	return governance.Actor{UserID: requestUserID(c), IsAdmin: requestIsAdmin(c)}
}

// loadProject fetches a project row.
func (s *Server) loadProject(projectID string) (model.Project, error) {
	var p model.Project
	var createdAt, updatedAt string
	err := s.db.QueryRow(s.q(`
		SELECT id, nombre, descripcion, creador_id, gestor_id, created_at, updated_at
		FROM projects WHERE id = $1`),
		projectID,
	).Scan(&p.ID, &p.Name, &p.Description, &p.CreatorID, &p.ManagerID, &createdAt, &updatedAt)
	if err != nil {
		return p, err
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return p, nil
}

// isMember reports whether the user belongs to the project.
func (s *Server) isMember(projectID, userID string) bool {
	var n int
	err := s.db.QueryRow(s.q(`
		SELECT COUNT(*) FROM project_members WHERE project_id = $1 AND user_id = $2`),
		projectID, userID,
	).Scan(&n)
	return err == nil && n > 0
}

// handleListProjects lists projects the caller belongs to;
// administrators see all projects.
func (s *Server) handleListProjects(c echo.Context) error {
	query := `
		SELECT p.id, p.nombre, p.descripcion, p.creador_id, p.gestor_id, p.created_at, p.updated_at
		FROM projects p
		JOIN project_members m ON m.project_id = p.id AND m.user_id = $1
		ORDER BY p.created_at, p.id`
	args := []interface{}{requestUserID(c)}
	if requestIsAdmin(c) {
		query = `
			SELECT id, nombre, descripcion, creador_id, gestor_id, created_at, updated_at
			FROM projects ORDER BY created_at, id`
		args = nil
	}

	rows, err := s.db.Query(s.q(query), args...)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		var p model.Project
		var createdAt, updatedAt string
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatorID, &p.ManagerID, &createdAt, &updatedAt); err != nil {
			continue
		}
		p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		projects = append(projects, p)
	}
	return c.JSON(http.StatusOK, projects)
}

// handleCreateProject creates a project. The creator becomes both
// first member and manager.
func (s *Server) handleCreateProject(c echo.Context) error {
	var req struct {
		Name        string `json:"nombre"`
		Description string `json:"descripcion"`
	}
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request")
	}
	if req.Name == "" {
		return validationJSON(c, map[string]string{"nombre": "obligatorio"})
	}

	userID := requestUserID(c)
	projectID := uuid.New().String()
	now := nowISO()

	_, err := s.db.Exec(s.q(`
		INSERT INTO projects (id, nombre, descripcion, creador_id, gestor_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4, $5, $5)`),
		projectID, req.Name, req.Description, userID, now,
	)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}

	_, err = s.db.Exec(s.q(`
		INSERT INTO project_members (project_id, user_id, joined_at) VALUES ($1, $2, $3)`),
		projectID, userID, now,
	)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}

	p, err := s.loadProject(projectID)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusCreated, p)
}

// handleGetProject returns one project.
func (s *Server) handleGetProject(c echo.Context) error {
	p, err := s.loadProject(c.Param("id"))
	if err != nil {
		return errJSON(c, http.StatusNotFound, "proyecto no encontrado")
	}
	if !requestIsAdmin(c) && !s.isMember(p.ID, requestUserID(c)) {
		return errJSON(c, http.StatusForbidden, "no autorizado")
	}
	return c.JSON(http.StatusOK, p)
}

// handleUpdateProject edits project fields.
func (s *Server) handleUpdateProject(c echo.Context) error {
	p, err := s.loadProject(c.Param("id"))
	if err != nil {
		return errJSON(c, http.StatusNotFound, "proyecto no encontrado")
	}
	if !governance.CanEditProject(currentActor(c), p) {
		return errJSON(c, http.StatusForbidden, "no autorizado")
	}

	var req struct {
		Name        *string `json:"nombre"`
		Description *string `json:"descripcion"`
	}
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request")
	}

	if req.Name != nil {
		if *req.Name == "" {
			return validationJSON(c, map[string]string{"nombre": "obligatorio"})
		}
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}

	_, err = s.db.Exec(s.q(`
		UPDATE projects SET nombre = $1, descripcion = $2, updated_at = $3 WHERE id = $4`),
		p.Name, p.Description, nowISO(), p.ID,
	)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}

	p, _ = s.loadProject(p.ID)
	return c.JSON(http.StatusOK, p)
}

// handleDeleteProject removes a project and everything under it.
func (s *Server) handleDeleteProject(c echo.Context) error {
	p, err := s.loadProject(c.Param("id"))
	if err != nil {
		return errJSON(c, http.StatusNotFound, "proyecto no encontrado")
	}
	if !governance.CanDeleteProject(currentActor(c), p) {
		return errJSON(c, http.StatusForbidden, "no autorizado")
	}

	statements := []string{
		`DELETE FROM comments WHERE task_id IN (SELECT id FROM tasks WHERE project_id = $1)`,
		`DELETE FROM task_labels WHERE task_id IN (SELECT id FROM tasks WHERE project_id = $1)`,
		`DELETE FROM tasks WHERE project_id = $1`,
		`DELETE FROM project_members WHERE project_id = $1`,
		`DELETE FROM projects WHERE id = $1`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(s.q(stmt), p.ID); err != nil {
			return errJSON(c, http.StatusInternalServerError, "internal error")
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
