package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/existflow/tablero/internal/model"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// handleListComments returns a task's comments, oldest first.
func (s *Server) handleListComments(c echo.Context) error {
	t, err := s.loadTask(c.Param("id"))
	if err != nil {
		return errJSON(c, http.StatusNotFound, "tarea no encontrada")
	}
	if !requestIsAdmin(c) && !s.isMember(t.ProjectID, requestUserID(c)) {
		return errJSON(c, http.StatusForbidden, "no autorizado")
	}

	rows, err := s.db.Query(s.q(`
		SELECT c.id, c.task_id, c.autor_id, u.nombre, c.texto, c.created_at
		FROM comments c JOIN users u ON u.id = c.autor_id
		WHERE c.task_id = $1
		ORDER BY c.created_at, c.id`),
		t.ID,
	)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var cm model.Comment
		var createdAt string
		if err := rows.Scan(&cm.ID, &cm.TaskID, &cm.AuthorID, &cm.Author, &cm.Body, &createdAt); err != nil {
			return errJSON(c, http.StatusInternalServerError, "internal error")
		}
		cm.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		comments = append(comments, cm)
	}
	return c.JSON(http.StatusOK, comments)
}

// handleAddComment posts a comment on a task.
func (s *Server) handleAddComment(c echo.Context) error {
	t, err := s.loadTask(c.Param("id"))
	if err != nil {
		return errJSON(c, http.StatusNotFound, "tarea no encontrada")
	}
	if !requestIsAdmin(c) && !s.isMember(t.ProjectID, requestUserID(c)) {
		return errJSON(c, http.StatusForbidden, "no autorizado")
	}

	var req struct {
		Body string `json:"texto"`
	}
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request")
	}
	if strings.TrimSpace(req.Body) == "" {
		return validationJSON(c, map[string]string{"texto": "obligatorio"})
	}

	id := uuid.New().String()
	now := nowISO()
	if _, err := s.db.Exec(s.q(`
		INSERT INTO comments (id, task_id, autor_id, texto, created_at)
		VALUES ($1, $2, $3, $4, $5)`),
		id, t.ID, requestUserID(c), req.Body, now,
	); err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}

	var author string
	_ = s.db.QueryRow(s.q("SELECT nombre FROM users WHERE id = $1"), requestUserID(c)).Scan(&author)

	created, _ := time.Parse(time.RFC3339, now)
	return c.JSON(http.StatusCreated, model.Comment{
		ID:        id,
		TaskID:    t.ID,
		AuthorID:  requestUserID(c),
		Author:    author,
		Body:      req.Body,
		CreatedAt: created,
	})
}
