package server

import (
	"net/http"
	"time"

	"github.com/existflow/tablero/internal/model"
	"github.com/labstack/echo/v4"
)

// handleListAttachments returns a task's attachment metadata. File
// content is stored and served outside this service; only the listing
// crosses the API.
func (s *Server) handleListAttachments(c echo.Context) error {
	t, err := s.loadTask(c.Param("id"))
	if err != nil {
		return errJSON(c, http.StatusNotFound, "tarea no encontrada")
	}
	if !requestIsAdmin(c) && !s.isMember(t.ProjectID, requestUserID(c)) {
		return errJSON(c, http.StatusForbidden, "no autorizado")
	}

	rows, err := s.db.Query(s.q(`
		SELECT id, task_id, archivo, tamano, created_at
		FROM attachments WHERE task_id = $1
		ORDER BY created_at, id`),
		t.ID,
	)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	defer rows.Close()

	attachments := []model.Attachment{}
	for rows.Next() {
		var a model.Attachment
		var createdAt string
		if err := rows.Scan(&a.ID, &a.TaskID, &a.FileName, &a.Size, &createdAt); err != nil {
			return errJSON(c, http.StatusInternalServerError, "internal error")
		}
		a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		attachments = append(attachments, a)
	}
	return c.JSON(http.StatusOK, attachments)
}
