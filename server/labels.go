package server

import (
	"net/http"
	"strings"

	"github.com/existflow/tablero/internal/model"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// handleTaskLabels returns the persisted label set for a task.
func (s *Server) handleTaskLabels(c echo.Context) error {
	t, err := s.loadTask(c.Param("id"))
	if err != nil {
		return errJSON(c, http.StatusNotFound, "tarea no encontrada")
	}
	if !requestIsAdmin(c) && !s.isMember(t.ProjectID, requestUserID(c)) {
		return errJSON(c, http.StatusForbidden, "no autorizado")
	}

	rows, err := s.db.Query(s.q(`
		SELECT l.id, l.nombre, l.color
		FROM task_labels tl JOIN labels l ON l.id = tl.label_id
		WHERE tl.task_id = $1
		ORDER BY tl.posicion`),
		t.ID,
	)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	defer rows.Close()

	labels := []model.Label{}
	for rows.Next() {
		var l model.Label
		if err := rows.Scan(&l.ID, &l.Name, &l.Color); err != nil {
			return errJSON(c, http.StatusInternalServerError, "internal error")
		}
		labels = append(labels, l)
	}
	return c.JSON(http.StatusOK, labels)
}

// handleEnsureLabels resolves label names to ids, creating labels that
// have no case-insensitive match. Names are deduplicated the same way;
// display casing of the first occurrence wins.
func (s *Server) handleEnsureLabels(c echo.Context) error {
	var req struct {
		Names []string `json:"nombres"`
	}
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request")
	}

	ids := []string{}
	seen := map[string]bool{}
	for _, name := range req.Names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		norm := model.NormalizeLabel(name)
		if seen[norm] {
			continue
		}
		seen[norm] = true

		var id string
		err := s.db.QueryRow(s.q("SELECT id FROM labels WHERE nombre_norm = $1"), norm).Scan(&id)
		if err != nil {
			id = uuid.New().String()
			if _, err := s.db.Exec(s.q(`
				INSERT INTO labels (id, nombre, nombre_norm) VALUES ($1, $2, $3)`),
				id, name, norm,
			); err != nil {
				return errJSON(c, http.StatusInternalServerError, "internal error")
			}
		}
		ids = append(ids, id)
	}

	return c.JSON(http.StatusOK, map[string][]string{"ids": ids})
}

// handleReplaceTaskLabels replaces a task's whole label association
// with the given id list. The empty list clears every label.
func (s *Server) handleReplaceTaskLabels(c echo.Context) error {
	t, err := s.loadTask(c.Param("id"))
	if err != nil {
		return errJSON(c, http.StatusNotFound, "tarea no encontrada")
	}
	if !requestIsAdmin(c) && !s.isMember(t.ProjectID, requestUserID(c)) {
		return errJSON(c, http.StatusForbidden, "no autorizado")
	}

	var req struct {
		LabelIDs []string `json:"etiquetas"`
	}
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request")
	}

	for _, id := range req.LabelIDs {
		var n int
		if err := s.db.QueryRow(s.q("SELECT COUNT(*) FROM labels WHERE id = $1"), id).Scan(&n); err != nil || n == 0 {
			return validationJSON(c, map[string]string{"etiquetas": "etiqueta desconocida: " + id})
		}
	}

	if _, err := s.db.Exec(s.q("DELETE FROM task_labels WHERE task_id = $1"), t.ID); err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	for i, id := range req.LabelIDs {
		if _, err := s.db.Exec(s.q(`
			INSERT INTO task_labels (task_id, label_id, posicion) VALUES ($1, $2, $3)`),
			t.ID, id, i,
		); err != nil {
			return errJSON(c, http.StatusInternalServerError, "internal error")
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
