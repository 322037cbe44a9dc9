package server

import (
	"net/http"
	"time"

	"github.com/existflow/tablero/internal/governance"
	"github.com/existflow/tablero/internal/model"
	"github.com/labstack/echo/v4"
)

// loadMembers returns a project's members in join order, with derived
// roles and creator/manager flags.
func (s *Server) loadMembers(p model.Project) ([]model.Member, error) {
	rows, err := s.db.Query(s.q(`
		SELECT u.id, u.nombre, u.email, u.es_admin, m.joined_at
		FROM project_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.project_id = $1
		ORDER BY m.joined_at, u.id`),
		p.ID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []model.Member{}
	for rows.Next() {
		var m model.Member
		var adminFlag int
		var joinedAt string
		if err := rows.Scan(&m.UserID, &m.Name, &m.Email, &adminFlag, &joinedAt); err != nil {
			return nil, err
		}
		m.IsAdmin = adminFlag == 1
		m.IsCreator = governance.SameID(m.UserID, p.CreatorID)
		m.IsManager = governance.SameID(m.UserID, p.ManagerID)
		m.Role = governance.EffectiveRole(governance.Actor{UserID: m.UserID, IsAdmin: m.IsAdmin}, p)
		m.JoinedAt, _ = time.Parse(time.RFC3339, joinedAt)
		members = append(members, m)
	}
	return members, rows.Err()
}

// handleListMembers returns the role-annotated member list.
func (s *Server) handleListMembers(c echo.Context) error {
	p, err := s.loadProject(c.Param("id"))
	if err != nil {
		return errJSON(c, http.StatusNotFound, "proyecto no encontrado")
	}
	if !requestIsAdmin(c) && !s.isMember(p.ID, requestUserID(c)) {
		return errJSON(c, http.StatusForbidden, "no autorizado")
	}

	members, err := s.loadMembers(p)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, members)
}

// handleAddMember adds a user to the project.
func (s *Server) handleAddMember(c echo.Context) error {
	p, err := s.loadProject(c.Param("id"))
	if err != nil {
		return errJSON(c, http.StatusNotFound, "proyecto no encontrado")
	}
	if !governance.CanManageMembers(currentActor(c), p) {
		return errJSON(c, http.StatusForbidden, "no autorizado")
	}

	var req struct {
		UserID string `json:"userId"`
	}
	if err := c.Bind(&req); err != nil || req.UserID == "" {
		return errJSON(c, http.StatusBadRequest, "invalid request")
	}

	var n int
	if err := s.db.QueryRow(s.q("SELECT COUNT(*) FROM users WHERE id = $1"), req.UserID).Scan(&n); err != nil || n == 0 {
		return errJSON(c, http.StatusNotFound, "usuario no encontrado")
	}
	if s.isMember(p.ID, req.UserID) {
		return errJSON(c, http.StatusConflict, "ya es miembro")
	}

	_, err = s.db.Exec(s.q(`
		INSERT INTO project_members (project_id, user_id, joined_at) VALUES ($1, $2, $3)`),
		p.ID, req.UserID, nowISO(),
	)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusCreated, map[string]string{"status": "ok"})
}

// handleRemoveMember removes a member. Removing the current manager
// reassigns the seat through the fallback chain: creator first, then
// the earliest-joined remaining member. The last member of a project
// cannot be removed.
func (s *Server) handleRemoveMember(c echo.Context) error {
	p, err := s.loadProject(c.Param("id"))
	if err != nil {
		return errJSON(c, http.StatusNotFound, "proyecto no encontrado")
	}

	targetID := c.Param("uid")
	members, err := s.loadMembers(p)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}

	var target *model.Member
	for i := range members {
		if governance.SameID(members[i].UserID, targetID) {
			target = &members[i]
			break
		}
	}
	if target == nil {
		return errJSON(c, http.StatusNotFound, "miembro no encontrado")
	}

	actor := currentActor(c)
	// Voluntary exit bypasses the manage-members gate; anything else
	// goes through it, including the administrator-protection rule.
	if !governance.SameID(actor.UserID, targetID) && !governance.CanRemoveMember(actor, p, *target) {
		return errJSON(c, http.StatusForbidden, "no autorizado")
	}

	if len(members) == 1 {
		return errJSON(c, http.StatusConflict, "no se puede eliminar el ultimo miembro")
	}

	if governance.SameID(targetID, p.ManagerID) {
		replacement := governance.PlanRoleChange(p, members, targetID, model.RoleEmployee).NewManagerID
		if replacement == "" {
			return errJSON(c, http.StatusConflict, "no hay candidato a gestor")
		}
		if _, err := s.db.Exec(s.q(`
			UPDATE projects SET gestor_id = $1, updated_at = $2 WHERE id = $3`),
			replacement, nowISO(), p.ID,
		); err != nil {
			return errJSON(c, http.StatusInternalServerError, "internal error")
		}
	}

	_, err = s.db.Exec(s.q(`
		DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`),
		p.ID, targetID,
	)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleChangeMemberRole promotes a member to manager or demotes the
// manager to employee. Administrator is a derived role and cannot be
// assigned here. Demoting the manager requires a viable replacement:
// the caller may nominate one via nuevoGestor, otherwise the server
// applies its own fallback chain.
func (s *Server) handleChangeMemberRole(c echo.Context) error {
	p, err := s.loadProject(c.Param("id"))
	if err != nil {
		return errJSON(c, http.StatusNotFound, "proyecto no encontrado")
	}
	if !governance.CanManageMembers(currentActor(c), p) {
		return errJSON(c, http.StatusForbidden, "no autorizado")
	}

	targetID := c.Param("uid")
	if !s.isMember(p.ID, targetID) {
		return errJSON(c, http.StatusNotFound, "miembro no encontrado")
	}

	var req struct {
		Role       string `json:"rol"`
		NewManager string `json:"nuevoGestor"`
	}
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request")
	}

	switch model.Role(req.Role) {
	case model.RoleManager:
		// Single-manager invariant: promotion moves the seat.
		_, err = s.db.Exec(s.q(`
			UPDATE projects SET gestor_id = $1, updated_at = $2 WHERE id = $3`),
			targetID, nowISO(), p.ID,
		)
		if err != nil {
			return errJSON(c, http.StatusInternalServerError, "internal error")
		}

	case model.RoleEmployee:
		if !governance.SameID(targetID, p.ManagerID) {
			// Already an employee; nothing to move.
			return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
		}

		members, err := s.loadMembers(p)
		if err != nil {
			return errJSON(c, http.StatusInternalServerError, "internal error")
		}

		replacement := req.NewManager
		if replacement != "" {
			if governance.SameID(replacement, targetID) || !s.isMember(p.ID, replacement) {
				return validationJSON(c, map[string]string{"nuevoGestor": "candidato invalido"})
			}
		} else {
			replacement = governance.PlanRoleChange(p, members, targetID, model.RoleEmployee).NewManagerID
		}
		if replacement == "" {
			return errJSON(c, http.StatusConflict, "no hay candidato a gestor")
		}

		_, err = s.db.Exec(s.q(`
			UPDATE projects SET gestor_id = $1, updated_at = $2 WHERE id = $3`),
			replacement, nowISO(), p.ID,
		)
		if err != nil {
			return errJSON(c, http.StatusInternalServerError, "internal error")
		}

	default:
		return validationJSON(c, map[string]string{"rol": "rol no asignable"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
