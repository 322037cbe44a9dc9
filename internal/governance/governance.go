// Package governance computes project-scoped permissions. Everything
// here is a pure function of the viewer and the membership records
// passed in: roles are recomputed on every check, never cached, so a
// role change takes effect on the next call.
package governance

import (
	"fmt"
	"math"
	"strconv"

	"github.com/existflow/tablero/internal/model"
)

// Actor is the user performing an action: their identifier plus the
// global administrator flag. Project-scoped standing derives from the
// project record at check time.
type Actor struct {
	UserID  string
	IsAdmin bool
}

// ID coerces an identifier to its normalized string form. The backend
// emits numeric ids in some payloads and strings in others; comparing
// them without coercion is a classic false-negative permission bug.
func ID(v interface{}) string {
	switch id := v.(type) {
	case string:
		return id
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	case float64:
		if id == math.Trunc(id) {
			return strconv.FormatInt(int64(id), 10)
		}
		return strconv.FormatFloat(id, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", id)
	}
}

// SameID compares two identifiers after normalization.
func SameID(a, b interface{}) bool {
	return ID(a) != "" && ID(a) == ID(b)
}

// IsManager reports whether the viewer holds the project's manager
// (gestor) seat.
func IsManager(viewer Actor, p model.Project) bool {
	return SameID(viewer.UserID, p.ManagerID)
}

// IsCreator reports whether the viewer created the project.
func IsCreator(viewer Actor, p model.Project) bool {
	return SameID(viewer.UserID, p.CreatorID)
}

// EffectiveRole derives the viewer's role for a project. The role is
// never stored: administrator comes from the global flag, manager from
// the project's gestor seat, everyone else is an employee. Creator is
// a fallback marker, not a role.
func EffectiveRole(viewer Actor, p model.Project) model.Role {
	if viewer.IsAdmin {
		return model.RoleAdministrator
	}
	if IsManager(viewer, p) {
		return model.RoleManager
	}
	return model.RoleEmployee
}

// CanManageMembers reports whether the viewer may add members or
// change roles: administrator, manager, or creator.
func CanManageMembers(viewer Actor, p model.Project) bool {
	return viewer.IsAdmin || IsManager(viewer, p) || IsCreator(viewer, p)
}

// CanEditProject reports whether the viewer may edit project fields.
func CanEditProject(viewer Actor, p model.Project) bool {
	return CanManageMembers(viewer, p)
}

// CanDeleteProject reports whether the viewer may delete the project.
// Ownership and governance may diverge, so creator, manager and
// administrator each qualify on their own.
func CanDeleteProject(viewer Actor, p model.Project) bool {
	return viewer.IsAdmin || IsCreator(viewer, p) || IsManager(viewer, p)
}

// CanRemoveMember reports whether the viewer may remove target from
// the project. Global administrators are protected from removal by a
// mere project manager; only another administrator may remove them.
func CanRemoveMember(viewer Actor, p model.Project, target model.Member) bool {
	if !CanManageMembers(viewer, p) {
		return false
	}
	if target.IsAdmin || target.Role == model.RoleAdministrator {
		return viewer.IsAdmin
	}
	return true
}

// CanDeleteTask reports whether the viewer may delete a task:
// administrators always, the project manager within their project,
// and a task's creator for their own task.
func CanDeleteTask(viewer Actor, p model.Project, t model.Task) bool {
	if viewer.IsAdmin {
		return true
	}
	if IsManager(viewer, p) {
		return true
	}
	return SameID(viewer.UserID, t.CreatorID)
}

// RoleChange is a planned role mutation. NewManagerID is the fallback
// manager nominated when the change demotes the current manager; empty
// means no viable candidate exists and the backend applies its own
// fallback.
type RoleChange struct {
	TargetUserID string
	NewRole      model.Role
	NewManagerID string
}

// PlanRoleChange prepares a role change for target. When the change
// demotes the current manager, a replacement is nominated: the
// project's creator if still a member and not the one being demoted,
// otherwise the earliest-joined other member (members arrive in join
// order from the backend), otherwise nobody. The demoted user is never
// their own replacement.
func PlanRoleChange(p model.Project, members []model.Member, targetUserID string, newRole model.Role) RoleChange {
	change := RoleChange{TargetUserID: targetUserID, NewRole: newRole}

	demotesManager := SameID(targetUserID, p.ManagerID) && newRole == model.RoleEmployee
	if !demotesManager {
		return change
	}

	if !SameID(p.CreatorID, targetUserID) {
		for _, m := range members {
			if SameID(m.UserID, p.CreatorID) {
				change.NewManagerID = m.UserID
				return change
			}
		}
	}

	for _, m := range members {
		if !SameID(m.UserID, targetUserID) {
			change.NewManagerID = m.UserID
			return change
		}
	}

	return change
}
