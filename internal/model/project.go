package model

import "time"

// Role is the effective project-scoped role of a member. It is never
// stored directly: it derives from the member's global admin flag and
// whether the member is the project's current manager.
type Role string

const (
	RoleAdministrator Role = "administrador"
	RoleManager       Role = "gestor"
	RoleEmployee      Role = "empleado"
)

// Project represents a board with its governance anchors. Exactly one
// member is the manager (gestor) at any time; the creator is the
// default fallback when the manager seat empties.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"nombre"`
	Description string    `json:"descripcion"`
	CreatorID   string    `json:"creadorId"`
	ManagerID   string    `json:"gestorId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Member is a role-annotated project membership row.
type Member struct {
	UserID    string    `json:"userId"`
	Name      string    `json:"nombre"`
	Email     string    `json:"email,omitempty"`
	Role      Role      `json:"rol"`
	IsAdmin   bool      `json:"esAdmin"`
	IsCreator bool      `json:"esCreador"`
	IsManager bool      `json:"esGestor"`
	JoinedAt  time.Time `json:"joinedAt"`
}
