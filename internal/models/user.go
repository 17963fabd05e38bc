package models

import "time"

// Permission names understood by the RBAC layer. Roles are data, permissions
// are the fixed vocabulary handlers check against.
const (
	PermManageStudents      = "manage_students"
	PermManageJournals      = "manage_journals"
	PermManageAssets        = "manage_assets"
	PermManageRules         = "manage_rules"
	PermManageAnnouncements = "manage_announcements"
	PermManageCalendar      = "manage_calendar"
	PermManageDepartments   = "manage_departments"
	PermApproveDepartments  = "approve_departments"
	PermManageSettings      = "manage_settings"
	PermManageRoles         = "manage_roles"
	PermManageUsers         = "manage_users"
	PermManageTickets       = "manage_tickets"
)

// AllPermissions lists every permission the portal understands.
var AllPermissions = []string{
	PermManageStudents,
	PermManageJournals,
	PermManageAssets,
	PermManageRules,
	PermManageAnnouncements,
	PermManageCalendar,
	PermManageDepartments,
	PermApproveDepartments,
	PermManageSettings,
	PermManageRoles,
	PermManageUsers,
	PermManageTickets,
}

// RoleAdministrator is the built-in role granted to configured admins.
const RoleAdministrator = "Administrador"

// UserInput carries the fields accepted when creating a portal account.
type UserInput struct {
	Name     string `json:"name" validate:"required"`
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required"`
}

// RoleInput carries the fields accepted when creating a role.
type RoleInput struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

// User is a portal account stored in the users document.
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Username      string    `json:"username"`
	Role          string    `json:"role"`
	PasswordHash  string    `json:"password_hash"`
	PortalEnabled bool      `json:"portal_enabled"`
	CreatedAt     time.Time `json:"created_at"`
}

// Role maps a named position to its permission set.
type Role struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

// HasPermission reports whether the role grants the given permission.
func (r Role) HasPermission(perm string) bool {
	for _, p := range r.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// DefaultRoles seeds the roles document on first boot.
func DefaultRoles() []Role {
	return []Role{
		{
			Name:        RoleAdministrator,
			Description: "Acesso total ao painel e configurações",
			Permissions: append([]string(nil), AllPermissions...),
		},
		{
			Name:        "Gerente",
			Description: "Cuida de pessoas, calendários e arquivos",
			Permissions: []string{
				PermManageStudents,
				PermManageAssets,
				PermManageCalendar,
				PermManageAnnouncements,
				PermManageDepartments,
				PermManageTickets,
			},
		},
		{
			Name:        "Diretor de Departamento",
			Description: "Aprova filas e acompanha entregas do time",
			Permissions: []string{
				PermManageAssets,
				PermManageCalendar,
				PermApproveDepartments,
				PermManageTickets,
			},
		},
		{
			Name:        "Colaborador",
			Description: "Acesso apenas para consultar materiais",
			Permissions: []string{},
		},
	}
}
