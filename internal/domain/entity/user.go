package entity

import "time"

// Role rol de un usuario dentro de su tenant.
type Role string

// Roles válidos para User, de menor a mayor privilegio.
const (
	RoleEmployee   Role = "employee"
	RoleDriver     Role = "driver"
	RoleSales      Role = "sales"
	RoleSupervisor Role = "supervisor"
	RoleManager    Role = "manager"
	RoleAdmin      Role = "admin"
)

// IsValid indica si el rol es uno de los conocidos.
func (r Role) IsValid() bool {
	switch r {
	case RoleEmployee, RoleDriver, RoleSales, RoleSupervisor, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// User representa un usuario del sistema (vive en el schema de su tenant).
type User struct {
	ID           string
	Email        string
	Username     string
	FullName     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
