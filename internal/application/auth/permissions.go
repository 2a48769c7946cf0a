// Package auth autenticación y matriz de permisos por rol.
package auth

import "github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"

// Permission acción protegida por rol.
type Permission string

const (
	PermManageOrders      Permission = "orders:manage"
	PermUpdateOrderStatus Permission = "orders:status"
	PermManagePayments    Permission = "payments:manage"
	PermManageInventory   Permission = "inventory:manage"
	PermManageProducts    Permission = "products:manage"
	PermManageClients     Permission = "clients:manage"
	PermManageUsers       Permission = "users:manage"
)

var matrix = map[Permission][]entity.Role{
	PermManageOrders:      {entity.RoleSales, entity.RoleSupervisor, entity.RoleManager, entity.RoleAdmin},
	PermUpdateOrderStatus: {entity.RoleDriver, entity.RoleSales, entity.RoleSupervisor, entity.RoleManager, entity.RoleAdmin},
	PermManagePayments:    {entity.RoleSales, entity.RoleSupervisor, entity.RoleManager, entity.RoleAdmin},
	PermManageInventory:   {entity.RoleSupervisor, entity.RoleManager, entity.RoleAdmin},
	PermManageProducts:    {entity.RoleManager, entity.RoleAdmin},
	PermManageClients:     {entity.RoleSales, entity.RoleSupervisor, entity.RoleManager, entity.RoleAdmin},
	PermManageUsers:       {entity.RoleAdmin},
}

// Allows indica si el rol tiene el permiso. Roles desconocidos no tienen ninguno.
func Allows(role entity.Role, p Permission) bool {
	for _, r := range matrix[p] {
		if r == role {
			return true
		}
	}
	return false
}

// RolesFor roles que tienen el permiso.
func RolesFor(p Permission) []entity.Role {
	out := make([]entity.Role, len(matrix[p]))
	copy(out, matrix[p])
	return out
}
