package dto

import "time"

// CreateTenantRequest alta de un tenant con su usuario administrador inicial.
type CreateTenantRequest struct {
	Nombre        string `json:"nombre" validate:"required,min=1,max=200"`
	Subdominio    string `json:"subdominio" validate:"required"`
	IsTrial       bool   `json:"is_trial"`
	AdminEmail    string `json:"admin_email" validate:"required,email"`
	AdminPassword string `json:"admin_password" validate:"required,min=8"`
	AdminName     string `json:"admin_name"`
}

// TenantResponse salida de un tenant.
type TenantResponse struct {
	ID         string    `json:"id"`
	Nombre     string    `json:"nombre"`
	Subdominio string    `json:"subdominio"`
	SchemaName string    `json:"schema_name"`
	Active     bool      `json:"active"`
	IsTrial    bool      `json:"is_trial"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
