package entity

import (
	"regexp"
	"time"
)

// DefaultSchema es el schema compartido: aloja el directorio de tenants y
// sirve como tenant por defecto cuando el token no trae schema.
const DefaultSchema = "public"

// Tenant representa un negocio aislado en su propio schema de PostgreSQL.
// Nunca se borra físicamente: Active=false es el borrado lógico.
type Tenant struct {
	ID         string
	Nombre     string
	Subdominio string // único
	Token      string // opaco, forma parte del nombre del schema
	SchemaName string // único, <nombre>_<token>
	Active     bool
	IsTrial    bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

var schemaNameRe = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

// ValidSchemaName indica si s es un identificador de schema aceptable (minúsculas, dígitos, _; máx. 63).
func ValidSchemaName(s string) bool {
	return schemaNameRe.MatchString(s)
}
