package repository

import (
	"context"

	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"
)

// TenantRepository directorio de tenants. Siempre opera sobre el schema por defecto,
// sin importar el schema del request que lo invoque.
type TenantRepository interface {
	Create(ctx context.Context, t *entity.Tenant) error
	GetByID(ctx context.Context, id string) (*entity.Tenant, error)
	// GetBySubdomain devuelve el tenant aunque esté inactivo; nil si no existe.
	GetBySubdomain(ctx context.Context, subdomain string) (*entity.Tenant, error)
	List(ctx context.Context, includeInactive bool) ([]*entity.Tenant, error)
	SetActive(ctx context.Context, id string, active bool) error
	// Delete borrado físico; solo para deshacer un aprovisionamiento fallido.
	Delete(ctx context.Context, id string) error
}
