// Package tenancy resuelve subdominios a schemas físicos y administra el directorio de tenants.
package tenancy

import (
	"context"
	"fmt"
	"strings"

	"github.com/CarlosEstrada30/smart-orders-api/internal/application/ports"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/repository"
	"github.com/CarlosEstrada30/smart-orders-api/pkg/logger"
)

// Resolution resultado de resolver un subdominio. TenantID vacío = schema por defecto.
type Resolution struct {
	TenantID   string `json:"tenant_id"`
	Schema     string `json:"schema"`
	Name       string `json:"name"`
	Subdominio string `json:"subdominio"`
}

// IsDefault indica si la resolución apunta al schema compartido.
func (r Resolution) IsDefault() bool { return r.Schema == entity.DefaultSchema }

// Cache guarda resoluciones de tenants activos. Un fallo de la caché nunca
// impide resolver: se consulta el directorio.
type Cache interface {
	Get(ctx context.Context, subdomain string) (*Resolution, error)
	Set(ctx context.Context, subdomain string, r Resolution) error
	Delete(ctx context.Context, subdomain string) error
}

// Resolver mapea subdominios a schemas consultando siempre el directorio del schema por defecto.
type Resolver struct {
	tenants repository.TenantRepository
	cache   Cache
	metrics ports.Metrics
	log     *logger.Logger
}

// NewResolver construye el resolver. cache puede ser nil.
func NewResolver(tenants repository.TenantRepository, cache Cache, metrics ports.Metrics, log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.Nop()
	}
	return &Resolver{tenants: tenants, cache: cache, metrics: ports.OrNop(metrics), log: log.Named("tenancy")}
}

// NormalizeSubdomain recorta espacios y pasa a minúsculas.
func NormalizeSubdomain(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Resolve devuelve el schema del tenant activo con ese subdominio.
// Subdominio vacío resuelve al schema por defecto. Inexistente o inactivo: ErrNotFound.
func (r *Resolver) Resolve(ctx context.Context, subdomain string) (Resolution, error) {
	sub := NormalizeSubdomain(subdomain)
	if sub == "" {
		r.metrics.TenantLookup("default")
		return Resolution{Schema: entity.DefaultSchema}, nil
	}

	if r.cache != nil {
		hit, err := r.cache.Get(ctx, sub)
		switch {
		case err != nil:
			r.log.Warn().Err(err).Str("subdomain", sub).Msg("caché de tenants no disponible")
		case hit != nil:
			r.metrics.TenantLookup("cache")
			return *hit, nil
		}
	}

	t, err := r.tenants.GetBySubdomain(ctx, sub)
	if err != nil {
		return Resolution{}, err
	}
	r.metrics.TenantLookup("directory")
	if t == nil || !t.Active {
		return Resolution{}, fmt.Errorf("%w: tenant %q", domain.ErrNotFound, sub)
	}

	res := Resolution{TenantID: t.ID, Schema: t.SchemaName, Name: t.Nombre, Subdominio: t.Subdominio}
	if r.cache != nil {
		if err := r.cache.Set(ctx, sub, res); err != nil {
			r.log.Warn().Err(err).Str("subdomain", sub).Msg("no se pudo cachear el tenant")
		}
	}
	return res, nil
}

// Invalidate borra la entrada de caché del subdominio.
func (r *Resolver) Invalidate(ctx context.Context, subdomain string) {
	if r.cache == nil {
		return
	}
	sub := NormalizeSubdomain(subdomain)
	if err := r.cache.Delete(ctx, sub); err != nil {
		r.log.Warn().Err(err).Str("subdomain", sub).Msg("no se pudo invalidar la caché del tenant")
	}
}
