package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/CarlosEstrada30/smart-orders-api/internal/domain"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/repository"
)

var _ repository.TenantRepository = (*Tenants)(nil)

// Tenants directorio de tenants en memoria. Lookups cuenta las consultas por subdominio.
type Tenants struct {
	mu      sync.Mutex
	byID    map[string]entity.Tenant
	Lookups int
}

// NewTenants crea el directorio con los tenants dados.
func NewTenants(ts ...entity.Tenant) *Tenants {
	r := &Tenants{byID: map[string]entity.Tenant{}}
	for _, t := range ts {
		r.byID[t.ID] = t
	}
	return r
}

func (r *Tenants) Create(_ context.Context, t *entity.Tenant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.byID {
		if x.Subdominio == t.Subdominio || x.SchemaName == t.SchemaName {
			return domain.ErrDuplicate
		}
	}
	r.byID[t.ID] = *t
	return nil
}

func (r *Tenants) GetByID(_ context.Context, id string) (*entity.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *Tenants) GetBySubdomain(_ context.Context, sub string) (*entity.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Lookups++
	for _, t := range r.byID {
		if t.Subdominio == sub {
			t := t
			return &t, nil
		}
	}
	return nil, nil
}

func (r *Tenants) List(_ context.Context, includeInactive bool) ([]*entity.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Tenant
	for _, t := range r.byID {
		if !includeInactive && !t.Active {
			continue
		}
		t := t
		out = append(out, &t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Subdominio < out[j].Subdominio })
	return out, nil
}

func (r *Tenants) SetActive(_ context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.Active = active
	r.byID[id] = t
	return nil
}

func (r *Tenants) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}
