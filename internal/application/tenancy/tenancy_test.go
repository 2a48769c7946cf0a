package tenancy_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/CarlosEstrada30/smart-orders-api/internal/application/dto"
	"github.com/CarlosEstrada30/smart-orders-api/internal/application/tenancy"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"
	"github.com/CarlosEstrada30/smart-orders-api/internal/testutil/memstore"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de test
// ──────────────────────────────────────────────────────────────────────────────

type fakeCache struct {
	mu     sync.Mutex
	items  map[string]tenancy.Resolution
	getErr error
}

func newFakeCache() *fakeCache { return &fakeCache{items: map[string]tenancy.Resolution{}} }

func (c *fakeCache) Get(_ context.Context, sub string) (*tenancy.Resolution, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	r, ok := c.items[sub]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (c *fakeCache) Set(_ context.Context, sub string, r tenancy.Resolution) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[sub] = r
	return nil
}

func (c *fakeCache) Delete(_ context.Context, sub string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, sub)
	return nil
}

func (c *fakeCache) has(sub string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[sub]
	return ok
}

func directory() *memstore.Tenants {
	return memstore.NewTenants(
		entity.Tenant{ID: "t-1", Nombre: "Acme", Subdominio: "acme", SchemaName: "acme_abc", Active: true},
		entity.Tenant{ID: "t-2", Nombre: "Cerrada", Subdominio: "cerrada", SchemaName: "cerrada_def", Active: false},
	)
}

// ──────────────────────────────────────────────────────────────────────────────
// Resolver
// ──────────────────────────────────────────────────────────────────────────────

func TestResolve_SubdominioVacioEsDefault(t *testing.T) {
	dir := directory()
	r := tenancy.NewResolver(dir, nil, nil, nil)

	res, err := r.Resolve(context.Background(), "  ")
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultSchema, res.Schema)
	assert.True(t, res.IsDefault())
	assert.Zero(t, dir.Lookups, "no consulta el directorio")
}

func TestResolve_TenantActivo(t *testing.T) {
	r := tenancy.NewResolver(directory(), nil, nil, nil)

	res, err := r.Resolve(context.Background(), "ACME")
	require.NoError(t, err)
	assert.Equal(t, "acme_abc", res.Schema)
	assert.Equal(t, "t-1", res.TenantID)
	assert.Equal(t, "Acme", res.Name)
}

func TestResolve_InexistenteOInactivo(t *testing.T) {
	r := tenancy.NewResolver(directory(), nil, nil, nil)

	_, err := r.Resolve(context.Background(), "nadie")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = r.Resolve(context.Background(), "cerrada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolve_UsaCache(t *testing.T) {
	dir := directory()
	cache := newFakeCache()
	r := tenancy.NewResolver(dir, cache, nil, nil)
	ctx := context.Background()

	_, err := r.Resolve(ctx, "acme")
	require.NoError(t, err)
	_, err = r.Resolve(ctx, "acme")
	require.NoError(t, err)

	assert.Equal(t, 1, dir.Lookups)
	assert.True(t, cache.has("acme"))

	r.Invalidate(ctx, "Acme")
	assert.False(t, cache.has("acme"))
}

func TestResolve_FalloDeCacheConsultaDirectorio(t *testing.T) {
	dir := directory()
	cache := newFakeCache()
	cache.getErr = errors.New("redis caído")
	r := tenancy.NewResolver(dir, cache, nil, nil)

	res, err := r.Resolve(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, "acme_abc", res.Schema)
	assert.Equal(t, 1, dir.Lookups)
}

// ──────────────────────────────────────────────────────────────────────────────
// Administración
// ──────────────────────────────────────────────────────────────────────────────

func newAdmin(dir *memstore.Tenants, f *memstore.Factory, cache *fakeCache) *tenancy.AdminUseCase {
	var c tenancy.Cache
	if cache != nil {
		c = cache
	}
	return tenancy.NewAdminUseCase(dir, f, f, tenancy.NewResolver(dir, c, nil, nil), nil)
}

func createReq(sub string) dto.CreateTenantRequest {
	return dto.CreateTenantRequest{
		Nombre:        "Agua Pura S.A.",
		Subdominio:    sub,
		AdminEmail:    "Admin@AguaPura.com",
		AdminPassword: "secreto123",
	}
}

func TestSchemaNameFor(t *testing.T) {
	got := tenancy.SchemaNameFor("Agua Pura S.A.", "1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed")
	assert.Equal(t, "aguapurasa_1b9d6bcdbbfd4b2d9b5dab8dfbbd4bed", got)
	assert.True(t, entity.ValidSchemaName(got))

	assert.Equal(t, "t7eleven_x", tenancy.SchemaNameFor("7-Eleven", "x"))
	assert.Equal(t, "tenant_x", tenancy.SchemaNameFor("¡¡!!", "x"))

	long := tenancy.SchemaNameFor("Distribuidora de Agua y Hielo del Norte Sociedad Anónima", "1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed")
	assert.LessOrEqual(t, len(long), 63)
	assert.True(t, entity.ValidSchemaName(long))
}

func TestCreate_AprovisionaSchemaYAdmin(t *testing.T) {
	dir := memstore.NewTenants()
	f := memstore.NewFactory()
	uc := newAdmin(dir, f, nil)
	ctx := context.Background()

	out, err := uc.Create(ctx, createReq("aguapura"))
	require.NoError(t, err)
	assert.True(t, out.Active)
	assert.Equal(t, "aguapura", out.Subdominio)
	assert.True(t, f.Has(out.SchemaName))

	admin, err := f.Store(out.SchemaName).Repos().Users.GetByEmail(ctx, "admin@aguapura.com")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, entity.RoleAdmin, admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("secreto123")))

	_, err = uc.Create(ctx, createReq("aguapura"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreate_Validaciones(t *testing.T) {
	uc := newAdmin(memstore.NewTenants(), memstore.NewFactory(), nil)
	ctx := context.Background()

	for _, sub := range []string{"", "-acme", "acme-", "ac me", "public", "www"} {
		_, err := uc.Create(ctx, createReq(sub))
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "subdominio %q", sub)
	}

	req := createReq("ok")
	req.AdminPassword = "corta"
	_, err := uc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = createReq("ok")
	req.Nombre = " "
	_, err = uc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_FalloDeAprovisionamientoRevierte(t *testing.T) {
	dir := memstore.NewTenants()
	f := memstore.NewFactory()
	f.FailProvision = errors.New("sin permisos para CREATE SCHEMA")
	uc := newAdmin(dir, f, nil)

	_, err := uc.Create(context.Background(), createReq("aguapura"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CREATE SCHEMA")

	list, err := uc.List(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, list, "la fila del tenant se elimina")
}

func TestSoftDeleteYRestore(t *testing.T) {
	dir := directory()
	cache := newFakeCache()
	uc := newAdmin(dir, memstore.NewFactory(), cache)
	resolver := tenancy.NewResolver(dir, cache, nil, nil)
	ctx := context.Background()

	_, err := resolver.Resolve(ctx, "acme")
	require.NoError(t, err)
	require.True(t, cache.has("acme"))

	out, err := uc.SoftDelete(ctx, "t-1")
	require.NoError(t, err)
	assert.False(t, out.Active)
	assert.False(t, cache.has("acme"), "invalida la caché")

	_, err = resolver.Resolve(ctx, "acme")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.SoftDelete(ctx, "t-1")
	assert.ErrorIs(t, err, domain.ErrConflict)

	active, err := uc.List(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, active)
	all, err := uc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	out, err = uc.Restore(ctx, "t-1")
	require.NoError(t, err)
	assert.True(t, out.Active)
	res, err := resolver.Resolve(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, "acme_abc", res.Schema)

	_, err = uc.Restore(ctx, "t-1")
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = uc.Get(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
