package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CarlosEstrada30/smart-orders-api/internal/application/tenancy"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"
	"github.com/CarlosEstrada30/smart-orders-api/internal/infrastructure/cache"
	"github.com/CarlosEstrada30/smart-orders-api/internal/testutil/memstore"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests TenantCache
// ──────────────────────────────────────────────────────────────────────────────

func TestNewTenantCache_SinCliente(t *testing.T) {
	c := cache.NewTenantCache(nil, time.Minute)
	assert.Nil(t, c)

	res, err := c.Get(context.Background(), "acme")
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.NoError(t, c.Set(context.Background(), "acme", tenancy.Resolution{Schema: "acme_x"}))
	assert.NoError(t, c.Delete(context.Background(), "acme"))
}

func TestNewClient_URLVacia(t *testing.T) {
	client, err := cache.NewClient(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewClient_URLInvalida(t *testing.T) {
	_, err := cache.NewClient(context.Background(), "://no-es-url")
	assert.Error(t, err)
}

// Redis caído: el resolver registra el error y consulta el directorio.
func TestResolver_RedisCaidoNoBloquea(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	tenants := memstore.NewTenants(entity.Tenant{
		ID: "t-1", Nombre: "Acme", Subdominio: "acme", SchemaName: "acme_abc", Active: true,
	})
	r := tenancy.NewResolver(tenants, cache.NewTenantCache(client, time.Minute), nil, nil)

	res, err := r.Resolve(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, "acme_abc", res.Schema)
}

func TestNewClient_PingOK(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := cache.NewClient(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.NoError(t, client.Close())
}

func TestTenantCache_SetYGet(t *testing.T) {
	mr, client := newRedis(t)
	c := cache.NewTenantCache(client, time.Minute)
	ctx := context.Background()
	want := tenancy.Resolution{TenantID: "t-1", Schema: "acme_abc", Name: "Acme", Subdominio: "acme"}

	require.NoError(t, c.Set(ctx, "acme", want))

	got, err := c.Get(ctx, "acme")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
	assert.True(t, mr.Exists("smart-orders:tenant:acme"))
	assert.Equal(t, time.Minute, mr.TTL("smart-orders:tenant:acme"))
}

func TestTenantCache_GetSinEntrada(t *testing.T) {
	_, client := newRedis(t)
	c := cache.NewTenantCache(client, time.Minute)

	got, err := c.Get(context.Background(), "nadie")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTenantCache_TTLPorDefecto(t *testing.T) {
	mr, client := newRedis(t)
	c := cache.NewTenantCache(client, 0)

	require.NoError(t, c.Set(context.Background(), "acme", tenancy.Resolution{Schema: "acme_abc"}))
	assert.Equal(t, 5*time.Minute, mr.TTL("smart-orders:tenant:acme"))
}

func TestTenantCache_ExpiraTrasTTL(t *testing.T) {
	mr, client := newRedis(t)
	c := cache.NewTenantCache(client, 30*time.Second)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "acme", tenancy.Resolution{Schema: "acme_abc"}))
	mr.FastForward(31 * time.Second)

	got, err := c.Get(ctx, "acme")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTenantCache_Delete(t *testing.T) {
	mr, client := newRedis(t)
	c := cache.NewTenantCache(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "acme", tenancy.Resolution{Schema: "acme_abc"}))
	require.NoError(t, c.Delete(ctx, "acme"))

	assert.False(t, mr.Exists("smart-orders:tenant:acme"))
	got, err := c.Get(ctx, "acme")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTenantCache_EntradaCorruptaSeDescarta(t *testing.T) {
	mr, client := newRedis(t)
	c := cache.NewTenantCache(client, time.Minute)
	require.NoError(t, mr.Set("smart-orders:tenant:acme", "{no es json"))

	got, err := c.Get(context.Background(), "acme")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, mr.Exists("smart-orders:tenant:acme"))
}

// El resolver llena la caché, la usa mientras vive la clave e Invalidate la borra.
func TestResolver_ConRedis(t *testing.T) {
	mr, client := newRedis(t)
	ctx := context.Background()
	tenants := memstore.NewTenants(entity.Tenant{
		ID: "t-1", Nombre: "Acme", Subdominio: "acme", SchemaName: "acme_abc", Active: true,
	})
	r := tenancy.NewResolver(tenants, cache.NewTenantCache(client, time.Minute), nil, nil)

	res, err := r.Resolve(ctx, "ACME ")
	require.NoError(t, err)
	assert.Equal(t, "acme_abc", res.Schema)
	assert.True(t, mr.Exists("smart-orders:tenant:acme"))

	// Desactivado en el directorio: la entrada cacheada sigue respondiendo.
	require.NoError(t, tenants.SetActive(ctx, "t-1", false))
	res, err = r.Resolve(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, "acme_abc", res.Schema)

	r.Invalidate(ctx, "acme")
	assert.False(t, mr.Exists("smart-orders:tenant:acme"))
	_, err = r.Resolve(ctx, "acme")
	assert.Error(t, err)
}
