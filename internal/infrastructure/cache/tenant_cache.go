package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/CarlosEstrada30/smart-orders-api/internal/application/tenancy"
)

var _ tenancy.Cache = (*TenantCache)(nil)

const keyPrefix = "smart-orders:tenant:"

// TenantCache guarda resoluciones subdominio → schema en Redis con TTL.
// Un tenant desactivado puede seguir resolviéndose hasta que expire su clave
// salvo que se invalide explícitamente.
type TenantCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTenantCache devuelve nil si client es nil. Los métodos toleran receptor nil.
func NewTenantCache(client *redis.Client, ttl time.Duration) *TenantCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &TenantCache{client: client, ttl: ttl}
}

// NewClient parsea REDIS_URL. URL vacía: (nil, nil).
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func key(subdomain string) string {
	return keyPrefix + subdomain
}

// Get (nil, nil) si no hay entrada.
func (c *TenantCache) Get(ctx context.Context, subdomain string) (*tenancy.Resolution, error) {
	if c == nil {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, key(subdomain)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var res tenancy.Resolution
	if err := json.Unmarshal(raw, &res); err != nil {
		// entrada corrupta: se descarta y se resuelve de nuevo
		_ = c.client.Del(ctx, key(subdomain)).Err()
		return nil, nil
	}
	return &res, nil
}

func (c *TenantCache) Set(ctx context.Context, subdomain string, res tenancy.Resolution) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(subdomain), raw, c.ttl).Err()
}

func (c *TenantCache) Delete(ctx context.Context, subdomain string) error {
	if c == nil {
		return nil
	}
	return c.client.Del(ctx, key(subdomain)).Err()
}
