package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/CarlosEstrada30/smart-orders-api/internal/application/dto"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain"
)

// pageFrom lee limit/offset con los mismos topes que el resto de listados.
func pageFrom(c *fiber.Ctx) dto.PageRequest {
	p := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	p.DefaultPage()
	return p
}

// timeQuery acepta RFC3339 o fecha simple (2006-01-02). Vacío: nil.
// Una fecha simple en "to" cubre el día completo.
func timeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s debe ser RFC3339 o AAAA-MM-DD", domain.ErrInvalidInput, key)
	}
	if key == "to" {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func dateRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	if from, err = timeQuery(c, "from"); err != nil {
		return nil, nil, err
	}
	if to, err = timeQuery(c, "to"); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}
