package repository

import (
	"context"
	"time"

	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"
)

// PaymentFilter filtros de listado de pagos. Campos vacíos no filtran.
type PaymentFilter struct {
	OrderID string
	Method  entity.PaymentMethod
	Status  entity.PaymentStatus
	From    *time.Time
	To      *time.Time
	Limit   int
	Offset  int
}

// PaymentRepository define el puerto de persistencia para Payment. No hay borrado.
type PaymentRepository interface {
	Create(ctx context.Context, p *entity.Payment) error
	GetByID(ctx context.Context, id string) (*entity.Payment, error)
	ListByOrder(ctx context.Context, orderID string) ([]entity.Payment, error)
	List(ctx context.Context, f PaymentFilter) ([]*entity.Payment, error)
	UpdateStatus(ctx context.Context, id string, status entity.PaymentStatus) error
}
