package repository

import (
	"context"
	"time"

	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/payment"
)

// OrderFilter filtros de listado de órdenes. Campos vacíos no filtran.
type OrderFilter struct {
	Status   entity.OrderStatus
	ClientID string
	RouteID  string
	From     *time.Time
	To       *time.Time
	// Search coincidencia parcial, sin distinguir mayúsculas, en número de orden o nombre del cliente.
	Search   string
	Limit    int
	Offset   int
}

// OrderRepository define el puerto de persistencia para Order y sus líneas.
// Los Get devuelven la orden con Items cargados, o (nil, nil) si no existe.
type OrderRepository interface {
	Create(ctx context.Context, o *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	GetByNumber(ctx context.Context, number string) (*entity.Order, error)
	// GetForUpdate bloquea la fila de la orden (SELECT ... FOR UPDATE) hasta el fin de la tx.
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	List(ctx context.Context, f OrderFilter) ([]*entity.Order, error)
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) error
	UpdatePaymentTotals(ctx context.Context, id string, t payment.Totals) error
}
