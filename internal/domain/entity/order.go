package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado del ciclo de vida de una orden.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderInProgress OrderStatus = "in_progress"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// OrderPaymentStatus estado de cobro derivado de los pagos confirmados.
type OrderPaymentStatus string

const (
	PaymentUnpaid  OrderPaymentStatus = "unpaid"
	PaymentPartial OrderPaymentStatus = "partial"
	PaymentPaid    OrderPaymentStatus = "paid"
)

// Order orden de venta. PaidAmount, BalanceDue y PaymentStatus son derivados:
// se recalculan a partir de los pagos confirmados, nunca se asignan desde fuera.
type Order struct {
	ID            string
	OrderNumber   string
	ClientID      string
	RouteID       string // vacío si no tiene ruta
	Status        OrderStatus
	TotalAmount   decimal.Decimal
	PaidAmount    decimal.Decimal
	BalanceDue    decimal.Decimal
	PaymentStatus OrderPaymentStatus
	DeliveryDate  *time.Time
	Notes         string
	Items         []OrderItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderItem línea de la orden. UnitPrice es el precio al momento de crear la orden.
type OrderItem struct {
	ID         string
	OrderID    string
	ProductID  string
	Quantity   int
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
}
