package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea de una orden nueva. UnitPrice cero = precio vigente del producto
// (el de la ruta de la orden si tiene uno).
type OrderItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateOrderRequest entrada para crear una orden (queda en pending).
type CreateOrderRequest struct {
	ClientID     string             `json:"client_id" validate:"required"`
	RouteID      string             `json:"route_id"`
	DeliveryDate *time.Time         `json:"delivery_date"`
	Notes        string             `json:"notes"`
	Items        []OrderItemRequest `json:"items" validate:"required,min=1"`
}

// UpdateOrderStatusRequest cambio de estado.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// BulkOrderStatusRequest mismo cambio de estado para varias órdenes.
type BulkOrderStatusRequest struct {
	OrderIDs []string `json:"order_ids" validate:"required,min=1"`
	Status   string   `json:"status" validate:"required"`
}

// OrderListQuery filtros del listado.
type OrderListQuery struct {
	Status   string
	ClientID string
	RouteID  string
	From     *time.Time
	To       *time.Time
	Search   string
	PageRequest
}

// OrderItemResponse línea de orden.
type OrderItemResponse struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// OrderResponse salida de una orden.
type OrderResponse struct {
	ID            string              `json:"id"`
	OrderNumber   string              `json:"order_number"`
	ClientID      string              `json:"client_id"`
	RouteID       string              `json:"route_id,omitempty"`
	Status        string              `json:"status"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	PaidAmount    decimal.Decimal     `json:"paid_amount"`
	BalanceDue    decimal.Decimal     `json:"balance_due"`
	PaymentStatus string              `json:"payment_status"`
	DeliveryDate  *time.Time          `json:"delivery_date,omitempty"`
	Notes         string              `json:"notes,omitempty"`
	Items         []OrderItemResponse `json:"items"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// OrderListResponse lista paginada de órdenes.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// BulkOrderStatusResult resultado por orden.
type BulkOrderStatusResult struct {
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number,omitempty"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
}

// BulkOrderStatusResponse resumen del cambio masivo.
type BulkOrderStatusResponse struct {
	UpdatedCount int                     `json:"updated_count"`
	FailedCount  int                     `json:"failed_count"`
	Results      []BulkOrderStatusResult `json:"results"`
}

// InvoiceViewResponse lo que un emisor de facturas externo necesita para decidir si factura.
type InvoiceViewResponse struct {
	OrderID       string          `json:"order_id"`
	OrderNumber   string          `json:"order_number"`
	Status        string          `json:"status"`
	Delivered     bool            `json:"delivered"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	BalanceDue    decimal.Decimal `json:"balance_due"`
	PaymentStatus string          `json:"payment_status"`
}
