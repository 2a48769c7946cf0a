package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePaymentRequest abono contra una orden.
type CreatePaymentRequest struct {
	OrderID       string          `json:"order_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	PaymentMethod string          `json:"payment_method" validate:"required"`
	Notes         string          `json:"notes"`
}

// BulkPaymentRequest varios abonos procesados de forma independiente.
type BulkPaymentRequest struct {
	Payments []CreatePaymentRequest `json:"payments" validate:"required,min=1"`
}

// PaymentListQuery filtros del listado.
type PaymentListQuery struct {
	OrderID string
	Method  string
	Status  string
	From    *time.Time
	To      *time.Time
	PageRequest
}

// PaymentResponse salida de un pago.
type PaymentResponse struct {
	ID              string          `json:"id"`
	PaymentNumber   string          `json:"payment_number"`
	OrderID         string          `json:"order_id"`
	OrderNumber     string          `json:"order_number,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentMethod   string          `json:"payment_method"`
	Status          string          `json:"status"`
	Notes           string          `json:"notes,omitempty"`
	CreatedByUserID string          `json:"created_by_user_id"`
	CreatedAt       time.Time       `json:"created_at"`
}

// PaymentListResponse lista paginada de pagos.
type PaymentListResponse struct {
	Items []PaymentResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// BulkPaymentFailure entrada rechazada del lote.
type BulkPaymentFailure struct {
	Index       int             `json:"index"`
	OrderID     string          `json:"order_id"`
	OrderNumber string          `json:"order_number,omitempty"`
	ClientName  string          `json:"client_name,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Reason      string          `json:"reason"`
}

// BulkPaymentResponse pagos creados, fallos y conteos.
type BulkPaymentResponse struct {
	SuccessCount int                  `json:"success_count"`
	FailedCount  int                  `json:"failed_count"`
	TotalAmount  decimal.Decimal      `json:"total_amount"`
	Payments     []PaymentResponse    `json:"payments"`
	Failed       []BulkPaymentFailure `json:"failed"`
}

// OrderPaymentSummary estado de cobro de una orden con su historial de pagos.
type OrderPaymentSummary struct {
	OrderID       string            `json:"order_id"`
	OrderNumber   string            `json:"order_number"`
	TotalAmount   decimal.Decimal   `json:"total_amount"`
	PaidAmount    decimal.Decimal   `json:"paid_amount"`
	BalanceDue    decimal.Decimal   `json:"balance_due"`
	PaymentStatus string            `json:"payment_status"`
	PaymentsCount int               `json:"payments_count"`
	Payments      []PaymentResponse `json:"payments"`
}
