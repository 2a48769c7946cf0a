package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod medio de pago.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodCreditCard   PaymentMethod = "credit_card"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCheck        PaymentMethod = "check"
	MethodOther        PaymentMethod = "other"
)

// IsValid indica si el método es uno de los aceptados.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodCash, MethodCreditCard, MethodBankTransfer, MethodCheck, MethodOther:
		return true
	}
	return false
}

// PaymentStatus estado de un pago. La única transición es confirmed → cancelled.
type PaymentStatus string

const (
	PaymentConfirmed PaymentStatus = "confirmed"
	PaymentCancelled PaymentStatus = "cancelled"
)

// Payment abono contra una orden. Inmutable salvo el cambio de estado; nunca se borra.
type Payment struct {
	ID              string
	PaymentNumber   string
	OrderID         string
	Amount          decimal.Decimal
	Method          PaymentMethod
	Status          PaymentStatus
	Notes           string
	CreatedByUserID string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
