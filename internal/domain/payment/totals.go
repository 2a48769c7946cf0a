// Package payment contiene el recálculo puro de los totales de cobro de una orden.
package payment

import (
	"github.com/shopspring/decimal"

	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"
)

// Totals campos derivados de cobro de una orden.
type Totals struct {
	PaidAmount    decimal.Decimal
	BalanceDue    decimal.Decimal
	PaymentStatus entity.OrderPaymentStatus
}

// Compute recalcula los totales a partir del conjunto completo de pagos de la orden.
// Solo cuentan los pagos confirmados. Un sobrepago deja BalanceDue negativo (saldo a favor)
// y el estado en paid.
func Compute(total decimal.Decimal, payments []entity.Payment) Totals {
	paid := decimal.Zero
	for _, p := range payments {
		if p.Status == entity.PaymentConfirmed {
			paid = paid.Add(p.Amount)
		}
	}
	balance := total.Sub(paid)
	return Totals{
		PaidAmount:    paid,
		BalanceDue:    balance,
		PaymentStatus: StatusFor(paid, balance),
	}
}

// StatusFor unpaid si no hay nada pagado, paid si el saldo es <= 0, partial en otro caso.
func StatusFor(paid, balance decimal.Decimal) entity.OrderPaymentStatus {
	switch {
	case paid.IsZero():
		return entity.PaymentUnpaid
	case balance.LessThanOrEqual(decimal.Zero):
		return entity.PaymentPaid
	default:
		return entity.PaymentPartial
	}
}

// NormalizeAmount redondea a centavos; el resultado debe ser > 0.
func NormalizeAmount(amount decimal.Decimal) (decimal.Decimal, bool) {
	a := amount.Round(2)
	return a, a.GreaterThan(decimal.Zero)
}
