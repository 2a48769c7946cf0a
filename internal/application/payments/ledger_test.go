package payments_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CarlosEstrada30/smart-orders-api/internal/application/dto"
	"github.com/CarlosEstrada30/smart-orders-api/internal/application/payments"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"
	"github.com/CarlosEstrada30/smart-orders-api/internal/testutil/memstore"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func putOrder(s *memstore.Store, id, number, total string, status entity.OrderStatus) {
	s.PutOrder(entity.Order{
		ID:            id,
		OrderNumber:   number,
		ClientID:      "c-1",
		Status:        status,
		TotalAmount:   dec(total),
		PaidAmount:    decimal.Zero,
		BalanceDue:    dec(total),
		PaymentStatus: entity.PaymentUnpaid,
	})
}

func newStore() *memstore.Store {
	s := memstore.New("acme_t1")
	s.PutClient(entity.Client{ID: "c-1", Name: "Tienda Don Pepe", IsActive: true})
	putOrder(s, "o-1", "ORD-00000001", "1000.00", entity.OrderConfirmed)
	putOrder(s, "o-2", "ORD-00000002", "250.00", entity.OrderPending)
	putOrder(s, "o-x", "ORD-0000000X", "300.00", entity.OrderCancelled)
	return s
}

func pay(orderID, amount string) dto.CreatePaymentRequest {
	return dto.CreatePaymentRequest{OrderID: orderID, Amount: dec(amount), PaymentMethod: "cash"}
}

// assertConsistent paid_amount = suma de confirmados y balance_due = total - paid.
func assertConsistent(t *testing.T, s *memstore.Store, orderID string) {
	t.Helper()
	o := s.Order(orderID)
	paid := decimal.Zero
	for _, p := range s.Payments(orderID) {
		if p.Status == entity.PaymentConfirmed {
			paid = paid.Add(p.Amount)
		}
	}
	assert.True(t, o.PaidAmount.Equal(paid), "paid_amount %s, confirmados %s", o.PaidAmount, paid)
	assert.True(t, o.BalanceDue.Equal(o.TotalAmount.Sub(paid)), "balance_due %s", o.BalanceDue)
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro y cancelación
// ──────────────────────────────────────────────────────────────────────────────

func TestRecord_DosAbonosCompletanLaOrden(t *testing.T) {
	s := newStore()
	l := payments.NewLedger(nil, nil)
	ctx := context.Background()

	first, err := l.Record(ctx, s, "u-1", pay("o-1", "500.00"))
	require.NoError(t, err)
	assert.Regexp(t, `^PAY-[0-9A-F]{8}$`, first.PaymentNumber)
	assert.Equal(t, "confirmed", first.Status)
	assert.Equal(t, "ORD-00000001", first.OrderNumber)

	o := s.Order("o-1")
	assert.True(t, o.PaidAmount.Equal(dec("500.00")))
	assert.True(t, o.BalanceDue.Equal(dec("500.00")))
	assert.Equal(t, entity.PaymentPartial, o.PaymentStatus)

	_, err = l.Record(ctx, s, "u-1", pay("o-1", "500.00"))
	require.NoError(t, err)

	o = s.Order("o-1")
	assert.True(t, o.PaidAmount.Equal(dec("1000.00")))
	assert.True(t, o.BalanceDue.IsZero())
	assert.Equal(t, entity.PaymentPaid, o.PaymentStatus)
	assertConsistent(t, s, "o-1")
}

func TestCancel_RecalculaDesdeLosPagosRestantes(t *testing.T) {
	s := newStore()
	l := payments.NewLedger(nil, nil)
	ctx := context.Background()

	first, err := l.Record(ctx, s, "u-1", pay("o-1", "500.00"))
	require.NoError(t, err)
	_, err = l.Record(ctx, s, "u-1", pay("o-1", "500.00"))
	require.NoError(t, err)

	out, err := l.Cancel(ctx, s, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", out.Status)

	o := s.Order("o-1")
	assert.True(t, o.PaidAmount.Equal(dec("500.00")))
	assert.True(t, o.BalanceDue.Equal(dec("500.00")))
	assert.Equal(t, entity.PaymentPartial, o.PaymentStatus)
	assert.Len(t, s.Payments("o-1"), 2, "el pago cancelado se conserva")
	assertConsistent(t, s, "o-1")
}

func TestCancel_DosVecesFalla(t *testing.T) {
	s := newStore()
	l := payments.NewLedger(nil, nil)
	ctx := context.Background()

	p, err := l.Record(ctx, s, "u-1", pay("o-2", "100"))
	require.NoError(t, err)
	_, err = l.Cancel(ctx, s, p.ID)
	require.NoError(t, err)

	_, err = l.Cancel(ctx, s, p.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)
	o := s.Order("o-2")
	assert.True(t, o.PaidAmount.IsZero())
	assert.Equal(t, entity.PaymentUnpaid, o.PaymentStatus)
}

func TestCancel_PagoInexistente(t *testing.T) {
	_, err := payments.NewLedger(nil, nil).Cancel(context.Background(), newStore(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecord_OrdenCanceladaNoCambiaTotales(t *testing.T) {
	s := newStore()
	before := s.Order("o-x")

	_, err := payments.NewLedger(nil, nil).Record(context.Background(), s, "u-1", pay("o-x", "100.00"))
	assert.ErrorIs(t, err, domain.ErrOrderCancelled)

	after := s.Order("o-x")
	assert.True(t, after.PaidAmount.Equal(before.PaidAmount))
	assert.True(t, after.BalanceDue.Equal(before.BalanceDue))
	assert.Equal(t, before.PaymentStatus, after.PaymentStatus)
	assert.Empty(t, s.Payments("o-x"))
}

func TestRecord_Validaciones(t *testing.T) {
	s := newStore()
	l := payments.NewLedger(nil, nil)
	ctx := context.Background()

	cases := []struct {
		name string
		in   dto.CreatePaymentRequest
		want error
	}{
		{"monto cero", pay("o-2", "0"), domain.ErrInvalidAmount},
		{"monto negativo", pay("o-2", "-10"), domain.ErrInvalidAmount},
		{"redondea a cero", pay("o-2", "0.004"), domain.ErrInvalidAmount},
		{"orden inexistente", pay("nope", "10"), domain.ErrNotFound},
		{"método inválido", dto.CreatePaymentRequest{OrderID: "o-2", Amount: dec("10"), PaymentMethod: "bitcoin"}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := l.Record(ctx, s, "u-1", tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Empty(t, s.Payments("o-2"))
}

func TestRecord_RedondeaACentavos(t *testing.T) {
	s := newStore()
	out, err := payments.NewLedger(nil, nil).Record(context.Background(), s, "u-1", pay("o-2", "10.005"))
	require.NoError(t, err)
	assert.True(t, out.Amount.Equal(dec("10.01")))
}

func TestRecord_SobrepagoQuedaComoSaldoAFavor(t *testing.T) {
	s := newStore()
	_, err := payments.NewLedger(nil, nil).Record(context.Background(), s, "u-1", pay("o-2", "300.00"))
	require.NoError(t, err)

	o := s.Order("o-2")
	assert.True(t, o.BalanceDue.Equal(dec("-50.00")))
	assert.Equal(t, entity.PaymentPaid, o.PaymentStatus)
	assertConsistent(t, s, "o-2")
}

func TestRecord_MetodoPorDefectoEsEfectivo(t *testing.T) {
	s := newStore()
	out, err := payments.NewLedger(nil, nil).Record(context.Background(), s, "u-1",
		dto.CreatePaymentRequest{OrderID: "o-2", Amount: dec("10")})
	require.NoError(t, err)
	assert.Equal(t, "cash", out.PaymentMethod)
}

// ──────────────────────────────────────────────────────────────────────────────
// Masivos
// ──────────────────────────────────────────────────────────────────────────────

func TestBulkRecord_MezclaDeExitosYFallos(t *testing.T) {
	s := newStore()
	l := payments.NewLedger(nil, nil)

	out, err := l.BulkRecord(context.Background(), s, "u-1", dto.BulkPaymentRequest{Payments: []dto.CreatePaymentRequest{
		pay("o-1", "400.00"),
		pay("no-existe", "50.00"),
		pay("o-x", "20.00"),
		pay("o-2", "100.00"),
	}})
	require.NoError(t, err)

	assert.Equal(t, 2, out.SuccessCount)
	assert.Equal(t, 2, out.FailedCount)
	assert.True(t, out.TotalAmount.Equal(dec("500.00")))
	require.Len(t, out.Failed, 2)

	assert.Equal(t, 1, out.Failed[0].Index)
	assert.Contains(t, out.Failed[0].Reason, "no encontrado")
	assert.Empty(t, out.Failed[0].OrderNumber)

	assert.Equal(t, 2, out.Failed[1].Index)
	assert.Contains(t, out.Failed[1].Reason, domain.ErrOrderCancelled.Error())
	assert.Equal(t, "ORD-0000000X", out.Failed[1].OrderNumber)
	assert.Equal(t, "Tienda Don Pepe", out.Failed[1].ClientName)

	assertConsistent(t, s, "o-1")
	assertConsistent(t, s, "o-2")
	assert.Empty(t, s.Payments("o-x"))
}

func TestBulkRecord_ListaVacia(t *testing.T) {
	_, err := payments.NewLedger(nil, nil).BulkRecord(context.Background(), newStore(), "u-1", dto.BulkPaymentRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestSummaryYList(t *testing.T) {
	s := newStore()
	l := payments.NewLedger(nil, nil)
	ctx := context.Background()

	_, err := l.Record(ctx, s, "u-1", pay("o-1", "200"))
	require.NoError(t, err)
	second, err := l.Record(ctx, s, "u-1", dto.CreatePaymentRequest{OrderID: "o-1", Amount: dec("100"), PaymentMethod: "bank_transfer"})
	require.NoError(t, err)
	_, err = l.Cancel(ctx, s, second.ID)
	require.NoError(t, err)

	sum, err := l.Summary(ctx, s, "o-1")
	require.NoError(t, err)
	assert.Equal(t, 2, sum.PaymentsCount)
	assert.True(t, sum.PaidAmount.Equal(dec("200")))
	assert.True(t, sum.BalanceDue.Equal(dec("800")))
	assert.Equal(t, "partial", sum.PaymentStatus)

	list, err := l.List(ctx, s, dto.PaymentListQuery{OrderID: "o-1", Status: "confirmed"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, 20, list.Page.Limit)

	_, err = l.List(ctx, s, dto.PaymentListQuery{Method: "trueque"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := l.Get(ctx, s, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", got.Status)

	_, err = l.Summary(ctx, s, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
