// Package payments registra y cancela pagos contra órdenes y mantiene los totales
// derivados de cobro de cada orden.
package payments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/CarlosEstrada30/smart-orders-api/internal/application/dto"
	"github.com/CarlosEstrada30/smart-orders-api/internal/application/ports"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/docnumber"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/payment"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/repository"
	"github.com/CarlosEstrada30/smart-orders-api/pkg/logger"
)

var tracer = otel.Tracer("smart-orders-api/payments")

// Ledger casos de uso de pagos. paid_amount, balance_due y payment_status de la orden
// se recalculan desde el conjunto completo de pagos en cada mutación.
type Ledger struct {
	metrics ports.Metrics
	log     *logger.Logger
}

// NewLedger construye el caso de uso.
func NewLedger(metrics ports.Metrics, log *logger.Logger) *Ledger {
	if log == nil {
		log = logger.Nop()
	}
	return &Ledger{metrics: ports.OrNop(metrics), log: log.Named("payments")}
}

// Record crea un pago confirmado y recalcula los totales de la orden.
// Errores: ErrNotFound (orden), ErrOrderCancelled, ErrInvalidAmount, ErrInvalidInput (método).
func (l *Ledger) Record(ctx context.Context, store repository.Store, userID string, in dto.CreatePaymentRequest) (*dto.PaymentResponse, error) {
	ctx, span := tracer.Start(ctx, "payments.Record", trace.WithAttributes(
		attribute.String("tenant.schema", store.Schema()),
		attribute.String("order.id", in.OrderID),
	))
	defer span.End()

	var (
		created *entity.Payment
		o       *entity.Order
	)
	err := store.WithTx(ctx, func(r repository.Repositories) error {
		var err error
		created, o, err = l.record(ctx, r, userID, in)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	l.metrics.PaymentEvent("recorded")
	l.log.Info().
		Str("schema", store.Schema()).
		Str("payment_number", created.PaymentNumber).
		Str("order_number", o.OrderNumber).
		Str("amount", created.Amount.StringFixed(2)).
		Msg("pago registrado")
	return toPaymentResponse(created, o.OrderNumber), nil
}

// record hace el trabajo de Record dentro de una tx ya abierta.
func (l *Ledger) record(ctx context.Context, r repository.Repositories, userID string, in dto.CreatePaymentRequest) (*entity.Payment, *entity.Order, error) {
	o, err := r.Orders.GetForUpdate(ctx, in.OrderID)
	if err != nil {
		return nil, nil, err
	}
	if o == nil {
		return nil, nil, fmt.Errorf("%w: orden %s", domain.ErrNotFound, in.OrderID)
	}
	if o.Status == entity.OrderCancelled {
		return nil, o, fmt.Errorf("%w: %s", domain.ErrOrderCancelled, o.OrderNumber)
	}
	amount, ok := payment.NormalizeAmount(in.Amount)
	if !ok {
		return nil, o, fmt.Errorf("%w: recibido %s", domain.ErrInvalidAmount, in.Amount.String())
	}
	method := entity.PaymentMethod(strings.ToLower(strings.TrimSpace(in.PaymentMethod)))
	if method == "" {
		method = entity.MethodCash
	}
	if !method.IsValid() {
		return nil, o, fmt.Errorf("%w: método de pago %q", domain.ErrInvalidInput, in.PaymentMethod)
	}

	now := time.Now()
	p := &entity.Payment{
		ID:              uuid.New().String(),
		PaymentNumber:   docnumber.New(docnumber.PaymentPrefix),
		OrderID:         o.ID,
		Amount:          amount,
		Method:          method,
		Status:          entity.PaymentConfirmed,
		Notes:           in.Notes,
		CreatedByUserID: userID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := r.Payments.Create(ctx, p); err != nil {
		return nil, o, err
	}
	if err := recompute(ctx, r, o); err != nil {
		return nil, o, err
	}
	return p, o, nil
}

// Cancel marca el pago como cancelado (la fila se conserva) y recalcula la orden.
func (l *Ledger) Cancel(ctx context.Context, store repository.Store, paymentID string) (*dto.PaymentResponse, error) {
	ctx, span := tracer.Start(ctx, "payments.Cancel", trace.WithAttributes(
		attribute.String("tenant.schema", store.Schema()),
		attribute.String("payment.id", paymentID),
	))
	defer span.End()

	var (
		p *entity.Payment
		o *entity.Order
	)
	err := store.WithTx(ctx, func(r repository.Repositories) error {
		var err error
		p, err = r.Payments.GetByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: pago %s", domain.ErrNotFound, paymentID)
		}
		// Bloquear la orden primero serializa la cancelación con otros pagos de la misma orden.
		o, err = r.Orders.GetForUpdate(ctx, p.OrderID)
		if err != nil {
			return err
		}
		if o == nil {
			return fmt.Errorf("%w: orden %s", domain.ErrNotFound, p.OrderID)
		}
		// Releer tras el bloqueo: otra cancelación pudo ganar.
		p, err = r.Payments.GetByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if p.Status != entity.PaymentConfirmed {
			return fmt.Errorf("%w: %s", domain.ErrAlreadyCancelled, p.PaymentNumber)
		}
		if err := r.Payments.UpdateStatus(ctx, p.ID, entity.PaymentCancelled); err != nil {
			return err
		}
		p.Status = entity.PaymentCancelled
		return recompute(ctx, r, o)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	l.metrics.PaymentEvent("cancelled")
	l.log.Info().
		Str("schema", store.Schema()).
		Str("payment_number", p.PaymentNumber).
		Str("order_number", o.OrderNumber).
		Msg("pago cancelado")
	return toPaymentResponse(p, o.OrderNumber), nil
}

// recompute recalcula y persiste los totales de o desde todos sus pagos.
func recompute(ctx context.Context, r repository.Repositories, o *entity.Order) error {
	all, err := r.Payments.ListByOrder(ctx, o.ID)
	if err != nil {
		return err
	}
	t := payment.Compute(o.TotalAmount, all)
	if err := r.Orders.UpdatePaymentTotals(ctx, o.ID, t); err != nil {
		return err
	}
	o.PaidAmount, o.BalanceDue, o.PaymentStatus = t.PaidAmount, t.BalanceDue, t.PaymentStatus
	return nil
}

// BulkRecord procesa cada entrada en su propia tx. Las entradas inválidas se
// convierten en fallos con su motivo y no interrumpen el lote.
func (l *Ledger) BulkRecord(ctx context.Context, store repository.Store, userID string, in dto.BulkPaymentRequest) (*dto.BulkPaymentResponse, error) {
	if len(in.Payments) == 0 {
		return nil, fmt.Errorf("%w: la lista de pagos está vacía", domain.ErrInvalidInput)
	}
	out := &dto.BulkPaymentResponse{
		TotalAmount: decimal.Zero,
		Payments:    make([]dto.PaymentResponse, 0, len(in.Payments)),
		Failed:      make([]dto.BulkPaymentFailure, 0),
	}
	for i, entry := range in.Payments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var (
			p *entity.Payment
			o *entity.Order
		)
		err := store.WithTx(ctx, func(r repository.Repositories) error {
			var err error
			p, o, err = l.record(ctx, r, userID, entry)
			return err
		})
		if err != nil {
			out.Failed = append(out.Failed, l.failure(ctx, store, i, entry, err))
			out.FailedCount++
			l.metrics.PaymentEvent("bulk_failed")
			continue
		}
		out.Payments = append(out.Payments, *toPaymentResponse(p, o.OrderNumber))
		out.TotalAmount = out.TotalAmount.Add(p.Amount)
		out.SuccessCount++
		l.metrics.PaymentEvent("recorded")
	}

	l.log.Info().
		Str("schema", store.Schema()).
		Int("success", out.SuccessCount).
		Int("failed", out.FailedCount).
		Str("total", out.TotalAmount.StringFixed(2)).
		Msg("pagos masivos procesados")
	return out, nil
}

// failure arma el detalle del fallo con el número de orden y el cliente cuando se pueden resolver.
func (l *Ledger) failure(ctx context.Context, store repository.Store, index int, in dto.CreatePaymentRequest, cause error) dto.BulkPaymentFailure {
	f := dto.BulkPaymentFailure{
		Index:   index,
		OrderID: in.OrderID,
		Amount:  in.Amount,
		Reason:  cause.Error(),
	}
	repos := store.Repos()
	o, err := repos.Orders.GetByID(ctx, in.OrderID)
	if err != nil || o == nil {
		return f
	}
	f.OrderNumber = o.OrderNumber
	if c, err := repos.Clients.GetByID(ctx, o.ClientID); err == nil && c != nil {
		f.ClientName = c.Name
	}
	return f
}

// Get obtiene un pago por ID.
func (l *Ledger) Get(ctx context.Context, store repository.Store, id string) (*dto.PaymentResponse, error) {
	p, err := store.Repos().Payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: pago %s", domain.ErrNotFound, id)
	}
	return toPaymentResponse(p, ""), nil
}

// List lista pagos con filtros opcionales.
func (l *Ledger) List(ctx context.Context, store repository.Store, q dto.PaymentListQuery) (*dto.PaymentListResponse, error) {
	q.DefaultPage()
	f := repository.PaymentFilter{
		OrderID: q.OrderID,
		From:    q.From,
		To:      q.To,
		Limit:   q.Limit,
		Offset:  q.Offset,
	}
	if q.Method != "" {
		m := entity.PaymentMethod(strings.ToLower(q.Method))
		if !m.IsValid() {
			return nil, fmt.Errorf("%w: método de pago %q", domain.ErrInvalidInput, q.Method)
		}
		f.Method = m
	}
	if q.Status != "" {
		st := entity.PaymentStatus(strings.ToLower(q.Status))
		if st != entity.PaymentConfirmed && st != entity.PaymentCancelled {
			return nil, fmt.Errorf("%w: estado de pago %q", domain.ErrInvalidInput, q.Status)
		}
		f.Status = st
	}
	list, err := store.Repos().Payments.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := &dto.PaymentListResponse{
		Items: make([]dto.PaymentResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}
	for _, p := range list {
		out.Items = append(out.Items, *toPaymentResponse(p, ""))
	}
	return out, nil
}

// Summary estado de cobro de la orden con su historial completo de pagos.
func (l *Ledger) Summary(ctx context.Context, store repository.Store, orderID string) (*dto.OrderPaymentSummary, error) {
	repos := store.Repos()
	o, err := repos.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("%w: orden %s", domain.ErrNotFound, orderID)
	}
	all, err := repos.Payments.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	out := &dto.OrderPaymentSummary{
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		TotalAmount:   o.TotalAmount,
		PaidAmount:    o.PaidAmount,
		BalanceDue:    o.BalanceDue,
		PaymentStatus: string(o.PaymentStatus),
		PaymentsCount: len(all),
		Payments:      make([]dto.PaymentResponse, 0, len(all)),
	}
	for i := range all {
		out.Payments = append(out.Payments, *toPaymentResponse(&all[i], o.OrderNumber))
	}
	return out, nil
}

func toPaymentResponse(p *entity.Payment, orderNumber string) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		ID:              p.ID,
		PaymentNumber:   p.PaymentNumber,
		OrderID:         p.OrderID,
		OrderNumber:     orderNumber,
		Amount:          p.Amount,
		PaymentMethod:   string(p.Method),
		Status:          string(p.Status),
		Notes:           p.Notes,
		CreatedByUserID: p.CreatedByUserID,
		CreatedAt:       p.CreatedAt,
	}
}
