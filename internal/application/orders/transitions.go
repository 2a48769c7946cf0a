package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/CarlosEstrada30/smart-orders-api/internal/application/dto"
	"github.com/CarlosEstrada30/smart-orders-api/internal/application/stock"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/order"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/repository"
)

// ParseStatus normaliza y valida un estado recibido del exterior.
func ParseStatus(s string) (entity.OrderStatus, error) {
	st := entity.OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	if !order.IsValidStatus(st) {
		return "", fmt.Errorf("%w: estado %q desconocido", domain.ErrInvalidInput, s)
	}
	return st, nil
}

// UpdateStatus aplica una transición de estado. Si la transición cruza la frontera
// de reserva, reserva o devuelve el stock de todas las líneas en la misma tx que
// el cambio de estado: si algo falla, ni el stock ni el estado cambian.
func (uc *UseCase) UpdateStatus(ctx context.Context, store repository.Store, id string, to entity.OrderStatus) (*dto.OrderResponse, error) {
	ctx, span := tracer.Start(ctx, "orders.UpdateStatus", trace.WithAttributes(
		attribute.String("tenant.schema", store.Schema()),
		attribute.String("order.id", id),
		attribute.String("order.to", string(to)),
	))
	defer span.End()

	var (
		updated *entity.Order
		from    entity.OrderStatus
	)
	err := store.WithTx(ctx, func(r repository.Repositories) error {
		o, err := r.Orders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return fmt.Errorf("%w: orden %s", domain.ErrNotFound, id)
		}
		from = o.Status
		if !order.CanTransition(from, to) {
			return fmt.Errorf("%w: %s → %s no permitido para %s", domain.ErrInvalidTransition, from, to, o.OrderNumber)
		}

		switch order.EffectOf(from, to) {
		case order.EffectReserve:
			if err := uc.ledger.ReserveAll(ctx, r.Products, stock.LinesFromOrder(o)); err != nil {
				return err
			}
		case order.EffectRestore:
			if err := uc.ledger.RestoreAll(ctx, r.Products, stock.LinesFromOrder(o)); err != nil {
				return fmt.Errorf("devolver stock de %s: %w", o.OrderNumber, err)
			}
		}

		if err := r.Orders.UpdateStatus(ctx, o.ID, to); err != nil {
			return err
		}
		o.Status = to
		updated = o
		return nil
	})
	if err != nil {
		// Sin orden cargada no hay estado origen que reportar.
		if from != "" {
			uc.metrics.OrderTransition(string(from), string(to), outcome(err))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	uc.metrics.OrderTransition(string(from), string(to), "ok")
	uc.log.Info().
		Str("schema", store.Schema()).
		Str("order_number", updated.OrderNumber).
		Str("from", string(from)).
		Str("to", string(to)).
		Str("stock_effect", order.EffectOf(from, to).String()).
		Bool("stock_validation", uc.ledger.Enabled()).
		Msg("estado de orden actualizado")
	return ToOrderResponse(updated), nil
}

// Cancel pasa la orden a cancelled; devuelve el stock si estaba reservado.
func (uc *UseCase) Cancel(ctx context.Context, store repository.Store, id string) (*dto.OrderResponse, error) {
	return uc.UpdateStatus(ctx, store, id, entity.OrderCancelled)
}

// BulkUpdateStatus aplica la misma transición a varias órdenes, cada una en su propia tx.
// Un fallo se reporta en su resultado y no detiene al resto.
func (uc *UseCase) BulkUpdateStatus(ctx context.Context, store repository.Store, in dto.BulkOrderStatusRequest) (*dto.BulkOrderStatusResponse, error) {
	if len(in.OrderIDs) == 0 {
		return nil, fmt.Errorf("%w: order_ids no puede estar vacío", domain.ErrInvalidInput)
	}
	to, err := ParseStatus(in.Status)
	if err != nil {
		return nil, err
	}

	out := &dto.BulkOrderStatusResponse{Results: make([]dto.BulkOrderStatusResult, 0, len(in.OrderIDs))}
	for _, id := range in.OrderIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := dto.BulkOrderStatusResult{OrderID: id}
		o, err := uc.UpdateStatus(ctx, store, id, to)
		if err != nil {
			res.Error = err.Error()
			if cur, _ := store.Repos().Orders.GetByID(ctx, id); cur != nil {
				res.OrderNumber = cur.OrderNumber
			}
			out.FailedCount++
		} else {
			res.Success = true
			res.OrderNumber = o.OrderNumber
			out.UpdatedCount++
		}
		out.Results = append(out.Results, res)
	}
	return out, nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	}
	return "error"
}
