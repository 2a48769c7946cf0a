// Package orders implementa el ciclo de vida de las órdenes: creación, transiciones
// de estado con sus efectos sobre stock, cancelación y cambios masivos.
package orders

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
	"github.com/CarlosEstrada30/smart-orders-api/internal/application/stock"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/docnumber"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/order"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/repository"
	"github.com/CarlosEstrada30/smart-orders-api/pkg/logger"
)

var tracer = otel.Tracer("smart-orders-api/orders")

// UseCase casos de uso de órdenes. Cada método recibe el Store del request:
// el schema viene del token verificado y nunca se vuelve a resolver aquí.
type UseCase struct {
	ledger  *stock.Ledger
	metrics ports.Metrics
	log     *logger.Logger
}

// NewUseCase construye el caso de uso con el ledger de stock del despliegue.
func NewUseCase(ledger *stock.Ledger, metrics ports.Metrics, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{ledger: ledger, metrics: ports.OrNop(metrics), log: log.Named("orders")}
}

// Create valida cliente, ruta y productos y persiste la orden en pending.
// No reserva stock: el compromiso ocurre al confirmar. Todo corre en una sola tx.
func (uc *UseCase) Create(ctx context.Context, store repository.Store, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	ctx, span := tracer.Start(ctx, "orders.Create", trace.WithAttributes(attribute.String("tenant.schema", store.Schema())))
	defer span.End()

	if err := validateCreate(in); err != nil {
		return nil, err
	}

	var created *entity.Order
	err := store.WithTx(ctx, func(r repository.Repositories) error {
		client, err := r.Clients.GetByID(ctx, in.ClientID)
		if err != nil {
			return err
		}
		if client == nil {
			return fmt.Errorf("%w: cliente %s", domain.ErrNotFound, in.ClientID)
		}
		if !client.IsActive {
			return fmt.Errorf("%w: el cliente %s está inactivo", domain.ErrInvalidInput, client.Name)
		}
		if in.RouteID != "" {
			route, err := r.Routes.GetByID(ctx, in.RouteID)
			if err != nil {
				return err
			}
			if route == nil {
				return fmt.Errorf("%w: ruta %s", domain.ErrNotFound, in.RouteID)
			}
			if !route.IsActive {
				return fmt.Errorf("%w: la ruta %s está inactiva", domain.ErrInvalidInput, route.Name)
			}
		}

		now := time.Now()
		o := &entity.Order{
			ID:            uuid.New().String(),
			OrderNumber:   docnumber.New(docnumber.OrderPrefix),
			ClientID:      in.ClientID,
			RouteID:       in.RouteID,
			Status:        entity.OrderPending,
			PaidAmount:    decimal.Zero,
			PaymentStatus: entity.PaymentUnpaid,
			DeliveryDate:  in.DeliveryDate,
			Notes:         in.Notes,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		total := decimal.Zero
		for _, it := range in.Items {
			p, err := r.Products.GetByID(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, it.ProductID)
			}
			if !p.IsActive {
				return fmt.Errorf("%w: el producto %s está inactivo", domain.ErrInvalidInput, p.Name)
			}
			unit := it.UnitPrice
			if !unit.GreaterThan(decimal.Zero) {
				if unit, err = listPrice(ctx, r, p, in.RouteID); err != nil {
					return err
				}
			}
			line := unit.Mul(decimal.NewFromInt(int64(it.Quantity)))
			o.Items = append(o.Items, entity.OrderItem{
				ID:         uuid.New().String(),
				OrderID:    o.ID,
				ProductID:  p.ID,
				Quantity:   it.Quantity,
				UnitPrice:  unit,
				TotalPrice: line,
			})
			total = total.Add(line)
		}
		o.TotalAmount = total
		o.BalanceDue = total
		if err := r.Orders.Create(ctx, o); err != nil {
			return err
		}
		created = o
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	uc.log.Info().
		Str("schema", store.Schema()).
		Str("order_number", created.OrderNumber).
		Str("total", created.TotalAmount.StringFixed(2)).
		Msg("orden creada")
	return ToOrderResponse(created), nil
}

// listPrice precio del producto en la ruta de la orden; sin precio de ruta, el general.
func listPrice(ctx context.Context, r repository.Repositories, p *entity.Product, routeID string) (decimal.Decimal, error) {
	if routeID == "" {
		return p.Price, nil
	}
	rp, err := r.RoutePrices.GetByProductAndRoute(ctx, p.ID, routeID)
	if err != nil {
		return decimal.Zero, err
	}
	if rp == nil {
		return p.Price, nil
	}
	return rp.Price, nil
}

func validateCreate(in dto.CreateOrderRequest) error {
	if strings.TrimSpace(in.ClientID) == "" {
		return fmt.Errorf("%w: client_id es requerido", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: la orden debe tener al menos un producto", domain.ErrInvalidInput)
	}
	for i, it := range in.Items {
		if it.ProductID == "" {
			return fmt.Errorf("%w: items[%d].product_id es requerido", domain.ErrInvalidInput, i)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: items[%d].quantity debe ser mayor a cero", domain.ErrInvalidInput, i)
		}
		if it.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: items[%d].unit_price no puede ser negativo", domain.ErrInvalidInput, i)
		}
	}
	return nil
}

// Get obtiene una orden por ID.
func (uc *UseCase) Get(ctx context.Context, store repository.Store, id string) (*dto.OrderResponse, error) {
	o, err := store.Repos().Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("%w: orden %s", domain.ErrNotFound, id)
	}
	return ToOrderResponse(o), nil
}

// GetByNumber obtiene una orden por su número visible.
func (uc *UseCase) GetByNumber(ctx context.Context, store repository.Store, number string) (*dto.OrderResponse, error) {
	o, err := store.Repos().Orders.GetByNumber(ctx, strings.ToUpper(strings.TrimSpace(number)))
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("%w: orden %s", domain.ErrNotFound, number)
	}
	return ToOrderResponse(o), nil
}

// List lista órdenes con filtros opcionales.
func (uc *UseCase) List(ctx context.Context, store repository.Store, q dto.OrderListQuery) (*dto.OrderListResponse, error) {
	q.DefaultPage()
	f := repository.OrderFilter{
		ClientID: q.ClientID,
		RouteID:  q.RouteID,
		From:     q.From,
		To:       q.To,
		Search:   strings.TrimSpace(q.Search),
		Limit:    q.Limit,
		Offset:   q.Offset,
	}
	if q.Status != "" {
		st := entity.OrderStatus(strings.ToLower(q.Status))
		if !order.IsValidStatus(st) {
			return nil, fmt.Errorf("%w: estado %q desconocido", domain.ErrInvalidInput, q.Status)
		}
		f.Status = st
	}
	list, err := store.Repos().Orders.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := &dto.OrderListResponse{
		Items: make([]dto.OrderResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}
	for _, o := range list {
		out.Items = append(out.Items, *ToOrderResponse(o))
	}
	return out, nil
}

// InvoiceView expone los campos que un emisor de facturas externo necesita.
func (uc *UseCase) InvoiceView(ctx context.Context, store repository.Store, id string) (*dto.InvoiceViewResponse, error) {
	o, err := store.Repos().Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("%w: orden %s", domain.ErrNotFound, id)
	}
	return &dto.InvoiceViewResponse{
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		Status:        string(o.Status),
		Delivered:     o.Status == entity.OrderDelivered,
		TotalAmount:   o.TotalAmount,
		PaidAmount:    o.PaidAmount,
		BalanceDue:    o.BalanceDue,
		PaymentStatus: string(o.PaymentStatus),
	}, nil
}

// ToOrderResponse mapea la entidad al DTO de salida.
func ToOrderResponse(o *entity.Order) *dto.OrderResponse {
	out := &dto.OrderResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		ClientID:      o.ClientID,
		RouteID:       o.RouteID,
		Status:        string(o.Status),
		TotalAmount:   o.TotalAmount,
		PaidAmount:    o.PaidAmount,
		BalanceDue:    o.BalanceDue,
		PaymentStatus: string(o.PaymentStatus),
		DeliveryDate:  o.DeliveryDate,
		Notes:         o.Notes,
		Items:         make([]dto.OrderItemResponse, 0, len(o.Items)),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, dto.OrderItemResponse{
			ID:         it.ID,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
		})
	}
	return out
}
