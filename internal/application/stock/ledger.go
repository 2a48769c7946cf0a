// Package stock controla todo cambio de Product.Stock.
//
// Las operaciones reciben el ProductRepository de la transacción del llamador,
// de modo que una reserva de grupo fallida se deshace con el rollback de esa tx.
package stock

import (
	"context"
	"fmt"
	"sort"

	"github.com/CarlosEstrada30/smart-orders-api/internal/application/ports"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/repository"
	"github.com/CarlosEstrada30/smart-orders-api/pkg/logger"
)

// Line cantidad de un producto a reservar o devolver.
type Line struct {
	ProductID string
	Quantity  int
}

// LinesFromOrder convierte las líneas de una orden.
func LinesFromOrder(o *entity.Order) []Line {
	lines := make([]Line, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, Line{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return lines
}

// Ledger guardián del stock. enabled es la política del despliegue
// (STOCK_VALIDATION_ENABLED) y se fija al construirlo.
type Ledger struct {
	enabled bool
	metrics ports.Metrics
	log     *logger.Logger
}

// NewLedger construye el ledger con la política de validación dada.
func NewLedger(enabled bool, metrics ports.Metrics, log *logger.Logger) *Ledger {
	if log == nil {
		log = logger.Nop()
	}
	return &Ledger{enabled: enabled, metrics: ports.OrNop(metrics), log: log.Named("stock")}
}

// Enabled indica si las transiciones de órdenes mueven stock.
func (l *Ledger) Enabled() bool { return l.enabled }

// CheckAvailability true si el producto existe, está activo y (con validación activa) stock >= qty.
// Con validación desactivada solo se comprueba existencia y estado.
func (l *Ledger) CheckAvailability(ctx context.Context, products repository.ProductRepository, productID string, qty int) (bool, error) {
	p, err := products.GetByID(ctx, productID)
	if err != nil {
		return false, err
	}
	if p == nil || !p.IsActive {
		return false, nil
	}
	if !l.enabled {
		return true, nil
	}
	return p.Stock >= qty, nil
}

// Reserve descuenta qty de forma atómica. Sin validación es un no-op.
func (l *Ledger) Reserve(ctx context.Context, products repository.ProductRepository, productID string, qty int) error {
	if !l.enabled {
		return nil
	}
	return l.ReserveAll(ctx, products, []Line{{ProductID: productID, Quantity: qty}})
}

// Restore devuelve qty al producto, sin tope superior. Sin validación es un no-op.
func (l *Ledger) Restore(ctx context.Context, products repository.ProductRepository, productID string, qty int) error {
	if !l.enabled {
		return nil
	}
	return l.RestoreAll(ctx, products, []Line{{ProductID: productID, Quantity: qty}})
}

// ReserveAll reserva todas las líneas o ninguna: primero verifica disponibilidad de todas
// y después descuenta cada una con la sentencia con guarda. Si un descuento concurrente
// gana la carrera entre la verificación y el descuento, devuelve ErrInsufficientStock y
// el llamador debe abortar su transacción.
func (l *Ledger) ReserveAll(ctx context.Context, products repository.ProductRepository, lines []Line) error {
	if !l.enabled {
		return nil
	}
	merged, err := merge(lines)
	if err != nil {
		return err
	}
	for _, ln := range merged {
		p, err := products.GetByID(ctx, ln.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, ln.ProductID)
		}
		if !p.IsActive {
			return fmt.Errorf("%w: producto %s inactivo", domain.ErrInvalidInput, p.Name)
		}
		if p.Stock < ln.Quantity {
			return fmt.Errorf("%w: %s disponible %d, requerido %d", domain.ErrInsufficientStock, p.Name, p.Stock, ln.Quantity)
		}
	}
	for _, ln := range merged {
		ok, err := products.DecrementStock(ctx, ln.ProductID, ln.Quantity)
		if err != nil {
			return fmt.Errorf("reservar %s: %w", ln.ProductID, err)
		}
		if !ok {
			return fmt.Errorf("%w: producto %s cambió durante la reserva", domain.ErrInsufficientStock, ln.ProductID)
		}
		l.metrics.StockMoved("reserve", ln.Quantity)
	}
	l.log.Debug().Int("lines", len(merged)).Msg("stock reservado")
	return nil
}

// RestoreAll devuelve todas las líneas. Un fallo debe abortar la transacción del llamador
// para no dejar el stock por debajo de lo real.
func (l *Ledger) RestoreAll(ctx context.Context, products repository.ProductRepository, lines []Line) error {
	if !l.enabled {
		return nil
	}
	return l.increment(ctx, products, lines, "restore")
}

// Receive suma existencias por una entrada de inventario completada.
// Aplica con o sin validación: el contador sigue siendo la fuente de verdad.
func (l *Ledger) Receive(ctx context.Context, products repository.ProductRepository, lines []Line) error {
	return l.increment(ctx, products, lines, "receive")
}

// Withdraw descuenta existencias por un ajuste negativo; nunca deja stock < 0.
func (l *Ledger) Withdraw(ctx context.Context, products repository.ProductRepository, productID string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: cantidad debe ser positiva", domain.ErrInvalidInput)
	}
	ok, err := products.DecrementStock(ctx, productID, qty)
	if err != nil {
		return fmt.Errorf("ajustar %s: %w", productID, err)
	}
	if !ok {
		return fmt.Errorf("%w: el ajuste dejaría el producto %s con stock negativo", domain.ErrInsufficientStock, productID)
	}
	l.metrics.StockMoved("withdraw", qty)
	return nil
}

func (l *Ledger) increment(ctx context.Context, products repository.ProductRepository, lines []Line, kind string) error {
	merged, err := merge(lines)
	if err != nil {
		return err
	}
	for _, ln := range merged {
		if err := products.IncrementStock(ctx, ln.ProductID, ln.Quantity); err != nil {
			return fmt.Errorf("%s %s: %w", kind, ln.ProductID, err)
		}
		l.metrics.StockMoved(kind, ln.Quantity)
	}
	l.log.Debug().Str("kind", kind).Int("lines", len(merged)).Msg("stock incrementado")
	return nil
}

// merge agrupa por producto y ordena por ID para que dos transacciones que tocan
// los mismos productos tomen los bloqueos de fila en el mismo orden.
func merge(lines []Line) ([]Line, error) {
	totals := make(map[string]int, len(lines))
	for _, ln := range lines {
		if ln.ProductID == "" || ln.Quantity <= 0 {
			return nil, fmt.Errorf("%w: línea de stock inválida", domain.ErrInvalidInput)
		}
		totals[ln.ProductID] += ln.Quantity
	}
	out := make([]Line, 0, len(totals))
	for id, q := range totals {
		out = append(out, Line{ProductID: id, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}
