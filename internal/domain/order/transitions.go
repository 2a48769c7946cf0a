// Package order contiene las reglas puras del ciclo de vida de una orden.
package order

import "github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"

// StockEffect efecto que una transición tiene sobre el stock de los productos.
type StockEffect int

const (
	EffectNone StockEffect = iota
	EffectReserve
	EffectRestore
)

func (e StockEffect) String() string {
	switch e {
	case EffectReserve:
		return "reserve"
	case EffectRestore:
		return "restore"
	}
	return "none"
}

var adjacency = map[entity.OrderStatus][]entity.OrderStatus{
	entity.OrderPending:    {entity.OrderConfirmed, entity.OrderCancelled},
	entity.OrderConfirmed:  {entity.OrderInProgress, entity.OrderCancelled},
	entity.OrderInProgress: {entity.OrderShipped, entity.OrderCancelled},
	entity.OrderShipped:    {entity.OrderDelivered},
	entity.OrderDelivered:  nil,
	entity.OrderCancelled:  nil,
}

// IsValidStatus indica si s es un estado conocido.
func IsValidStatus(s entity.OrderStatus) bool {
	_, ok := adjacency[s]
	return ok
}

// AllowedTransitions estados alcanzables desde from en un paso.
func AllowedTransitions(from entity.OrderStatus) []entity.OrderStatus {
	next := adjacency[from]
	out := make([]entity.OrderStatus, len(next))
	copy(out, next)
	return out
}

// CanTransition indica si from → to está en la tabla de adyacencia.
func CanTransition(from, to entity.OrderStatus) bool {
	for _, s := range adjacency[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal delivered y cancelled no tienen salida.
func IsTerminal(s entity.OrderStatus) bool {
	return IsValidStatus(s) && len(adjacency[s]) == 0
}

// HoldsStock indica si en el estado s la orden tiene su stock reservado.
func HoldsStock(s entity.OrderStatus) bool {
	switch s {
	case entity.OrderConfirmed, entity.OrderInProgress, entity.OrderShipped, entity.OrderDelivered:
		return true
	}
	return false
}

// EffectOf calcula el efecto sobre stock de cruzar la frontera
// {pending, cancelled} ↔ {confirmed, in_progress, shipped, delivered}.
func EffectOf(from, to entity.OrderStatus) StockEffect {
	switch {
	case !HoldsStock(from) && HoldsStock(to):
		return EffectReserve
	case HoldsStock(from) && !HoldsStock(to):
		return EffectRestore
	}
	return EffectNone
}
