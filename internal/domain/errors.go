package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los casos de uso los envuelven con fmt.Errorf("%w: ...") para conservar el detalle legible.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidTransition = errors.New("transición de estado inválida")
	ErrOrderCancelled    = errors.New("la orden está cancelada")
	ErrAlreadyCancelled  = errors.New("el pago ya está cancelado")
	ErrInvalidAmount     = errors.New("el monto debe ser mayor a cero")
	ErrConfiguration     = errors.New("configuración de tenant inválida")
)
