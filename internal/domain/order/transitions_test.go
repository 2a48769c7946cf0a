package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/order"
)

func TestCanTransition_Tabla(t *testing.T) {
	cases := []struct {
		from, to entity.OrderStatus
		ok       bool
	}{
		{entity.OrderPending, entity.OrderConfirmed, true},
		{entity.OrderPending, entity.OrderCancelled, true},
		{entity.OrderPending, entity.OrderShipped, false},
		{entity.OrderConfirmed, entity.OrderInProgress, true},
		{entity.OrderConfirmed, entity.OrderCancelled, true},
		{entity.OrderConfirmed, entity.OrderPending, false},
		{entity.OrderInProgress, entity.OrderShipped, true},
		{entity.OrderInProgress, entity.OrderCancelled, true},
		{entity.OrderShipped, entity.OrderDelivered, true},
		{entity.OrderShipped, entity.OrderCancelled, false},
		{entity.OrderDelivered, entity.OrderCancelled, false},
		{entity.OrderCancelled, entity.OrderPending, false},
		{entity.OrderCancelled, entity.OrderConfirmed, false},
		{entity.OrderPending, entity.OrderPending, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, order.CanTransition(c.from, c.to), "%s → %s", c.from, c.to)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, order.IsTerminal(entity.OrderDelivered))
	assert.True(t, order.IsTerminal(entity.OrderCancelled))
	assert.False(t, order.IsTerminal(entity.OrderShipped))
	assert.False(t, order.IsTerminal(entity.OrderStatus("desconocido")))
}

func TestEffectOf_FronteraDeReserva(t *testing.T) {
	assert.Equal(t, order.EffectReserve, order.EffectOf(entity.OrderPending, entity.OrderConfirmed))
	assert.Equal(t, order.EffectRestore, order.EffectOf(entity.OrderConfirmed, entity.OrderCancelled))
	assert.Equal(t, order.EffectRestore, order.EffectOf(entity.OrderInProgress, entity.OrderCancelled))
	assert.Equal(t, order.EffectNone, order.EffectOf(entity.OrderPending, entity.OrderCancelled))
	assert.Equal(t, order.EffectNone, order.EffectOf(entity.OrderConfirmed, entity.OrderInProgress))
	assert.Equal(t, order.EffectNone, order.EffectOf(entity.OrderShipped, entity.OrderDelivered))
}

func TestAllowedTransitions_DevuelveCopia(t *testing.T) {
	next := order.AllowedTransitions(entity.OrderPending)
	next[0] = entity.OrderDelivered
	assert.True(t, order.CanTransition(entity.OrderPending, entity.OrderConfirmed),
		"modificar el slice devuelto no debe alterar la tabla")
}
