package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	forward := []OrderStatus{OrderPending, OrderPreparing, OrderReady, OrderServed, OrderCompleted}
	for i := 0; i < len(forward)-1; i++ {
		assert.True(t, forward[i].CanTransition(forward[i+1]), "%s -> %s", forward[i], forward[i+1])
	}

	// no skipping ahead
	assert.False(t, OrderPending.CanTransition(OrderReady))
	assert.False(t, OrderPreparing.CanTransition(OrderCompleted))
	// no moving backwards
	assert.False(t, OrderReady.CanTransition(OrderPreparing))

	// cancel from every non-terminal state, never from terminal ones
	for _, s := range []OrderStatus{OrderPending, OrderPreparing, OrderReady, OrderServed} {
		assert.True(t, s.CanTransition(OrderCancelled), "%s -> cancelled", s)
		assert.False(t, s.IsTerminal())
	}
	for _, s := range []OrderStatus{OrderCompleted, OrderCancelled} {
		assert.True(t, s.IsTerminal())
		assert.False(t, s.CanTransition(OrderCancelled))
		assert.False(t, s.CanTransition(OrderPending))
	}
}

func TestValidOrderStatus(t *testing.T) {
	assert.True(t, ValidOrderStatus(OrderPreparing))
	assert.False(t, ValidOrderStatus(OrderStatus("BURNT")))
}

func TestTableStatusAcceptsOrders(t *testing.T) {
	assert.True(t, TableEmpty.AcceptsOrders())
	assert.True(t, TableReserved.AcceptsOrders())
	for _, s := range []TableStatus{TableOccupied, TableCleaning, TableMaintenance} {
		assert.False(t, s.AcceptsOrders(), string(s))
	}
}
