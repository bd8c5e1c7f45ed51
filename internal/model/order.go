package model

import "time"

// OrderStatus enumerates the lifecycle states of an order. An order moves
// forward through PENDING → PREPARING → READY → SERVED → COMPLETED.
// CANCELLED is reachable from any non-terminal state. COMPLETED and
// CANCELLED are terminal.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderPreparing OrderStatus = "PREPARING"
	OrderReady     OrderStatus = "READY"
	OrderServed    OrderStatus = "SERVED"
	OrderCompleted OrderStatus = "COMPLETED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// orderTransitions maps each status to the set of statuses it may move to.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderPreparing, OrderCancelled},
	OrderPreparing: {OrderReady, OrderCancelled},
	OrderReady:     {OrderServed, OrderCancelled},
	OrderServed:    {OrderCompleted, OrderCancelled},
	OrderCompleted: {},
	OrderCancelled: {},
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s OrderStatus) bool {
	_, ok := orderTransitions[s]
	return ok
}

// IsTerminal reports whether no further transitions are allowed from s.
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// CanTransition reports whether an order in status s may move to next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, t := range orderTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Order mirrors the 'orders' table. Prices are snapshotted in cents at
// creation time; later menu edits never alter a stored order. Reference is
// a public UUID handed to the customer for tracking without authentication.
// BusinessDay is the YYYY-MM-DD trading day the order belongs to, derived
// from CreatedAt (a trading day runs 09:00 local to 04:00 the next morning).
type Order struct {
	ID            uint64      `json:"id"`
	Reference     string      `json:"reference"`
	TableID       uint64      `json:"table_id"`
	Status        OrderStatus `json:"status"`
	SubtotalCents int64       `json:"subtotal_cents"`
	TaxCents      int64       `json:"tax_cents"`
	TotalCents    int64       `json:"total_cents"`
	CustomerName  *string     `json:"customer_name,omitempty"`
	CustomerPhone *string     `json:"customer_phone,omitempty"`
	BusinessDay   string      `json:"business_day"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	Items         []OrderItem `json:"items,omitempty"`
}

// OrderItem mirrors the 'order_items' table. MenuItemName and PriceCents
// are copies taken from the menu item at order time.
type OrderItem struct {
	ID           uint64  `json:"id"`
	OrderID      uint64  `json:"order_id"`
	MenuItemID   uint64  `json:"menu_item_id"`
	MenuItemName string  `json:"menu_item_name"`
	PriceCents   int64   `json:"price_cents"`
	Quantity     int     `json:"quantity"`
	Instructions *string `json:"instructions,omitempty"`
	PrepMinutes  int     `json:"prep_minutes"`
}
