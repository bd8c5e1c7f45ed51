// Package queue defines message payloads exchanged over the message broker
// and the kitchen-side consumer.
package queue

// Queue names used on the default exchange.
const (
	OrdersPlacedQueue = "orders.placed"
	OrdersStatusQueue = "orders.status"
)

// PlacedItem is one line of an order as the kitchen sees it.
type PlacedItem struct {
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	Instructions string `json:"instructions,omitempty"`
}

// OrderPlacedEvent is published when a customer order is committed. It
// carries everything a kitchen display needs so consumers never query the
// primary database.
type OrderPlacedEvent struct {
	OrderID        uint64       `json:"order_id"`
	Reference      string       `json:"reference"`
	TableNumber    int          `json:"table_number"`
	Items          []PlacedItem `json:"items"`
	TotalCents     int64        `json:"total_cents"`
	EstPrepMinutes int          `json:"est_prep_minutes"`
	BusinessDay    string       `json:"business_day"`
	PlacedAt       string       `json:"placed_at"`
}

// OrderStatusChangedEvent is published on every staff-driven status
// transition, including the terminal ones.
type OrderStatusChangedEvent struct {
	OrderID   uint64 `json:"order_id"`
	Reference string `json:"reference"`
	From      string `json:"from"`
	To        string `json:"to"`
	ChangedAt string `json:"changed_at"`
}
