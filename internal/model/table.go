package model

import "time"

// TableStatus enumerates the states of a dining table. A table holds at
// most one current order; completing that order moves the table to
// CLEANING rather than straight back to EMPTY, modelling the manual reset
// staff perform between guests.
type TableStatus string

const (
	TableEmpty       TableStatus = "EMPTY"
	TableOccupied    TableStatus = "OCCUPIED"
	TableReserved    TableStatus = "RESERVED"
	TableCleaning    TableStatus = "CLEANING"
	TableMaintenance TableStatus = "MAINTENANCE"
)

// ValidTableStatus reports whether s is a known table status.
func ValidTableStatus(s TableStatus) bool {
	switch s {
	case TableEmpty, TableOccupied, TableReserved, TableCleaning, TableMaintenance:
		return true
	}
	return false
}

// AcceptsOrders reports whether a new order may be opened against a table
// in status s. EMPTY and RESERVED accept (a seated reservation orders on
// its reserved table); everything else rejects with a conflict.
func (s TableStatus) AcceptsOrders() bool {
	return s == TableEmpty || s == TableReserved
}

// Table mirrors the 'tables' table. QRCode is the opaque code embedded in
// the QR sticker on the physical table; customers reach the menu and
// ordering endpoints through it. CurrentOrderID is set while an order
// occupies the table and cleared when that order reaches a terminal state.
type Table struct {
	ID             uint64      `json:"id"`
	Number         int         `json:"number"`
	Capacity       int         `json:"capacity"`
	Location       string      `json:"location"`
	QRCode         string      `json:"qr_code"`
	Status         TableStatus `json:"status"`
	CurrentOrderID *uint64     `json:"current_order_id,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}
