package model

import "time"

// ReservationStatus enumerates the lifecycle states of a reservation.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationSeated    ReservationStatus = "SEATED"
	ReservationCompleted ReservationStatus = "COMPLETED"
	ReservationCancelled ReservationStatus = "CANCELLED"
	ReservationNoShow    ReservationStatus = "NO_SHOW"
)

// ValidReservationStatus reports whether s is a known reservation status.
func ValidReservationStatus(s ReservationStatus) bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationSeated,
		ReservationCompleted, ReservationCancelled, ReservationNoShow:
		return true
	}
	return false
}

// Reservation mirrors the 'reservations' table. Number is a unique
// human-readable code (RES-YYYYMMDD-HHMMSS-NNNN) given to the customer.
// ReservedAt is the target date/time of the visit, not the creation time;
// retention windows are measured against it. TableID is optional until
// staff assign a table.
type Reservation struct {
	ID            uint64            `json:"id"`
	Number        string            `json:"number"`
	CustomerName  string            `json:"customer_name"`
	CustomerPhone string            `json:"customer_phone"`
	PartySize     int               `json:"party_size"`
	ReservedAt    time.Time         `json:"reserved_at"`
	Status        ReservationStatus `json:"status"`
	TableID       *uint64           `json:"table_id,omitempty"`
	Notes         *string           `json:"notes,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}
