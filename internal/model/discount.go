package model

import "time"

// Discount mirrors the single-row 'discount_settings' table. The discount
// is a time-of-day promotion: it is active while the local clock is before
// Cutoff (an HH:MM string, e.g. "19:00"). Percent is advisory display
// information for the frontend; it never alters stored order totals.
type Discount struct {
	ID        uint64    `json:"id"`
	Enabled   bool      `json:"enabled"`
	Percent   int       `json:"percent"`
	Cutoff    string    `json:"cutoff"`
	UpdatedAt time.Time `json:"updated_at"`
}
