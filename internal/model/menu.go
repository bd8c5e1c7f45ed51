package model

import "time"

// Category mirrors the 'categories' table. Names are unique; SortOrder
// controls display order on the public menu.
type Category struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MenuItem mirrors the 'menu_items' table. PriceCents is the current menu
// price; orders copy it at creation time. PrepMinutes feeds the advisory
// preparation estimate. Unavailable items reject any order containing them.
type MenuItem struct {
	ID          uint64    `json:"id"`
	CategoryID  uint64    `json:"category_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	Available   bool      `json:"available"`
	PrepMinutes int       `json:"prep_minutes"`
	ImageURL    *string   `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
