package model

import "time"

// Staff roles. Customers never authenticate; they order through table QR
// codes, so there is no customer role.
const (
	RoleAdmin = "ADMIN"
	RoleStaff = "STAFF"
)

// User mirrors the 'users' table.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
