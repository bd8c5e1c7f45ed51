// Package repository implements the MySQL data access layer. Failure modes
// surface as sentinel errors so handlers can map them to distinct HTTP
// responses: not-found sentinels become 404s, conflict sentinels 409s, and
// anything else is an opaque internal error.
package repository

import (
	"errors"
	"strings"
)

// ErrConflict signals an operation blocked by existing state, such as
// opening an order on a table that already has one.
var ErrConflict = errors.New("conflict")

// isDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062), used to translate unique-constraint failures on emails,
// table numbers and category names into conflict responses.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}

// isFKBlocked reports whether err is a MySQL foreign-key restriction
// (error 1451), e.g. deleting a category that still has menu items.
func isFKBlocked(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1451")
}
