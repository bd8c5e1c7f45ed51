package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// NewReservationNumber builds a unique human-readable reservation code,
// e.g. RES-20240115-193042-0417. The timestamp keeps codes sortable and
// the random suffix breaks same-second collisions.
func NewReservationNumber(now time.Time) string {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		n = big.NewInt(now.UnixNano() % 10000)
	}
	return fmt.Sprintf("RES-%s-%04d", now.UTC().Format("20060102-150405"), n.Int64())
}

// NewTableCode returns the opaque identifier printed inside a table's QR
// sticker. 16 random bytes keep codes unguessable so nobody can order
// against a table they are not sitting at.
func NewTableCode() (string, error) {
	return randomHex(16)
}
