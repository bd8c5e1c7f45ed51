package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubtotalTaxTotal(t *testing.T) {
	// 6.50×2 + 8.90×1 + 3.50×1 = 25.40; tax 2.54; total 27.94
	lines := []Line{
		{PriceCents: 650, Quantity: 2},
		{PriceCents: 890, Quantity: 1},
		{PriceCents: 350, Quantity: 1},
	}
	sub := Subtotal(lines)
	assert.Equal(t, int64(2540), sub)
	assert.Equal(t, int64(254), Tax(sub))
	assert.Equal(t, int64(2794), Total(sub))
}

func TestTaxRoundsHalfUp(t *testing.T) {
	// 1.05 → tax 0.105 rounds to 0.11
	assert.Equal(t, int64(11), Tax(105))
	// 1.04 → tax 0.104 rounds to 0.10
	assert.Equal(t, int64(10), Tax(104))
	assert.Equal(t, int64(0), Tax(0))
}

func TestTotalInvariant(t *testing.T) {
	for _, sub := range []int64{0, 1, 99, 2540, 123456} {
		assert.Equal(t, sub+Tax(sub), Total(sub))
	}
}

func TestEstimatePrepMinutes(t *testing.T) {
	assert.Equal(t, 0, EstimatePrepMinutes(nil))
	// max 15 + 2×3 lines = 21
	assert.Equal(t, 21, EstimatePrepMinutes([]int{10, 15, 5}))
	assert.Equal(t, 7, EstimatePrepMinutes([]int{5}))
}
