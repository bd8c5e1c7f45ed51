// Package pricing holds the order money arithmetic. All amounts are integer
// cents; tax is a fixed 10% of the subtotal rounded half up to the cent.
// Every place that prices an order uses these functions so the invariant
// total = subtotal + tax cannot drift between call sites.
package pricing

// taxRateBP is the fixed tax rate in basis points (10%).
const taxRateBP = 1000

// Line is one priced order line: a unit price in cents and a quantity.
type Line struct {
	PriceCents int64
	Quantity   int
}

// Subtotal returns the sum of price × quantity over all lines.
func Subtotal(lines []Line) int64 {
	var sum int64
	for _, l := range lines {
		sum += l.PriceCents * int64(l.Quantity)
	}
	return sum
}

// Tax returns 10% of the subtotal, rounded half up at cent precision.
func Tax(subtotalCents int64) int64 {
	return (subtotalCents*taxRateBP + 5000) / 10000
}

// Total returns subtotal plus tax for the given subtotal.
func Total(subtotalCents int64) int64 {
	return subtotalCents + Tax(subtotalCents)
}

// EstimatePrepMinutes returns the advisory preparation estimate for an
// order: the slowest line item plus two minutes of overhead per distinct
// line. prepMinutes holds one entry per line.
func EstimatePrepMinutes(prepMinutes []int) int {
	if len(prepMinutes) == 0 {
		return 0
	}
	max := 0
	for _, m := range prepMinutes {
		if m > max {
			max = m
		}
	}
	return max + 2*len(prepMinutes)
}
