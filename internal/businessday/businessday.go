// Package businessday resolves wall-clock instants into restaurant trading
// days. The restaurant's day does not follow the calendar: it opens at
// 09:00 local time and closes at 04:00 the following morning, so an order
// placed at 01:30 on the 15th belongs to the trading day of the 14th.
// All call sites that bucket orders or evaluate the promotional discount
// window go through this package instead of repeating the arithmetic.
package businessday

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// openHour is the local hour a trading day starts (inclusive).
	openHour = 9
	// closeHour is the local hour a trading day ends the next calendar
	// morning (exclusive): 04:00:00 already belongs to the next day.
	closeHour = 4
)

// Day is a resolved trading day. Date is the calendar date of the opening,
// Start the 09:00 local anchor, End the exclusive close at 04:00 local the
// next calendar day. Start and End carry the resolver's fixed offset.
type Day struct {
	Date  string
	Start time.Time
	End   time.Time
}

// Resolver converts instants using a fixed local-time offset. The zero
// value resolves in UTC; use New for a deployment offset such as +8.
type Resolver struct {
	loc *time.Location
}

// New returns a Resolver for a fixed UTC offset in hours.
func New(offsetHours int) Resolver {
	name := fmt.Sprintf("UTC%+d", offsetHours)
	return Resolver{loc: time.FixedZone(name, offsetHours*3600)}
}

func (r Resolver) location() *time.Location {
	if r.loc == nil {
		return time.UTC
	}
	return r.loc
}

// Resolve returns the trading day the instant t belongs to. Local hours in
// [0,9) map to the previous calendar date; everything else maps to the
// current one. Exactly 09:00:00 opens the new day. The rule is idempotent:
// resolving a day's own Start yields the same day.
func (r Resolver) Resolve(t time.Time) Day {
	local := t.In(r.location())
	y, m, d := local.Date()
	if local.Hour() < openHour {
		y, m, d = local.AddDate(0, 0, -1).Date()
	}
	start := time.Date(y, m, d, openHour, 0, 0, 0, r.location())
	end := time.Date(y, m, d, closeHour, 0, 0, 0, r.location()).AddDate(0, 0, 1)
	return Day{
		Date:  start.Format("2006-01-02"),
		Start: start,
		End:   end,
	}
}

// Date is shorthand for Resolve(t).Date.
func (r Resolver) Date(t time.Time) string {
	return r.Resolve(t).Date
}

// DiscountActive reports whether the time-of-day promotion is live at
// instant t given a cutoff minute-of-day. The window is open strictly
// before the cutoff: at 18:59 a 19:00 cutoff is active, at 19:00 it is not.
func (r Resolver) DiscountActive(t time.Time, cutoffMinute int) bool {
	local := t.In(r.location())
	return local.Hour()*60+local.Minute() < cutoffMinute
}

// ParseClock parses an HH:MM time-of-day string into a minute-of-day value
// in [0, 1440). It rejects anything else so that a malformed configured
// cutoff surfaces as a validation error instead of silently disabling the
// promotion.
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid time of day %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}
