// Package pricing computes the cost of a stay. Cart display, receipts and the
// HTTP API all go through StayCost so that a line item and the total it feeds
// can never disagree.
package pricing

import "time"

const secondsPerDay = 24 * 60 * 60

func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Nights is the number of calendar days between the two dates, never less than one.
// Time of day and location are ignored.
func Nights(checkIn, checkOut time.Time) int {
	nights := int((calendarDate(checkOut).Unix() - calendarDate(checkIn).Unix()) / secondsPerDay)
	if nights < 1 {
		return 1
	}

	return nights
}

func StayCost(nightly int, checkIn, checkOut time.Time) int {
	return nightly * Nights(checkIn, checkOut)
}
