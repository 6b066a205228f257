package pricing

import (
	"testing"
	"time"
)

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func TestNights(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     int
	}{
		{"same day clamps to one", date(2024, 1, 1), date(2024, 1, 1), 1},
		{"reversed range clamps to one", date(2024, 1, 5), date(2024, 1, 1), 1},
		{"one night", date(2024, 1, 1), date(2024, 1, 2), 1},
		{"three nights", date(2024, 1, 1), date(2024, 1, 4), 3},
		{"across month end", date(2024, 1, 30), date(2024, 2, 2), 3},
		{"leap day", date(2024, 2, 28), date(2024, 3, 1), 2},
		{"four centuries", date(2000, 1, 1), date(2400, 1, 1), 146097},
		{"whole calendar", date(1, 1, 1), date(9999, 12, 31), 3652058},
		{
			"time of day ignored",
			time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 2, 1, 0, 0, 0, time.UTC),
			1,
		},
		{
			"location ignored",
			time.Date(2024, 3, 30, 12, 0, 0, 0, time.FixedZone("UTC+5", 5*3600)),
			date(2024, 4, 2),
			3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Nights(tt.checkIn, tt.checkOut); got != tt.want {
				t.Fatalf("Nights() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStayCost(t *testing.T) {
	t.Parallel()

	if got := StayCost(100, date(2024, 1, 1), date(2024, 1, 4)); got != 300 {
		t.Fatalf("StayCost() = %d, want 300", got)
	}

	d := date(2024, 6, 10)
	if StayCost(150, d, d) != StayCost(150, d, d.AddDate(0, 0, 1)) {
		t.Fatal("zero-length stay must cost the same as a one night stay")
	}
}

func TestStayCostMonotonic(t *testing.T) {
	t.Parallel()

	checkIn := date(2024, 1, 1)
	prev := 0

	for n := -3; n <= 30; n++ {
		cost := StayCost(80, checkIn, checkIn.AddDate(0, 0, n))
		if cost < prev {
			t.Fatalf("cost decreased at %d nights: %d < %d", n, cost, prev)
		}

		prev = cost
	}
}
