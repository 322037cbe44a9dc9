package timeline

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestColumn(t *testing.T) {
	start := date(2025, time.January, 6) // a Monday

	cases := []struct {
		name string
		day  time.Time
		want int
	}{
		{"timeline start", date(2025, time.January, 6), 1},
		{"last day of first week", date(2025, time.January, 12), 1},
		{"first day of second week", date(2025, time.January, 13), 2},
		{"last day of second week", date(2025, time.January, 19), 2},
		{"first day of third week", date(2025, time.January, 20), 3},
		{"before start clamps low", date(2024, time.December, 25), 1},
		{"far future clamps high", date(2026, time.June, 1), 6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Column(tc.day, start, 6); got != tc.want {
				t.Errorf("Column(%s) = %d, want %d", tc.day.Format("2006-01-02"), got, tc.want)
			}
		})
	}
}

func TestColumnAcrossOffsets(t *testing.T) {
	// The same calendar dates must land in the same column no matter
	// what wall-clock offsets they carry.
	loc := time.FixedZone("UTC+5", 5*3600)
	start := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)
	day := time.Date(2025, time.January, 13, 23, 0, 0, 0, loc)

	if got := Column(day, start, 6); got != 2 {
		t.Errorf("Column = %d, want 2", got)
	}
}

func TestWeekStart(t *testing.T) {
	cases := []struct {
		name string
		day  time.Time
		want time.Time
	}{
		{"monday maps to itself", date(2025, time.January, 6), date(2025, time.January, 6)},
		{"wednesday", date(2025, time.January, 8), date(2025, time.January, 6)},
		{"sunday belongs to preceding monday", date(2025, time.January, 12), date(2025, time.January, 6)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := WeekStart(tc.day)
			if !got.Equal(tc.want) {
				t.Errorf("WeekStart(%s) = %s, want %s",
					tc.day.Format("2006-01-02"), got.Format("2006-01-02"), tc.want.Format("2006-01-02"))
			}
		})
	}
}

func TestIsCurrentWeek(t *testing.T) {
	monday := date(2025, time.January, 6)

	t.Run("same week", func(t *testing.T) {
		if !IsCurrentWeek(monday, date(2025, time.January, 9)) {
			t.Error("Thursday is in Monday's week")
		}
	})

	t.Run("next week", func(t *testing.T) {
		if IsCurrentWeek(monday, date(2025, time.January, 13)) {
			t.Error("the following Monday is a different week")
		}
	})

	t.Run("anchor mid-week", func(t *testing.T) {
		if !IsCurrentWeek(date(2025, time.January, 8), date(2025, time.January, 10)) {
			t.Error("both sides normalize to the same Monday")
		}
	})
}
