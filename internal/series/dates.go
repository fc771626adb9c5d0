package series

import "time"

// Day normalizes a timestamp to a calendar date (midnight UTC). All series
// math operates on calendar dates; clock components are never significant.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// AddMonthsClamped advances a calendar date by the given number of months,
// preserving the day-of-month of the origin date where the target month has
// enough days and clamping to the last valid day where it does not. The
// origin day is remembered, so a series started on the 31st returns to the
// 31st after passing through a short month.
func AddMonthsClamped(start time.Time, months int) time.Time {
	start = Day(start)
	if months == 0 {
		return start
	}

	year, month, day := start.Date()
	target := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, time.UTC)

	if last := daysIn(target.Year(), target.Month()); day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
