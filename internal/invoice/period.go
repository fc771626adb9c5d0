// Package invoice computes credit card billing periods. A billing period
// runs from the day after the previous closing day through the current
// closing day; totals are aggregated over it by the invoice service.
package invoice

import (
	"time"

	apperrors "centavo/internal/errors"
	"centavo/internal/series"
)

// Period is the closing-day-bounded date range of one credit card cycle.
// Both bounds are inclusive calendar dates.
type Period struct {
	Start      time.Time `json:"period_start"`
	End        time.Time `json:"period_end"`
	ClosingDay int       `json:"closing_day"`
	DueDay     *int      `json:"due_day,omitempty"`
}

// ResolvePeriod returns the billing period the reference date falls into.
// When the reference day is on or before the closing day the period closes
// this month; otherwise it closes next month. In months shorter than the
// closing day the close clamps to the last day of the month.
func ResolvePeriod(closingDay int, referenceDate time.Time) (Period, error) {
	if closingDay < 1 || closingDay > 31 {
		return Period{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "closing day must be between 1 and 31")
	}

	ref := series.Day(referenceDate)
	end := closingDate(ref.Year(), ref.Month(), closingDay)
	if ref.After(end) {
		next := ref.AddDate(0, 0, -ref.Day()+1).AddDate(0, 1, 0)
		end = closingDate(next.Year(), next.Month(), closingDay)
	}

	prevMonth := end.AddDate(0, 0, -end.Day()+1).AddDate(0, -1, 0)
	start := closingDate(prevMonth.Year(), prevMonth.Month(), closingDay).AddDate(0, 0, 1)

	return Period{Start: start, End: end, ClosingDay: closingDay}, nil
}

// Contains reports whether the calendar date falls inside the period.
func (p Period) Contains(date time.Time) bool {
	d := series.Day(date)
	return !d.Before(p.Start) && !d.After(p.End)
}

func closingDate(year int, month time.Month, closingDay int) time.Time {
	day := closingDay
	if last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day(); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
