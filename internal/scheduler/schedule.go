package scheduler

import (
	"time"

	"moneta/internal/models"
)

// NextExecution advances an occurrence date by one period. Monthly and yearly
// advances keep the day-of-month, clamped to the target month's length
// (Jan 31 -> Feb 28/29, never rolling into March).
func NextExecution(current time.Time, frequency models.Frequency) time.Time {
	switch frequency {
	case models.FrequencyDaily:
		return current.AddDate(0, 0, 1)
	case models.FrequencyWeekly:
		return current.AddDate(0, 0, 7)
	case models.FrequencyMonthly:
		return addMonthsClamped(current, 1)
	case models.FrequencyYearly:
		return addMonthsClamped(current, 12)
	default:
		return current.AddDate(0, 0, 1)
	}
}

// addMonthsClamped adds months without the normalization time.AddDate does
// (which would roll Jan 31 + 1 month into March 3).
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	m := int(month) + months
	year += (m - 1) / 12
	month = time.Month((m-1)%12 + 1)

	if max := daysIn(year, month); day > max {
		day = max
	}

	h, min, sec := t.Clock()
	return time.Date(year, month, day, h, min, sec, t.Nanosecond(), t.Location())
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
