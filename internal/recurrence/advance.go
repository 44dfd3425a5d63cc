// Package recurrence holds the date arithmetic and the rollover state machine
// for recurring payments. Everything here is pure: callers pass "now" in and
// persist whatever comes back.
package recurrence

import (
	"errors"
	"fmt"
	"time"

	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/models"
)

// ErrUnknownFrequency is returned for a frequency outside the supported set.
var ErrUnknownFrequency = errors.New("unknown frequency")

// Advance returns the occurrence one frequency step after date.
//
// Month-based steps keep the day of month and clamp it to the length of the
// target month, so Jan 31 + 1 month is Feb 29 in a leap year and Feb 28
// otherwise. Yearly steps clamp Feb 29 to Feb 28. The time of day and
// location are preserved.
func Advance(date time.Time, frequency models.Frequency) (time.Time, error) {
	switch frequency {
	case models.FrequencyWeekly:
		return date.AddDate(0, 0, 7), nil
	case models.FrequencyMonthly:
		return addMonthsClamped(date, 1), nil
	case models.FrequencyQuarterly:
		return addMonthsClamped(date, 3), nil
	case models.FrequencyYearly:
		return addMonthsClamped(date, 12), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownFrequency, frequency)
}

func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	target := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(target.Year(), target.Month(), t.Location()); d > last {
		d = last
	}
	return time.Date(target.Year(), target.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	// Day 0 of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
