package recurrence

import (
	"errors"
	"math"
	"time"

	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/models"
)

var (
	// ErrPaymentNotActive is the rollover guard failure: the payment has ended
	// or was soft-deleted. Callers surface it as not-found.
	ErrPaymentNotActive = errors.New("recurring payment is not active")
	// ErrDueDateNotFuture rejects a next due date at or before now.
	ErrDueDateNotFuture = errors.New("next due date must be in the future")
	// ErrDueDateNotBeforeEnd rejects a next due date at or after the end date.
	ErrDueDateNotBeforeEnd = errors.New("next due date must be before end date")
)

// State is the lifecycle state of a recurring payment.
type State string

const (
	StateActive State = "active"
	StateEnded  State = "ended"
)

// StateOf reports the lifecycle state of p.
func StateOf(p models.RecurringPayment) State {
	if p.IsActive {
		return StateActive
	}
	return StateEnded
}

// CheckRollover is the precondition of Rollover.
func CheckRollover(p models.RecurringPayment) error {
	if !p.IsActive || p.IsDeleted() {
		return ErrPaymentNotActive
	}
	return nil
}

// Rollover advances p by exactly one period from its current NextDueDate,
// however late it is called. If the new date falls after EndDate the payment
// ends; the computed date is kept either way. p itself is not modified.
func Rollover(p models.RecurringPayment) (models.RecurringPayment, error) {
	if err := CheckRollover(p); err != nil {
		return p, err
	}

	next, err := Advance(p.NextDueDate, p.Frequency)
	if err != nil {
		return p, err
	}

	out := p
	out.Tags = append([]string(nil), p.Tags...)
	out.NextDueDate = next
	if p.EndDate != nil && next.After(*p.EndDate) {
		out.IsActive = false
	}
	return out, nil
}

// DaysUntil returns ceil((due - now) / 1 day). Negative values mean overdue.
func DaysUntil(due, now time.Time) int {
	days := math.Ceil(due.Sub(now).Hours() / 24)
	if days == 0 {
		// ceil of a small negative fraction is -0
		return 0
	}
	return int(days)
}

// IsDueWithin reports whether p falls due between now and now+days.
func IsDueWithin(p models.RecurringPayment, now time.Time, days int) bool {
	d := DaysUntil(p.NextDueDate, now)
	return d >= 0 && d <= days
}

// IsOverdue reports whether p's due date has passed by at least a day boundary.
func IsOverdue(p models.RecurringPayment, now time.Time) bool {
	return DaysUntil(p.NextDueDate, now) < 0
}

// ValidateSchedule checks the create/update rules: nextDue strictly after
// now, and strictly before endDate when one is set.
func ValidateSchedule(nextDue time.Time, endDate *time.Time, now time.Time) error {
	if !nextDue.After(now) {
		return ErrDueDateNotFuture
	}
	return ValidateEndDate(nextDue, endDate)
}

// ValidateEndDate checks only the nextDue < endDate rule.
func ValidateEndDate(nextDue time.Time, endDate *time.Time) error {
	if endDate != nil && !nextDue.Before(*endDate) {
		return ErrDueDateNotBeforeEnd
	}
	return nil
}
