// Package overlap decides whether a proposed budget window collides with an
// existing budget for the same user and category.
package overlap

import (
	"errors"
	"time"

	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/models"
)

// ErrInvalidRange is returned when a window does not start strictly before it ends.
var ErrInvalidRange = errors.New("start date must be before end date")

// Candidate is a budget window being created or updated. ExcludeID names the
// budget under update so that it never conflicts with itself.
type Candidate struct {
	UserID     string
	CategoryID string
	StartDate  time.Time
	EndDate    time.Time
	ExcludeID  string
}

// ValidateRange requires start < end.
func ValidateRange(start, end time.Time) error {
	if !start.Before(end) {
		return ErrInvalidRange
	}
	return nil
}

// Intersects reports whether the closed intervals [aStart, aEnd] and
// [bStart, bEnd] share at least one instant. Touching endpoints intersect.
func Intersects(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !bStart.After(aEnd) && !bEnd.Before(aStart)
}

// Conflicts returns the budgets in existing that block c: same user, same
// category, not soft-deleted, not c itself, and with an intersecting window.
// The IsActive flag is deliberately ignored.
func Conflicts(c Candidate, existing []models.Budget) []models.Budget {
	var out []models.Budget
	for _, b := range existing {
		if !applies(c, b) {
			continue
		}
		if Intersects(c.StartDate, c.EndDate, b.StartDate, b.EndDate) {
			out = append(out, b)
		}
	}
	return out
}

// HasOverlap reports whether any budget in existing conflicts with c.
func HasOverlap(c Candidate, existing []models.Budget) bool {
	for _, b := range existing {
		if applies(c, b) && Intersects(c.StartDate, c.EndDate, b.StartDate, b.EndDate) {
			return true
		}
	}
	return false
}

func applies(c Candidate, b models.Budget) bool {
	if b.IsDeleted() || b.UserID != c.UserID || b.CategoryID != c.CategoryID {
		return false
	}
	return c.ExcludeID == "" || b.ID != c.ExcludeID
}
