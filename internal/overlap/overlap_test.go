package overlap

import (
	"errors"
	"testing"
	"time"

	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/models"
	"gorm.io/gorm"
)

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func budget(id string, start, end time.Time) models.Budget {
	return models.Budget{
		Base:       models.Base{ID: id},
		UserID:     "user-1",
		CategoryID: "cat-1",
		StartDate:  start,
		EndDate:    end,
		IsActive:   true,
	}
}

func candidate(start, end time.Time) Candidate {
	return Candidate{UserID: "user-1", CategoryID: "cat-1", StartDate: start, EndDate: end}
}

func TestHasOverlap(t *testing.T) {
	existing := []models.Budget{budget("b1", day(1, 1), day(1, 31))}

	tests := []struct {
		name string
		c    Candidate
		want bool
	}{
		{"touching_end", candidate(day(1, 31), day(2, 15)), true},
		{"touching_start", candidate(day(12, 1).AddDate(-1, 0, 0), day(1, 1)), true},
		{"contained", candidate(day(1, 10), day(1, 20)), true},
		{"containing", candidate(day(1, 1).AddDate(0, 0, -5), day(2, 5)), true},
		{"after", candidate(day(2, 1), day(2, 28)), false},
		{"before", candidate(day(12, 1).AddDate(-1, 0, 0), day(12, 31).AddDate(-1, 0, 0)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasOverlap(tt.c, existing); got != tt.want {
				t.Errorf("HasOverlap = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasOverlapScoping(t *testing.T) {
	t.Run("other_category_ignored", func(t *testing.T) {
		b := budget("b1", day(1, 1), day(1, 31))
		b.CategoryID = "cat-2"
		if HasOverlap(candidate(day(1, 10), day(1, 20)), []models.Budget{b}) {
			t.Error("expected no overlap across categories")
		}
	})

	t.Run("other_user_ignored", func(t *testing.T) {
		b := budget("b1", day(1, 1), day(1, 31))
		b.UserID = "user-2"
		if HasOverlap(candidate(day(1, 10), day(1, 20)), []models.Budget{b}) {
			t.Error("expected no overlap across users")
		}
	})

	t.Run("soft_deleted_ignored", func(t *testing.T) {
		b := budget("b1", day(1, 1), day(1, 31))
		b.DeletedAt = gorm.DeletedAt{Time: day(2, 1), Valid: true}
		if HasOverlap(candidate(day(1, 10), day(1, 20)), []models.Budget{b}) {
			t.Error("expected soft-deleted budget to be ignored")
		}
	})

	t.Run("inactive_still_blocks", func(t *testing.T) {
		b := budget("b1", day(1, 1), day(1, 31))
		b.IsActive = false
		if !HasOverlap(candidate(day(1, 10), day(1, 20)), []models.Budget{b}) {
			t.Error("expected inactive budget to block")
		}
	})

	t.Run("excluded_self", func(t *testing.T) {
		c := candidate(day(1, 5), day(1, 25))
		c.ExcludeID = "b1"
		if HasOverlap(c, []models.Budget{budget("b1", day(1, 1), day(1, 31))}) {
			t.Error("expected a budget not to conflict with itself")
		}
	})
}

func TestOverlapIsSymmetric(t *testing.T) {
	windows := [][2]time.Time{
		{day(1, 1), day(1, 31)},
		{day(1, 31), day(2, 15)},
		{day(2, 1), day(2, 28)},
		{day(1, 10), day(1, 12)},
		{day(3, 1), day(3, 31)},
	}

	for i, a := range windows {
		for j, b := range windows {
			ab := HasOverlap(candidate(a[0], a[1]), []models.Budget{budget("x", b[0], b[1])})
			ba := HasOverlap(candidate(b[0], b[1]), []models.Budget{budget("y", a[0], a[1])})
			if ab != ba {
				t.Errorf("windows %d and %d: overlap(a,b)=%v overlap(b,a)=%v", i, j, ab, ba)
			}
		}
	}
}

func TestConflicts(t *testing.T) {
	existing := []models.Budget{
		budget("b1", day(1, 1), day(1, 31)),
		budget("b2", day(2, 1), day(2, 29)),
		budget("b3", day(4, 1), day(4, 30)),
	}

	got := Conflicts(candidate(day(1, 15), day(2, 10)), existing)
	if len(got) != 2 {
		t.Fatalf("expected 2 conflicts, got %d", len(got))
	}
	if got[0].ID != "b1" || got[1].ID != "b2" {
		t.Errorf("unexpected conflicts: %s, %s", got[0].ID, got[1].ID)
	}
}

func TestValidateRange(t *testing.T) {
	if err := ValidateRange(day(1, 1), day(1, 2)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateRange(day(1, 1), day(1, 1)); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange for equal dates, got %v", err)
	}
	if err := ValidateRange(day(1, 2), day(1, 1)); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange for reversed dates, got %v", err)
	}
}
