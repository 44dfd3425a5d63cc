package stats

import (
	"testing"
	"time"

	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/models"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestToMonthlyEquivalent(t *testing.T) {
	tests := []struct {
		frequency models.Frequency
		amount    string
		want      string
	}{
		{models.FrequencyWeekly, "100", "433"},
		{models.FrequencyMonthly, "100", "100"},
		{models.FrequencyQuarterly, "300", "100"},
		{models.FrequencyYearly, "1200", "100"},
		{models.FrequencyYearly, "100", "8.33333333"},
		{models.Frequency("daily"), "42", "42"},
	}

	for _, tt := range tests {
		t.Run(string(tt.frequency), func(t *testing.T) {
			got := ToMonthlyEquivalent(dec(tt.amount), tt.frequency)
			if !got.Equal(dec(tt.want)) {
				t.Errorf("ToMonthlyEquivalent(%s, %s) = %s, want %s", tt.amount, tt.frequency, got, tt.want)
			}
		})
	}
}

type item struct {
	category string
	amount   decimal.Decimal
}

func TestGroupSumBy(t *testing.T) {
	items := []item{
		{"food", dec("10.50")},
		{"rent", dec("1000")},
		{"food", dec("4.50")},
	}

	got := GroupSumBy(items, func(i item) string { return i.category }, func(i item) decimal.Decimal { return i.amount })

	if len(got) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(got))
	}
	if !got["food"].Equal(dec("15")) {
		t.Errorf("expected food 15, got %s", got["food"])
	}
	if !got["rent"].Equal(dec("1000")) {
		t.Errorf("expected rent 1000, got %s", got["rent"])
	}

	total := SumAmounts(items, func(i item) decimal.Decimal { return i.amount })
	groupTotal := decimal.Zero
	for _, v := range got {
		groupTotal = groupTotal.Add(v)
	}
	if !total.Equal(groupTotal) {
		t.Errorf("group sums %s do not add up to total %s", groupTotal, total)
	}
}

func TestGroupSumByEmpty(t *testing.T) {
	got := GroupSumBy([]item{}, func(i item) string { return i.category }, func(i item) decimal.Decimal { return i.amount })
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil map, got %v", got)
	}
}

func TestGroupCountBy(t *testing.T) {
	items := []item{{"a", decimal.Zero}, {"b", decimal.Zero}, {"a", decimal.Zero}}

	got := GroupCountBy(items, func(i item) string { return i.category })
	if got["a"] != 2 || got["b"] != 1 {
		t.Errorf("unexpected counts: %v", got)
	}
}

func TestSumAmountsEmpty(t *testing.T) {
	amount := func(i item) decimal.Decimal { return i.amount }
	if got := SumAmounts(nil, amount); !got.IsZero() {
		t.Errorf("expected 0 for nil input, got %s", got)
	}
	if got := SumAmounts([]item{}, amount); !got.IsZero() {
		t.Errorf("expected 0 for empty input, got %s", got)
	}
}

func TestGroupCountByEmpty(t *testing.T) {
	got := GroupCountBy(nil, func(i item) string { return i.category })
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil map, got %v", got)
	}
}

func TestPartitionByDueWindow(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	payment := func(name string, due time.Time) models.RecurringPayment {
		return models.RecurringPayment{Name: name, NextDueDate: due, IsActive: true, Frequency: models.FrequencyMonthly}
	}

	payments := []models.RecurringPayment{
		payment("tomorrow", now.AddDate(0, 0, 1)),
		payment("next_month", now.AddDate(0, 1, 0)),
		payment("last_week", now.AddDate(0, 0, -7)),
		payment("an_hour_ago", now.Add(-time.Hour)),
	}

	dueSoon, overdue := PartitionByDueWindow(payments, now, 7)

	if len(dueSoon) != 2 || dueSoon[0].Name != "tomorrow" || dueSoon[1].Name != "an_hour_ago" {
		t.Errorf("unexpected due soon: %+v", dueSoon)
	}
	if len(overdue) != 1 || overdue[0].Name != "last_week" {
		t.Errorf("unexpected overdue: %+v", overdue)
	}
}

func TestPartitionByDueWindowEmpty(t *testing.T) {
	dueSoon, overdue := PartitionByDueWindow(nil, time.Now(), 7)
	if dueSoon == nil || overdue == nil {
		t.Error("expected non-nil empty slices")
	}
}

func TestMonthlyTotal(t *testing.T) {
	payments := []models.RecurringPayment{
		{Amount: dec("100"), Frequency: models.FrequencyWeekly},
		{Amount: dec("1200"), Frequency: models.FrequencyYearly},
		{Amount: dec("50"), Frequency: models.FrequencyMonthly},
	}

	if got := MonthlyTotal(payments); !got.Equal(dec("583")) {
		t.Errorf("expected 583, got %s", got)
	}
}

func TestMonthlyTotalEmpty(t *testing.T) {
	if got := MonthlyTotal(nil); !got.IsZero() {
		t.Errorf("expected 0, got %s", got)
	}
}
