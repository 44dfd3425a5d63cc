// Package stats contains the aggregation helpers behind the summary
// endpoints: per-key sums and counts, monthly normalisation of recurring
// amounts and due-window partitioning.
package stats

import (
	"time"

	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/models"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/recurrence"
	"github.com/shopspring/decimal"
)

const monthlyDivPrecision = 8

var (
	weeksPerMonth    = decimal.RequireFromString("4.33")
	monthsPerQuarter = decimal.NewFromInt(3)
	monthsPerYear    = decimal.NewFromInt(12)
)

// ToMonthlyEquivalent normalises amount to a per-month figure:
// weekly x4.33, monthly x1, quarterly /3, yearly /12. An unknown frequency
// returns amount unchanged.
func ToMonthlyEquivalent(amount decimal.Decimal, frequency models.Frequency) decimal.Decimal {
	switch frequency {
	case models.FrequencyWeekly:
		return amount.Mul(weeksPerMonth)
	case models.FrequencyQuarterly:
		return amount.DivRound(monthsPerQuarter, monthlyDivPrecision)
	case models.FrequencyYearly:
		return amount.DivRound(monthsPerYear, monthlyDivPrecision)
	}
	return amount
}

// SumAmounts adds up amount(item) over items.
func SumAmounts[T any](items []T, amount func(T) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(amount(it))
	}
	return total
}

// GroupSumBy sums amount(item) per key(item). Every key present in items
// appears in the result.
func GroupSumBy[T any, K comparable](items []T, key func(T) K, amount func(T) decimal.Decimal) map[K]decimal.Decimal {
	out := make(map[K]decimal.Decimal)
	for _, it := range items {
		k := key(it)
		out[k] = out[k].Add(amount(it))
	}
	return out
}

// GroupCountBy counts items per key(item).
func GroupCountBy[T any, K comparable](items []T, key func(T) K) map[K]int {
	out := make(map[K]int)
	for _, it := range items {
		out[key(it)]++
	}
	return out
}

// PartitionByDueWindow splits payments into those due within the next days
// and those already overdue. A payment lands in at most one bucket. Both
// slices are non-nil.
func PartitionByDueWindow(payments []models.RecurringPayment, now time.Time, days int) (dueSoon, overdue []models.RecurringPayment) {
	dueSoon = []models.RecurringPayment{}
	overdue = []models.RecurringPayment{}
	for _, p := range payments {
		switch {
		case recurrence.IsOverdue(p, now):
			overdue = append(overdue, p)
		case recurrence.IsDueWithin(p, now, days):
			dueSoon = append(dueSoon, p)
		}
	}
	return dueSoon, overdue
}

// MonthlyTotal sums the monthly equivalents of payments.
func MonthlyTotal(payments []models.RecurringPayment) decimal.Decimal {
	return SumAmounts(payments, func(p models.RecurringPayment) decimal.Decimal {
		return ToMonthlyEquivalent(p.Amount, p.Frequency)
	})
}
