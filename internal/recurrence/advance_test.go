package recurrence

import (
	"errors"
	"testing"
	"time"

	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAdvance(t *testing.T) {
	tests := []struct {
		name      string
		from      time.Time
		frequency models.Frequency
		want      time.Time
	}{
		{"weekly", date(2024, 1, 10), models.FrequencyWeekly, date(2024, 1, 17)},
		{"weekly_crosses_month", date(2024, 1, 29), models.FrequencyWeekly, date(2024, 2, 5)},
		{"monthly", date(2024, 1, 10), models.FrequencyMonthly, date(2024, 2, 10)},
		{"monthly_clamps_leap_february", date(2024, 1, 31), models.FrequencyMonthly, date(2024, 2, 29)},
		{"monthly_clamps_february", date(2023, 1, 31), models.FrequencyMonthly, date(2023, 2, 28)},
		{"monthly_clamps_thirty_day_month", date(2024, 3, 31), models.FrequencyMonthly, date(2024, 4, 30)},
		{"monthly_crosses_year", date(2024, 12, 15), models.FrequencyMonthly, date(2025, 1, 15)},
		{"quarterly", date(2024, 1, 15), models.FrequencyQuarterly, date(2024, 4, 15)},
		{"quarterly_clamps", date(2024, 11, 30), models.FrequencyQuarterly, date(2025, 2, 28)},
		{"yearly", date(2024, 6, 1), models.FrequencyYearly, date(2025, 6, 1)},
		{"yearly_from_leap_day", date(2024, 2, 29), models.FrequencyYearly, date(2025, 2, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Advance(tt.from, tt.frequency)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Advance(%s, %s) = %s, want %s", tt.from.Format(time.DateOnly), tt.frequency,
					got.Format(time.DateOnly), tt.want.Format(time.DateOnly))
			}
		})
	}
}

func TestAdvancePreservesTimeOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	from := time.Date(2024, 1, 31, 9, 30, 15, 0, loc)

	got, err := Advance(from, models.FrequencyMonthly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 2, 29, 9, 30, 15, 0, loc)
	if !got.Equal(want) || got.Location() != loc {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestAdvanceIsStrictlyIncreasing(t *testing.T) {
	for _, f := range models.Frequencies {
		d := date(2023, 12, 31)
		for i := 0; i < 40; i++ {
			next, err := Advance(d, f)
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", f, err)
			}
			if !next.After(d) {
				t.Fatalf("%s: %s did not advance past %s", f, next, d)
			}
			d = next
		}
	}
}

func TestAdvanceUnknownFrequency(t *testing.T) {
	_, err := Advance(date(2024, 1, 1), models.Frequency("daily"))
	if !errors.Is(err, ErrUnknownFrequency) {
		t.Errorf("expected ErrUnknownFrequency, got %v", err)
	}
}
