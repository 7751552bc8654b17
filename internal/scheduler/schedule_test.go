package scheduler

import (
	"testing"
	"time"

	"moneta/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextExecution(t *testing.T) {
	tests := []struct {
		name      string
		current   time.Time
		frequency models.Frequency
		want      time.Time
	}{
		{"daily", date(2026, 3, 15), models.FrequencyDaily, date(2026, 3, 16)},
		{"daily_month_rollover", date(2026, 1, 31), models.FrequencyDaily, date(2026, 2, 1)},
		{"weekly", date(2026, 3, 15), models.FrequencyWeekly, date(2026, 3, 22)},
		{"monthly", date(2026, 3, 15), models.FrequencyMonthly, date(2026, 4, 15)},
		{"monthly_clamps_to_feb", date(2026, 1, 31), models.FrequencyMonthly, date(2026, 2, 28)},
		{"monthly_clamps_to_feb_leap", date(2028, 1, 31), models.FrequencyMonthly, date(2028, 2, 29)},
		{"monthly_clamps_30_day_month", date(2026, 3, 31), models.FrequencyMonthly, date(2026, 4, 30)},
		{"monthly_year_rollover", date(2026, 12, 10), models.FrequencyMonthly, date(2027, 1, 10)},
		{"yearly", date(2026, 6, 1), models.FrequencyYearly, date(2027, 6, 1)},
		{"yearly_leap_day_clamps", date(2028, 2, 29), models.FrequencyYearly, date(2029, 2, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextExecution(tt.current, tt.frequency)
			if !got.Equal(tt.want) {
				t.Errorf("NextExecution(%v, %s) = %v, want %v", tt.current, tt.frequency, got, tt.want)
			}
		})
	}
}

func TestNextExecutionPreservesClock(t *testing.T) {
	current := time.Date(2026, 1, 31, 9, 30, 0, 0, time.UTC)
	got := NextExecution(current, models.FrequencyMonthly)
	want := time.Date(2026, 2, 28, 9, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
