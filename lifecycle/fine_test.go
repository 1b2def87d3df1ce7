package lifecycle_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"Gin_postgres_redis_library/lifecycle"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func Test_Fine(t *testing.T) {
	tests := []struct {
		name string
		due  time.Time
		asOf time.Time
		want int64
	}{
		{
			name: "on_due_date_no_fine",
			due:  date(2024, 1, 15),
			asOf: date(2024, 1, 15),
			want: 0,
		},
		{
			name: "before_due_date_no_fine",
			due:  date(2024, 1, 15),
			asOf: date(2024, 1, 10),
			want: 0,
		},
		{
			name: "five_days_overdue",
			due:  date(2024, 1, 15),
			asOf: date(2024, 1, 20),
			want: 50,
		},
		{
			name: "one_day_overdue",
			due:  date(2024, 1, 15),
			asOf: date(2024, 1, 16),
			want: 10,
		},
		{
			name: "partial_day_does_not_count",
			due:  date(2024, 1, 15),
			asOf: date(2024, 1, 15).Add(23 * time.Hour),
			want: 0,
		},
		{
			name: "partial_second_day_charges_one",
			due:  date(2024, 1, 15),
			asOf: date(2024, 1, 16).Add(12 * time.Hour),
			want: 10,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := lifecycle.Fine(tc.due, tc.asOf, lifecycle.DefaultDailyFine)
			assert.Equal(t, tc.want, got)
		})
	}
}

func Test_Fine_CustomRate(t *testing.T) {
	got := lifecycle.Fine(date(2024, 1, 15), date(2024, 1, 18), 25)
	assert.Equal(t, int64(75), got)
}

func Test_DaysOverdue_NegativeBeforeDue(t *testing.T) {
	assert.LessOrEqual(t, lifecycle.DaysOverdue(date(2024, 1, 15), date(2024, 1, 10)), 0)
}
