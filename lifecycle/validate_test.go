package lifecycle_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"Gin_postgres_redis_library/lifecycle"
)

func Test_ValidateWindow(t *testing.T) {
	tests := []struct {
		name    string
		from    time.Time
		to      time.Time
		wantErr bool
	}{
		{
			name: "fourteen_days_ok",
			from: date(2024, 1, 1),
			to:   date(2024, 1, 15),
		},
		{
			name: "one_day_minimum_ok",
			from: date(2024, 1, 1),
			to:   date(2024, 1, 2),
		},
		{
			name: "ninety_days_maximum_ok",
			from: date(2024, 1, 1),
			to:   date(2024, 1, 1).AddDate(0, 0, 90),
		},
		{
			name:    "ninety_one_days_too_long",
			from:    date(2024, 1, 1),
			to:      date(2024, 1, 1).AddDate(0, 0, 91),
			wantErr: true,
		},
		{
			name:    "same_day_rejected",
			from:    date(2024, 1, 1),
			to:      date(2024, 1, 1),
			wantErr: true,
		},
		{
			name:    "to_before_from_rejected",
			from:    date(2024, 1, 15),
			to:      date(2024, 1, 1),
			wantErr: true,
		},
		{
			name:    "missing_from_rejected",
			to:      date(2024, 1, 15),
			wantErr: true,
		},
		{
			name:    "missing_to_rejected",
			from:    date(2024, 1, 1),
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := lifecycle.ValidateWindow(tc.from, tc.to)
			if tc.wantErr {
				assert.Error(t, err)
				assert.Equal(t, lifecycle.KindValidation, lifecycle.KindOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func Test_LoanDuration_RoundsUp(t *testing.T) {
	from := date(2024, 1, 1)
	to := date(2024, 1, 2).Add(6 * time.Hour)
	assert.Equal(t, 2, lifecycle.LoanDuration(from, to))
}
