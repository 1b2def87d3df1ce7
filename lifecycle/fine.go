package lifecycle

import "time"

// DefaultDailyFine is the charge per whole day a book is overdue,
// overridable via FINE_PER_DAY.
const DefaultDailyFine int64 = 10

const day = 24 * time.Hour

// DaysOverdue is the number of whole days asOf is past due. Partial days do
// not count; on or before the due date it is <= 0.
func DaysOverdue(due, asOf time.Time) int {
	return int(asOf.Sub(due) / day)
}

// Fine computes the overdue charge at the given daily rate. Never negative.
func Fine(due, asOf time.Time, dailyRate int64) int64 {
	d := DaysOverdue(due, asOf)
	if d <= 0 {
		return 0
	}
	return int64(d) * dailyRate
}
