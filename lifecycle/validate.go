package lifecycle

import "time"

const (
	MinLoanDays = 1
	MaxLoanDays = 90
)

// LoanDuration is the requested window in days, rounded up so a partial day
// counts as a full one.
func LoanDuration(from, to time.Time) int {
	d := to.Sub(from)
	days := int(d / day)
	if d%day != 0 {
		days++
	}
	return days
}

// ValidateWindow checks a member-requested borrowing window: both dates set,
// toDate strictly after fromDate, duration within [MinLoanDays, MaxLoanDays].
func ValidateWindow(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return E(KindValidation, "both fromDate and toDate are required")
	}
	if !to.After(from) {
		return E(KindValidation, "toDate must be after fromDate")
	}
	if d := LoanDuration(from, to); d < MinLoanDays || d > MaxLoanDays {
		return E(KindValidation, "duration must be between 1 and 90 days")
	}
	return nil
}
