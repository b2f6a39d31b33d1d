package core

import (
	"time"

	"github.com/shopspring/decimal"
)

const secondsPerDay = 24 * 60 * 60

// Fees is the result of ComputeFees.
type Fees struct {
	DaysHeld     int
	LateDays     int
	BorrowingFee decimal.Decimal
	LateFee      decimal.Decimal
	TotalFee     decimal.Decimal
}

// ComputeFees charges every calendar day held and, on top, every calendar day after the due day.
// Days are UTC calendar days, so the time of day never matters. A return dated before the
// checkout is charged nothing.
func ComputeFees(checkoutDate, dueDate, returnDate time.Time, policy LoanPolicy) Fees {
	daysHeld := max(0, CivilDay(returnDate)-CivilDay(checkoutDate))
	lateDays := max(0, CivilDay(returnDate)-CivilDay(dueDate))

	borrowingFee := policy.BorrowingFeePerDay.Mul(decimal.NewFromInt(daysHeld))
	lateFee := policy.LateFeePerDay.Mul(decimal.NewFromInt(lateDays))

	return Fees{
		DaysHeld:     int(daysHeld),
		LateDays:     int(lateDays),
		BorrowingFee: borrowingFee,
		LateFee:      lateFee,
		TotalFee:     borrowingFee.Add(lateFee),
	}
}

// CivilDay is the number of UTC calendar days since the Unix epoch.
func CivilDay(t time.Time) int64 {
	u := t.UTC()
	midnight := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)

	return floorDiv(midnight.Unix(), secondsPerDay)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}

	return q
}
