// Package datetime provides month arithmetic for payment schedules.
package datetime

import (
	"time"

	"github.com/calk-kg/calk/pkg/constants"
)

const (
	// DateTimeLayout is the month format used in payment schedules.
	DateTimeLayout = constants.DateTimeLayout
)

// StartMonth truncates a timestamp to the first day of its month so that
// month offsets never overflow into the following month (e.g. Jan 31 + 1).
func StartMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthLabel returns the YYYY-MM label of the month that is offset months
// after the month containing start.
func MonthLabel(start time.Time, offset int) string {
	return StartMonth(start).AddDate(0, offset, 0).Format(DateTimeLayout)
}
