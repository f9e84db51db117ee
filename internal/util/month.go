package util

import "time"

// DateKeyLayout is the bucket key format for daily spending series
const DateKeyLayout = "2006-01-02"

// DaysInMonth returns the number of calendar days in the given month
func DaysInMonth(year, month int) int {
	// Day 0 of the next month is the last day of this one
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthBounds returns the first day of the month and the first day of the
// next month, suitable for half-open [start, end) range queries
func MonthBounds(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// DateKey formats a time as a daily-series bucket key
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// TruncateToDay strips the time-of-day component
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
