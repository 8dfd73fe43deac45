package util

import "math"

var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// dayNames is indexed by the PostgreSQL DOW extract, Sunday first.
var dayNames = [...]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// dayDisplayOrder lists DOW values Monday first, the order distribution
// responses are rendered in.
var dayDisplayOrder = [...]int32{1, 2, 3, 4, 5, 6, 0}

// Percentage returns part/total as a percentage rounded to one decimal.
// A zero total yields 0 rather than NaN.
func Percentage(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}

// MonthName maps a 1-12 month number to its English name.
func MonthName(month int32) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

// DayOfWeekName maps a PostgreSQL DOW value (0 = Sunday) to its English name.
func DayOfWeekName(dow int32) string {
	if dow < 0 || dow > 6 {
		return ""
	}
	return dayNames[dow]
}

// MonthOrder returns the calendar position of a month, used to sort
// month distributions January first.
func MonthOrder(month int32) int {
	return int(month)
}

// DayOfWeekOrder returns the display position of a DOW value, Monday first.
func DayOfWeekOrder(dow int32) int {
	for i, d := range dayDisplayOrder {
		if d == dow {
			return i
		}
	}
	return len(dayDisplayOrder)
}
