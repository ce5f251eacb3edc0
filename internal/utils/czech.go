package utils

import (
	"fmt"
	"time"
)

var czechWeekdays = [...]string{
	time.Sunday:    "neděle",
	time.Monday:    "pondělí",
	time.Tuesday:   "úterý",
	time.Wednesday: "středa",
	time.Thursday:  "čtvrtek",
	time.Friday:    "pátek",
	time.Saturday:  "sobota",
}

// Genitive month names, as used after a day number.
var czechMonths = [...]string{
	time.January:   "ledna",
	time.February:  "února",
	time.March:     "března",
	time.April:     "dubna",
	time.May:       "května",
	time.June:      "června",
	time.July:      "července",
	time.August:    "srpna",
	time.September: "září",
	time.October:   "října",
	time.November:  "listopadu",
	time.December:  "prosince",
}

// FormatCzechDate renders a long Czech date, e.g. "úterý 20. října 2026".
func FormatCzechDate(t time.Time) string {
	return fmt.Sprintf("%s %d. %s %d", czechWeekdays[t.Weekday()], t.Day(), czechMonths[t.Month()], t.Year())
}

// FormatCzechDateString formats a YYYY-MM-DD date and returns the input
// unchanged when it cannot be parsed.
func FormatCzechDateString(date string) string {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return FormatCzechDate(d)
}
