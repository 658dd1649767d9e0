package entity

import (
	"strings"
	"time"
)

// Weekday is a day of the business week. The week starts on Saturday.
type Weekday string

const (
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
)

// Weekdays lists the business week in display order.
var Weekdays = []Weekday{Saturday, Sunday, Monday, Tuesday, Wednesday, Thursday, Friday}

// weekdayToTime maps the business week onto Go's Sunday-based numbering.
var weekdayToTime = map[Weekday]time.Weekday{
	Saturday:  time.Saturday,
	Sunday:    time.Sunday,
	Monday:    time.Monday,
	Tuesday:   time.Tuesday,
	Wednesday: time.Wednesday,
	Thursday:  time.Thursday,
	Friday:    time.Friday,
}

// ParseWeekday accepts a weekday name in any case.
func ParseWeekday(s string) (Weekday, bool) {
	w := Weekday(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := weekdayToTime[w]; !ok {
		return "", false
	}
	return w, true
}

func (w Weekday) IsValid() bool {
	_, ok := weekdayToTime[w]
	return ok
}

// TimeWeekday returns the runtime day-of-week for w.
func (w Weekday) TimeWeekday() (time.Weekday, bool) {
	tw, ok := weekdayToTime[w]
	return tw, ok
}

// Position returns the zero-based index of w in the business week, or -1.
func (w Weekday) Position() int {
	for i, d := range Weekdays {
		if d == w {
			return i
		}
	}
	return -1
}
