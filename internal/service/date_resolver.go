package service

import (
	"errors"
	"fmt"
	"time"

	"doctor-booking/internal/domain/entity"
	"doctor-booking/pkg/calendar"
)

var ErrUnknownWeekday = errors.New("unknown weekday")

// VisitTime is a concrete instant a weekly slot resolves to.
type VisitTime struct {
	At      time.Time
	Display string // "YYYY/MM/DD HH:mm" in the display calendar
	Date    string // "YYYY/MM/DD" in the display calendar
}

// DateResolver maps weekly grid positions onto the calendar in the clinic's
// timezone and formats them in the display calendar.
type DateResolver struct {
	location *time.Location
	calendar calendar.Calendar
}

func NewDateResolver(location *time.Location, cal calendar.Calendar) *DateResolver {
	if location == nil {
		location = time.UTC
	}
	if cal == nil {
		cal = calendar.Gregorian{}
	}
	return &DateResolver{location: location, calendar: cal}
}

// NextOccurrence returns the first date on or after now's date that falls on
// weekday, at tod with seconds zeroed. Pure given now.
func (r *DateResolver) NextOccurrence(weekday entity.Weekday, tod entity.TimeOfDay, now time.Time) (VisitTime, error) {
	target, ok := weekday.TimeWeekday()
	if !ok {
		return VisitTime{}, fmt.Errorf("%w: %q", ErrUnknownWeekday, weekday)
	}

	local := now.In(r.location)
	delta := (int(target) - int(local.Weekday()) + 7) % 7
	day := local.AddDate(0, 0, delta)
	at := time.Date(day.Year(), day.Month(), day.Day(), tod.Hour, tod.Minute, 0, 0, r.location)

	return VisitTime{
		At:      at,
		Display: r.calendar.FormatDateTime(at),
		Date:    r.calendar.FormatDate(at),
	}, nil
}

// Today returns now's date in the display calendar.
func (r *DateResolver) Today(now time.Time) string {
	return r.calendar.FormatDate(now.In(r.location))
}

// IsPast reports whether visit is today and its time of day is already behind
// now's wall clock.
func (r *DateResolver) IsPast(visit VisitTime, tod entity.TimeOfDay, now time.Time) bool {
	if visit.Date != r.Today(now) {
		return false
	}
	local := now.In(r.location)
	return tod.Minutes() < local.Hour()*60+local.Minute()
}
