package entity

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

var ErrMalformedTimeOfDay = errors.New("time of day must be HH:MM in 24h format")

var timeOfDayPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// TimeOfDay is a wall-clock time with minute resolution.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	m := timeOfDayPattern.FindStringSubmatch(s)
	if m == nil {
		return TimeOfDay{}, ErrMalformedTimeOfDay
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// IsTimeOfDay reports whether s is a well-formed HH:MM value.
func IsTimeOfDay(s string) bool {
	return timeOfDayPattern.MatchString(s)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Minutes returns the number of minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Minutes() < other.Minutes()
}
