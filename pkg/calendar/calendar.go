package calendar

import (
	"fmt"
	"strings"
	"time"

	ptime "github.com/yaa110/go-persian-calendar"
)

const (
	NameGregorian = "gregorian"
	NamePersian   = "persian"
)

// Calendar renders instants in a display calendar as "YYYY/MM/DD HH:mm".
// Conversions use the location already attached to the time value.
type Calendar interface {
	Name() string
	FormatDate(t time.Time) string
	FormatDateTime(t time.Time) string
}

// New returns the calendar registered under name.
func New(name string) (Calendar, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NamePersian:
		return Persian{}, nil
	case NameGregorian, "":
		return Gregorian{}, nil
	default:
		return nil, fmt.Errorf("unknown display calendar %q", name)
	}
}

type Gregorian struct{}

func (Gregorian) Name() string { return NameGregorian }

func (Gregorian) FormatDate(t time.Time) string {
	return t.Format("2006/01/02")
}

func (Gregorian) FormatDateTime(t time.Time) string {
	return t.Format("2006/01/02 15:04")
}

// Persian is the Solar Hijri (jalali) calendar.
type Persian struct{}

func (Persian) Name() string { return NamePersian }

func (Persian) FormatDate(t time.Time) string {
	pt := ptime.New(t)
	return fmt.Sprintf("%04d/%02d/%02d", pt.Year(), int(pt.Month()), pt.Day())
}

func (p Persian) FormatDateTime(t time.Time) string {
	return fmt.Sprintf("%s %02d:%02d", p.FormatDate(t), t.Hour(), t.Minute())
}
