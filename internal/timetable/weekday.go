package timetable

import (
	"fmt"
	"time"

	appErrors "github.com/bekzod-dev/maktab-api/pkg/errors"
)

// Weekday is the canonical internal day-of-week numbering, Monday=1 through
// Sunday=7. The lowercase English names used on the wire and Go's
// time.Weekday (Sunday=0) are converted here and nowhere else.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{
	Monday:    "monday",
	Tuesday:   "tuesday",
	Wednesday: "wednesday",
	Thursday:  "thursday",
	Friday:    "friday",
	Saturday:  "saturday",
	Sunday:    "sunday",
}

// Valid reports whether d is one of Monday..Sunday.
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

// String returns the lowercase wire name.
func (d Weekday) String() string {
	if !d.Valid() {
		return fmt.Sprintf("weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// ParseWeekday resolves a lowercase English weekday name.
func ParseWeekday(name string) (Weekday, error) {
	for d := Monday; d <= Sunday; d++ {
		if weekdayNames[d] == name {
			return d, nil
		}
	}
	return 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day_of_week %q", name))
}

// WeekdayOf converts a calendar date to the canonical numbering.
func WeekdayOf(t time.Time) Weekday {
	wd := t.Weekday()
	if wd == time.Sunday {
		return Sunday
	}
	return Weekday(int(wd))
}
