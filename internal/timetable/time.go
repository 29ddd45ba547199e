package timetable

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	appErrors "github.com/bekzod-dev/maktab-api/pkg/errors"
)

// ParseClock converts a wall-clock string in "HH:mm" or "HH:mm:ss" form
// into minutes since midnight. Seconds, when present, are ignored: slots are
// compared at minute granularity everywhere.
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, appErrors.Clone(appErrors.ErrInvalidFormat, fmt.Sprintf("invalid time %q", s))
	}
	for _, p := range parts {
		if len(p) != 2 {
			return 0, appErrors.Clone(appErrors.ErrInvalidFormat, fmt.Sprintf("invalid time %q", s))
		}
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrInvalidFormat, fmt.Sprintf("invalid time %q", s))
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrInvalidFormat, fmt.Sprintf("invalid time %q", s))
	}
	if len(parts) == 3 {
		sec, err := strconv.Atoi(parts[2])
		if err != nil || sec < 0 || sec > 59 {
			return 0, appErrors.Clone(appErrors.ErrInvalidFormat, fmt.Sprintf("invalid time %q", s))
		}
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, appErrors.Clone(appErrors.ErrInvalidFormat, fmt.Sprintf("time %q out of range", s))
	}
	return hour*60 + minute, nil
}

// FormatMinutes renders minutes since midnight as "HH:mm". Values outside
// [0, 1439] are a caller error; wrapping past midnight is not supported.
func FormatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// WireClock renders minutes since midnight in the backend wire format
// "HH:mm:ss".
func WireClock(m int) string {
	return fmt.Sprintf("%02d:%02d:00", m/60, m%60)
}

// Normalize reduces either accepted representation to canonical "HH:mm".
func Normalize(s string) (string, error) {
	m, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return FormatMinutes(m), nil
}

// Duration returns end minus start in minutes. The result is negative when
// end precedes start; callers must treat negative durations as invalid.
func Duration(start, end string) (int, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	return e - s, nil
}

// Overlaps reports whether the half-open minute intervals [s1,e1) and
// [s2,e2) intersect.
func Overlaps(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}

// RangesOverlap is Overlaps over wall-clock strings.
func RangesOverlap(start1, end1, start2, end2 string) (bool, error) {
	s1, err := ParseClock(start1)
	if err != nil {
		return false, err
	}
	e1, err := ParseClock(end1)
	if err != nil {
		return false, err
	}
	s2, err := ParseClock(start2)
	if err != nil {
		return false, err
	}
	e2, err := ParseClock(end2)
	if err != nil {
		return false, err
	}
	return Overlaps(s1, e1, s2, e2), nil
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// IsOngoing reports whether now falls on date within [start, end).
func IsOngoing(date time.Time, start, end string, now time.Time) (bool, error) {
	s, err := ParseClock(start)
	if err != nil {
		return false, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return false, err
	}
	if !sameDate(date, now) {
		return false, nil
	}
	m := minuteOfDay(now)
	return m >= s && m < e, nil
}

// IsPast reports whether the lesson ending at end on date is already over.
func IsPast(date time.Time, end string, now time.Time) (bool, error) {
	e, err := ParseClock(end)
	if err != nil {
		return false, err
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	if d.Before(today) {
		return true, nil
	}
	if d.After(today) {
		return false, nil
	}
	return minuteOfDay(now) >= e, nil
}
