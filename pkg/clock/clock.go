package clock

import "time"

// Clock supplies the current instant in the organisation's timezone. The
// scheduling services take it as a dependency so that past/ongoing/future
// classification is deterministic under test.
type Clock interface {
	Now() time.Time
}

// System is a Clock backed by the host clock shifted into a fixed location.
type System struct {
	loc *time.Location
}

// NewSystem builds a system clock for the given IANA timezone name. An
// unknown or empty name falls back to UTC rather than failing startup.
func NewSystem(tzName string) *System {
	loc, err := time.LoadLocation(tzName)
	if err != nil || tzName == "" {
		loc = time.UTC
	}
	return &System{loc: loc}
}

// Now returns the current time in the configured location.
func (s *System) Now() time.Time {
	return time.Now().In(s.loc)
}

// Location exposes the configured timezone.
func (s *System) Location() *time.Location {
	return s.loc
}

// Fixed is a Clock pinned to a single instant, for tests.
type Fixed struct {
	Instant time.Time
}

// Now returns the pinned instant.
func (f Fixed) Now() time.Time {
	return f.Instant
}
