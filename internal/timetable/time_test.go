package timetable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/bekzod-dev/maktab-api/pkg/errors"
)

func TestParseClockAcceptsBothFormats(t *testing.T) {
	short, err := ParseClock("08:45")
	require.NoError(t, err)
	long, err := ParseClock("08:45:00")
	require.NoError(t, err)
	assert.Equal(t, short, long)
	assert.Equal(t, 8*60+45, short)

	withSeconds, err := ParseClock("08:45:59")
	require.NoError(t, err)
	assert.Equal(t, short, withSeconds, "seconds are ignored at minute granularity")
}

func TestParseClockRejectsMalformedInput(t *testing.T) {
	cases := []string{"", "8:00", "08", "08:0", "24:00", "12:60", "ab:cd", "08:00:xx", "08:00:60", "08-00"}
	for _, input := range cases {
		_, err := ParseClock(input)
		require.Error(t, err, "input %q", input)
		assert.Equal(t, appErrors.ErrInvalidFormat.Code, appErrors.FromError(err).Code, "input %q", input)
	}
}

func TestFormatMinutesRoundTrip(t *testing.T) {
	for m := 0; m < 24*60; m += 7 {
		parsed, err := ParseClock(FormatMinutes(m))
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}
}

func TestNormalizeIdempotence(t *testing.T) {
	a, err := Normalize("09:05")
	require.NoError(t, err)
	b, err := Normalize("09:05:00")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, "09:05", a)
}

func TestWireClock(t *testing.T) {
	assert.Equal(t, "08:00:00", WireClock(480))
	assert.Equal(t, "13:30:00", WireClock(13*60+30))
}

func TestDurationMayBeNegative(t *testing.T) {
	d, err := Duration("08:00", "08:45")
	require.NoError(t, err)
	assert.Equal(t, 45, d)

	d, err = Duration("09:00", "08:00")
	require.NoError(t, err)
	assert.Equal(t, -60, d)
}

func TestOverlapsAgainstExhaustiveCheck(t *testing.T) {
	intervals := [][2]int{{0, 30}, {30, 60}, {15, 45}, {10, 11}, {59, 90}, {45, 46}}
	naive := func(s1, e1, s2, e2 int) bool {
		for m := s1; m < e1; m++ {
			if m >= s2 && m < e2 {
				return true
			}
		}
		return false
	}
	for _, a := range intervals {
		for _, b := range intervals {
			assert.Equal(t, naive(a[0], a[1], b[0], b[1]), Overlaps(a[0], a[1], b[0], b[1]),
				"intervals %v vs %v", a, b)
		}
	}
}

func TestOverlapsAdjacentRangesDoNot(t *testing.T) {
	assert.False(t, Overlaps(480, 525, 525, 570), "touching endpoints are not an overlap")
	assert.True(t, Overlaps(480, 526, 525, 570))
}

func TestIsOngoing(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	date := time.Date(2024, 9, 2, 0, 0, 0, 0, loc)

	now := time.Date(2024, 9, 2, 8, 30, 0, 0, loc)
	ongoing, err := IsOngoing(date, "08:00", "08:45", now)
	require.NoError(t, err)
	assert.True(t, ongoing)

	atEnd := time.Date(2024, 9, 2, 8, 45, 0, 0, loc)
	ongoing, err = IsOngoing(date, "08:00", "08:45", atEnd)
	require.NoError(t, err)
	assert.False(t, ongoing, "end is exclusive")

	otherDay := time.Date(2024, 9, 3, 8, 30, 0, 0, loc)
	ongoing, err = IsOngoing(date, "08:00", "08:45", otherDay)
	require.NoError(t, err)
	assert.False(t, ongoing)
}

func TestIsPast(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	now := time.Date(2024, 9, 2, 12, 0, 0, 0, loc)

	past, err := IsPast(time.Date(2024, 9, 1, 0, 0, 0, 0, loc), "23:00", now)
	require.NoError(t, err)
	assert.True(t, past, "yesterday is past regardless of time")

	past, err = IsPast(time.Date(2024, 9, 2, 0, 0, 0, 0, loc), "11:30", now)
	require.NoError(t, err)
	assert.True(t, past)

	past, err = IsPast(time.Date(2024, 9, 2, 0, 0, 0, 0, loc), "12:00", now)
	require.NoError(t, err)
	assert.True(t, past, "now at end means the lesson is over")

	past, err = IsPast(time.Date(2024, 9, 2, 0, 0, 0, 0, loc), "12:45", now)
	require.NoError(t, err)
	assert.False(t, past)

	past, err = IsPast(time.Date(2024, 9, 3, 0, 0, 0, 0, loc), "08:00", now)
	require.NoError(t, err)
	assert.False(t, past)
}
