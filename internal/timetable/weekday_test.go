package timetable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdayWireNames(t *testing.T) {
	names := []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
	for i, name := range names {
		d, err := ParseWeekday(name)
		require.NoError(t, err)
		assert.Equal(t, Weekday(i+1), d)
		assert.Equal(t, name, d.String())
	}

	_, err := ParseWeekday("Monday")
	assert.Error(t, err, "wire names are lowercase only")
	_, err = ParseWeekday("")
	assert.Error(t, err)
}

func TestWeekdayOf(t *testing.T) {
	// 2024-09-02 is a Monday, 2024-09-08 a Sunday.
	assert.Equal(t, Monday, WeekdayOf(time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, Wednesday, WeekdayOf(time.Date(2024, 9, 4, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, Sunday, WeekdayOf(time.Date(2024, 9, 8, 0, 0, 0, 0, time.UTC)))
}
