package timetable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bekzod-dev/maktab-api/internal/models"
)

func lessonAt(date time.Time, start, end string) models.LessonInstance {
	return models.LessonInstance{
		ID:        start + "-" + date.Format("2006-01-02"),
		Date:      date,
		StartTime: start,
		EndTime:   end,
	}
}

func TestGroupByDayAndSlot(t *testing.T) {
	monday := time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)

	lessons := []models.LessonInstance{
		lessonAt(monday, "08:00", "08:45"),
		lessonAt(monday, "08:00:00", "08:45:00"),
		lessonAt(monday, "08:55", "09:40"),
		lessonAt(tuesday, "08:00", "08:45"),
	}

	grid, err := GroupByDayAndSlot(lessons)
	require.NoError(t, err)

	require.Contains(t, grid, Monday)
	require.Contains(t, grid, Tuesday)
	assert.Len(t, grid[Monday]["08:00-08:45"], 2, "HH:mm and HH:mm:ss land in the same cell")
	assert.Len(t, grid[Monday]["08:55-09:40"], 1)
	assert.Len(t, grid[Tuesday]["08:00-08:45"], 1)
}

func TestDistinctTimeSlots(t *testing.T) {
	day := time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)
	lessons := []models.LessonInstance{
		lessonAt(day, "09:50", "10:35"),
		lessonAt(day, "08:00", "08:45"),
		lessonAt(day, "08:00:00", "08:45:00"),
		lessonAt(day, "08:55", "09:40"),
	}

	ranges, err := DistinctTimeSlots(lessons)
	require.NoError(t, err)
	require.Len(t, ranges, 3, "duplicates collapse")
	assert.Equal(t, "08:00", ranges[0].Start)
	assert.Equal(t, "08:55", ranges[1].Start)
	assert.Equal(t, "09:50", ranges[2].Start)
}

func TestGroupByDayAndSlotRejectsBadTimes(t *testing.T) {
	day := time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)
	_, err := GroupByDayAndSlot([]models.LessonInstance{lessonAt(day, "junk", "08:45")})
	assert.Error(t, err)
}
