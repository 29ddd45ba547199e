package timetable

import (
	"fmt"
	"sort"

	"github.com/bekzod-dev/maktab-api/internal/models"
)

// TimeRange is a distinct (start, end) pair present in a lesson collection.
type TimeRange struct {
	Start string `json:"start_time"`
	End   string `json:"end_time"`
}

// SlotKey renders the grid key for a start/end pair, e.g. "08:00-08:45".
func SlotKey(start, end string) string {
	return fmt.Sprintf("%s-%s", start, end)
}

// GroupByDayAndSlot arranges lessons for grid rendering: day-of-week, then
// "start-end" key, then the lessons occupying that cell. The input is not
// mutated and times are normalised so "08:00" and "08:00:00" land in the
// same cell.
func GroupByDayAndSlot(lessons []models.LessonInstance) (map[Weekday]map[string][]models.LessonInstance, error) {
	grid := make(map[Weekday]map[string][]models.LessonInstance)
	for _, lesson := range lessons {
		start, err := Normalize(lesson.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := Normalize(lesson.EndTime)
		if err != nil {
			return nil, err
		}
		day := WeekdayOf(lesson.Date)
		if grid[day] == nil {
			grid[day] = make(map[string][]models.LessonInstance)
		}
		key := SlotKey(start, end)
		grid[day][key] = append(grid[day][key], lesson)
	}
	return grid, nil
}

// DistinctTimeSlots returns the deduplicated (start, end) pairs actually
// used by the lessons, sorted by start time ascending.
func DistinctTimeSlots(lessons []models.LessonInstance) ([]TimeRange, error) {
	type entry struct {
		rng      TimeRange
		startMin int
		endMin   int
	}
	seen := make(map[string]entry)
	for _, lesson := range lessons {
		startMin, err := ParseClock(lesson.StartTime)
		if err != nil {
			return nil, err
		}
		endMin, err := ParseClock(lesson.EndTime)
		if err != nil {
			return nil, err
		}
		rng := TimeRange{Start: FormatMinutes(startMin), End: FormatMinutes(endMin)}
		seen[SlotKey(rng.Start, rng.End)] = entry{rng: rng, startMin: startMin, endMin: endMin}
	}

	entries := make([]entry, 0, len(seen))
	for _, e := range seen {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].startMin != entries[j].startMin {
			return entries[i].startMin < entries[j].startMin
		}
		return entries[i].endMin < entries[j].endMin
	})

	out := make([]TimeRange, len(entries))
	for i, e := range entries {
		out[i] = e.rng
	}
	return out, nil
}
