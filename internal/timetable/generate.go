package timetable

import (
	"fmt"

	appErrors "github.com/bekzod-dev/maktab-api/pkg/errors"
)

// DaySettings are the branch parameters that shape one school day. Times
// are wall-clock strings; empty optional fields mean "not configured".
type DaySettings struct {
	SchoolStartTime       string
	SchoolEndTime         string
	DailyLessonEndTime    string
	LessonDurationMinutes int
	BreakDurationMinutes  int
	LunchBreakStart       string
	LunchBreakEnd         string
}

// DaySlot is one entry of a generated school day: either a numbered lesson
// or the single lunch break.
type DaySlot struct {
	LessonNumber int    `json:"lesson_number,omitempty"`
	Start        string `json:"start_time"`
	End          string `json:"end_time"`
	StartMin     int    `json:"-"`
	EndMin       int    `json:"-"`
	Label        string `json:"label"`
	IsLunchBreak bool   `json:"is_lunch_break"`
}

// BuildDaySlots produces the ordered slot sequence for one school day.
// Lessons are emitted back to back separated by the break duration; the
// lunch window, when configured, is spliced in as a single unnumbered entry
// the first time a prospective lesson would overlap it. No lesson ever runs
// past the configured day end, and a non-positive lesson duration yields an
// empty day instead of looping.
func BuildDaySlots(s DaySettings) ([]DaySlot, error) {
	start, err := ParseClock(s.SchoolStartTime)
	if err != nil {
		return nil, err
	}
	endSource := s.SchoolEndTime
	if s.DailyLessonEndTime != "" {
		endSource = s.DailyLessonEndTime
	}
	end, err := ParseClock(endSource)
	if err != nil {
		return nil, err
	}

	lunchStart, lunchEnd := -1, -1
	if s.LunchBreakStart != "" || s.LunchBreakEnd != "" {
		if s.LunchBreakStart == "" || s.LunchBreakEnd == "" {
			return nil, appErrors.Clone(appErrors.ErrNotConfigured, "lunch break requires both start and end")
		}
		lunchStart, err = ParseClock(s.LunchBreakStart)
		if err != nil {
			return nil, err
		}
		lunchEnd, err = ParseClock(s.LunchBreakEnd)
		if err != nil {
			return nil, err
		}
		if lunchStart >= lunchEnd {
			return nil, appErrors.Clone(appErrors.ErrNotConfigured, "lunch break start must precede its end")
		}
	}

	if s.LessonDurationMinutes <= 0 {
		return nil, nil
	}
	breakDur := s.BreakDurationMinutes
	if breakDur < 0 {
		breakDur = 0
	}

	var slots []DaySlot
	cursor := start
	number := 0
	lunchEmitted := false

	for cursor < end {
		slotEnd := cursor + s.LessonDurationMinutes
		if slotEnd > end {
			break
		}

		if lunchStart >= 0 && !lunchEmitted && Overlaps(cursor, slotEnd, lunchStart, lunchEnd) {
			slots = append(slots, DaySlot{
				Start:        FormatMinutes(lunchStart),
				End:          FormatMinutes(lunchEnd),
				StartMin:     lunchStart,
				EndMin:       lunchEnd,
				Label:        "tushlik",
				IsLunchBreak: true,
			})
			lunchEmitted = true
			cursor = lunchEnd
			continue
		}

		number++
		slots = append(slots, DaySlot{
			LessonNumber: number,
			Start:        FormatMinutes(cursor),
			End:          FormatMinutes(slotEnd),
			StartMin:     cursor,
			EndMin:       slotEnd,
			Label:        fmt.Sprintf("%d-dars", number),
		})
		cursor = slotEnd + breakDur
	}

	return slots, nil
}

// TableFromDaySlots builds the canonical lookup table from a generated day,
// skipping the lunch entry. The table therefore always agrees with the
// generator for the same branch settings.
func TableFromDaySlots(day []DaySlot) (*SlotTable, error) {
	defs := make([]SlotDef, 0, len(day))
	for _, slot := range day {
		if slot.IsLunchBreak {
			continue
		}
		defs = append(defs, SlotDef{
			LessonNumber: slot.LessonNumber,
			StartMin:     slot.StartMin,
			EndMin:       slot.EndMin,
			Start:        slot.Start,
			End:          slot.End,
			Label:        slot.Label,
		})
	}
	return NewSlotTable(defs)
}
