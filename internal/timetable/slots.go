package timetable

import (
	"fmt"

	appErrors "github.com/bekzod-dev/maktab-api/pkg/errors"
)

// SlotDef is one row of a canonical lesson-number table.
type SlotDef struct {
	LessonNumber int    `json:"lesson_number"`
	StartMin     int    `json:"-"`
	EndMin       int    `json:"-"`
	Start        string `json:"start_time"`
	End          string `json:"end_time"`
	Label        string `json:"label"`
}

// SlotTable maps lesson numbers to exact time ranges and back. Lesson
// numbers are a backend-required ordinal; they are always derived from the
// slot's start time through this table, never invented by callers.
type SlotTable struct {
	slots    []SlotDef
	byStart  map[int]int
	byNumber map[int]int
}

// NewSlotTable validates and indexes the given definitions. Lesson numbers
// must be unique and strictly increasing, start times strictly increasing
// and ranges non-overlapping.
func NewSlotTable(defs []SlotDef) (*SlotTable, error) {
	t := &SlotTable{
		slots:    make([]SlotDef, 0, len(defs)),
		byStart:  make(map[int]int, len(defs)),
		byNumber: make(map[int]int, len(defs)),
	}
	prevNumber := 0
	prevEnd := -1
	for _, def := range defs {
		if def.LessonNumber <= prevNumber {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("lesson numbers must be strictly increasing, got %d after %d", def.LessonNumber, prevNumber))
		}
		if def.StartMin < prevEnd {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("slot %d overlaps the previous slot", def.LessonNumber))
		}
		if def.EndMin <= def.StartMin {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("slot %d has non-positive duration", def.LessonNumber))
		}
		if def.Start == "" {
			def.Start = FormatMinutes(def.StartMin)
		}
		if def.End == "" {
			def.End = FormatMinutes(def.EndMin)
		}
		idx := len(t.slots)
		t.slots = append(t.slots, def)
		t.byStart[def.StartMin] = idx
		t.byNumber[def.LessonNumber] = idx
		prevNumber = def.LessonNumber
		prevEnd = def.EndMin
	}
	return t, nil
}

// Slots returns the ordered definitions.
func (t *SlotTable) Slots() []SlotDef {
	out := make([]SlotDef, len(t.slots))
	copy(out, t.slots)
	return out
}

// Len reports the number of lesson slots in the table.
func (t *SlotTable) Len() int {
	return len(t.slots)
}

// LessonNumberForStart resolves a start time to its lesson number. Only an
// exact match qualifies; payload construction must not guess.
func (t *SlotTable) LessonNumberForStart(start string) (int, error) {
	m, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	idx, ok := t.byStart[m]
	if !ok {
		return 0, appErrors.Clone(appErrors.ErrUnknownSlot, fmt.Sprintf("no lesson starts at %s", FormatMinutes(m)))
	}
	return t.slots[idx].LessonNumber, nil
}

// ByLessonNumber looks up a slot by ordinal.
func (t *SlotTable) ByLessonNumber(n int) (SlotDef, error) {
	idx, ok := t.byNumber[n]
	if !ok {
		return SlotDef{}, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("lesson %d not in table", n))
	}
	return t.slots[idx], nil
}

// ByStartTime looks up a slot by its exact start time.
func (t *SlotTable) ByStartTime(start string) (SlotDef, error) {
	m, err := ParseClock(start)
	if err != nil {
		return SlotDef{}, err
	}
	idx, ok := t.byStart[m]
	if !ok {
		return SlotDef{}, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no lesson starts at %s", FormatMinutes(m)))
	}
	return t.slots[idx], nil
}

// IsValidRange reports whether (start, end) exactly matches one slot's
// bounds. Clipped or partial ranges are rejected.
func (t *SlotTable) IsValidRange(start, end string) bool {
	s, err := ParseClock(start)
	if err != nil {
		return false
	}
	e, err := ParseClock(end)
	if err != nil {
		return false
	}
	idx, ok := t.byStart[s]
	if !ok {
		return false
	}
	return t.slots[idx].EndMin == e
}

// Next returns the slot numbered n+1.
func (t *SlotTable) Next(n int) (SlotDef, error) {
	return t.ByLessonNumber(n + 1)
}

// Prev returns the slot numbered n-1.
func (t *SlotTable) Prev(n int) (SlotDef, error) {
	return t.ByLessonNumber(n - 1)
}

// Nearest finds the slot whose start time is closest to the given time.
// This is the looser lookup used when rendering lessons into a generated
// grid; it never substitutes for the exact LessonNumberForStart match.
func (t *SlotTable) Nearest(start string) (SlotDef, error) {
	if len(t.slots) == 0 {
		return SlotDef{}, appErrors.Clone(appErrors.ErrNotFound, "slot table is empty")
	}
	m, err := ParseClock(start)
	if err != nil {
		return SlotDef{}, err
	}
	best := t.slots[0]
	bestDist := abs(best.StartMin - m)
	for _, def := range t.slots[1:] {
		if d := abs(def.StartMin - m); d < bestDist {
			best = def
			bestDist = d
		}
	}
	return best, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
