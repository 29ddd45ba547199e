package dto

import (
	"time"

	"github.com/bekzod-dev/maktab-api/internal/models"
	"github.com/bekzod-dev/maktab-api/internal/timetable"
)

// DateLayout is the calendar-date wire format.
const DateLayout = "2006-01-02"

// CreateTimetableRequest creates a recurring weekly template.
type CreateTimetableRequest struct {
	BranchID string `json:"branch" validate:"required"`
	Name     string `json:"name" validate:"required"`
	IsActive bool   `json:"is_active"`
}

// SlotPayload is the backend slot contract. Field names are fixed for
// interop: day_of_week travels as a lowercase English weekday name and
// times as "HH:mm:ss"; the numeric weekday never crosses the wire.
type SlotPayload struct {
	TimetableID    string  `json:"timetable" validate:"required"`
	ClassID        string  `json:"class_obj" validate:"required"`
	ClassSubjectID string  `json:"class_subject" validate:"required"`
	DayOfWeek      string  `json:"day_of_week" validate:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	LessonNumber   int     `json:"lesson_number"`
	StartTime      string  `json:"start_time" validate:"required"`
	EndTime        string  `json:"end_time" validate:"required"`
	RoomID         *string `json:"room,omitempty"`
}

// SlotResponse renders a stored slot back into the wire contract.
type SlotResponse struct {
	ID             string    `json:"id"`
	TimetableID    string    `json:"timetable"`
	ClassID        string    `json:"class_obj"`
	ClassSubjectID string    `json:"class_subject"`
	DayOfWeek      string    `json:"day_of_week"`
	LessonNumber   int       `json:"lesson_number"`
	StartTime      string    `json:"start_time"`
	EndTime        string    `json:"end_time"`
	RoomID         *string   `json:"room,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewSlotResponse converts a model slot to its wire form.
func NewSlotResponse(slot models.TimetableSlot) SlotResponse {
	return SlotResponse{
		ID:             slot.ID,
		TimetableID:    slot.TimetableID,
		ClassID:        slot.ClassID,
		ClassSubjectID: slot.ClassSubjectID,
		DayOfWeek:      timetable.Weekday(slot.DayOfWeek).String(),
		LessonNumber:   slot.LessonNumber,
		StartTime:      slot.StartTime,
		EndTime:        slot.EndTime,
		RoomID:         slot.RoomID,
		CreatedAt:      slot.CreatedAt,
		UpdatedAt:      slot.UpdatedAt,
	}
}

// NewSlotResponses maps a slice of slots.
func NewSlotResponses(slots []models.TimetableSlot) []SlotResponse {
	out := make([]SlotResponse, len(slots))
	for i, slot := range slots {
		out[i] = NewSlotResponse(slot)
	}
	return out
}

// GenerateLessonsRequest materialises a template over a date range.
type GenerateLessonsRequest struct {
	StartDate    string `json:"start_date" validate:"required"`
	EndDate      string `json:"end_date" validate:"required"`
	SkipExisting bool   `json:"skip_existing"`
}

// GenerateLessonsResult reports per-outcome counters for a generation run.
// Individual failures do not abort the range; they are counted and listed.
type GenerateLessonsResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}
