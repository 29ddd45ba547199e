package models

import "time"

// TimetableTemplate is a named recurring weekly pattern scoped to a branch.
// The template exclusively owns its slots; slots never outlive it.
type TimetableTemplate struct {
	ID        string    `db:"id" json:"id"`
	BranchID  string    `db:"branch_id" json:"branch_id"`
	Name      string    `db:"name" json:"name"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TimetableSlot is one recurring cell of a template. DayOfWeek uses the
// canonical internal numbering (Monday=1..Sunday=7); times are stored in the
// wire format "HH:mm:ss". TeacherID is denormalised from the class-subject
// so teacher conflicts can be checked without a join fan-out.
type TimetableSlot struct {
	ID             string    `db:"id" json:"id"`
	TimetableID    string    `db:"timetable_id" json:"timetable"`
	ClassID        string    `db:"class_id" json:"class_obj"`
	ClassSubjectID string    `db:"class_subject_id" json:"class_subject"`
	TeacherID      string    `db:"teacher_id" json:"-"`
	DayOfWeek      int       `db:"day_of_week" json:"-"`
	LessonNumber   int       `db:"lesson_number" json:"lesson_number"`
	StartTime      string    `db:"start_time" json:"start_time"`
	EndTime        string    `db:"end_time" json:"end_time"`
	RoomID         *string   `db:"room_id" json:"room,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// SlotConflict describes an existing slot that blocks a proposed one.
type SlotConflict struct {
	SlotID         string  `json:"slot_id"`
	TimetableID    string  `json:"timetable"`
	ClassID        string  `json:"class_obj"`
	ClassSubjectID string  `json:"class_subject"`
	TeacherID      string  `json:"teacher_id"`
	DayOfWeek      string  `json:"day_of_week"`
	LessonNumber   int     `json:"lesson_number"`
	RoomID         *string `json:"room,omitempty"`
	Dimension      string  `json:"dimension"`
}

// SlotConflictError is returned when a slot collides with an existing one
// on the class, teacher or room dimension.
type SlotConflictError struct {
	Type     string         `json:"type"`
	Message  string         `json:"message"`
	Conflict SlotConflict   `json:"conflict"`
	Errors   []SlotConflict `json:"errors,omitempty"`
}

// Error implements the error interface for conflict errors.
func (e *SlotConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}
