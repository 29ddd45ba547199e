package models

import "time"

// LessonStatus is the lifecycle state of a concrete lesson.
type LessonStatus string

const (
	LessonStatusPlanned   LessonStatus = "planned"
	LessonStatusCompleted LessonStatus = "completed"
	LessonStatusCancelled LessonStatus = "cancelled"
)

// Valid reports whether s is a known lifecycle state.
func (s LessonStatus) Valid() bool {
	switch s {
	case LessonStatusPlanned, LessonStatusCompleted, LessonStatusCancelled:
		return true
	}
	return false
}

// LessonInstance is a concrete, dated occurrence of a class meeting.
// Date/time are fixed at creation; edits go through delete and recreate.
type LessonInstance struct {
	ID              string       `db:"id" json:"id"`
	BranchID        string       `db:"branch_id" json:"branch_id"`
	ClassID         string       `db:"class_id" json:"class_obj"`
	ClassSubjectID  string       `db:"class_subject_id" json:"class_subject"`
	SubjectName     string       `db:"subject_name" json:"subject_name"`
	TeacherID       string       `db:"teacher_id" json:"teacher_id"`
	TeacherName     string       `db:"teacher_name" json:"teacher_name"`
	Date            time.Time    `db:"date" json:"date"`
	LessonNumber    int          `db:"lesson_number" json:"lesson_number"`
	StartTime       string       `db:"start_time" json:"start_time"`
	EndTime         string       `db:"end_time" json:"end_time"`
	RoomID          *string      `db:"room_id" json:"room,omitempty"`
	Status          LessonStatus `db:"status" json:"status"`
	Topic           *string      `db:"topic" json:"topic,omitempty"`
	Homework        *string      `db:"homework" json:"homework,omitempty"`
	TeacherNotes    *string      `db:"teacher_notes" json:"teacher_notes,omitempty"`
	IsAutoGenerated bool         `db:"is_auto_generated" json:"is_auto_generated"`
	// State is computed against the organisation clock when listing:
	// "past", "ongoing" or "upcoming". Never persisted.
	State           string       `db:"-" json:"state,omitempty"`
	CreatedAt       time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time    `db:"updated_at" json:"updated_at"`
}

// LessonFilter narrows instance listings.
type LessonFilter struct {
	BranchID string
	ClassID  string
	Date     *time.Time
	DateFrom *time.Time
	DateTo   *time.Time
	Status   LessonStatus
	Page     int
	PageSize int
}
