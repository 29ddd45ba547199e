package models

import "time"

// Branch is a physical school/training-center location.
type Branch struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Address   *string   `db:"address" json:"address,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// BranchScheduleSettings are the branch-level schooling-hours parameters
// the slot generator runs on. Owned by branch configuration; the scheduling
// services treat it as read-only input.
type BranchScheduleSettings struct {
	BranchID              string    `db:"branch_id" json:"branch_id"`
	SchoolStartTime       string    `db:"school_start_time" json:"school_start_time"`
	SchoolEndTime         string    `db:"school_end_time" json:"school_end_time"`
	DailyLessonEndTime    *string   `db:"daily_lesson_end_time" json:"daily_lesson_end_time,omitempty"`
	LessonDurationMinutes int       `db:"lesson_duration_minutes" json:"lesson_duration_minutes"`
	BreakDurationMinutes  int       `db:"break_duration_minutes" json:"break_duration_minutes"`
	LunchBreakStart       *string   `db:"lunch_break_start" json:"lunch_break_start,omitempty"`
	LunchBreakEnd         *string   `db:"lunch_break_end" json:"lunch_break_end,omitempty"`
	UpdatedAt             time.Time `db:"updated_at" json:"updated_at"`
}
