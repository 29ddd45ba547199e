package models

import "time"

// ClassGroup is a named group of students at a branch.
type ClassGroup struct {
	ID        string    `db:"id" json:"id"`
	BranchID  string    `db:"branch_id" json:"branch_id"`
	Name      string    `db:"name" json:"name"`
	Grade     *string   `db:"grade" json:"grade,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ClassSubject binds a subject to a class with its assigned teacher.
// Subject and teacher names are denormalised for list views.
type ClassSubject struct {
	ID          string    `db:"id" json:"id"`
	BranchID    string    `db:"branch_id" json:"branch_id"`
	ClassID     string    `db:"class_id" json:"class_id"`
	SubjectID   string    `db:"subject_id" json:"subject_id"`
	SubjectName string    `db:"subject_name" json:"subject_name"`
	TeacherID   string    `db:"teacher_id" json:"teacher_id"`
	TeacherName string    `db:"teacher_name" json:"teacher_name"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Room is a bookable room at a branch.
type Room struct {
	ID       string `db:"id" json:"id"`
	BranchID string `db:"branch_id" json:"branch_id"`
	Name     string `db:"name" json:"name"`
	Capacity int    `db:"capacity" json:"capacity"`
}
