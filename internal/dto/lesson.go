package dto

// CreateLessonRequest adds a single concrete lesson after an availability
// check.
type CreateLessonRequest struct {
	BranchID       string  `json:"branch" validate:"required"`
	ClassID        string  `json:"class_obj" validate:"required"`
	ClassSubjectID string  `json:"class_subject" validate:"required"`
	Date           string  `json:"date" validate:"required"`
	StartTime      string  `json:"start_time" validate:"required"`
	EndTime        string  `json:"end_time" validate:"required"`
	RoomID         *string `json:"room,omitempty"`
	Topic          *string `json:"topic,omitempty"`
}

// UpdateLessonRequest edits the free-text fields of a lesson. Date and time
// are fixed at creation; moving a lesson is delete and recreate.
type UpdateLessonRequest struct {
	Topic        *string `json:"topic,omitempty"`
	Homework     *string `json:"homework,omitempty"`
	TeacherNotes *string `json:"teacher_notes,omitempty"`
	RoomID       *string `json:"room,omitempty"`
}

// UpdateLessonStatusRequest transitions a lesson's lifecycle state.
type UpdateLessonStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=completed cancelled"`
}

// AvailabilityQuery asks which subjects and rooms are free for a class at a
// given date and time range. When class_subject or room is supplied the
// check also validates that concrete assignment and itemises any overlap it
// would collide with.
type AvailabilityQuery struct {
	BranchID       string `form:"branch" validate:"required"`
	ClassID        string `form:"class_obj" validate:"required"`
	Date           string `form:"date" validate:"required"`
	Start          string `form:"start_time" validate:"required"`
	End            string `form:"end_time" validate:"required"`
	ClassSubjectID string `form:"class_subject"`
	RoomID         string `form:"room"`
}
