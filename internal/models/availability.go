package models

// AvailableSubject is a class-subject whose teacher is free at the
// requested time.
type AvailableSubject struct {
	ID          string `json:"id"`
	SubjectName string `json:"subject_name"`
	TeacherName string `json:"teacher_name"`
}

// AvailableRoom is a room with no overlapping booking at the requested time.
type AvailableRoom struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// BookingConflict itemises one detected overlap against an existing lesson.
type BookingConflict struct {
	Dimension   string `json:"dimension"`
	Message     string `json:"message"`
	LessonID    string `json:"lesson_id"`
	ClassID     string `json:"class_obj"`
	SubjectName string `json:"subject_name"`
	TeacherName string `json:"teacher_name"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

// AvailabilityResult is the advisory, read-time answer to "what is free at
// this class/date/time". Never persisted; write-time checks stay
// authoritative.
type AvailabilityResult struct {
	AvailableSubjects []AvailableSubject `json:"available_subjects"`
	AvailableRooms    []AvailableRoom    `json:"available_rooms"`
	Conflicts         []BookingConflict  `json:"conflicts"`
}
