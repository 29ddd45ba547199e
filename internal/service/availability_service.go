package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bekzod-dev/maktab-api/internal/dto"
	"github.com/bekzod-dev/maktab-api/internal/models"
	"github.com/bekzod-dev/maktab-api/internal/timetable"
	appErrors "github.com/bekzod-dev/maktab-api/pkg/errors"
)

type overlapReader interface {
	FindOverlapping(ctx context.Context, branchID string, date time.Time, start, end string) ([]models.LessonInstance, error)
}

type classSubjectLister interface {
	ListByClass(ctx context.Context, classID string) ([]models.ClassSubject, error)
}

type roomLister interface {
	ListByBranch(ctx context.Context, branchID string) ([]models.Room, error)
}

// AvailabilityService answers the read-time question "what is free at this
// class/date/time". The answer is advisory; lesson writes re-run the same
// overlap checks and stay authoritative.
type AvailabilityService struct {
	lessons   overlapReader
	subjects  classSubjectLister
	rooms     roomLister
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAvailabilityService instantiates AvailabilityService.
func NewAvailabilityService(lessons overlapReader, subjects classSubjectLister, rooms roomLister, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{lessons: lessons, subjects: subjects, rooms: rooms, validator: validate, logger: logger}
}

// Check computes free subjects and rooms for the requested window, plus
// itemised conflicts for the class and for any concrete subject or room
// assignment named in the query.
func (s *AvailabilityService) Check(ctx context.Context, query dto.AvailabilityQuery) (*models.AvailabilityResult, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability query")
	}

	date, err := time.Parse(dto.DateLayout, query.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidFormat.Code, appErrors.ErrInvalidFormat.Status, "invalid date")
	}
	start, err := timetable.Normalize(query.Start)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidFormat.Code, appErrors.ErrInvalidFormat.Status, "invalid start_time")
	}
	end, err := timetable.Normalize(query.End)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidFormat.Code, appErrors.ErrInvalidFormat.Status, "invalid end_time")
	}
	duration, err := timetable.Duration(start, end)
	if err != nil || duration <= 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidRange, "end_time must be after start_time")
	}

	overlapping, err := s.lessons.FindOverlapping(ctx, query.BranchID, date, start, end)
	if err != nil {
		return nil, wrapStoreError(err, "failed to load overlapping lessons")
	}

	busyTeachers := make(map[string]models.LessonInstance)
	busyRooms := make(map[string]models.LessonInstance)
	result := &models.AvailabilityResult{
		AvailableSubjects: []models.AvailableSubject{},
		AvailableRooms:    []models.AvailableRoom{},
		Conflicts:         []models.BookingConflict{},
	}

	for _, lesson := range overlapping {
		if _, seen := busyTeachers[lesson.TeacherID]; !seen {
			busyTeachers[lesson.TeacherID] = lesson
		}
		if lesson.RoomID != nil {
			if _, seen := busyRooms[*lesson.RoomID]; !seen {
				busyRooms[*lesson.RoomID] = lesson
			}
		}
		if lesson.ClassID == query.ClassID {
			result.Conflicts = append(result.Conflicts, bookingConflict("CLASS", "class already has a lesson in this window", lesson))
		}
	}

	subjects, err := s.subjects.ListByClass(ctx, query.ClassID)
	if err != nil {
		return nil, wrapStoreError(err, "failed to list class subjects")
	}
	for _, subject := range subjects {
		blocking, teacherBusy := busyTeachers[subject.TeacherID]
		if !teacherBusy {
			result.AvailableSubjects = append(result.AvailableSubjects, models.AvailableSubject{
				ID:          subject.ID,
				SubjectName: subject.SubjectName,
				TeacherName: subject.TeacherName,
			})
			continue
		}
		if subject.ID == query.ClassSubjectID {
			result.Conflicts = append(result.Conflicts, bookingConflict("TEACHER", "teacher is busy in this window", blocking))
		}
	}

	rooms, err := s.rooms.ListByBranch(ctx, query.BranchID)
	if err != nil {
		return nil, wrapStoreError(err, "failed to list rooms")
	}
	for _, room := range rooms {
		blocking, roomBusy := busyRooms[room.ID]
		if !roomBusy {
			result.AvailableRooms = append(result.AvailableRooms, models.AvailableRoom{
				ID:       room.ID,
				Name:     room.Name,
				Capacity: room.Capacity,
			})
			continue
		}
		if room.ID == query.RoomID {
			result.Conflicts = append(result.Conflicts, bookingConflict("ROOM", "room is booked in this window", blocking))
		}
	}

	return result, nil
}

func bookingConflict(dimension, message string, lesson models.LessonInstance) models.BookingConflict {
	return models.BookingConflict{
		Dimension:   dimension,
		Message:     message,
		LessonID:    lesson.ID,
		ClassID:     lesson.ClassID,
		SubjectName: lesson.SubjectName,
		TeacherName: lesson.TeacherName,
		StartTime:   lesson.StartTime,
		EndTime:     lesson.EndTime,
	}
}
