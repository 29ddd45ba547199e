package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bekzod-dev/maktab-api/internal/dto"
	"github.com/bekzod-dev/maktab-api/internal/models"
	"github.com/bekzod-dev/maktab-api/internal/timetable"
	appErrors "github.com/bekzod-dev/maktab-api/pkg/errors"
)

type generatorLessonRepository interface {
	FindByClassDateNumber(ctx context.Context, classID string, date time.Time, lessonNumber int) (*models.LessonInstance, error)
	Create(ctx context.Context, lesson *models.LessonInstance) error
	Update(ctx context.Context, lesson *models.LessonInstance) error
}

// GeneratorService materialises a weekly template into dated lesson
// instances over a calendar range. A failing cell never aborts the run; it
// is counted and reported so one bad row cannot block a term rollout.
type GeneratorService struct {
	timetables timetableRepository
	lessons    generatorLessonRepository
	subjects   classSubjectReader
	metrics    *MetricsService
	maxDays    int
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewGeneratorService instantiates GeneratorService. metrics may be nil.
func NewGeneratorService(timetables timetableRepository, lessons generatorLessonRepository, subjects classSubjectReader, metrics *MetricsService, maxDays int, validate *validator.Validate, logger *zap.Logger) *GeneratorService {
	if maxDays <= 0 {
		maxDays = 366
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeneratorService{
		timetables: timetables,
		lessons:    lessons,
		subjects:   subjects,
		metrics:    metrics,
		maxDays:    maxDays,
		validator:  validate,
		logger:     logger,
	}
}

// Generate walks every date in [start_date, end_date], matches each date's
// weekday against the template slots, and creates one lesson instance per
// matching slot. An existing lesson in the same (class, date, number) cell
// is skipped when skip_existing is set, otherwise overwritten with the
// slot's current subject, room and times.
func (s *GeneratorService) Generate(ctx context.Context, timetableID string, req dto.GenerateLessonsRequest) (*dto.GenerateLessonsResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation payload")
	}

	start, err := time.Parse(dto.DateLayout, req.StartDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidFormat.Code, appErrors.ErrInvalidFormat.Status, "invalid start_date")
	}
	end, err := time.Parse(dto.DateLayout, req.EndDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidFormat.Code, appErrors.ErrInvalidFormat.Status, "invalid end_date")
	}
	if start.After(end) {
		return nil, appErrors.Clone(appErrors.ErrInvalidRange, "start_date must not be after end_date")
	}
	if days := int(end.Sub(start).Hours()/24) + 1; days > s.maxDays {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("date range spans %d days, maximum is %d", days, s.maxDays))
	}

	template, err := s.timetables.FindTemplate(ctx, timetableID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return nil, wrapStoreError(err, "failed to load timetable")
	}

	slots, err := s.timetables.ListSlots(ctx, template.ID, nil)
	if err != nil {
		return nil, wrapStoreError(err, "failed to list timetable slots")
	}

	byDay := make(map[int][]models.TimetableSlot)
	for _, slot := range slots {
		byDay[slot.DayOfWeek] = append(byDay[slot.DayOfWeek], slot)
	}

	result := &dto.GenerateLessonsResult{}
	subjectCache := make(map[string]*models.ClassSubject)

	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		day := int(timetable.WeekdayOf(date))
		for _, slot := range byDay[day] {
			s.generateCell(ctx, template.BranchID, slot, date, req.SkipExisting, subjectCache, result)
		}
	}

	s.metrics.RecordGeneration("created", result.Created)
	s.metrics.RecordGeneration("updated", result.Updated)
	s.metrics.RecordGeneration("skipped", result.Skipped)
	s.metrics.RecordGeneration("failed", result.Failed)

	s.logger.Info("lesson generation finished",
		zap.String("timetable_id", timetableID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

func (s *GeneratorService) generateCell(ctx context.Context, branchID string, slot models.TimetableSlot, date time.Time, skipExisting bool, subjectCache map[string]*models.ClassSubject, result *dto.GenerateLessonsResult) {
	fail := func(err error, action string) {
		result.Failed++
		message := fmt.Sprintf("%s %s lesson %d (class %s): %v", action, date.Format(dto.DateLayout), slot.LessonNumber, slot.ClassID, err)
		result.Errors = append(result.Errors, message)
		s.logger.Warn("lesson generation cell failed",
			zap.String("class_id", slot.ClassID),
			zap.String("date", date.Format(dto.DateLayout)),
			zap.Int("lesson_number", slot.LessonNumber),
			zap.Error(err),
		)
	}

	subject, ok := subjectCache[slot.ClassSubjectID]
	if !ok {
		loaded, err := s.subjects.FindByID(ctx, slot.ClassSubjectID)
		if err != nil {
			fail(err, "resolve subject for")
			return
		}
		subjectCache[slot.ClassSubjectID] = loaded
		subject = loaded
	}

	existing, err := s.lessons.FindByClassDateNumber(ctx, slot.ClassID, date, slot.LessonNumber)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		fail(err, "look up")
		return
	}

	if existing != nil {
		if skipExisting {
			result.Skipped++
			return
		}
		existing.ClassSubjectID = slot.ClassSubjectID
		existing.SubjectName = subject.SubjectName
		existing.TeacherID = subject.TeacherID
		existing.TeacherName = subject.TeacherName
		existing.StartTime = slot.StartTime
		existing.EndTime = slot.EndTime
		existing.RoomID = slot.RoomID
		existing.IsAutoGenerated = true
		if err := s.lessons.Update(ctx, existing); err != nil {
			fail(err, "overwrite")
			return
		}
		result.Updated++
		return
	}

	lesson := models.LessonInstance{
		BranchID:        branchID,
		ClassID:         slot.ClassID,
		ClassSubjectID:  slot.ClassSubjectID,
		SubjectName:     subject.SubjectName,
		TeacherID:       subject.TeacherID,
		TeacherName:     subject.TeacherName,
		Date:            date,
		LessonNumber:    slot.LessonNumber,
		StartTime:       slot.StartTime,
		EndTime:         slot.EndTime,
		RoomID:          slot.RoomID,
		Status:          models.LessonStatusPlanned,
		IsAutoGenerated: true,
	}
	if err := s.lessons.Create(ctx, &lesson); err != nil {
		fail(err, "create")
		return
	}
	result.Created++
}
