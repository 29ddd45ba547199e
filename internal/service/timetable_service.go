package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bekzod-dev/maktab-api/internal/dto"
	"github.com/bekzod-dev/maktab-api/internal/models"
	"github.com/bekzod-dev/maktab-api/internal/timetable"
	appErrors "github.com/bekzod-dev/maktab-api/pkg/errors"
)

type timetableRepository interface {
	ListTemplates(ctx context.Context, branchID string) ([]models.TimetableTemplate, error)
	FindTemplate(ctx context.Context, id string) (*models.TimetableTemplate, error)
	CreateTemplate(ctx context.Context, template *models.TimetableTemplate) error
	DeleteTemplate(ctx context.Context, id string) error
	ListSlots(ctx context.Context, timetableID string, dayOfWeek *int) ([]models.TimetableSlot, error)
	FindSlot(ctx context.Context, id string) (*models.TimetableSlot, error)
	FindSlotConflicts(ctx context.Context, timetableID string, dayOfWeek, lessonNumber int) ([]models.TimetableSlot, error)
	CreateSlot(ctx context.Context, slot *models.TimetableSlot) error
	UpdateSlot(ctx context.Context, slot *models.TimetableSlot) error
	DeleteSlot(ctx context.Context, id string) error
}

type classSubjectReader interface {
	FindByID(ctx context.Context, id string) (*models.ClassSubject, error)
}

type slotTableProvider interface {
	SlotTable(ctx context.Context, branchID string) (*timetable.SlotTable, error)
}

// TimetableService manages weekly templates and their slots. Every slot
// write re-derives the lesson number from the branch slot table and re-runs
// the class, teacher and room uniqueness checks.
type TimetableService struct {
	repo      timetableRepository
	subjects  classSubjectReader
	settings  slotTableProvider
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimetableService instantiates TimetableService.
func NewTimetableService(repo timetableRepository, subjects classSubjectReader, settings slotTableProvider, validate *validator.Validate, logger *zap.Logger) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{repo: repo, subjects: subjects, settings: settings, validator: validate, logger: logger}
}

// ListTemplates returns all templates for a branch.
func (s *TimetableService) ListTemplates(ctx context.Context, branchID string) ([]models.TimetableTemplate, error) {
	templates, err := s.repo.ListTemplates(ctx, branchID)
	if err != nil {
		return nil, wrapStoreError(err, "failed to list timetables")
	}
	return templates, nil
}

// GetTemplate loads one template by id.
func (s *TimetableService) GetTemplate(ctx context.Context, id string) (*models.TimetableTemplate, error) {
	template, err := s.repo.FindTemplate(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return nil, wrapStoreError(err, "failed to load timetable")
	}
	return template, nil
}

// CreateTemplate creates an empty weekly template.
func (s *TimetableService) CreateTemplate(ctx context.Context, req dto.CreateTimetableRequest) (*models.TimetableTemplate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable payload")
	}

	template := models.TimetableTemplate{
		BranchID: req.BranchID,
		Name:     req.Name,
		IsActive: req.IsActive,
	}
	if err := s.repo.CreateTemplate(ctx, &template); err != nil {
		return nil, wrapStoreError(err, "failed to create timetable")
	}
	return &template, nil
}

// DeleteTemplate removes a template and all of its slots.
func (s *TimetableService) DeleteTemplate(ctx context.Context, id string) error {
	if _, err := s.GetTemplate(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteTemplate(ctx, id); err != nil {
		return wrapStoreError(err, "failed to delete timetable")
	}
	return nil
}

// ListSlots returns the slots of a template, optionally filtered to one
// weekday given by its wire name.
func (s *TimetableService) ListSlots(ctx context.Context, timetableID, dayName string) ([]dto.SlotResponse, error) {
	var day *int
	if dayName != "" {
		parsed, err := timetable.ParseWeekday(dayName)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid day_of_week")
		}
		value := int(parsed)
		day = &value
	}

	slots, err := s.repo.ListSlots(ctx, timetableID, day)
	if err != nil {
		return nil, wrapStoreError(err, "failed to list timetable slots")
	}
	return dto.NewSlotResponses(slots), nil
}

// CreateSlot adds a recurring slot after deriving its lesson number and
// checking the three uniqueness dimensions.
func (s *TimetableService) CreateSlot(ctx context.Context, req dto.SlotPayload) (*dto.SlotResponse, error) {
	slot, err := s.prepareSlot(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNoSlotConflict(ctx, *slot, ""); err != nil {
		return nil, err
	}
	if err := s.repo.CreateSlot(ctx, slot); err != nil {
		return nil, wrapStoreError(err, "failed to create timetable slot")
	}
	resp := dto.NewSlotResponse(*slot)
	return &resp, nil
}

// UpdateSlot moves or reassigns an existing slot. The full rule set runs
// again, excluding the slot itself from the conflict scan.
func (s *TimetableService) UpdateSlot(ctx context.Context, id string, req dto.SlotPayload) (*dto.SlotResponse, error) {
	existing, err := s.repo.FindSlot(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable slot not found")
		}
		return nil, wrapStoreError(err, "failed to load timetable slot")
	}

	slot, err := s.prepareSlot(ctx, req)
	if err != nil {
		return nil, err
	}
	slot.ID = existing.ID
	slot.CreatedAt = existing.CreatedAt

	if err := s.ensureNoSlotConflict(ctx, *slot, existing.ID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateSlot(ctx, slot); err != nil {
		return nil, wrapStoreError(err, "failed to update timetable slot")
	}
	resp := dto.NewSlotResponse(*slot)
	return &resp, nil
}

// DeleteSlot removes one slot.
func (s *TimetableService) DeleteSlot(ctx context.Context, id string) error {
	if _, err := s.repo.FindSlot(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "timetable slot not found")
		}
		return wrapStoreError(err, "failed to load timetable slot")
	}
	if err := s.repo.DeleteSlot(ctx, id); err != nil {
		return wrapStoreError(err, "failed to delete timetable slot")
	}
	return nil
}

// prepareSlot validates the payload, resolves the template and class
// subject, and derives the lesson number from the branch slot table. Times
// must land exactly on a configured slot; snapping is a client concern.
func (s *TimetableService) prepareSlot(ctx context.Context, req dto.SlotPayload) (*models.TimetableSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload")
	}

	day, err := timetable.ParseWeekday(req.DayOfWeek)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid day_of_week")
	}

	template, err := s.GetTemplate(ctx, req.TimetableID)
	if err != nil {
		return nil, err
	}

	table, err := s.settings.SlotTable(ctx, template.BranchID)
	if err != nil {
		return nil, err
	}

	lessonNumber, err := table.LessonNumberForStart(req.StartTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnknownSlot.Code, appErrors.ErrUnknownSlot.Status,
			fmt.Sprintf("start time %s does not match any configured slot", req.StartTime))
	}
	if !table.IsValidRange(req.StartTime, req.EndTime) {
		return nil, appErrors.Clone(appErrors.ErrUnknownSlot,
			fmt.Sprintf("time range %s-%s does not match slot %d", req.StartTime, req.EndTime, lessonNumber))
	}
	if req.LessonNumber != 0 && req.LessonNumber != lessonNumber {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("lesson_number %d does not match start time (expected %d)", req.LessonNumber, lessonNumber))
	}

	subject, err := s.subjects.FindByID(ctx, req.ClassSubjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class subject not found")
		}
		return nil, wrapStoreError(err, "failed to load class subject")
	}
	if subject.ClassID != req.ClassID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "class subject belongs to a different class")
	}

	def, err := table.ByLessonNumber(lessonNumber)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrUnknownSlot, "slot table lookup failed")
	}

	return &models.TimetableSlot{
		TimetableID:    req.TimetableID,
		ClassID:        req.ClassID,
		ClassSubjectID: req.ClassSubjectID,
		TeacherID:      subject.TeacherID,
		DayOfWeek:      int(day),
		LessonNumber:   lessonNumber,
		StartTime:      timetable.WireClock(def.StartMin),
		EndTime:        timetable.WireClock(def.EndMin),
		RoomID:         req.RoomID,
	}, nil
}

func (s *TimetableService) ensureNoSlotConflict(ctx context.Context, slot models.TimetableSlot, ignoreID string) error {
	existing, err := s.repo.FindSlotConflicts(ctx, slot.TimetableID, slot.DayOfWeek, slot.LessonNumber)
	if err != nil {
		return wrapStoreError(err, "failed to check slot conflicts")
	}

	for _, item := range existing {
		if item.ID == ignoreID {
			continue
		}
		if item.ClassID == slot.ClassID {
			return s.wrapSlotConflict("CLASS", "class already has a lesson in this slot", item)
		}
		if item.TeacherID == slot.TeacherID {
			return s.wrapSlotConflict("TEACHER", "teacher already teaches in this slot", item)
		}
		if slot.RoomID != nil && item.RoomID != nil && *item.RoomID == *slot.RoomID {
			return s.wrapSlotConflict("ROOM", "room already booked in this slot", item)
		}
	}
	return nil
}

func (s *TimetableService) wrapSlotConflict(dimension, message string, existing models.TimetableSlot) error {
	conflict := models.SlotConflict{
		SlotID:         existing.ID,
		TimetableID:    existing.TimetableID,
		ClassID:        existing.ClassID,
		ClassSubjectID: existing.ClassSubjectID,
		TeacherID:      existing.TeacherID,
		DayOfWeek:      timetable.Weekday(existing.DayOfWeek).String(),
		LessonNumber:   existing.LessonNumber,
		RoomID:         existing.RoomID,
		Dimension:      dimension,
	}
	domainErr := &models.SlotConflictError{Type: dimension, Message: message, Conflict: conflict}
	return appErrors.Wrap(domainErr, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, fmt.Sprintf("slot conflict: %s", message))
}
