package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bekzod-dev/maktab-api/internal/dto"
	"github.com/bekzod-dev/maktab-api/internal/models"
	"github.com/bekzod-dev/maktab-api/internal/timetable"
	"github.com/bekzod-dev/maktab-api/pkg/clock"
	appErrors "github.com/bekzod-dev/maktab-api/pkg/errors"
)

type lessonRepository interface {
	List(ctx context.Context, filter models.LessonFilter) ([]models.LessonInstance, int, error)
	FindByID(ctx context.Context, id string) (*models.LessonInstance, error)
	FindOverlapping(ctx context.Context, branchID string, date time.Time, start, end string) ([]models.LessonInstance, error)
	Create(ctx context.Context, lesson *models.LessonInstance) error
	Update(ctx context.Context, lesson *models.LessonInstance) error
	UpdateStatus(ctx context.Context, id string, status models.LessonStatus) error
	Delete(ctx context.Context, id string) error
}

type availabilityChecker interface {
	Check(ctx context.Context, query dto.AvailabilityQuery) (*models.AvailabilityResult, error)
}

// WeeklyGrid arranges lessons for timetable rendering: weekday name, then
// "start-end" cell key, then the lessons in that cell.
type WeeklyGrid struct {
	Days      map[string]map[string][]models.LessonInstance `json:"days"`
	TimeSlots []timetable.TimeRange                         `json:"time_slots"`
}

// LessonService manages concrete dated lessons: the manually booked ones
// and the ones materialised from timetable templates.
type LessonService struct {
	repo         lessonRepository
	subjects     classSubjectReader
	availability availabilityChecker
	settings     slotTableProvider
	clock        clock.Clock
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewLessonService instantiates LessonService.
func NewLessonService(repo lessonRepository, subjects classSubjectReader, availability availabilityChecker, settings slotTableProvider, clk clock.Clock, validate *validator.Validate, logger *zap.Logger) *LessonService {
	if clk == nil {
		clk = clock.NewSystem("")
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LessonService{
		repo:         repo,
		subjects:     subjects,
		availability: availability,
		settings:     settings,
		clock:        clk,
		validator:    validate,
		logger:       logger,
	}
}

// List returns lessons matching the filter with pagination metadata. Each
// lesson carries its computed temporal state.
func (s *LessonService) List(ctx context.Context, filter models.LessonFilter) ([]models.LessonInstance, *models.Pagination, error) {
	lessons, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, wrapStoreError(err, "failed to list lessons")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	now := s.clock.Now()
	for i := range lessons {
		lessons[i].State = s.classify(lessons[i], now)
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return lessons, pagination, nil
}

// Get loads one lesson by id.
func (s *LessonService) Get(ctx context.Context, id string) (*models.LessonInstance, error) {
	lesson, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return nil, wrapStoreError(err, "failed to load lesson")
	}
	lesson.State = s.classify(*lesson, s.clock.Now())
	return lesson, nil
}

// Create books a single dated lesson. The time range must land on a
// configured slot and the availability check must come back clean for the
// class, the subject's teacher, and the room when one is requested.
func (s *LessonService) Create(ctx context.Context, req dto.CreateLessonRequest) (*models.LessonInstance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson payload")
	}

	date, err := time.Parse(dto.DateLayout, req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidFormat.Code, appErrors.ErrInvalidFormat.Status, "invalid date")
	}

	table, err := s.settings.SlotTable(ctx, req.BranchID)
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

	query := dto.AvailabilityQuery{
		BranchID:       req.BranchID,
		ClassID:        req.ClassID,
		Date:           req.Date,
		Start:          req.StartTime,
		End:            req.EndTime,
		ClassSubjectID: req.ClassSubjectID,
	}
	if req.RoomID != nil {
		query.RoomID = *req.RoomID
	}
	availability, err := s.availability.Check(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(availability.Conflicts) > 0 {
		first := availability.Conflicts[0]
		return nil, appErrors.Wrap(
			&models.SlotConflictError{Type: first.Dimension, Message: first.Message},
			appErrors.ErrConflict.Code, appErrors.ErrConflict.Status,
			fmt.Sprintf("booking conflict: %s", first.Message))
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

	lesson := models.LessonInstance{
		BranchID:        req.BranchID,
		ClassID:         req.ClassID,
		ClassSubjectID:  req.ClassSubjectID,
		SubjectName:     subject.SubjectName,
		TeacherID:       subject.TeacherID,
		TeacherName:     subject.TeacherName,
		Date:            date,
		LessonNumber:    lessonNumber,
		StartTime:       timetable.WireClock(def.StartMin),
		EndTime:         timetable.WireClock(def.EndMin),
		RoomID:          req.RoomID,
		Status:          models.LessonStatusPlanned,
		Topic:           req.Topic,
		IsAutoGenerated: false,
	}
	if err := s.repo.Create(ctx, &lesson); err != nil {
		return nil, wrapStoreError(err, "failed to create lesson")
	}
	lesson.State = s.classify(lesson, s.clock.Now())
	return &lesson, nil
}

// Update edits the free-text fields and the room of a lesson. Date and time
// never change here; a moved lesson is deleted and recreated so the full
// slot checks run again. A room change is re-checked for overlaps.
func (s *LessonService) Update(ctx context.Context, id string, req dto.UpdateLessonRequest) (*models.LessonInstance, error) {
	lesson, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Topic != nil {
		lesson.Topic = req.Topic
	}
	if req.Homework != nil {
		lesson.Homework = req.Homework
	}
	if req.TeacherNotes != nil {
		lesson.TeacherNotes = req.TeacherNotes
	}
	if req.RoomID != nil && (lesson.RoomID == nil || *lesson.RoomID != *req.RoomID) {
		if err := s.ensureRoomFree(ctx, lesson, *req.RoomID); err != nil {
			return nil, err
		}
		lesson.RoomID = req.RoomID
	}

	if err := s.repo.Update(ctx, lesson); err != nil {
		return nil, wrapStoreError(err, "failed to update lesson")
	}
	lesson.State = s.classify(*lesson, s.clock.Now())
	return lesson, nil
}

// UpdateStatus transitions a lesson's lifecycle state. Only planned lessons
// move; completed and cancelled are terminal.
func (s *LessonService) UpdateStatus(ctx context.Context, id string, req dto.UpdateLessonStatusRequest) (*models.LessonInstance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	status := models.LessonStatus(req.Status)
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown lesson status")
	}

	lesson, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if lesson.Status != models.LessonStatusPlanned {
		return nil, appErrors.Clone(appErrors.ErrConflict,
			fmt.Sprintf("lesson is already %s", lesson.Status))
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, wrapStoreError(err, "failed to update lesson status")
	}
	lesson.Status = status
	return lesson, nil
}

// Delete removes a lesson.
func (s *LessonService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return wrapStoreError(err, "failed to delete lesson")
	}
	return nil
}

// Grid returns lessons grouped for weekly timetable rendering along with
// the distinct time slots they occupy.
func (s *LessonService) Grid(ctx context.Context, filter models.LessonFilter) (*WeeklyGrid, error) {
	filter.PageSize = 200
	var lessons []models.LessonInstance
	for page := 1; ; page++ {
		filter.Page = page
		batch, total, err := s.repo.List(ctx, filter)
		if err != nil {
			return nil, wrapStoreError(err, "failed to list lessons")
		}
		lessons = append(lessons, batch...)
		if len(batch) == 0 || len(lessons) >= total {
			break
		}
	}

	now := s.clock.Now()
	for i := range lessons {
		lessons[i].State = s.classify(lessons[i], now)
	}

	var table *timetable.SlotTable
	if s.settings != nil {
		if tbl, err := s.settings.SlotTable(ctx, filter.BranchID); err == nil {
			table = tbl
		}
	}
	if table != nil {
		return s.snappedGrid(lessons, table)
	}

	grouped, err := timetable.GroupByDayAndSlot(lessons)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored lesson has an unreadable time")
	}
	slots, err := timetable.DistinctTimeSlots(lessons)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored lesson has an unreadable time")
	}

	grid := &WeeklyGrid{
		Days:      make(map[string]map[string][]models.LessonInstance, len(grouped)),
		TimeSlots: slots,
	}
	for day, cells := range grouped {
		grid.Days[day.String()] = cells
	}
	return grid, nil
}

// snappedGrid renders lessons against the branch slot table, snapping each
// lesson into its nearest generated slot. A lesson booked off-grid (after a
// settings change) still lands in the closest cell instead of spawning a
// stray row.
func (s *LessonService) snappedGrid(lessons []models.LessonInstance, table *timetable.SlotTable) (*WeeklyGrid, error) {
	grid := &WeeklyGrid{Days: make(map[string]map[string][]models.LessonInstance)}
	used := make(map[string]timetable.TimeRange)
	for _, lesson := range lessons {
		def, err := table.Nearest(lesson.StartTime)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored lesson has an unreadable time")
		}
		day := timetable.WeekdayOf(lesson.Date).String()
		key := timetable.SlotKey(def.Start, def.End)
		if grid.Days[day] == nil {
			grid.Days[day] = make(map[string][]models.LessonInstance)
		}
		grid.Days[day][key] = append(grid.Days[day][key], lesson)
		used[key] = timetable.TimeRange{Start: def.Start, End: def.End}
	}
	grid.TimeSlots = make([]timetable.TimeRange, 0, len(used))
	for _, r := range used {
		grid.TimeSlots = append(grid.TimeSlots, r)
	}
	sort.Slice(grid.TimeSlots, func(i, j int) bool {
		return grid.TimeSlots[i].Start < grid.TimeSlots[j].Start
	})
	return grid, nil
}

func (s *LessonService) ensureRoomFree(ctx context.Context, lesson *models.LessonInstance, roomID string) error {
	overlapping, err := s.repo.FindOverlapping(ctx, lesson.BranchID, lesson.Date, lesson.StartTime, lesson.EndTime)
	if err != nil {
		return wrapStoreError(err, "failed to check room availability")
	}
	for _, other := range overlapping {
		if other.ID == lesson.ID {
			continue
		}
		if other.RoomID != nil && *other.RoomID == roomID {
			return appErrors.Wrap(
				&models.SlotConflictError{Type: "ROOM", Message: "room is booked in this window"},
				appErrors.ErrConflict.Code, appErrors.ErrConflict.Status,
				"booking conflict: room is booked in this window")
		}
	}
	return nil
}

func (s *LessonService) classify(lesson models.LessonInstance, now time.Time) string {
	if ongoing, err := timetable.IsOngoing(lesson.Date, lesson.StartTime, lesson.EndTime, now); err == nil && ongoing {
		return "ongoing"
	}
	past, err := timetable.IsPast(lesson.Date, lesson.EndTime, now)
	if err != nil {
		return ""
	}
	if past {
		return "past"
	}
	return "upcoming"
}
