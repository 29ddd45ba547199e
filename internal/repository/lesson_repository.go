package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bekzod-dev/maktab-api/internal/models"
)

// QueryMetrics receives database timing observations. Nil disables
// recording.
type QueryMetrics interface {
	ObserveDBQuery(label string, duration time.Duration)
}

// LessonRepository persists concrete lesson instances.
type LessonRepository struct {
	db      *sqlx.DB
	metrics QueryMetrics
}

// NewLessonRepository creates a new lesson repository.
func NewLessonRepository(db *sqlx.DB, metrics QueryMetrics) *LessonRepository {
	return &LessonRepository{db: db, metrics: metrics}
}

func (r *LessonRepository) observe(label string, started time.Time) {
	if r.metrics != nil {
		r.metrics.ObserveDBQuery(label, time.Since(started))
	}
}

const lessonColumns = `id, branch_id, class_id, class_subject_id, subject_name, teacher_id, teacher_name, date, lesson_number, start_time, end_time, room_id, status, topic, homework, teacher_notes, is_auto_generated, created_at, updated_at`

// List returns lesson instances matching the filter with pagination.
func (r *LessonRepository) List(ctx context.Context, filter models.LessonFilter) ([]models.LessonInstance, int, error) {
	base := "FROM lesson_instances WHERE branch_id = $1"
	args := []interface{}{filter.BranchID}
	var conditions []string

	if filter.ClassID != "" {
		conditions = append(conditions, fmt.Sprintf("class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.Date != nil {
		conditions = append(conditions, fmt.Sprintf("date = $%d", len(args)+1))
		args = append(args, *filter.Date)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY date ASC, start_time ASC LIMIT %d OFFSET %d", lessonColumns, base, size, offset)
	defer r.observe("lessons_list", time.Now())
	var lessons []models.LessonInstance
	if err := r.db.SelectContext(ctx, &lessons, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list lessons: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count lessons: %w", err)
	}

	return lessons, total, nil
}

// FindByID loads a lesson instance by id.
func (r *LessonRepository) FindByID(ctx context.Context, id string) (*models.LessonInstance, error) {
	query := fmt.Sprintf(`SELECT %s FROM lesson_instances WHERE id = $1`, lessonColumns)
	var lesson models.LessonInstance
	if err := r.db.GetContext(ctx, &lesson, query, id); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// FindOverlapping returns every lesson at the branch on the given date whose
// [start, end) intersects the requested range. Cancelled lessons do not
// block a slot.
func (r *LessonRepository) FindOverlapping(ctx context.Context, branchID string, date time.Time, start, end string) ([]models.LessonInstance, error) {
	query := fmt.Sprintf(`SELECT %s FROM lesson_instances WHERE branch_id = $1 AND date = $2 AND status <> 'cancelled' AND start_time < $4 AND $3 < end_time`, lessonColumns)
	defer r.observe("lessons_find_overlapping", time.Now())
	var lessons []models.LessonInstance
	if err := r.db.SelectContext(ctx, &lessons, query, branchID, date, start, end); err != nil {
		return nil, fmt.Errorf("find overlapping lessons: %w", err)
	}
	return lessons, nil
}

// FindByClassDateNumber looks up the instance occupying a class's ordinal
// slot on a date, if any.
func (r *LessonRepository) FindByClassDateNumber(ctx context.Context, classID string, date time.Time, lessonNumber int) (*models.LessonInstance, error) {
	query := fmt.Sprintf(`SELECT %s FROM lesson_instances WHERE class_id = $1 AND date = $2 AND lesson_number = $3`, lessonColumns)
	var lesson models.LessonInstance
	if err := r.db.GetContext(ctx, &lesson, query, classID, date, lessonNumber); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// Create stores a new lesson instance.
func (r *LessonRepository) Create(ctx context.Context, lesson *models.LessonInstance) error {
	if lesson.ID == "" {
		lesson.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	lesson.CreatedAt = now
	lesson.UpdatedAt = now
	if lesson.Status == "" {
		lesson.Status = models.LessonStatusPlanned
	}

	const query = `INSERT INTO lesson_instances (id, branch_id, class_id, class_subject_id, subject_name, teacher_id, teacher_name, date, lesson_number, start_time, end_time, room_id, status, topic, homework, teacher_notes, is_auto_generated, created_at, updated_at) VALUES (:id, :branch_id, :class_id, :class_subject_id, :subject_name, :teacher_id, :teacher_name, :date, :lesson_number, :start_time, :end_time, :room_id, :status, :topic, :homework, :teacher_notes, :is_auto_generated, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, lesson); err != nil {
		return fmt.Errorf("create lesson: %w", err)
	}
	return nil
}

// Update modifies an existing lesson instance.
func (r *LessonRepository) Update(ctx context.Context, lesson *models.LessonInstance) error {
	lesson.UpdatedAt = time.Now().UTC()
	const query = `UPDATE lesson_instances SET class_subject_id = :class_subject_id, subject_name = :subject_name, teacher_id = :teacher_id, teacher_name = :teacher_name, lesson_number = :lesson_number, start_time = :start_time, end_time = :end_time, room_id = :room_id, status = :status, topic = :topic, homework = :homework, teacher_notes = :teacher_notes, is_auto_generated = :is_auto_generated, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, lesson); err != nil {
		return fmt.Errorf("update lesson: %w", err)
	}
	return nil
}

// UpdateStatus transitions a lesson's lifecycle state.
func (r *LessonRepository) UpdateStatus(ctx context.Context, id string, status models.LessonStatus) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE lesson_instances SET status = $2, updated_at = NOW() WHERE id = $1`, id, status); err != nil {
		return fmt.Errorf("update lesson status: %w", err)
	}
	return nil
}

// Delete removes a lesson by id. Deletion is always an explicit user
// action; nothing removes instances automatically.
func (r *LessonRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM lesson_instances WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}
	return nil
}
