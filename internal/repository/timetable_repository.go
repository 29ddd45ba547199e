package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bekzod-dev/maktab-api/internal/models"
)

// TimetableRepository persists recurring templates and their slots. A
// template exclusively owns its slots; deleting the template removes them.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository creates a new timetable repository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// ListTemplates returns templates for a branch, newest first.
func (r *TimetableRepository) ListTemplates(ctx context.Context, branchID string) ([]models.TimetableTemplate, error) {
	const query = `SELECT id, branch_id, name, is_active, created_at, updated_at FROM timetable_templates WHERE branch_id = $1 ORDER BY created_at DESC`
	var templates []models.TimetableTemplate
	if err := r.db.SelectContext(ctx, &templates, query, branchID); err != nil {
		return nil, fmt.Errorf("list timetable templates: %w", err)
	}
	return templates, nil
}

// FindTemplate loads a template by id.
func (r *TimetableRepository) FindTemplate(ctx context.Context, id string) (*models.TimetableTemplate, error) {
	const query = `SELECT id, branch_id, name, is_active, created_at, updated_at FROM timetable_templates WHERE id = $1`
	var template models.TimetableTemplate
	if err := r.db.GetContext(ctx, &template, query, id); err != nil {
		return nil, err
	}
	return &template, nil
}

// CreateTemplate stores a new template.
func (r *TimetableRepository) CreateTemplate(ctx context.Context, template *models.TimetableTemplate) error {
	if template.ID == "" {
		template.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	template.CreatedAt = now
	template.UpdatedAt = now

	const query = `INSERT INTO timetable_templates (id, branch_id, name, is_active, created_at, updated_at) VALUES (:id, :branch_id, :name, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, template); err != nil {
		return fmt.Errorf("create timetable template: %w", err)
	}
	return nil
}

// DeleteTemplate removes a template and all of its slots.
func (r *TimetableRepository) DeleteTemplate(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete template: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM timetable_slots WHERE timetable_id = $1`, id); err != nil {
		return fmt.Errorf("delete template slots: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM timetable_templates WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete template: %w", err)
	}
	return nil
}

const slotColumns = `id, timetable_id, class_id, class_subject_id, teacher_id, day_of_week, lesson_number, start_time, end_time, room_id, created_at, updated_at`

// ListSlots returns a template's slots, optionally restricted to one day.
func (r *TimetableRepository) ListSlots(ctx context.Context, timetableID string, dayOfWeek *int) ([]models.TimetableSlot, error) {
	query := fmt.Sprintf(`SELECT %s FROM timetable_slots WHERE timetable_id = $1`, slotColumns)
	args := []interface{}{timetableID}
	if dayOfWeek != nil {
		query += ` AND day_of_week = $2`
		args = append(args, *dayOfWeek)
	}
	query += ` ORDER BY day_of_week ASC, lesson_number ASC`

	var slots []models.TimetableSlot
	if err := r.db.SelectContext(ctx, &slots, query, args...); err != nil {
		return nil, fmt.Errorf("list timetable slots: %w", err)
	}
	return slots, nil
}

// FindSlot loads a slot by id.
func (r *TimetableRepository) FindSlot(ctx context.Context, id string) (*models.TimetableSlot, error) {
	query := fmt.Sprintf(`SELECT %s FROM timetable_slots WHERE id = $1`, slotColumns)
	var slot models.TimetableSlot
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		return nil, err
	}
	return &slot, nil
}

// FindSlotConflicts returns slots occupying the same template/day/lesson
// ordinal; the service decides which dimension actually collides.
func (r *TimetableRepository) FindSlotConflicts(ctx context.Context, timetableID string, dayOfWeek, lessonNumber int) ([]models.TimetableSlot, error) {
	query := fmt.Sprintf(`SELECT %s FROM timetable_slots WHERE timetable_id = $1 AND day_of_week = $2 AND lesson_number = $3`, slotColumns)
	var slots []models.TimetableSlot
	if err := r.db.SelectContext(ctx, &slots, query, timetableID, dayOfWeek, lessonNumber); err != nil {
		return nil, fmt.Errorf("find slot conflicts: %w", err)
	}
	return slots, nil
}

// CreateSlot stores a new slot.
func (r *TimetableRepository) CreateSlot(ctx context.Context, slot *models.TimetableSlot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	slot.CreatedAt = now
	slot.UpdatedAt = now

	const query = `INSERT INTO timetable_slots (id, timetable_id, class_id, class_subject_id, teacher_id, day_of_week, lesson_number, start_time, end_time, room_id, created_at, updated_at) VALUES (:id, :timetable_id, :class_id, :class_subject_id, :teacher_id, :day_of_week, :lesson_number, :start_time, :end_time, :room_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("create timetable slot: %w", err)
	}
	return nil
}

// UpdateSlot modifies an existing slot.
func (r *TimetableRepository) UpdateSlot(ctx context.Context, slot *models.TimetableSlot) error {
	slot.UpdatedAt = time.Now().UTC()
	const query = `UPDATE timetable_slots SET class_id = :class_id, class_subject_id = :class_subject_id, teacher_id = :teacher_id, day_of_week = :day_of_week, lesson_number = :lesson_number, start_time = :start_time, end_time = :end_time, room_id = :room_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("update timetable slot: %w", err)
	}
	return nil
}

// DeleteSlot removes a slot by id.
func (r *TimetableRepository) DeleteSlot(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM timetable_slots WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete timetable slot: %w", err)
	}
	return nil
}
