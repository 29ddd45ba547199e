package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bekzod-dev/maktab-api/internal/models"
)

// BranchRepository reads branch records and their schedule settings.
type BranchRepository struct {
	db *sqlx.DB
}

// NewBranchRepository creates a new branch repository.
func NewBranchRepository(db *sqlx.DB) *BranchRepository {
	return &BranchRepository{db: db}
}

// FindByID loads a branch by id.
func (r *BranchRepository) FindByID(ctx context.Context, id string) (*models.Branch, error) {
	const query = `SELECT id, name, address, created_at, updated_at FROM branches WHERE id = $1`
	var branch models.Branch
	if err := r.db.GetContext(ctx, &branch, query, id); err != nil {
		return nil, err
	}
	return &branch, nil
}

// GetScheduleSettings loads the schooling-hours configuration for a branch.
func (r *BranchRepository) GetScheduleSettings(ctx context.Context, branchID string) (*models.BranchScheduleSettings, error) {
	const query = `SELECT branch_id, school_start_time, school_end_time, daily_lesson_end_time, lesson_duration_minutes, break_duration_minutes, lunch_break_start, lunch_break_end, updated_at FROM branch_schedule_settings WHERE branch_id = $1`
	var settings models.BranchScheduleSettings
	if err := r.db.GetContext(ctx, &settings, query, branchID); err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpsertScheduleSettings stores branch schooling-hours configuration.
func (r *BranchRepository) UpsertScheduleSettings(ctx context.Context, settings *models.BranchScheduleSettings) error {
	const query = `
INSERT INTO branch_schedule_settings (branch_id, school_start_time, school_end_time, daily_lesson_end_time, lesson_duration_minutes, break_duration_minutes, lunch_break_start, lunch_break_end, updated_at)
VALUES (:branch_id, :school_start_time, :school_end_time, :daily_lesson_end_time, :lesson_duration_minutes, :break_duration_minutes, :lunch_break_start, :lunch_break_end, NOW())
ON CONFLICT (branch_id) DO UPDATE
SET school_start_time = EXCLUDED.school_start_time,
    school_end_time = EXCLUDED.school_end_time,
    daily_lesson_end_time = EXCLUDED.daily_lesson_end_time,
    lesson_duration_minutes = EXCLUDED.lesson_duration_minutes,
    break_duration_minutes = EXCLUDED.break_duration_minutes,
    lunch_break_start = EXCLUDED.lunch_break_start,
    lunch_break_end = EXCLUDED.lunch_break_end,
    updated_at = NOW()`
	if _, err := r.db.NamedExecContext(ctx, query, settings); err != nil {
		return fmt.Errorf("upsert branch schedule settings: %w", err)
	}
	return nil
}
