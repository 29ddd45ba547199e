package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bekzod-dev/maktab-api/internal/models"
)

// ClassSubjectRepository reads subject/teacher bindings for classes.
type ClassSubjectRepository struct {
	db *sqlx.DB
}

// NewClassSubjectRepository creates a new class-subject repository.
func NewClassSubjectRepository(db *sqlx.DB) *ClassSubjectRepository {
	return &ClassSubjectRepository{db: db}
}

const classSubjectColumns = `cs.id, cs.branch_id, cs.class_id, cs.subject_id, s.name AS subject_name, cs.teacher_id, t.full_name AS teacher_name, cs.created_at`

// ListByClass returns the subjects assigned to a class with their teachers.
func (r *ClassSubjectRepository) ListByClass(ctx context.Context, classID string) ([]models.ClassSubject, error) {
	query := fmt.Sprintf(`SELECT %s FROM class_subjects cs JOIN subjects s ON s.id = cs.subject_id JOIN teachers t ON t.id = cs.teacher_id WHERE cs.class_id = $1 ORDER BY s.name ASC`, classSubjectColumns)
	var subjects []models.ClassSubject
	if err := r.db.SelectContext(ctx, &subjects, query, classID); err != nil {
		return nil, fmt.Errorf("list class subjects: %w", err)
	}
	return subjects, nil
}

// FindByID loads a single class-subject binding.
func (r *ClassSubjectRepository) FindByID(ctx context.Context, id string) (*models.ClassSubject, error) {
	query := fmt.Sprintf(`SELECT %s FROM class_subjects cs JOIN subjects s ON s.id = cs.subject_id JOIN teachers t ON t.id = cs.teacher_id WHERE cs.id = $1`, classSubjectColumns)
	var subject models.ClassSubject
	if err := r.db.GetContext(ctx, &subject, query, id); err != nil {
		return nil, err
	}
	return &subject, nil
}
