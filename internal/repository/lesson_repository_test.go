package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/bekzod-dev/maktab-api/internal/models"
)

func lessonRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "branch_id", "class_id", "class_subject_id", "subject_name",
		"teacher_id", "teacher_name", "date", "lesson_number", "start_time",
		"end_time", "room_id", "status", "topic", "homework", "teacher_notes",
		"is_auto_generated", "created_at", "updated_at",
	})
}

func TestLessonRepositoryListWithFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewLessonRepository(db, nil)
	date := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	rows := lessonRows().AddRow(
		"l1", "b1", "c1", "cs1", "Algebra",
		"t1", "Karimova N.", date, 1, "08:00:00",
		"08:45:00", nil, "planned", nil, nil, nil,
		true, time.Now(), time.Now(),
	)
	mock.ExpectQuery(regexp.QuoteMeta("FROM lesson_instances WHERE branch_id = $1 AND class_id = $2 AND date = $3 AND status = $4")).
		WithArgs("b1", "c1", date, "planned").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM lesson_instances WHERE branch_id = $1")).
		WithArgs("b1", "c1", date, "planned").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	lessons, total, err := repo.List(context.Background(), models.LessonFilter{
		BranchID: "b1",
		ClassID:  "c1",
		Date:     &date,
		Status:   models.LessonStatusPlanned,
		Page:     1,
		PageSize: 20,
	})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, lessons, 1)
	require.Equal(t, "Algebra", lessons[0].SubjectName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepositoryFindOverlappingExcludesCancelled(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewLessonRepository(db, nil)
	date := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("status <> 'cancelled' AND start_time < $4 AND $3 < end_time")).
		WithArgs("b1", date, "08:00:00", "08:45:00").
		WillReturnRows(lessonRows())

	lessons, err := repo.FindOverlapping(context.Background(), "b1", date, "08:00:00", "08:45:00")
	require.NoError(t, err)
	require.Empty(t, lessons)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepositoryCreateDefaults(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewLessonRepository(db, nil)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO lesson_instances")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	lesson := &models.LessonInstance{
		BranchID:       "b1",
		ClassID:        "c1",
		ClassSubjectID: "cs1",
		SubjectName:    "Algebra",
		TeacherID:      "t1",
		Date:           time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		LessonNumber:   1,
		StartTime:      "08:00:00",
		EndTime:        "08:45:00",
	}
	require.NoError(t, repo.Create(context.Background(), lesson))
	require.NotEmpty(t, lesson.ID)
	require.Equal(t, models.LessonStatusPlanned, lesson.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewLessonRepository(db, nil)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE lesson_instances SET status = $2")).
		WithArgs("l1", models.LessonStatusCompleted).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), "l1", models.LessonStatusCompleted)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewLessonRepository(db, nil)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM lesson_instances WHERE id = $1")).
		WithArgs("l1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "l1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
