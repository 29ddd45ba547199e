package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bekzod-dev/maktab-api/internal/dto"
	"github.com/bekzod-dev/maktab-api/internal/models"
	appErrors "github.com/bekzod-dev/maktab-api/pkg/errors"
)

func generatorFixture(t *testing.T) (*GeneratorService, *timetableRepoStub, *lessonRepoStub) {
	t.Helper()
	timetables := newTimetableRepoStub()
	timetables.templates["tt1"] = models.TimetableTemplate{ID: "tt1", BranchID: "b1", Name: "Fall"}
	timetables.slots["s1"] = models.TimetableSlot{
		ID: "s1", TimetableID: "tt1", ClassID: "c1", ClassSubjectID: "cs-math",
		TeacherID: "t1", DayOfWeek: 1, LessonNumber: 1,
		StartTime: "08:00:00", EndTime: "08:45:00",
	}
	timetables.slots["s2"] = models.TimetableSlot{
		ID: "s2", TimetableID: "tt1", ClassID: "c1", ClassSubjectID: "cs-math",
		TeacherID: "t1", DayOfWeek: 1, LessonNumber: 2,
		StartTime: "08:55:00", EndTime: "09:40:00",
	}
	lessons := newLessonRepoStub()
	subjects := &subjectReaderStub{subjects: map[string]models.ClassSubject{
		"cs-math": {ID: "cs-math", ClassID: "c1", SubjectName: "Mathematics", TeacherID: "t1", TeacherName: "Aziz Karimov"},
	}}
	svc := NewGeneratorService(timetables, lessons, subjects, nil, 366, nil, nil)
	return svc, timetables, lessons
}

func TestGeneratorCreatesLessonsForMatchingWeekdays(t *testing.T) {
	svc, _, lessons := generatorFixture(t)

	// 2025-09-01..2025-09-14 contains exactly two Mondays.
	result, err := svc.Generate(context.Background(), "tt1", dto.GenerateLessonsRequest{
		StartDate: "2025-09-01",
		EndDate:   "2025-09-14",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, result.Created)
	assert.Zero(t, result.Updated)
	assert.Zero(t, result.Skipped)
	assert.Zero(t, result.Failed)
	assert.Len(t, lessons.lessons, 4)

	for _, lesson := range lessons.lessons {
		assert.True(t, lesson.IsAutoGenerated)
		assert.Equal(t, models.LessonStatusPlanned, lesson.Status)
		assert.Equal(t, "Mathematics", lesson.SubjectName)
		assert.Equal(t, "b1", lesson.BranchID)
	}
}

func TestGeneratorSkipExisting(t *testing.T) {
	svc, _, lessons := generatorFixture(t)

	req := dto.GenerateLessonsRequest{StartDate: "2025-09-01", EndDate: "2025-09-07"}
	first, err := svc.Generate(context.Background(), "tt1", req)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Created)

	req.SkipExisting = true
	second, err := svc.Generate(context.Background(), "tt1", req)
	require.NoError(t, err)
	assert.Zero(t, second.Created)
	assert.Equal(t, 2, second.Skipped)
	assert.Len(t, lessons.lessons, 2)
}

func TestGeneratorOverwritesWithoutSkip(t *testing.T) {
	svc, timetables, lessons := generatorFixture(t)

	req := dto.GenerateLessonsRequest{StartDate: "2025-09-01", EndDate: "2025-09-07"}
	_, err := svc.Generate(context.Background(), "tt1", req)
	require.NoError(t, err)

	// Reassign the first slot to a room and regenerate in place.
	slot := timetables.slots["s1"]
	room := "r7"
	slot.RoomID = &room
	timetables.slots["s1"] = slot

	second, err := svc.Generate(context.Background(), "tt1", req)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Updated)
	assert.Zero(t, second.Created)

	rewritten := 0
	for _, lesson := range lessons.lessons {
		if lesson.LessonNumber == 1 && lesson.RoomID != nil && *lesson.RoomID == "r7" {
			rewritten++
		}
	}
	assert.Equal(t, 1, rewritten)
}

func TestGeneratorReversedRangeNoWrites(t *testing.T) {
	svc, _, lessons := generatorFixture(t)

	_, err := svc.Generate(context.Background(), "tt1", dto.GenerateLessonsRequest{
		StartDate: "2025-09-14",
		EndDate:   "2025-09-01",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidRange.Code, appErrors.FromError(err).Code)
	assert.Empty(t, lessons.lessons)
}

func TestGeneratorRangeTooLong(t *testing.T) {
	svc, _, _ := generatorFixture(t)

	_, err := svc.Generate(context.Background(), "tt1", dto.GenerateLessonsRequest{
		StartDate: "2025-01-01",
		EndDate:   "2026-12-31",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestGeneratorUnknownTemplate(t *testing.T) {
	svc, _, _ := generatorFixture(t)

	_, err := svc.Generate(context.Background(), "ghost", dto.GenerateLessonsRequest{
		StartDate: "2025-09-01",
		EndDate:   "2025-09-07",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestGeneratorContinuesPastFailures(t *testing.T) {
	svc, _, lessons := generatorFixture(t)
	lessons.err = assert.AnError

	result, err := svc.Generate(context.Background(), "tt1", dto.GenerateLessonsRequest{
		StartDate: "2025-09-01",
		EndDate:   "2025-09-07",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Failed)
	assert.Zero(t, result.Created)
	assert.Len(t, result.Errors, 2)
}
