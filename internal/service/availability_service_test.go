package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bekzod-dev/maktab-api/internal/dto"
	"github.com/bekzod-dev/maktab-api/internal/models"
	appErrors "github.com/bekzod-dev/maktab-api/pkg/errors"
)

type overlapReaderStub struct {
	lessons []models.LessonInstance
	err     error
}

func (s *overlapReaderStub) FindOverlapping(ctx context.Context, branchID string, date time.Time, start, end string) ([]models.LessonInstance, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.lessons, nil
}

type subjectListerStub struct {
	subjects []models.ClassSubject
}

func (s *subjectListerStub) ListByClass(ctx context.Context, classID string) ([]models.ClassSubject, error) {
	return s.subjects, nil
}

type roomListerStub struct {
	rooms []models.Room
}

func (s *roomListerStub) ListByBranch(ctx context.Context, branchID string) ([]models.Room, error) {
	return s.rooms, nil
}

func availabilityFixture(overlapping []models.LessonInstance) *AvailabilityService {
	subjects := &subjectListerStub{subjects: []models.ClassSubject{
		{ID: "cs-math", ClassID: "c1", SubjectName: "Mathematics", TeacherID: "t1", TeacherName: "Aziz Karimov"},
		{ID: "cs-hist", ClassID: "c1", SubjectName: "History", TeacherID: "t2", TeacherName: "Nilufar Azimova"},
	}}
	rooms := &roomListerStub{rooms: []models.Room{
		{ID: "r1", Name: "101", Capacity: 30},
		{ID: "r2", Name: "102", Capacity: 25},
	}}
	return NewAvailabilityService(&overlapReaderStub{lessons: overlapping}, subjects, rooms, nil, nil)
}

func availabilityQuery() dto.AvailabilityQuery {
	return dto.AvailabilityQuery{
		BranchID: "b1",
		ClassID:  "c1",
		Date:     "2025-09-01",
		Start:    "09:00",
		End:      "09:45",
	}
}

func TestAvailabilityAllFree(t *testing.T) {
	svc := availabilityFixture(nil)

	result, err := svc.Check(context.Background(), availabilityQuery())
	require.NoError(t, err)
	assert.Len(t, result.AvailableSubjects, 2)
	assert.Len(t, result.AvailableRooms, 2)
	assert.Empty(t, result.Conflicts)
}

func TestAvailabilityBusyTeacherExcluded(t *testing.T) {
	room := "r1"
	svc := availabilityFixture([]models.LessonInstance{
		{ID: "l1", ClassID: "c9", TeacherID: "t1", TeacherName: "Aziz Karimov", SubjectName: "Mathematics", StartTime: "09:00:00", EndTime: "09:45:00", RoomID: &room},
	})

	result, err := svc.Check(context.Background(), availabilityQuery())
	require.NoError(t, err)
	require.Len(t, result.AvailableSubjects, 1)
	assert.Equal(t, "History", result.AvailableSubjects[0].SubjectName)
	require.Len(t, result.AvailableRooms, 1)
	assert.Equal(t, "102", result.AvailableRooms[0].Name)
	// Advisory listing only: no concrete assignment was being validated.
	assert.Empty(t, result.Conflicts)
}

func TestAvailabilityDirectCheckItemisesConflicts(t *testing.T) {
	room := "r1"
	svc := availabilityFixture([]models.LessonInstance{
		{ID: "l1", ClassID: "c9", TeacherID: "t1", TeacherName: "Aziz Karimov", SubjectName: "Mathematics", StartTime: "09:00:00", EndTime: "09:45:00", RoomID: &room},
	})

	query := availabilityQuery()
	query.ClassSubjectID = "cs-math"
	query.RoomID = "r1"
	result, err := svc.Check(context.Background(), query)
	require.NoError(t, err)
	require.Len(t, result.Conflicts, 2)

	dimensions := map[string]bool{}
	for _, conflict := range result.Conflicts {
		dimensions[conflict.Dimension] = true
		assert.Equal(t, "l1", conflict.LessonID)
	}
	assert.True(t, dimensions["TEACHER"])
	assert.True(t, dimensions["ROOM"])
}

func TestAvailabilityClassDoubleBooking(t *testing.T) {
	svc := availabilityFixture([]models.LessonInstance{
		{ID: "l1", ClassID: "c1", TeacherID: "t9", SubjectName: "Biology", StartTime: "09:00:00", EndTime: "09:45:00"},
	})

	result, err := svc.Check(context.Background(), availabilityQuery())
	require.NoError(t, err)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, "CLASS", result.Conflicts[0].Dimension)
}

func TestAvailabilityRejectsReversedRange(t *testing.T) {
	svc := availabilityFixture(nil)

	query := availabilityQuery()
	query.Start = "10:00"
	query.End = "09:00"
	_, err := svc.Check(context.Background(), query)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidRange.Code, appErrors.FromError(err).Code)
}

func TestAvailabilityRejectsBadTime(t *testing.T) {
	svc := availabilityFixture(nil)

	query := availabilityQuery()
	query.Start = "9am"
	_, err := svc.Check(context.Background(), query)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidFormat.Code, appErrors.FromError(err).Code)
}

func TestAvailabilityTransientStoreFailure(t *testing.T) {
	subjects := &subjectListerStub{}
	rooms := &roomListerStub{}
	reader := &overlapReaderStub{err: context.DeadlineExceeded}
	svc := NewAvailabilityService(reader, subjects, rooms, nil, nil)

	_, err := svc.Check(context.Background(), availabilityQuery())
	require.Error(t, err)
	assert.True(t, appErrors.IsTransient(err))
}
