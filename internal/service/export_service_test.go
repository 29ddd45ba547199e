package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bekzod-dev/maktab-api/internal/models"
	appErrors "github.com/bekzod-dev/maktab-api/pkg/errors"
)

func TestExportServiceCSV(t *testing.T) {
	repo := newLessonRepoStub()
	repo.lessons["l1"] = models.LessonInstance{
		ID: "l1", BranchID: "b1", ClassID: "c1", SubjectName: "Mathematics",
		TeacherName: "Aziz Karimov", Date: mustDate(t, "2025-09-01"),
		LessonNumber: 1, StartTime: "08:00:00", EndTime: "08:45:00",
		Status: models.LessonStatusPlanned,
	}
	svc := NewExportService(repo, nil, nil, nil)

	result, err := svc.ExportLessons(context.Background(), models.LessonFilter{BranchID: "b1"}, "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.True(t, strings.HasSuffix(result.Filename, ".csv"))

	body := string(result.Payload)
	assert.Contains(t, body, "Date,Day,Lesson,Start,End,Class,Subject,Teacher,Room,Status")
	assert.Contains(t, body, "2025-09-01,monday,1,08:00:00,08:45:00,c1,Mathematics,Aziz Karimov,,planned")
}

func TestExportServicePDF(t *testing.T) {
	svc := NewExportService(newLessonRepoStub(), nil, nil, nil)

	result, err := svc.ExportLessons(context.Background(), models.LessonFilter{BranchID: "b1"}, "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.NotEmpty(t, result.Payload)
}

func TestExportServiceUnknownFormat(t *testing.T) {
	svc := NewExportService(newLessonRepoStub(), nil, nil, nil)

	_, err := svc.ExportLessons(context.Background(), models.LessonFilter{BranchID: "b1"}, "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
