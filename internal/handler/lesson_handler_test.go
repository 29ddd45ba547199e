package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bekzod-dev/maktab-api/internal/middleware"
	"github.com/bekzod-dev/maktab-api/internal/models"
	"github.com/bekzod-dev/maktab-api/internal/service"
)

type lessonStoreStub struct {
	lessons []models.LessonInstance
}

func (s *lessonStoreStub) List(ctx context.Context, filter models.LessonFilter) ([]models.LessonInstance, int, error) {
	return s.lessons, len(s.lessons), nil
}

func (s *lessonStoreStub) FindByID(ctx context.Context, id string) (*models.LessonInstance, error) {
	for i := range s.lessons {
		if s.lessons[i].ID == id {
			return &s.lessons[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *lessonStoreStub) FindOverlapping(ctx context.Context, branchID string, date time.Time, start, end string) ([]models.LessonInstance, error) {
	return nil, nil
}

func (s *lessonStoreStub) Create(ctx context.Context, lesson *models.LessonInstance) error { return nil }
func (s *lessonStoreStub) Update(ctx context.Context, lesson *models.LessonInstance) error { return nil }
func (s *lessonStoreStub) UpdateStatus(ctx context.Context, id string, status models.LessonStatus) error {
	return nil
}
func (s *lessonStoreStub) Delete(ctx context.Context, id string) error { return nil }

func newLessonHandler(store *lessonStoreStub) *LessonHandler {
	svc := service.NewLessonService(store, nil, nil, nil, nil, nil, nil)
	return NewLessonHandler(svc, nil)
}

func getContext(t *testing.T, target string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodGet, target, nil)
	require.NoError(t, err)
	c.Request = req
	return c, w
}

func TestLessonHandlerListRequiresBranch(t *testing.T) {
	handler := newLessonHandler(&lessonStoreStub{})
	c, w := getContext(t, "/lessons")

	handler.List(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLessonHandlerListBranchFromClaims(t *testing.T) {
	store := &lessonStoreStub{lessons: []models.LessonInstance{{
		ID: "l1", BranchID: "b1", ClassID: "c1", SubjectName: "Algebra",
		Date:      time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		StartTime: "08:00:00", EndTime: "08:45:00", Status: models.LessonStatusPlanned,
	}}}
	handler := newLessonHandler(store)
	c, w := getContext(t, "/lessons")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Role: models.RoleTeacher, BranchID: "b1"})

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data       []models.LessonInstance `json:"data"`
		Pagination *models.Pagination      `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "Algebra", envelope.Data[0].SubjectName)
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, 1, envelope.Pagination.TotalCount)
}

func TestLessonHandlerListRejectsUnknownStatus(t *testing.T) {
	handler := newLessonHandler(&lessonStoreStub{})
	c, w := getContext(t, "/lessons?branch=b1&status=postponed")

	handler.List(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLessonHandlerListRejectsBadDate(t *testing.T) {
	handler := newLessonHandler(&lessonStoreStub{})
	c, w := getContext(t, "/lessons?branch=b1&date=01.09.2025")

	handler.List(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TIME_FORMAT")
}

func TestLessonHandlerExportDisabled(t *testing.T) {
	handler := newLessonHandler(&lessonStoreStub{})
	c, w := getContext(t, "/lessons/export?branch=b1")

	handler.Export(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestLessonHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newLessonHandler(&lessonStoreStub{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/lessons", bytes.NewReader([]byte(`not-json`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
