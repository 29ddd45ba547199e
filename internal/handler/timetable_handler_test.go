package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/bekzod-dev/maktab-api/internal/models"
	"github.com/bekzod-dev/maktab-api/internal/service"
)

type timetableStoreStub struct {
	templates map[string]*models.TimetableTemplate
	slots     []models.TimetableSlot
}

func (s *timetableStoreStub) ListTemplates(ctx context.Context, branchID string) ([]models.TimetableTemplate, error) {
	var out []models.TimetableTemplate
	for _, template := range s.templates {
		if template.BranchID == branchID {
			out = append(out, *template)
		}
	}
	return out, nil
}

func (s *timetableStoreStub) FindTemplate(ctx context.Context, id string) (*models.TimetableTemplate, error) {
	template, ok := s.templates[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return template, nil
}

func (s *timetableStoreStub) CreateTemplate(ctx context.Context, template *models.TimetableTemplate) error {
	if template.ID == "" {
		template.ID = "tt-new"
	}
	if s.templates == nil {
		s.templates = map[string]*models.TimetableTemplate{}
	}
	s.templates[template.ID] = template
	return nil
}

func (s *timetableStoreStub) DeleteTemplate(ctx context.Context, id string) error {
	delete(s.templates, id)
	return nil
}

func (s *timetableStoreStub) ListSlots(ctx context.Context, timetableID string, dayOfWeek *int) ([]models.TimetableSlot, error) {
	return s.slots, nil
}

func (s *timetableStoreStub) FindSlot(ctx context.Context, id string) (*models.TimetableSlot, error) {
	return nil, sql.ErrNoRows
}

func (s *timetableStoreStub) FindSlotConflicts(ctx context.Context, timetableID string, dayOfWeek, lessonNumber int) ([]models.TimetableSlot, error) {
	return nil, nil
}

func (s *timetableStoreStub) CreateSlot(ctx context.Context, slot *models.TimetableSlot) error {
	return nil
}
func (s *timetableStoreStub) UpdateSlot(ctx context.Context, slot *models.TimetableSlot) error {
	return nil
}
func (s *timetableStoreStub) DeleteSlot(ctx context.Context, id string) error { return nil }

func newTimetableHandler(store *timetableStoreStub) *TimetableHandler {
	svc := service.NewTimetableService(store, nil, nil, nil, nil)
	return NewTimetableHandler(svc, nil)
}

func TestTimetableHandlerListRequiresBranch(t *testing.T) {
	handler := newTimetableHandler(&timetableStoreStub{})
	c, w := getContext(t, "/timetables")

	handler.ListTemplates(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "branch query parameter is required")
}

func TestTimetableHandlerGetTemplateNotFound(t *testing.T) {
	handler := newTimetableHandler(&timetableStoreStub{})
	c, w := getContext(t, "/timetables/missing")
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.GetTemplate(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTimetableHandlerCreateTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &timetableStoreStub{}
	handler := newTimetableHandler(store)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(map[string]interface{}{"branch": "b1", "name": "Fall term"})
	req, _ := http.NewRequest(http.MethodPost, "/timetables", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.CreateTemplate(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, store.templates, 1)
}

func TestTimetableHandlerCreateTemplateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTimetableHandler(&timetableStoreStub{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/timetables", bytes.NewReader([]byte(`{`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.CreateTemplate(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
