package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bekzod-dev/maktab-api/internal/dto"
	"github.com/bekzod-dev/maktab-api/internal/models"
	"github.com/bekzod-dev/maktab-api/internal/service"
	appErrors "github.com/bekzod-dev/maktab-api/pkg/errors"
	"github.com/bekzod-dev/maktab-api/pkg/response"
)

// LessonHandler manages dated lesson endpoints.
type LessonHandler struct {
	service *service.LessonService
	exports *service.ExportService
}

// NewLessonHandler constructs handler.
func NewLessonHandler(svc *service.LessonService, exports *service.ExportService) *LessonHandler {
	return &LessonHandler{service: svc, exports: exports}
}

func lessonFilterFromQuery(c *gin.Context) (models.LessonFilter, error) {
	var filter models.LessonFilter
	filter.BranchID = c.Query("branch")
	if filter.BranchID == "" {
		if claims := claimsFromContext(c); claims != nil {
			filter.BranchID = claims.BranchID
		}
	}
	if filter.BranchID == "" {
		return filter, appErrors.Clone(appErrors.ErrValidation, "branch query parameter is required")
	}
	filter.ClassID = c.Query("class_obj")
	filter.Status = models.LessonStatus(c.Query("status"))
	if filter.Status != "" && !filter.Status.Valid() {
		return filter, appErrors.Clone(appErrors.ErrValidation, "unknown lesson status")
	}

	for name, dest := range map[string]**time.Time{
		"date":      &filter.Date,
		"date_from": &filter.DateFrom,
		"date_to":   &filter.DateTo,
	} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		parsed, err := time.Parse(dto.DateLayout, raw)
		if err != nil {
			return filter, appErrors.Wrap(err, appErrors.ErrInvalidFormat.Code, appErrors.ErrInvalidFormat.Status, "invalid "+name)
		}
		*dest = &parsed
	}

	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.PageSize = limit
	}
	return filter, nil
}

// List godoc
// @Summary List lessons
// @Tags Lessons
// @Produce json
// @Param branch query string true "Branch ID"
// @Param class_obj query string false "Filter by class"
// @Param date query string false "Exact date (YYYY-MM-DD)"
// @Param date_from query string false "Range start (YYYY-MM-DD)"
// @Param date_to query string false "Range end (YYYY-MM-DD)"
// @Param status query string false "Lesson status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /lessons [get]
func (h *LessonHandler) List(c *gin.Context) {
	filter, err := lessonFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	lessons, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lessons, pagination)
}

// Grid godoc
// @Summary Lessons grouped for weekly grid rendering
// @Tags Lessons
// @Produce json
// @Param branch query string true "Branch ID"
// @Param class_obj query string false "Filter by class"
// @Param date_from query string false "Range start (YYYY-MM-DD)"
// @Param date_to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /lessons/grid [get]
func (h *LessonHandler) Grid(c *gin.Context) {
	filter, err := lessonFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	grid, err := h.service.Grid(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid, nil)
}

// Export godoc
// @Summary Export lessons as CSV or PDF
// @Tags Lessons
// @Produce text/csv
// @Produce application/pdf
// @Param branch query string true "Branch ID"
// @Param class_obj query string false "Filter by class"
// @Param date_from query string false "Range start (YYYY-MM-DD)"
// @Param date_to query string false "Range end (YYYY-MM-DD)"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /lessons/export [get]
func (h *LessonHandler) Export(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "exports are disabled"))
		return
	}
	filter, err := lessonFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.exports.ExportLessons(c.Request.Context(), filter, c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}

// Get godoc
// @Summary Get a lesson
// @Tags Lessons
// @Produce json
// @Param id path string true "Lesson ID"
// @Success 200 {object} response.Envelope
// @Router /lessons/{id} [get]
func (h *LessonHandler) Get(c *gin.Context) {
	lesson, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lesson, nil)
}

// Create godoc
// @Summary Book a single lesson
// @Tags Lessons
// @Accept json
// @Produce json
// @Param payload body dto.CreateLessonRequest true "Lesson payload"
// @Success 201 {object} response.Envelope
// @Router /lessons [post]
func (h *LessonHandler) Create(c *gin.Context) {
	var req dto.CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	lesson, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, lesson)
}

// Update godoc
// @Summary Edit lesson details
// @Tags Lessons
// @Accept json
// @Produce json
// @Param id path string true "Lesson ID"
// @Param payload body dto.UpdateLessonRequest true "Lesson fields"
// @Success 200 {object} response.Envelope
// @Router /lessons/{id} [patch]
func (h *LessonHandler) Update(c *gin.Context) {
	var req dto.UpdateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	lesson, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lesson, nil)
}

// UpdateStatus godoc
// @Summary Transition lesson status
// @Tags Lessons
// @Accept json
// @Produce json
// @Param id path string true "Lesson ID"
// @Param payload body dto.UpdateLessonStatusRequest true "New status"
// @Success 200 {object} response.Envelope
// @Router /lessons/{id}/status [patch]
func (h *LessonHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateLessonStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	lesson, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lesson, nil)
}

// Delete godoc
// @Summary Delete a lesson
// @Tags Lessons
// @Param id path string true "Lesson ID"
// @Success 204
// @Router /lessons/{id} [delete]
func (h *LessonHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
