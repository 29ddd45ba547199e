package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bekzod-dev/maktab-api/internal/dto"
	"github.com/bekzod-dev/maktab-api/internal/service"
	appErrors "github.com/bekzod-dev/maktab-api/pkg/errors"
	"github.com/bekzod-dev/maktab-api/pkg/response"
)

// TimetableHandler manages timetable template and slot endpoints.
type TimetableHandler struct {
	service   *service.TimetableService
	generator *service.GeneratorService
}

// NewTimetableHandler constructs handler.
func NewTimetableHandler(svc *service.TimetableService, generator *service.GeneratorService) *TimetableHandler {
	return &TimetableHandler{service: svc, generator: generator}
}

// ListTemplates godoc
// @Summary List timetable templates
// @Tags Timetables
// @Produce json
// @Param branch query string true "Branch ID"
// @Success 200 {object} response.Envelope
// @Router /timetables [get]
func (h *TimetableHandler) ListTemplates(c *gin.Context) {
	branchID := c.Query("branch")
	if branchID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "branch query parameter is required"))
		return
	}
	templates, err := h.service.ListTemplates(c.Request.Context(), branchID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, templates, nil)
}

// GetTemplate godoc
// @Summary Get a timetable template
// @Tags Timetables
// @Produce json
// @Param id path string true "Timetable ID"
// @Success 200 {object} response.Envelope
// @Router /timetables/{id} [get]
func (h *TimetableHandler) GetTemplate(c *gin.Context) {
	template, err := h.service.GetTemplate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, template, nil)
}

// CreateTemplate godoc
// @Summary Create a timetable template
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.CreateTimetableRequest true "Timetable payload"
// @Success 201 {object} response.Envelope
// @Router /timetables [post]
func (h *TimetableHandler) CreateTemplate(c *gin.Context) {
	var req dto.CreateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	template, err := h.service.CreateTemplate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, template)
}

// DeleteTemplate godoc
// @Summary Delete a timetable template and its slots
// @Tags Timetables
// @Param id path string true "Timetable ID"
// @Success 204
// @Router /timetables/{id} [delete]
func (h *TimetableHandler) DeleteTemplate(c *gin.Context) {
	if err := h.service.DeleteTemplate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListSlots godoc
// @Summary List slots of a timetable
// @Tags Timetables
// @Produce json
// @Param id path string true "Timetable ID"
// @Param day_of_week query string false "Weekday name (monday..sunday)"
// @Success 200 {object} response.Envelope
// @Router /timetables/{id}/slots [get]
func (h *TimetableHandler) ListSlots(c *gin.Context) {
	slots, err := h.service.ListSlots(c.Request.Context(), c.Param("id"), c.Query("day_of_week"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// CreateSlot godoc
// @Summary Add a recurring slot to a timetable
// @Tags Timetables
// @Accept json
// @Produce json
// @Param id path string true "Timetable ID"
// @Param payload body dto.SlotPayload true "Slot payload"
// @Success 201 {object} response.Envelope
// @Router /timetables/{id}/slots [post]
func (h *TimetableHandler) CreateSlot(c *gin.Context) {
	var req dto.SlotPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.TimetableID = c.Param("id")
	slot, err := h.service.CreateSlot(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slot)
}

// UpdateSlot godoc
// @Summary Move or reassign a slot
// @Tags Timetables
// @Accept json
// @Produce json
// @Param id path string true "Timetable ID"
// @Param slotId path string true "Slot ID"
// @Param payload body dto.SlotPayload true "Slot payload"
// @Success 200 {object} response.Envelope
// @Router /timetables/{id}/slots/{slotId} [put]
func (h *TimetableHandler) UpdateSlot(c *gin.Context) {
	var req dto.SlotPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.TimetableID = c.Param("id")
	slot, err := h.service.UpdateSlot(c.Request.Context(), c.Param("slotId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot, nil)
}

// DeleteSlot godoc
// @Summary Delete a slot
// @Tags Timetables
// @Param id path string true "Timetable ID"
// @Param slotId path string true "Slot ID"
// @Success 204
// @Router /timetables/{id}/slots/{slotId} [delete]
func (h *TimetableHandler) DeleteSlot(c *gin.Context) {
	if err := h.service.DeleteSlot(c.Request.Context(), c.Param("slotId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// GenerateLessons godoc
// @Summary Materialise a timetable into dated lessons
// @Tags Timetables
// @Accept json
// @Produce json
// @Param id path string true "Timetable ID"
// @Param payload body dto.GenerateLessonsRequest true "Generation range"
// @Success 200 {object} response.Envelope
// @Router /timetables/{id}/generate [post]
func (h *TimetableHandler) GenerateLessons(c *gin.Context) {
	var req dto.GenerateLessonsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.generator.Generate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
