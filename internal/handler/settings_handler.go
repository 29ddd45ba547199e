package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bekzod-dev/maktab-api/internal/models"
	"github.com/bekzod-dev/maktab-api/internal/service"
	appErrors "github.com/bekzod-dev/maktab-api/pkg/errors"
	"github.com/bekzod-dev/maktab-api/pkg/response"
)

// SettingsHandler exposes branch schooling-hours configuration and the
// daily slot layout derived from it.
type SettingsHandler struct {
	service *service.SettingsService
}

// NewSettingsHandler constructs handler.
func NewSettingsHandler(svc *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: svc}
}

// Get godoc
// @Summary Get branch schedule settings
// @Tags Settings
// @Produce json
// @Param id path string true "Branch ID"
// @Success 200 {object} response.Envelope
// @Router /branches/{id}/settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}

// Update godoc
// @Summary Store branch schedule settings
// @Tags Settings
// @Accept json
// @Produce json
// @Param id path string true "Branch ID"
// @Param payload body models.BranchScheduleSettings true "Settings payload"
// @Success 200 {object} response.Envelope
// @Router /branches/{id}/settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	var settings models.BranchScheduleSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	settings.BranchID = c.Param("id")
	updated, err := h.service.Update(c.Request.Context(), &settings)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}

// DaySlots godoc
// @Summary Daily slot layout derived from branch settings
// @Tags Settings
// @Produce json
// @Param id path string true "Branch ID"
// @Success 200 {object} response.Envelope
// @Router /branches/{id}/slots [get]
func (h *SettingsHandler) DaySlots(c *gin.Context) {
	slots, err := h.service.DaySlots(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}
