package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bekzod-dev/maktab-api/internal/dto"
	"github.com/bekzod-dev/maktab-api/internal/service"
	appErrors "github.com/bekzod-dev/maktab-api/pkg/errors"
	"github.com/bekzod-dev/maktab-api/pkg/response"
)

// AvailabilityHandler answers free-subject and free-room queries.
type AvailabilityHandler struct {
	service *service.AvailabilityService
}

// NewAvailabilityHandler constructs handler.
func NewAvailabilityHandler(svc *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc}
}

// Check godoc
// @Summary Check subject and room availability for a time window
// @Tags Availability
// @Produce json
// @Param branch query string true "Branch ID"
// @Param class_obj query string true "Class ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param start_time query string true "Window start (HH:mm or HH:mm:ss)"
// @Param end_time query string true "Window end (HH:mm or HH:mm:ss)"
// @Param class_subject query string false "Validate this subject assignment"
// @Param room query string false "Validate this room assignment"
// @Success 200 {object} response.Envelope
// @Router /availability [get]
func (h *AvailabilityHandler) Check(c *gin.Context) {
	var query dto.AvailabilityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	result, err := h.service.Check(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
