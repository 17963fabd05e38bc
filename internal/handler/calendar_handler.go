package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jornal-escolar/portal-api/internal/models"
	"github.com/jornal-escolar/portal-api/internal/service"
	appErrors "github.com/jornal-escolar/portal-api/pkg/errors"
	"github.com/jornal-escolar/portal-api/pkg/response"
)

// CalendarHandler exposes newsroom calendar endpoints.
type CalendarHandler struct {
	calendar *service.CalendarService
}

// NewCalendarHandler constructs CalendarHandler.
func NewCalendarHandler(calendar *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendar: calendar}
}

// List godoc
// @Summary List calendar events
// @Tags Calendar
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /calendar [get]
func (h *CalendarHandler) List(c *gin.Context) {
	events, err := h.calendar.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, nil)
}

// Create godoc
// @Summary Schedule an event
// @Tags Calendar
// @Accept json
// @Produce json
// @Param payload body models.CalendarEventInput true "Event payload"
// @Success 201 {object} response.Envelope
// @Router /calendar [post]
func (h *CalendarHandler) Create(c *gin.Context) {
	var input models.CalendarEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	event, err := h.calendar.Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}
