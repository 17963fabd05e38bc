package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jornal-escolar/portal-api/internal/models"
	"github.com/jornal-escolar/portal-api/internal/service"
	appErrors "github.com/jornal-escolar/portal-api/pkg/errors"
	"github.com/jornal-escolar/portal-api/pkg/response"
)

// TicketHandler exposes the support desk endpoints.
type TicketHandler struct {
	tickets *service.TicketService
}

// NewTicketHandler constructs TicketHandler.
func NewTicketHandler(tickets *service.TicketService) *TicketHandler {
	return &TicketHandler{tickets: tickets}
}

// List godoc
// @Summary List visible tickets
// @Tags Tickets
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /tickets [get]
func (h *TicketHandler) List(c *gin.Context) {
	tickets, err := h.tickets.List(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tickets, nil)
}

// Get godoc
// @Summary Get one ticket
// @Tags Tickets
// @Produce json
// @Param id path string true "Ticket ID"
// @Success 200 {object} response.Envelope
// @Router /tickets/{id} [get]
func (h *TicketHandler) Get(c *gin.Context) {
	ticket, err := h.tickets.Get(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ticket, nil)
}

// Reasons godoc
// @Summary List the fixed ticket reason catalog
// @Tags Tickets
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /tickets/reasons [get]
func (h *TicketHandler) Reasons(c *gin.Context) {
	response.JSON(c, http.StatusOK, models.TicketReasons, nil)
}

// Create godoc
// @Summary Open a ticket
// @Tags Tickets
// @Accept json
// @Produce json
// @Param payload body models.TicketInput true "Ticket payload"
// @Success 201 {object} response.Envelope
// @Router /tickets [post]
func (h *TicketHandler) Create(c *gin.Context) {
	var input models.TicketInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	ticket, err := h.tickets.Create(c.Request.Context(), claimsFromContext(c), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, ticket)
}

// Reply godoc
// @Summary Reply to a ticket
// @Tags Tickets
// @Accept json
// @Produce json
// @Param id path string true "Ticket ID"
// @Param payload body models.TicketReplyInput true "Reply payload"
// @Success 200 {object} response.Envelope
// @Router /tickets/{id}/reply [post]
func (h *TicketHandler) Reply(c *gin.Context) {
	var input models.TicketReplyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	ticket, err := h.tickets.Reply(c.Request.Context(), claimsFromContext(c), c.Param("id"), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ticket, nil)
}

type closeTicketRequest struct {
	Note string `json:"note"`
}

// Close godoc
// @Summary Close a ticket
// @Tags Tickets
// @Accept json
// @Produce json
// @Param id path string true "Ticket ID"
// @Param payload body closeTicketRequest false "Closing note"
// @Success 200 {object} response.Envelope
// @Router /tickets/{id}/close [post]
func (h *TicketHandler) Close(c *gin.Context) {
	var req closeTicketRequest
	_ = c.ShouldBindJSON(&req)
	ticket, err := h.tickets.Close(c.Request.Context(), claimsFromContext(c), c.Param("id"), req.Note)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ticket, nil)
}

// Delete godoc
// @Summary Delete a ticket
// @Tags Tickets
// @Produce json
// @Param id path string true "Ticket ID"
// @Success 204
// @Router /tickets/{id} [delete]
func (h *TicketHandler) Delete(c *gin.Context) {
	if err := h.tickets.Delete(c.Request.Context(), claimsFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
