package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jornal-escolar/portal-api/internal/service"
	appErrors "github.com/jornal-escolar/portal-api/pkg/errors"
	"github.com/jornal-escolar/portal-api/pkg/response"
)

// RulesHandler exposes the conduct manual endpoints.
type RulesHandler struct {
	rules *service.RulesService
}

// NewRulesHandler constructs RulesHandler.
func NewRulesHandler(rules *service.RulesService) *RulesHandler {
	return &RulesHandler{rules: rules}
}

// Get godoc
// @Summary Get the newsroom rules
// @Tags Rules
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /rules [get]
func (h *RulesHandler) Get(c *gin.Context) {
	rules, err := h.rules.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rules, nil)
}

type rulesUpdateRequest struct {
	Content string `json:"content" binding:"required"`
}

// Update godoc
// @Summary Replace the newsroom rules
// @Tags Rules
// @Accept json
// @Produce json
// @Param payload body rulesUpdateRequest true "Rules content"
// @Success 200 {object} response.Envelope
// @Router /rules [put]
func (h *RulesHandler) Update(c *gin.Context) {
	var req rulesUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	rules, err := h.rules.Update(c.Request.Context(), req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rules, nil)
}
