package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jornal-escolar/portal-api/internal/models"
	"github.com/jornal-escolar/portal-api/internal/service"
	appErrors "github.com/jornal-escolar/portal-api/pkg/errors"
	"github.com/jornal-escolar/portal-api/pkg/response"
)

// DepartmentHandler exposes department and join-queue endpoints.
type DepartmentHandler struct {
	departments *service.DepartmentService
}

// NewDepartmentHandler constructs DepartmentHandler.
func NewDepartmentHandler(departments *service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{departments: departments}
}

// List godoc
// @Summary List departments
// @Tags Departments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /departments [get]
func (h *DepartmentHandler) List(c *gin.Context) {
	departments, err := h.departments.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, departments, nil)
}

// Get godoc
// @Summary Get one department
// @Tags Departments
// @Produce json
// @Param id path string true "Department ID"
// @Success 200 {object} response.Envelope
// @Router /departments/{id} [get]
func (h *DepartmentHandler) Get(c *gin.Context) {
	department, err := h.departments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, department, nil)
}

// Create godoc
// @Summary Create a department
// @Tags Departments
// @Accept json
// @Produce json
// @Param payload body models.DepartmentInput true "Department payload"
// @Success 201 {object} response.Envelope
// @Router /departments [post]
func (h *DepartmentHandler) Create(c *gin.Context) {
	var input models.DepartmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	department, err := h.departments.Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, department)
}

// AddMember godoc
// @Summary Add a member directly
// @Tags Departments
// @Accept json
// @Produce json
// @Param id path string true "Department ID"
// @Param payload body models.MemberInput true "Member payload"
// @Success 200 {object} response.Envelope
// @Router /departments/{id}/members [post]
func (h *DepartmentHandler) AddMember(c *gin.Context) {
	var input models.MemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	department, err := h.departments.AddMember(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, department, nil)
}

type queueDecisionRequest struct {
	Action string `json:"action" binding:"required,oneof=approve reject"`
}

// DecideQueue godoc
// @Summary Decide one queue entry
// @Tags Departments
// @Accept json
// @Produce json
// @Param id path string true "Department ID"
// @Param requestId path string true "Queue entry ID"
// @Param payload body queueDecisionRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /departments/{id}/queue/{requestId} [post]
func (h *DepartmentHandler) DecideQueue(c *gin.Context) {
	var req queueDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	decidedBy := ""
	if claims := claimsFromContext(c); claims != nil {
		decidedBy = claims.Username
	}
	department, err := h.departments.DecideQueue(c.Request.Context(), c.Param("id"), c.Param("requestId"), req.Action == "approve", decidedBy)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, department, nil)
}

// PublicJoinInfo godoc
// @Summary Resolve the department behind a join link
// @Tags Join
// @Produce json
// @Param token path string true "Join token"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /join/{token} [get]
func (h *DepartmentHandler) PublicJoinInfo(c *gin.Context) {
	info, err := h.departments.ResolveJoinLink(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, info, nil)
}

// PublicApply godoc
// @Summary Apply to join a department
// @Tags Join
// @Accept json
// @Produce json
// @Param token path string true "Join token"
// @Param payload body models.JoinApplication true "Application"
// @Success 201 {object} response.Envelope
// @Router /join/{token} [post]
func (h *DepartmentHandler) PublicApply(c *gin.Context) {
	var application models.JoinApplication
	if err := c.ShouldBindJSON(&application); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	request, err := h.departments.Apply(c.Request.Context(), c.Param("token"), application)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, request)
}
