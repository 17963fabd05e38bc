package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jornal-escolar/portal-api/internal/models"
	"github.com/jornal-escolar/portal-api/pkg/response"
)

type auditLister interface {
	List(ctx context.Context) ([]models.AuditEntry, error)
}

// AuditHandler exposes the audit trail.
type AuditHandler struct {
	audit auditLister
}

// NewAuditHandler constructs AuditHandler.
func NewAuditHandler(audit auditLister) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List godoc
// @Summary List audit entries, newest first
// @Tags Audit
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /audit [get]
func (h *AuditHandler) List(c *gin.Context) {
	entries, err := h.audit.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}
