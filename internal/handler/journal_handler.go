package handler

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jornal-escolar/portal-api/internal/models"
	"github.com/jornal-escolar/portal-api/internal/service"
	appErrors "github.com/jornal-escolar/portal-api/pkg/errors"
	"github.com/jornal-escolar/portal-api/pkg/response"
)

// JournalHandler exposes issue submission, approval and download endpoints.
type JournalHandler struct {
	journals *service.JournalService
	baseURL  string
}

// NewJournalHandler constructs JournalHandler. baseURL builds the public
// approval and download links returned to clients.
func NewJournalHandler(journals *service.JournalService, baseURL string) *JournalHandler {
	return &JournalHandler{journals: journals, baseURL: strings.TrimRight(baseURL, "/")}
}

type journalView struct {
	models.Journal
	ApprovalURL string `json:"approval_url,omitempty"`
}

func (h *JournalHandler) view(journal *models.Journal) journalView {
	v := journalView{Journal: *journal}
	if journal.Status == models.JournalStatusPending {
		v.ApprovalURL = h.baseURL + "/approvals/" + journal.ApprovalToken
	}
	return v
}

// List godoc
// @Summary List submitted issues
// @Tags Journals
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /journals [get]
func (h *JournalHandler) List(c *gin.Context) {
	journals, err := h.journals.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	views := make([]journalView, 0, len(journals))
	for i := range journals {
		views = append(views, h.view(&journals[i]))
	}
	response.JSON(c, http.StatusOK, views, nil)
}

// Submit godoc
// @Summary Submit a new issue with its PDF
// @Tags Journals
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param edition formData string true "Edition"
// @Param release_date formData string true "Release date (YYYY-MM-DD)"
// @Param description formData string false "Description"
// @Param file formData file true "Issue PDF"
// @Success 201 {object} response.Envelope
// @Router /journals [post]
func (h *JournalHandler) Submit(c *gin.Context) {
	sub, header, err := bindSubmission(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable upload"))
		return
	}
	defer file.Close() //nolint:errcheck

	journal, err := h.journals.Submit(c.Request.Context(), *sub, header.Filename, header.Size, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, h.view(journal))
}

// Resubmit godoc
// @Summary Resubmit a rejected issue
// @Tags Journals
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Rejected journal ID"
// @Param title formData string true "Title"
// @Param edition formData string true "Edition"
// @Param release_date formData string true "Release date (YYYY-MM-DD)"
// @Param file formData file true "Issue PDF"
// @Success 201 {object} response.Envelope
// @Router /journals/{id}/resubmit [post]
func (h *JournalHandler) Resubmit(c *gin.Context) {
	sub, header, err := bindSubmission(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable upload"))
		return
	}
	defer file.Close() //nolint:errcheck

	journal, err := h.journals.Resubmit(c.Request.Context(), c.Param("id"), *sub, header.Filename, header.Size, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, h.view(journal))
}

func bindSubmission(c *gin.Context) (*models.JournalSubmission, *multipart.FileHeader, error) {
	var sub models.JournalSubmission
	if err := c.ShouldBind(&sub); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload")
	}
	header, err := c.FormFile("file")
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "issue PDF is required")
	}
	return &sub, header, nil
}

// SignedDownload godoc
// @Summary Issue a time-limited download link for an approved issue
// @Tags Journals
// @Produce json
// @Param id path string true "Journal ID"
// @Success 200 {object} response.Envelope
// @Router /journals/{id}/share [post]
func (h *JournalHandler) SignedDownload(c *gin.Context) {
	token, expiresAt, err := h.journals.SignedDownload(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"url":        h.baseURL + "/downloads/" + token,
		"expires_at": expiresAt,
	}, nil)
}

// Download godoc
// @Summary Download an issue PDF with a session
// @Tags Journals
// @Produce application/pdf
// @Param id path string true "Journal ID"
// @Success 200 {file} file
// @Router /journals/{id}/file [get]
func (h *JournalHandler) Download(c *gin.Context) {
	journal, file, err := h.journals.OpenFile(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck
	c.Header("Content-Disposition", `attachment; filename="`+journal.Edition+`.pdf"`)
	c.Header("Content-Type", "application/pdf")
	http.ServeContent(c.Writer, c.Request, journal.File, journal.CreatedAt, file)
}

// PublicApprovalPage godoc
// @Summary Resolve the issue behind an approval link
// @Tags Approvals
// @Produce json
// @Param token path string true "Approval token"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /approvals/{token} [get]
func (h *JournalHandler) PublicApprovalPage(c *gin.Context) {
	journal, err := h.journals.FindByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, journal, nil)
}

type decisionRequest struct {
	Action string `json:"action" binding:"required,oneof=approve reject"`
	Reason string `json:"reason"`
}

// PublicDecision godoc
// @Summary Approve or reject an issue through its approval link
// @Tags Approvals
// @Accept json
// @Produce json
// @Param token path string true "Approval token"
// @Param payload body decisionRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /approvals/{token} [post]
func (h *JournalHandler) PublicDecision(c *gin.Context) {
	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	var journal *models.Journal
	var err error
	if req.Action == "approve" {
		journal, err = h.journals.Approve(c.Request.Context(), c.Param("token"), "link")
	} else {
		journal, err = h.journals.Reject(c.Request.Context(), c.Param("token"), "link", req.Reason)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, journal, nil)
}

// PublicDownload godoc
// @Summary Download an approved issue through a signed link
// @Tags Approvals
// @Produce application/pdf
// @Param token path string true "Signed download token"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /downloads/{token} [get]
func (h *JournalHandler) PublicDownload(c *gin.Context) {
	journal, file, err := h.journals.ResolveDownload(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck
	c.Header("Content-Disposition", `attachment; filename="`+journal.Edition+`.pdf"`)
	c.Header("Content-Type", "application/pdf")
	http.ServeContent(c.Writer, c.Request, journal.File, journal.CreatedAt, file)
}
