package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jornal-escolar/portal-api/internal/models"
	"github.com/jornal-escolar/portal-api/internal/service"
	appErrors "github.com/jornal-escolar/portal-api/pkg/errors"
	"github.com/jornal-escolar/portal-api/pkg/response"
)

// AssetHandler exposes the internal shared-file endpoints.
type AssetHandler struct {
	assets *service.AssetService
}

// NewAssetHandler constructs AssetHandler.
func NewAssetHandler(assets *service.AssetService) *AssetHandler {
	return &AssetHandler{assets: assets}
}

// List godoc
// @Summary List shared files
// @Tags Assets
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /assets [get]
func (h *AssetHandler) List(c *gin.Context) {
	assets, err := h.assets.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assets, nil)
}

// Upload godoc
// @Summary Upload a shared file
// @Tags Assets
// @Accept multipart/form-data
// @Produce json
// @Param notes formData string false "Notes"
// @Param department_id formData string false "Owning department"
// @Param file formData file true "File"
// @Success 201 {object} response.Envelope
// @Router /assets [post]
func (h *AssetHandler) Upload(c *gin.Context) {
	var input models.AssetInput
	if err := c.ShouldBind(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "file is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable upload"))
		return
	}
	defer file.Close() //nolint:errcheck

	owner := ""
	if claims := claimsFromContext(c); claims != nil {
		owner = claims.Username
	}

	asset, err := h.assets.Upload(c.Request.Context(), input, owner, header.Filename, header.Size, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, asset)
}

// Download godoc
// @Summary Download a shared file
// @Tags Assets
// @Produce octet-stream
// @Param id path string true "Asset ID"
// @Success 200 {file} file
// @Router /assets/{id}/file [get]
func (h *AssetHandler) Download(c *gin.Context) {
	asset, file, err := h.assets.OpenFile(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck
	c.Header("Content-Disposition", `attachment; filename="`+asset.OriginalName+`"`)
	http.ServeContent(c.Writer, c.Request, asset.OriginalName, asset.UploadedAt, file)
}
