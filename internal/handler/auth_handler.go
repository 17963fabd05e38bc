package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jornal-escolar/portal-api/internal/models"
	"github.com/jornal-escolar/portal-api/internal/service"
	appErrors "github.com/jornal-escolar/portal-api/pkg/errors"
	"github.com/jornal-escolar/portal-api/pkg/response"
)

// AuthHandler exposes login and logout endpoints.
type AuthHandler struct {
	auth       *service.AuthService
	cookieName string
	cookieMax  int
	secure     bool
}

// NewAuthHandler constructs AuthHandler. cookieMax is the session cookie
// lifetime in seconds.
func NewAuthHandler(auth *service.AuthService, cookieName string, cookieMax int, secure bool) *AuthHandler {
	return &AuthHandler{auth: auth, cookieName: cookieName, cookieMax: cookieMax, secure: secure}
}

// Login godoc
// @Summary Authenticate and start a session
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.Request.UserAgent()

	result, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, result.AccessToken, h.cookieMax, "/", "", h.secure, true)
	response.JSON(c, http.StatusOK, result, nil)
}

// Logout godoc
// @Summary End the current session
// @Tags Auth
// @Produce json
// @Success 204
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, "", -1, "/", "", h.secure, true)
	response.NoContent(c)
}

// Me godoc
// @Summary Describe the current session
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	response.JSON(c, http.StatusOK, models.UserInfo{
		Username:    claims.Username,
		Role:        claims.Role,
		Permissions: claims.Permissions,
	}, nil)
}
