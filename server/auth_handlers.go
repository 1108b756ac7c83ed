package server

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/classboard/auth"
	apperrors "github.com/skillsenselab/classboard/errors"
	"github.com/skillsenselab/classboard/logger"
)

// AuthHandler serves the registration, login, and OAuth routes.
type AuthHandler struct {
	svc         *auth.Service
	frontendURL string
	log         *logger.Logger
}

// NewAuthHandler creates the auth route handler. frontendURL is where OAuth
// callbacks redirect with the issued token.
func NewAuthHandler(svc *auth.Service, frontendURL string, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		svc:         svc,
		frontendURL: frontendURL,
		log:         log.WithComponent("auth_handler"),
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, apperrors.Validation("Invalid request payload").WithCause(err))
		return
	}
	res, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondCreated(c, res)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, apperrors.Validation("Invalid request payload").WithCause(err))
		return
	}
	res, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondOK(c, res)
}

// Redirect handles GET /api/auth/{provider}: a 302 to the provider's consent
// screen.
func (h *AuthHandler) Redirect(provider string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := h.svc.AuthCodeURL(provider, "")
		if err != nil {
			RespondWithError(c, err)
			return
		}
		c.Redirect(http.StatusFound, u)
	}
}

// Callback handles GET /api/auth/{provider}/callback: completes the code
// exchange and redirects to the frontend with the issued token.
func (h *AuthHandler) Callback(provider string) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := h.svc.OAuthLogin(c.Request.Context(), provider, c.Query("code"))
		if err != nil {
			RespondWithError(c, err)
			return
		}
		c.Redirect(http.StatusFound, h.frontendURL+"?token="+url.QueryEscape(res.Token))
	}
}
