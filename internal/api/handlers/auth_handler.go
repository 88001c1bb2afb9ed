// Package handlers contains the handlers for the API
package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ampweb/userdirapi/internal/config"
	"github.com/ampweb/userdirapi/internal/models"
	"github.com/ampweb/userdirapi/internal/service"
	"github.com/ampweb/userdirapi/pkg/utils/response"
)

// AuthHandler is the handler for the authentication API
type AuthHandler struct {
	cfg     *config.Config
	service *service.AuthService
}

// NewAuthHandler creates a new handler for the authentication API
func NewAuthHandler(cfg *config.Config, service *service.AuthService) *AuthHandler {
	return &AuthHandler{cfg: cfg, service: service}
}

// Login authenticates the credentials and returns the identity with its
// session token
func (h *AuthHandler) Login(c echo.Context) error {
	var creds models.LoginRequest
	if err := c.Bind(&creds); err != nil {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "Invalid request body")
	}
	if creds.Alias == "" {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "`user` is required")
	}

	creds.HTTPAuthIdentity = c.Request().Header.Get(h.cfg.HTTPAuthHeader)
	creds.UserIP = c.RealIP()

	identity, err := h.service.Login(c.Request().Context(), &creds)
	if err != nil {
		return response.ServiceErrorResponse(c, err)
	}

	return response.SuccessResponse(c, identity)
}

// Logout demotes the caller's session
func (h *AuthHandler) Logout(c echo.Context) error {
	token := bearerToken(c)
	if token == "" {
		return response.ErrorResponse(c, http.StatusUnauthorized, "AuthorizationException", "Missing session token")
	}

	if err := h.service.Logout(c.Request().Context(), token); err != nil {
		return response.ServiceErrorResponse(c, err)
	}

	return response.SuccessResponse(c, true)
}

// Check revalidates the session token and returns the caller's identity
func (h *AuthHandler) Check(c echo.Context) error {
	token := bearerToken(c)
	if token == "" {
		return response.ErrorResponse(c, http.StatusUnauthorized, "AuthorizationException", "Missing session token")
	}

	identity, err := h.service.CheckAuthentication(c.Request().Context(), token, c.RealIP())
	if err != nil {
		return response.ServiceErrorResponse(c, err)
	}

	return response.SuccessResponse(c, identity)
}

func bearerToken(c echo.Context) string {
	auth := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return auth
}
