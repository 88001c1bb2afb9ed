package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ampweb/userdirapi/internal/models"
	"github.com/ampweb/userdirapi/internal/service"
	"github.com/ampweb/userdirapi/pkg/utils/response"
)

// IdentityContextKey is the echo context key the resolved identity is
// stored under. One identity per request, never shared across requests.
const IdentityContextKey = "identity"

// AuthMiddleware resolves the session token from the Authorization
// header into the caller's identity and caches it on the request context
func AuthMiddleware(authService *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := sessionToken(c)
			if token == "" {
				return response.ErrorResponse(c, http.StatusUnauthorized, "AuthorizationException", "Missing session token")
			}

			identity, err := authService.CheckAuthentication(c.Request().Context(), token, c.RealIP())
			if err != nil {
				return response.ServiceErrorResponse(c, err)
			}

			c.Set(IdentityContextKey, identity)

			return next(c)
		}
	}
}

// sessionToken extracts the opaque session token from the Authorization
// header, with or without a Bearer prefix
func sessionToken(c echo.Context) string {
	auth := c.Request().Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return auth
}

// IdentityFromContext returns the request's authenticated identity
func IdentityFromContext(c echo.Context) *models.Identity {
	identity, _ := c.Get(IdentityContextKey).(*models.Identity)
	return identity
}
