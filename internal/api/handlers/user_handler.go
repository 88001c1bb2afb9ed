package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ampweb/userdirapi/internal/api/middleware"
	"github.com/ampweb/userdirapi/internal/models"
	"github.com/ampweb/userdirapi/internal/service"
	"github.com/ampweb/userdirapi/pkg/utils/response"
)

// UserHandler is the handler for the user directory API
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler creates a new handler for the user directory API
func NewUserHandler(service *service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// GetUsers runs the directory query with the posted options
func (h *UserHandler) GetUsers(c echo.Context) error {
	caller := middleware.IdentityFromContext(c)

	var opts models.UserGetOptions
	if err := c.Bind(&opts); err != nil {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "Invalid request body")
	}

	users, count, err := h.service.Get(c.Request().Context(), caller, &opts)
	if err != nil {
		return response.ServiceErrorResponse(c, err)
	}

	if opts.CountOutput {
		return response.SuccessResponse(c, map[string]int64{"rowscount": count})
	}
	return response.SuccessResponse(c, users)
}

// CreateUsers creates a batch of users
func (h *UserHandler) CreateUsers(c echo.Context) error {
	caller := middleware.IdentityFromContext(c)

	var users []*models.UserRequest
	if err := c.Bind(&users); err != nil {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "Invalid request body")
	}

	userIDs, err := h.service.Create(c.Request().Context(), caller, users)
	if err != nil {
		return response.ServiceErrorResponse(c, err)
	}

	return response.SuccessResponse(c, map[string][]uint64{"userids": userIDs})
}

// UpdateUsers updates a batch of users
func (h *UserHandler) UpdateUsers(c echo.Context) error {
	caller := middleware.IdentityFromContext(c)

	var users []*models.UserRequest
	if err := c.Bind(&users); err != nil {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "Invalid request body")
	}

	userIDs, err := h.service.Update(c.Request().Context(), caller, users)
	if err != nil {
		return response.ServiceErrorResponse(c, err)
	}

	return response.SuccessResponse(c, map[string][]uint64{"userids": userIDs})
}

// UpdateProfile updates the caller's own record
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	caller := middleware.IdentityFromContext(c)

	var user models.UserRequest
	if err := c.Bind(&user); err != nil {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "Invalid request body")
	}

	userIDs, err := h.service.UpdateProfile(c.Request().Context(), caller, &user)
	if err != nil {
		return response.ServiceErrorResponse(c, err)
	}

	return response.SuccessResponse(c, map[string][]uint64{"userids": userIDs})
}

// DeleteUsers deletes users after the integrity gate
func (h *UserHandler) DeleteUsers(c echo.Context) error {
	caller := middleware.IdentityFromContext(c)

	var body struct {
		UserIDs []uint64 `json:"userids"`
	}
	if err := c.Bind(&body); err != nil {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "Invalid request body")
	}

	userIDs, err := h.service.Delete(c.Request().Context(), caller, body.UserIDs)
	if err != nil {
		return response.ServiceErrorResponse(c, err)
	}

	return response.SuccessResponse(c, map[string][]uint64{"userids": userIDs})
}
