package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ampweb/userdirapi/internal/api/middleware"
	"github.com/ampweb/userdirapi/internal/models"
	"github.com/ampweb/userdirapi/internal/service"
	"github.com/ampweb/userdirapi/pkg/utils/response"
)

// MediaHandler is the handler for the user media sub-API
type MediaHandler struct {
	service *service.MediaService
}

// NewMediaHandler creates a new handler for user media
func NewMediaHandler(service *service.MediaService) *MediaHandler {
	return &MediaHandler{service: service}
}

type mediaBatchRequest struct {
	UserIDs []uint64              `json:"userids"`
	Medias  []models.MediaRequest `json:"medias"`
}

// AddMedia creates the posted medias for every target user
func (h *MediaHandler) AddMedia(c echo.Context) error {
	caller := middleware.IdentityFromContext(c)

	var body mediaBatchRequest
	if err := c.Bind(&body); err != nil {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "Invalid request body")
	}

	mediaIDs, err := h.service.AddMedia(c.Request().Context(), caller, body.UserIDs, body.Medias)
	if err != nil {
		return response.ServiceErrorResponse(c, err)
	}

	return response.SuccessResponse(c, map[string][]uint64{"mediaids": mediaIDs})
}

// UpdateMedia reconciles the users' stored media with the posted set
func (h *MediaHandler) UpdateMedia(c echo.Context) error {
	caller := middleware.IdentityFromContext(c)

	var body mediaBatchRequest
	if err := c.Bind(&body); err != nil {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "Invalid request body")
	}

	userIDs, err := h.service.UpdateMedia(c.Request().Context(), caller, body.UserIDs, body.Medias)
	if err != nil {
		return response.ServiceErrorResponse(c, err)
	}

	return response.SuccessResponse(c, map[string][]uint64{"userids": userIDs})
}

// DeleteMedia removes media rows by id
func (h *MediaHandler) DeleteMedia(c echo.Context) error {
	caller := middleware.IdentityFromContext(c)

	var body struct {
		MediaIDs []uint64 `json:"mediaids"`
	}
	if err := c.Bind(&body); err != nil {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "Invalid request body")
	}

	mediaIDs, err := h.service.DeleteMedia(c.Request().Context(), caller, body.MediaIDs)
	if err != nil {
		return response.ServiceErrorResponse(c, err)
	}

	return response.SuccessResponse(c, map[string][]uint64{"mediaids": mediaIDs})
}
