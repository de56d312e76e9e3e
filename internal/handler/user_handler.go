package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"campusmarket/internal/auth"
	apperrors "campusmarket/internal/errors"
	"campusmarket/internal/service"
)

// UserHandler serves the signed-in user's profile.
type UserHandler struct {
	svc service.AuthService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.AuthService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Me godoc
// @Summary Current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /me [get]
func (h *UserHandler) Me(c echo.Context) error {
	id, ok := auth.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
			Error: "login required",
			Code:  "UNAUTHENTICATED",
		})
	}

	user, err := h.svc.Profile(c.Request().Context(), id.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, apperrors.ErrorResponse{
				Error: "user not found",
				Code:  "USER_NOT_FOUND",
			})
		}
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}
