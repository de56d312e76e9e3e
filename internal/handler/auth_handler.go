package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"campusmarket/internal/auth"
	apperrors "campusmarket/internal/errors"
	"campusmarket/internal/model"
	"campusmarket/internal/service"
)

// AuthHandler opens and closes marketplace sessions.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignupForm registers a campus email as a seller and buyer.
type SignupForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
}

// LoginForm opens a session.
type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenForm carries a refresh token, for renewing or closing a session.
type TokenForm struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// SessionResponse is returned whenever a session is opened or renewed. The
// access token is also set as the access_token cookie.
type SessionResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time   `json:"expires_at"`
	User         *model.User `json:"user,omitempty"`
}

// Register godoc
// @Summary Create a marketplace account
// @Tags session
// @Accept json
// @Produce json
// @Param request body SignupForm true "Campus email, password, display name"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req SignupForm
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), model.NormalizeEmail(req.Email), req.Password, strings.TrimSpace(req.Name))
	if err != nil {
		return sessionError(err)
	}
	return c.JSON(http.StatusCreated, user)
}

// Login godoc
// @Summary Open a session
// @Tags session
// @Accept json
// @Produce json
// @Param request body LoginForm true "Campus email and password"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginForm
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	access, refresh, user, err := h.authService.Login(c.Request().Context(), model.NormalizeEmail(req.Email), req.Password)
	if err != nil {
		return sessionError(err)
	}
	return openSession(c, SessionResponse{AccessToken: access, RefreshToken: refresh, User: user})
}

// Refresh godoc
// @Summary Renew the access token of a session
// @Tags session
// @Accept json
// @Produce json
// @Param request body TokenForm true "Refresh token from login"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req TokenForm
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	access, err := h.authService.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return sessionError(err)
	}
	return openSession(c, SessionResponse{AccessToken: access})
}

// Logout godoc
// @Summary Close a session
// @Description Revokes the refresh token and clears the session cookie.
// @Tags session
// @Accept json
// @Param request body TokenForm true "Refresh token from login"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	var req TokenForm
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	c.SetCookie(sessionCookie("", time.Unix(0, 0)))
	if err := h.authService.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		return sessionError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func openSession(c echo.Context, resp SessionResponse) error {
	resp.ExpiresAt = time.Now().Add(auth.AccessTokenExpiry).UTC()
	c.SetCookie(sessionCookie(resp.AccessToken, resp.ExpiresAt))
	return c.JSON(http.StatusOK, resp)
}

// bindJSON decodes and validates a request body. Validation failures are
// reported per JSON field.
func bindJSON(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "request body is not valid JSON",
			Code:  "MALFORMED_REQUEST",
		})
	}
	if err := c.Validate(dst); err != nil {
		resp := apperrors.ErrorResponse{Error: "invalid request", Code: "INVALID_REQUEST"}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			resp.Fields = make(map[string]string, len(verrs))
			for _, fe := range verrs {
				resp.Fields[strings.ToLower(fe.Field())] = "fails " + fe.Tag()
			}
		}
		return echo.NewHTTPError(http.StatusBadRequest, resp)
	}
	return nil
}

func sessionError(err error) error {
	switch {
	case errors.Is(err, service.ErrUserAlreadyExists):
		return echo.NewHTTPError(http.StatusConflict, apperrors.ErrorResponse{
			Error: "this campus email already has an account",
			Code:  "EMAIL_TAKEN",
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
			Error: err.Error(),
			Code:  "BAD_CREDENTIALS",
		})
	case errors.Is(err, service.ErrInvalidRefreshToken):
		return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
			Error: "session expired, log in again",
			Code:  "SESSION_EXPIRED",
		})
	default:
		if _, ok := apperrors.AsValidationError(err); ok {
			return httpError(err)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, apperrors.ErrorResponse{
			Error: "session service unavailable",
			Code:  "SESSION_FAILED",
		})
	}
}

// sessionCookie carries the access token for browser clients.
func sessionCookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     auth.AccessTokenCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
