package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "campusmarket/internal/errors"
	"campusmarket/internal/form"
	"campusmarket/internal/model"
	"campusmarket/internal/service"
)

// AccountHandler handles account endpoints.
type AccountHandler struct {
	accountService service.AccountInfoService
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(accountService service.AccountInfoService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// ContactForm is a submitted save-account-info form.
type ContactForm struct {
	Address string
	Phone   string
	College string `validate:"college"`
}

// AccountInfoForm is a submitted edit-account form.
type AccountInfoForm struct {
	Phone   string
	Payment string `validate:"payment"`
	College string `validate:"college"`
	Address string
}

// AccountPage is the current user's account info and listings.
type AccountPage struct {
	User     string             `json:"user"`
	Info     *model.AccountInfo `json:"info"`
	Listings []model.Listing    `json:"listings"`
}

// Account godoc
// @Summary Show the current user's account
// @Description Creates the default account info on first visit.
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} AccountPage
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /account [get]
func (h *AccountHandler) Account(c echo.Context) error {
	return h.renderAccount(c, http.StatusOK)
}

// SaveAccountInfoForm godoc
// @Summary Empty contact info form
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} FormPage
// @Router /save_account_info [get]
func (h *AccountHandler) SaveAccountInfoForm(c echo.Context) error {
	return c.JSON(http.StatusOK, FormPage{
		User:   currentEmail(c),
		Action: "/save_account_info",
		Form:   form.ContactSchema.Render(nil),
	})
}

// SaveAccountInfo godoc
// @Summary Save contact info
// @Description Inserts a new account info row for the current user.
// @Tags accounts
// @Accept x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param Address formData string false "Address"
// @Param Phone formData string false "Phone"
// @Param College formData string true "College"
// @Success 200 {object} AccountPage
// @Failure 422 {object} FormPage
// @Router /save_account_info [post]
func (h *AccountHandler) SaveAccountInfo(c echo.Context) error {
	values := formValues(c, form.ContactSchema)
	in := ContactForm{
		Address: values["Address"],
		Phone:   values["Phone"],
		College: values["College"],
	}
	if in.Phone == "" {
		in.Phone = model.DefaultPhone
	}
	if errs := validate(c, form.ContactSchema, &in, map[string]string{}); len(errs) > 0 {
		return invalid(c, "/save_account_info", form.ContactSchema, values, errs)
	}

	_, err := h.accountService.SaveContact(c.Request().Context(), currentEmail(c), service.ContactInput{
		Address: in.Address,
		Phone:   in.Phone,
		College: in.College,
	})
	if err != nil {
		if verr, ok := apperrors.AsValidationError(err); ok {
			return invalid(c, "/save_account_info", form.ContactSchema, values, verr.Fields)
		}
		return httpError(err)
	}
	return h.renderAccount(c, http.StatusOK)
}

// EditAccountForm godoc
// @Summary Pre-filled account info form
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account info ID"
// @Success 200 {object} FormPage
// @Success 303
// @Router /edit_account/{id} [get]
func (h *AccountHandler) EditAccountForm(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	info, err := h.accountService.GetOwned(c.Request().Context(), currentEmail(c), id)
	if err != nil {
		return backToIndex(c, err)
	}

	return c.JSON(http.StatusOK, FormPage{
		User:   currentEmail(c),
		Action: c.Request().URL.Path,
		Form: form.AccountInfoSchema.Render(map[string]string{
			"Phone":   info.Phone,
			"Payment": info.Payment,
			"College": info.College,
			"Address": info.Address,
		}),
	})
}

// EditAccount godoc
// @Summary Update an owned account info row
// @Tags accounts
// @Accept x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account info ID"
// @Success 303
// @Failure 422 {object} FormPage
// @Router /edit_account/{id} [post]
func (h *AccountHandler) EditAccount(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	email := currentEmail(c)
	if _, err := h.accountService.GetOwned(ctx, email, id); err != nil {
		return backToIndex(c, err)
	}

	action := c.Request().URL.Path
	values := formValues(c, form.AccountInfoSchema)
	in := AccountInfoForm{
		Phone:   values["Phone"],
		Payment: values["Payment"],
		College: values["College"],
		Address: values["Address"],
	}
	if errs := validate(c, form.AccountInfoSchema, &in, map[string]string{}); len(errs) > 0 {
		return invalid(c, action, form.AccountInfoSchema, values, errs)
	}

	_, err = h.accountService.Update(ctx, email, id, service.AccountInfoInput{
		Phone:   in.Phone,
		Payment: in.Payment,
		College: in.College,
		Address: in.Address,
	})
	if err != nil {
		if verr, ok := apperrors.AsValidationError(err); ok {
			return invalid(c, action, form.AccountInfoSchema, values, verr.Fields)
		}
		return backToIndex(c, err)
	}
	return seeOther(c, "/account")
}

func (h *AccountHandler) renderAccount(c echo.Context, status int) error {
	email := currentEmail(c)
	view, err := h.accountService.View(c.Request().Context(), email)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(status, AccountPage{
		User:     email,
		Info:     view.Info,
		Listings: nonNil(view.Listings),
	})
}

func backToIndex(c echo.Context, err error) error {
	if errors.Is(err, apperrors.ErrAccountInfoNotFound) || errors.Is(err, apperrors.ErrNotOwner) {
		return seeOther(c, "/index")
	}
	return httpError(err)
}
