package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"campusmarket/internal/auth"
	"campusmarket/internal/errors"
	"campusmarket/internal/form"
)

// FormPage is returned wherever a form is shown, either empty, pre-filled, or
// re-rendered with field errors after a rejected submission.
type FormPage struct {
	User   string    `json:"user"`
	Action string    `json:"action"`
	Form   form.View `json:"form"`
}

func currentEmail(c echo.Context) string {
	id, _ := auth.CurrentUser(c)
	return id.Email
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid id",
			Code:  "INVALID_ID",
		})
	}
	return uint(id), nil
}

func seeOther(c echo.Context, location string) error {
	return c.Redirect(http.StatusSeeOther, location)
}

func httpError(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// formValues reads every non-file field of schema from the submitted form,
// trimmed.
func formValues(c echo.Context, schema form.Schema) map[string]string {
	values := make(map[string]string, len(schema.Fields))
	for _, f := range schema.Fields {
		if f.Type == form.TypeFile {
			continue
		}
		values[f.Name] = strings.TrimSpace(c.FormValue(f.Name))
	}
	return values
}

// validate runs the echo validator over dst and merges its messages into errs.
func validate(c echo.Context, schema form.Schema, dst interface{}, errs map[string]string) map[string]string {
	if err := c.Validate(dst); err != nil {
		for field, msg := range schema.Errors(err) {
			if _, ok := errs[field]; !ok {
				errs[field] = msg
			}
		}
	}
	return errs
}

func parsePrice(raw string, errs map[string]string) int {
	price, err := strconv.Atoi(raw)
	if err != nil {
		errs["Price"] = "Price must be a whole number"
		return 0
	}
	return price
}

func invalid(c echo.Context, action string, schema form.Schema, values, errs map[string]string) error {
	return c.JSON(http.StatusUnprocessableEntity, FormPage{
		User:   currentEmail(c),
		Action: action,
		Form:   schema.RenderWithErrors(values, errs),
	})
}
