package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"

	apperrors "github.com/jayu6624/PRODIGY-FS-02/internal/errors"
)

// httpError renders a domain error as an echo error carrying an ErrorResponse.
// The cause is kept as Internal so the error handler can log it.
func httpError(err error) *echo.HTTPError {
	mapped := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(mapped.StatusCode, mapped.ToErrorResponse()).SetInternal(err)
}

// bindAndValidate decodes the request body into req and runs its validate tags.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return httpError(fmt.Errorf("%w: invalid request body", apperrors.ErrValidation))
	}
	if err := c.Validate(req); err != nil {
		return httpError(fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error()))
	}
	return nil
}
