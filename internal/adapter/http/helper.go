package http

import (
	"net/http"

	"p2p-lending/internal/adapter/middleware"
	"p2p-lending/internal/domain/user"

	"github.com/labstack/echo/v4"
)

// ---- helpers ----

// withActor runs fn with the authenticated caller, or answers 401.
func withActor(c echo.Context, fn func(actor user.Identity) error) error {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthenticated"})
	}
	return fn(actor)
}

// bindAndValidate decodes the body into dst and runs the struct validator.
// It writes the 400/422 response itself and reports whether the handler
// should continue.
func bindAndValidate(c echo.Context, dst any) (bool, error) {
	if err := c.Bind(dst); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(dst); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}
