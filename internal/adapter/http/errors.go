package http

import (
	"errors"
	"log/slog"
	"net/http"

	"p2p-lending/internal/domain/apperr"

	"github.com/labstack/echo/v4"
)

// StatusFor maps an engine error kind to its HTTP status.
func StatusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindInsufficientFunds:
		return http.StatusBadRequest
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeError renders err as an ErrorResponse. Unclassified errors are logged
// and hidden from the client.
func writeError(c echo.Context, err error) error {
	code := StatusFor(err)
	if code == http.StatusInternalServerError {
		slog.Default().Error("request failed",
			"method", c.Request().Method, "path", c.Path(), "err", err)
		return c.JSON(code, ErrorResponse{Error: "internal error"})
	}

	var ae *apperr.Error
	errors.As(err, &ae)
	resp := ErrorResponse{Error: ae.Error(), Kind: string(ae.Kind)}
	if ae.Field != "" {
		resp.Error = "validation failed"
		resp.Details = []FieldError{{Field: ae.Field, Message: ae.Message}}
	}
	return c.JSON(code, resp)
}
