package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/cosmobobak/cbnf/pkg/cbnf"
)

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg, "")
}

func writeError(c *echo.Context, status int, errType, msg, code string) error {
	return c.JSON(status, ErrorResponse{Error: ResponseError{
		Type:    errType,
		Code:    code,
		Message: msg,
	}})
}

// writeParseError reports a header rejection with the failing check as code.
func writeParseError(c *echo.Context, err error) error {
	var pe *cbnf.ParseError
	if !errors.As(err, &pe) {
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error(), "")
	}
	body := ResponseError{
		Type:    "invalid_header",
		Code:    pe.Kind.String(),
		Message: pe.Error(),
	}
	if pe.Kind == cbnf.KindInvalidLayerSize {
		layer := pe.Layer
		body.Layer = &layer
	}
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: body})
}
