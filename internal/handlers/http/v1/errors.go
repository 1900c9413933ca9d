package v1

import (
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/KirkDiggler/pokebattle-api/internal/errors"
	"github.com/KirkDiggler/pokebattle-api/internal/logging"
)

// ErrorHandler renders errors as ErrorResponse. It is installed as echo's
// HTTPErrorHandler.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := toResponse(err)

	logger := logging.FromContext(c.Request().Context())
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed",
			"path", c.Path(),
			"status", status,
			"error", err)
	} else {
		logger.Debug("Request rejected",
			"path", c.Path(),
			"status", status,
			"error", err)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, body)
	}
	if writeErr != nil {
		slog.Error("Failed to write error response", "error", writeErr)
	}
}

// toResponse maps domain errors by code and echo's own errors (unknown
// route, bad method, bind failures) by status
func toResponse(err error) (int, ErrorResponse) {
	var httpErr *echo.HTTPError
	if stderrors.As(err, &httpErr) {
		detail := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok && msg != "" {
			detail = msg
		}
		return httpErr.Code, ErrorResponse{
			Detail: detail,
			Code:   codeForStatus(httpErr.Code).String(),
		}
	}

	code := errors.GetCode(err)
	return code.HTTPStatus(), ErrorResponse{
		Detail: errors.GetMessage(err),
		Code:   code.String(),
	}
}

func codeForStatus(status int) errors.Code {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return errors.CodeInvalidArgument
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return errors.CodeNotFound
	case http.StatusServiceUnavailable, http.StatusBadGateway:
		return errors.CodeUnavailable
	case http.StatusGatewayTimeout:
		return errors.CodeDeadlineExceeded
	default:
		if status < http.StatusInternalServerError {
			return errors.CodeInvalidArgument
		}
		return errors.CodeInternal
	}
}
