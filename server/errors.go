package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"

	auth "github.com/goliatone/go-auth-bookmarks"
)

const internalErrorMessage = "Internal server error"

// ErrorResponse is the JSON body of every error
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Error      string `json:"error"`
	Details    any    `json:"details,omitempty"`
}

// NewErrorHandler maps rich errors to their HTTP code. Anything without a
// code is logged and answered with a generic 500.
func NewErrorHandler(logger auth.Logger, debug bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		resp := toErrorResponse(err)

		if resp.StatusCode >= fiber.StatusInternalServerError {
			logger.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
			if debug {
				logger.Debug("error detail: %s", print.MaybePrettyJSON(err))
			}
		}

		return c.Status(resp.StatusCode).JSON(resp)
	}
}

func toErrorResponse(err error) ErrorResponse {
	var rich *errors.Error
	if errors.As(err, &rich) && rich.Code > 0 {
		resp := ErrorResponse{
			StatusCode: rich.Code,
			Message:    rich.Message,
			Error:      rich.TextCode,
		}
		if rich.Code >= fiber.StatusInternalServerError {
			resp.Message = internalErrorMessage
		}
		if details, ok := rich.Metadata["details"]; ok {
			resp.Details = details
		}
		return resp
	}

	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return ErrorResponse{
			StatusCode: ferr.Code,
			Message:    ferr.Message,
			Error:      textCodeFor(ferr.Code),
		}
	}

	return ErrorResponse{
		StatusCode: fiber.StatusInternalServerError,
		Message:    internalErrorMessage,
		Error:      auth.TextCodeInternalServerFailed,
	}
}

func textCodeFor(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case fiber.StatusUnauthorized:
		return auth.TextCodeUnauthenticated
	default:
		if status >= fiber.StatusInternalServerError {
			return auth.TextCodeInternalServerFailed
		}
		return "ERROR"
	}
}
