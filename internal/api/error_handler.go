package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/closerhq/agency-dashboard/internal/api/handler"
	"github.com/closerhq/agency-dashboard/internal/core/domain"
)

type errorKind struct {
	kind   error
	status int
	code   string
}

// errorKinds is checked in order; the first kind the error wraps wins.
var errorKinds = []errorKind{
	{domain.ErrValidation, http.StatusBadRequest, "VALIDATION_ERROR"},
	{domain.ErrAuthentication, http.StatusUnauthorized, "AUTHENTICATION_ERROR"},
	{domain.ErrAuthorization, http.StatusForbidden, "AUTHORIZATION_ERROR"},
	{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{domain.ErrConflict, http.StatusConflict, "CONFLICT"},
	{domain.ErrRateLimited, http.StatusTooManyRequests, "RATE_LIMITED"},
	{domain.ErrDatabase, http.StatusInternalServerError, "DATABASE_ERROR"},
	{domain.ErrInternal, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
}

// httpCodes names echo's own errors (unknown route, bind failure, ...).
var httpCodes = map[int]string{
	http.StatusBadRequest:            "VALIDATION_ERROR",
	http.StatusUnauthorized:          "AUTHENTICATION_ERROR",
	http.StatusForbidden:             "AUTHORIZATION_ERROR",
	http.StatusNotFound:              "NOT_FOUND",
	http.StatusMethodNotAllowed:      "METHOD_NOT_ALLOWED",
	http.StatusConflict:              "CONFLICT",
	http.StatusRequestEntityTooLarge: "PAYLOAD_TOO_LARGE",
	http.StatusUnsupportedMediaType:  "UNSUPPORTED_MEDIA_TYPE",
	http.StatusTooManyRequests:       "RATE_LIMITED",
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error kinds to their HTTP status codes and error codes.
//   - Logs server-side failures internally without leaking details to the client.
//   - Renders {"success": false, "error": {...}, "timestamp": ...}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := resolveError(err, log, c)
		resp := handler.ErrorResponse{
			Error:     body,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, handler.ErrorBody) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			log.Debug().Err(he.Internal).Str("path", c.Path()).Msg("request rejected")
		}
		code, ok := httpCodes[he.Code]
		if !ok {
			code = "INTERNAL_SERVER_ERROR"
		}
		return he.Code, handler.ErrorBody{Message: fmt.Sprintf("%v", he.Message), Code: code}
	}

	for _, k := range errorKinds {
		if !errors.Is(err, k.kind) {
			continue
		}
		if k.status >= http.StatusInternalServerError {
			break
		}
		body := handler.ErrorBody{Message: err.Error(), Code: k.code}
		var de *domain.Error
		if errors.As(err, &de) {
			body.Details = de.Details
		}
		return k.status, body
	}

	// Server-side failure: log the real cause, return a generic message.
	code := "INTERNAL_SERVER_ERROR"
	if errors.Is(err, domain.ErrDatabase) {
		code = "DATABASE_ERROR"
	}
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, handler.ErrorBody{Message: "internal server error", Code: code}
}
