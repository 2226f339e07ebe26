package httpserver

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/validation"
	"github.com/labstack/echo/v4"
)

// Messages returned to clients.
const (
	MsgDuplicateUser      = "A user with that email already exists"
	MsgInvalidCredentials = "Invalid credentials."
	MsgInvalidRefresh     = "Invalid refresh token."
	MsgInvalidAccess      = "Invalid access token."
	MsgNotRecognized      = "Refresh token not recognized (maybe used or expired)."
	MsgNotFound           = "Not found"
	MsgInternal           = "internal error"
)

type errorResponse struct {
	Message string `json:"message"`
}

type validationResponse struct {
	Errors []string `json:"errors"`
}

// statusOf maps service errors to an HTTP status and client message.
// Anything unrecognised is an internal error.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrDuplicateUser):
		return http.StatusConflict, MsgDuplicateUser
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, MsgInvalidCredentials
	case errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, MsgInvalidRefresh
	case errors.Is(err, common.ErrTokenNotRecognized):
		return http.StatusUnauthorized, MsgNotRecognized
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, MsgNotFound
	default:
		return http.StatusInternalServerError, MsgInternal
	}
}

func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		verrs   validation.Errors
		httpErr *echo.HTTPError
		code    int
		body    any
	)
	switch {
	case errors.As(err, &verrs):
		code, body = http.StatusBadRequest, validationResponse{Errors: verrs}
	case errors.As(err, &httpErr):
		msg, ok := httpErr.Message.(string)
		if !ok {
			msg = http.StatusText(httpErr.Code)
		}
		code, body = httpErr.Code, errorResponse{Message: msg}
	default:
		var msg string
		code, msg = statusOf(err)
		body = errorResponse{Message: msg}
		if code == http.StatusInternalServerError {
			ctx := c.Request().Context()
			logging.FromContext(ctx, s.logger).Error(ctx, "request failed", "error", err)
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, body)
}
