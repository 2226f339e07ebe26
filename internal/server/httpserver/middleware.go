package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/labstack/echo/v4"
)

const userIDKey = "user_id"

// RequestLogger attaches a request-scoped logger to the request context and
// logs every completed request at a level picked by its status.
func RequestLogger(base logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = req.Header.Get(echo.HeaderXRequestID)
			}

			l := base.With(
				"method", req.Method,
				"path", c.Path(),
				"remote_ip", c.RealIP(),
			)
			if rid != "" {
				l = l.With("request_id", rid)
			}

			ctx := logging.IntoContext(req.Context(), l)
			c.SetRequest(req.WithContext(ctx))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Echo().HTTPErrorHandler(err, c)
			}
			dur := time.Since(start).Milliseconds()
			status := c.Response().Status

			switch {
			case status >= 500:
				l.Error(ctx, "request completed", "status", status, "duration_ms", dur)
			case status >= 400:
				l.Warn(ctx, "request completed", "status", status, "duration_ms", dur)
			default:
				l.Info(ctx, "request completed", "status", status, "duration_ms", dur, "bytes", c.Response().Size)
			}
			return nil
		}
	}
}

// requireAuth admits requests carrying a valid access token as
// "Authorization: Bearer <token>" and stores the user ID in the context.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c.Request().Header.Get(common.AuthorizationHeaderName))
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, MsgInvalidAccess)
		}

		userID, err := s.auth.Authenticate(token)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, MsgInvalidAccess)
		}

		c.Set(userIDKey, userID)
		req := c.Request()
		ctx := req.Context()
		ctx = logging.IntoContext(ctx, logging.FromContext(ctx, s.logger).With("user_id", userID))
		c.SetRequest(req.WithContext(ctx))
		return next(c)
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func currentUser(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}

func requestLogger(c echo.Context, fallback logging.Logger) (context.Context, logging.Logger) {
	ctx := c.Request().Context()
	return ctx, logging.FromContext(ctx, fallback)
}
