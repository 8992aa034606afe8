package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"moviecatalog/errs"
	"moviecatalog/pkg/sentry"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const internalErrorMessage = "Internal server error"

var statusByCode = map[string]int{
	errs.EINVALID:         http.StatusBadRequest,
	errs.EUNAUTHORIZED:    http.StatusUnauthorized,
	errs.EFORBIDDEN:       http.StatusForbidden,
	errs.ENOTFOUND:        http.StatusNotFound,
	errs.ECONFLICT:        http.StatusConflict,
	errs.ETOOMANYREQUESTS: http.StatusTooManyRequests,
	errs.ENOTIMPLEMENTED:  http.StatusNotImplemented,
	errs.EINTERNAL:        http.StatusInternalServerError,
}

// resolveError maps err to a status and a message safe to show a client.
func resolveError(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			return he.Code, internalErrorMessage
		}
		return he.Code, fmt.Sprint(he.Message)
	}

	status, ok := statusByCode[errs.ErrorCode(err)]
	if !ok || status >= http.StatusInternalServerError && status != http.StatusNotImplemented {
		return http.StatusInternalServerError, internalErrorMessage
	}
	return status, errs.ErrorMessage(err)
}

// handleError logs err, reports server faults to Sentry and writes the
// error envelope.
func (s *Server) handleError(c echo.Context, err error) error {
	status, message := resolveError(err)
	s.report(c, err, status)
	return writeError(c, status, message, "", err)
}

func (s *Server) report(c echo.Context, err error, status int) {
	if status >= http.StatusInternalServerError {
		s.Logger.Errorw(
			err.Error(),
			zap.String("request_id", s.requestID(c)),
			zap.Int("status", status),
		)
		sentry.WithContext(c).
			WithTags(map[string]string{"method": c.Request().Method, "route": c.Path()}).
			WithExtras(map[string]interface{}{"status": status}).
			Error(err)
		return
	}
	s.Logger.Infow(
		err.Error(),
		zap.String("request_id", s.requestID(c)),
		zap.Int("status", status),
	)
}

// httpErrorHandler catches what handlers did not: unmatched routes, panics
// and middleware rejections.
func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if err := s.handleError(c, err); err != nil {
		s.Logger.Errorw("write error response", zap.Error(err))
	}
}

func (s *Server) requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
