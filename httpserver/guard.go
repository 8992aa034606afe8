package httpserver

import (
	"errors"

	"moviecatalog/auth"
	"moviecatalog/errs"
	"moviecatalog/user"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const identityKey = "identity"

// guard requires a valid bearer token and, when roles are given, one of
// those roles. The identity lands in the echo context and in the request
// context.
func (s *Server) guard(roles ...user.Role) echo.MiddlewareFunc {
	authenticate := echojwt.WithConfig(echojwt.Config{
		ContextKey: identityKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			if s.AuthService == nil {
				return nil, errs.Errorf(errs.ENOTIMPLEMENTED, "auth service not configured")
			}
			return s.AuthService.Authenticate(c.Request().Context(), token)
		},
		SuccessHandler: func(c echo.Context) {
			if id, ok := c.Get(identityKey).(auth.Identity); ok {
				c.SetRequest(c.Request().WithContext(auth.WithIdentity(c.Request().Context(), id)))
			}
		},
		ErrorHandler: func(c echo.Context, err error) error {
			var appErr *errs.Error
			if !errors.As(err, &appErr) {
				err = auth.ErrMissingToken
			}
			return s.handleError(c, err)
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return authenticate(func(c echo.Context) error {
			id, ok := identity(c)
			if !ok {
				return s.handleError(c, auth.ErrMissingToken)
			}
			if !id.HasRole(roles...) {
				return s.handleError(c, auth.ErrForbidden)
			}
			return next(c)
		})
	}
}

func identity(c echo.Context) (auth.Identity, bool) {
	id, ok := c.Get(identityKey).(auth.Identity)
	return id, ok
}
