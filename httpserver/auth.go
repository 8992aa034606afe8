package httpserver

import (
	"net/http"

	"moviecatalog/errs"

	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterAuthRoutes() {
	for _, prefix := range []string{"/auth", "/api/auth"} {
		s.Router.POST(prefix+"/register", s.handleRegister)
		s.Router.POST(prefix+"/login", s.handleLogin)
	}
	s.Router.GET("/api/auth/me", s.handleMe, s.guard())
}

// handleRegister godoc
// @Summary Register
// @Description Create an account and return a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body RegisterRequest true "Register payload"
// @Success 201 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 409 {object} APIResponse
// @Router /api/auth/register [post]
func (s *Server) handleRegister(c echo.Context) error {
	if s.AuthService == nil {
		return s.handleError(c, errs.Errorf(errs.ENOTIMPLEMENTED, "auth service not configured"))
	}

	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return s.handleError(c, err)
	}

	session, err := s.AuthService.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return s.handleError(c, err)
	}
	return writeSuccess(c, http.StatusCreated, session)
}

// handleLogin godoc
// @Summary Login
// @Description Exchange credentials for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 401 {object} APIResponse
// @Failure 429 {object} APIResponse
// @Router /api/auth/login [post]
func (s *Server) handleLogin(c echo.Context) error {
	if s.AuthService == nil {
		return s.handleError(c, errs.Errorf(errs.ENOTIMPLEMENTED, "auth service not configured"))
	}

	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return s.handleError(c, err)
	}

	session, err := s.AuthService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return s.handleError(c, err)
	}
	return writeSuccess(c, http.StatusOK, session)
}

// handleMe godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse
// @Failure 401 {object} APIResponse
// @Router /api/auth/me [get]
func (s *Server) handleMe(c echo.Context) error {
	if s.UserService == nil {
		return s.handleError(c, errs.Errorf(errs.ENOTIMPLEMENTED, "user service not configured"))
	}

	id, _ := identity(c)
	u, err := s.UserService.GetUserByID(c.Request().Context(), id.UserID)
	if err != nil {
		return s.handleError(c, err)
	}
	return writeSuccess(c, http.StatusOK, u)
}
