package httpserver

import (
	"net/http"

	"moviecatalog/errs"
	"moviecatalog/movie"
	"moviecatalog/user"

	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterMovieRoutes(g *echo.Group) {
	g.GET("/movies", s.handleListMovies)
	g.GET("/movies/:id", s.handleGetMovie)

	admin := s.guard(user.RoleAdmin)
	g.POST("/movies", s.handleCreateMovie, admin)
	g.PUT("/movies/:id", s.handleUpdateMovie, admin)
	g.DELETE("/movies/:id", s.handleDeleteMovie, admin)
}

func (s *Server) movieService() (movie.Service, error) {
	if s.MovieService == nil {
		return nil, errs.Errorf(errs.ENOTIMPLEMENTED, "movie service not configured")
	}
	return s.MovieService, nil
}

// handleListMovies godoc
// @Summary List movies
// @Description Movies with a trusted poster, most popular first
// @Tags movies
// @Produce json
// @Param q query string false "Title contains"
// @Param genre query string false "Genre name contains"
// @Param minRating query number false "Minimum vote average"
// @Param page query int false "Page, default 1"
// @Param limit query int false "Page size, default 20, max 100"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Router /api/movies [get]
func (s *Server) handleListMovies(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return s.handleError(c, err)
	}

	q, err := listQuery(c)
	if err != nil {
		return s.handleError(c, err)
	}
	if q.Limit <= 0 {
		q.Limit = s.Config.Catalog.APIPageSize
	}
	q.Poster = movie.PosterPrefix
	q.PosterPrefix = s.Config.Catalog.PosterURLPrefix

	page, err := svc.List(c.Request().Context(), q)
	if err != nil {
		return s.handleError(c, err)
	}
	return writePagedList(c, http.StatusOK, movie.ToCards(page.Items), page.Page, page.Limit, page.Total, page.TotalPages)
}

// handleGetMovie godoc
// @Summary Movie detail
// @Tags movies
// @Produce json
// @Param id path int true "External movie id"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/movies/{id} [get]
func (s *Server) handleGetMovie(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return s.handleError(c, err)
	}

	id, err := movieIDParam(c)
	if err != nil {
		return s.handleError(c, err)
	}

	doc, err := svc.GetMovie(c.Request().Context(), id)
	if err != nil {
		return s.handleError(c, err)
	}
	return writeSuccess(c, http.StatusOK, movie.ToDetail(doc))
}

// handleCreateMovie godoc
// @Summary Create movie
// @Tags movies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body MovieRequest true "Movie"
// @Success 201 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 403 {object} APIResponse
// @Failure 409 {object} APIResponse
// @Router /api/movies [post]
func (s *Server) handleCreateMovie(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return s.handleError(c, err)
	}

	var req MovieRequest
	if err := bindAndValidate(c, &req); err != nil {
		return s.handleError(c, err)
	}

	m := req.ToMovie()
	if err := svc.AddMovie(c.Request().Context(), m); err != nil {
		return s.handleError(c, err)
	}
	return writeSuccess(c, http.StatusCreated, movie.ToDetail(m.Document()))
}

// handleUpdateMovie godoc
// @Summary Replace movie
// @Tags movies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "External movie id"
// @Param payload body MovieRequest true "Movie"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/movies/{id} [put]
func (s *Server) handleUpdateMovie(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return s.handleError(c, err)
	}

	id, err := movieIDParam(c)
	if err != nil {
		return s.handleError(c, err)
	}

	var req MovieRequest
	if err := bindAndValidate(c, &req); err != nil {
		return s.handleError(c, err)
	}

	m := req.ToMovie()
	m.ID = id
	if err := svc.UpdateMovie(c.Request().Context(), id, m); err != nil {
		return s.handleError(c, err)
	}
	return writeSuccess(c, http.StatusOK, movie.ToDetail(m.Document()))
}

// handleDeleteMovie godoc
// @Summary Delete movie
// @Tags movies
// @Security BearerAuth
// @Param id path int true "External movie id"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/movies/{id} [delete]
func (s *Server) handleDeleteMovie(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return s.handleError(c, err)
	}

	id, err := movieIDParam(c)
	if err != nil {
		return s.handleError(c, err)
	}

	if err := svc.DeleteMovie(c.Request().Context(), id); err != nil {
		return s.handleError(c, err)
	}
	return writeSuccess(c, http.StatusOK, map[string]int64{"id": id})
}
