package httpserver

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"moviecatalog/movie"

	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterPageRoutes() {
	s.Router.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/movies")
	})
	s.Router.GET("/movies", s.handleMoviesPage)
	s.Router.GET("/movie/:id", s.handleMoviePage)
	s.Router.GET("/watchlist", s.handleStaticPage("watchlist", "My watchlist"))
	s.Router.GET("/auth/login", s.handleStaticPage("login", "Sign in"))
	s.Router.GET("/auth/register", s.handleStaticPage("register", "Create account"))
}

type pageData struct {
	Title string
}

type moviesPageData struct {
	pageData
	Cards     []movie.Card
	Window    movie.PageWindow
	Page      int
	Total     int64
	Query     string
	Genre     string
	MinRating string
}

// PageURL links to page n keeping the current filters.
func (d moviesPageData) PageURL(n int) string {
	v := url.Values{}
	if d.Query != "" {
		v.Set("q", d.Query)
	}
	if d.Genre != "" {
		v.Set("genre", d.Genre)
	}
	if d.MinRating != "" {
		v.Set("minRating", d.MinRating)
	}
	v.Set("page", strconv.Itoa(n))
	return "/movies?" + v.Encode()
}

type moviePageData struct {
	pageData
	Movie movie.Detail
}

type errorPageData struct {
	pageData
	Status  int
	Message string
}

func (s *Server) handleMoviesPage(c echo.Context) error {
	if _, err := s.movieService(); err != nil {
		return s.renderError(c, err)
	}

	q, err := listQuery(c)
	if err != nil {
		return s.renderError(c, err)
	}
	q.Limit = s.Config.Catalog.PageSize
	q.Poster = movie.PosterPresent

	page, err := s.MovieService.Browse(c.Request().Context(), q)
	if err != nil {
		return s.renderError(c, err)
	}

	data := moviesPageData{
		pageData:  pageData{Title: "Movies"},
		Cards:     movie.ToCards(page.Items),
		Window:    movie.PageRange(page.Page, page.TotalPages),
		Page:      page.Page,
		Total:     page.Total,
		Query:     c.QueryParam("q"),
		Genre:     c.QueryParam("genre"),
		MinRating: c.QueryParam("minRating"),
	}
	return c.Render(http.StatusOK, "movies", data)
}

func (s *Server) handleMoviePage(c echo.Context) error {
	if _, err := s.movieService(); err != nil {
		return s.renderError(c, err)
	}

	id, err := movieIDParam(c)
	if err != nil {
		return s.renderError(c, err)
	}

	doc, err := s.MovieService.GetMovie(c.Request().Context(), id)
	if err != nil {
		return s.renderError(c, err)
	}

	detail := movie.ToDetail(doc)
	return c.Render(http.StatusOK, "movie", moviePageData{
		pageData: pageData{Title: detail.Title},
		Movie:    detail,
	})
}

// handleStaticPage serves a page whose data is loaded client-side.
func (s *Server) handleStaticPage(name, title string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.Render(http.StatusOK, name, pageData{Title: title})
	}
}

// renderError is handleError for HTML routes.
func (s *Server) renderError(c echo.Context, err error) error {
	status, message := resolveError(err)
	s.report(c, err, status)
	return c.Render(status, "error", errorPageData{
		pageData: pageData{Title: fmt.Sprintf("Error %d", status)},
		Status:   status,
		Message:  message,
	})
}
