package httpserver

import (
	"net/http"

	"moviecatalog/errs"
	"moviecatalog/movie"
	"moviecatalog/review"

	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterReviewRoutes(g *echo.Group) {
	g.GET("/movies/:id/reviews", s.handleListReviews)
	g.POST("/movies/:id/reviews", s.handleCreateReview, s.guard())

	g.GET("/reviews/:id", s.handleGetReview)
	g.PUT("/reviews/:id", s.handleUpdateReview, s.guard())
	g.DELETE("/reviews/:id", s.handleDeleteReview, s.guard())
}

func (s *Server) reviewService() (review.Service, error) {
	if s.ReviewService == nil {
		return nil, errs.Errorf(errs.ENOTIMPLEMENTED, "review service not configured")
	}
	return s.ReviewService, nil
}

// handleListReviews godoc
// @Summary List a movie's reviews
// @Description Newest first
// @Tags reviews
// @Produce json
// @Param id path int true "External movie id"
// @Param page query int false "Page, default 1"
// @Param limit query int false "Page size, default 10, max 50"
// @Success 200 {object} APIResponse
// @Router /api/movies/{id}/reviews [get]
func (s *Server) handleListReviews(c echo.Context) error {
	svc, err := s.reviewService()
	if err != nil {
		return s.handleError(c, err)
	}

	movieID, err := movieIDParam(c)
	if err != nil {
		return s.handleError(c, err)
	}
	page, err := intParam(c, "page")
	if err != nil {
		return s.handleError(c, err)
	}
	limit, err := intParam(c, "limit")
	if err != nil {
		return s.handleError(c, err)
	}

	result, err := svc.ListReviews(c.Request().Context(), movieID, page, limit)
	if err != nil {
		return s.handleError(c, err)
	}
	return writePagedList(c, http.StatusOK, result.Items, result.Page, result.Limit, result.Total, movie.TotalPages(result.Total, result.Limit))
}

// handleCreateReview godoc
// @Summary Review a movie
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "External movie id"
// @Param payload body ReviewRequest true "Review"
// @Success 201 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/movies/{id}/reviews [post]
func (s *Server) handleCreateReview(c echo.Context) error {
	svc, err := s.reviewService()
	if err != nil {
		return s.handleError(c, err)
	}

	movieID, err := movieIDParam(c)
	if err != nil {
		return s.handleError(c, err)
	}

	var req ReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return s.handleError(c, err)
	}

	id, _ := identity(c)
	created, err := svc.CreateReview(c.Request().Context(), review.Review{
		UserID:  id.UserID,
		MovieID: movieID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return s.handleError(c, err)
	}
	return writeSuccess(c, http.StatusCreated, created)
}

// handleGetReview godoc
// @Summary Get a review
// @Tags reviews
// @Produce json
// @Param id path string true "Review id"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/reviews/{id} [get]
func (s *Server) handleGetReview(c echo.Context) error {
	svc, err := s.reviewService()
	if err != nil {
		return s.handleError(c, err)
	}

	r, err := svc.GetReview(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.handleError(c, err)
	}
	return writeSuccess(c, http.StatusOK, r)
}

// handleUpdateReview godoc
// @Summary Update my review
// @Description Reviews of other users answer 404
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review id"
// @Param payload body ReviewRequest true "Review"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/reviews/{id} [put]
func (s *Server) handleUpdateReview(c echo.Context) error {
	svc, err := s.reviewService()
	if err != nil {
		return s.handleError(c, err)
	}

	var req ReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return s.handleError(c, err)
	}

	id, _ := identity(c)
	updated, err := svc.UpdateReview(c.Request().Context(), c.Param("id"), id.UserID, req.Rating, req.Comment)
	if err != nil {
		return s.handleError(c, err)
	}
	return writeSuccess(c, http.StatusOK, updated)
}

// handleDeleteReview godoc
// @Summary Delete my review
// @Tags reviews
// @Security BearerAuth
// @Param id path string true "Review id"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/reviews/{id} [delete]
func (s *Server) handleDeleteReview(c echo.Context) error {
	svc, err := s.reviewService()
	if err != nil {
		return s.handleError(c, err)
	}

	id, _ := identity(c)
	reviewID := c.Param("id")
	if err := svc.DeleteReview(c.Request().Context(), reviewID, id.UserID); err != nil {
		return s.handleError(c, err)
	}
	return writeSuccess(c, http.StatusOK, map[string]string{"id": reviewID})
}
